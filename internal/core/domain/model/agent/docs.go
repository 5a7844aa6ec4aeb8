// Package agent models a delivery agent: the person a delivery group is assigned to.
//
// Agent records are owned by the shop's staff directory; the allocation core keeps a copy
// of name and contact details and derives the number of active groups from storage.
package agent
