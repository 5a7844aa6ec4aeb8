// Package order models an order as the allocation core sees it: an identifier, the shop it
// belongs to, what kind of trip it needs (delivery or an approved return/appeal pickup) and
// a nullable pointer to the delivery group currently holding it.
//
// Key business rules:
//   - An order points to at most one group at a time
//   - Only the allocation engine changes the pointer, through AssignGroup
//   - Whether the order may leave its group is decided by the group, not by the order
package order
