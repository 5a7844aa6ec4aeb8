// Package group implements the DeliveryGroup aggregate: a named batch of orders handed to
// one delivery agent for a single trip.
//
// Key business rules:
//   - Status only moves forward: READY -> IN_PROGRESS -> COMPLETED
//   - Once a group leaves READY its delivery has started, and that flag never goes back
//   - A started group is frozen: orders can neither join nor leave it
//   - Every order appears at most once in the member list; insertion order is kept
//
// The aggregate does not know about other groups. Keeping an order in a single active group
// is the job of the placement planner, which mutates source and target together.
package group
