// Package services provides domain services for rules that span more than one aggregate
// of the allocation core.
//
// The package includes:
//   - CapacityPolicy: decides whether an agent may take one more active group
//   - PlacementPlanner: decides and applies where an order goes, mutating the order, its
//     current group and the target group together so an order is never in two places
//
// Services are stateless; loading, locking and persisting the aggregates is the job of
// the application layer.
package services
