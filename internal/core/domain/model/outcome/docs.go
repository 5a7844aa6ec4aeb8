// Package outcome describes the per-item result of a multi-order allocation.
//
// Every requested order is accounted for exactly once: it either landed in the target group
// or is listed in SkippedOrders with a machine-readable reason. The identity
//
//	TotalRequested == SuccessfullyAdded + Skipped
//
// holds for every outcome produced through a Tally.
package outcome
