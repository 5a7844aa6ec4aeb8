package outcome

import (
	"fmt"
	"slices"

	"dispatch/internal/core/domain/model/kernel"
)

// SkippedOrder is one order that did not land, with the reason why.
type SkippedOrder struct {
	OrderID kernel.UUID `json:"orderId"`
	Reason  Reason      `json:"reason"`
	Details string      `json:"details,omitempty"`
}

// AllocationOutcome is the report returned by bulk and create-and-assign operations.
type AllocationOutcome struct {
	TotalRequested    int            `json:"totalRequested"`
	SuccessfullyAdded int            `json:"successfullyAdded"`
	Skipped           int            `json:"skipped"`
	SkippedOrders     []SkippedOrder `json:"skippedOrders"`
}

// Validate checks the accounting identity and the skip list.
func (o AllocationOutcome) Validate() error {
	if o.TotalRequested != o.SuccessfullyAdded+o.Skipped {
		return fmt.Errorf("outcome does not add up: %d requested, %d added, %d skipped",
			o.TotalRequested, o.SuccessfullyAdded, o.Skipped)
	}
	if o.Skipped != len(o.SkippedOrders) {
		return fmt.Errorf("outcome reports %d skipped but lists %d", o.Skipped, len(o.SkippedOrders))
	}
	for _, s := range o.SkippedOrders {
		if err := s.Reason.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// CountByReason groups the skip list by reason.
func (o AllocationOutcome) CountByReason() map[Reason]int {
	counts := make(map[Reason]int)
	for _, s := range o.SkippedOrders {
		counts[s.Reason]++
	}
	return counts
}

// Tally accumulates an AllocationOutcome one order at a time.
// It is not safe for concurrent use.
type Tally struct {
	total   int
	added   []kernel.UUID
	skipped []SkippedOrder
}

// NewTally starts an outcome for totalRequested orders.
func NewTally(totalRequested int) *Tally {
	return &Tally{total: totalRequested}
}

// Succeed records that orderID landed in the target group.
func (t *Tally) Succeed(orderID kernel.UUID) {
	t.added = append(t.added, orderID)
}

// Skip records that orderID was not placed.
func (t *Tally) Skip(orderID kernel.UUID, reason Reason, details string) {
	t.skipped = append(t.skipped, SkippedOrder{OrderID: orderID, Reason: reason, Details: details})
}

// SkipRemaining records every orderID in ids with the same reason.
func (t *Tally) SkipRemaining(ids []kernel.UUID, reason Reason, details string) {
	for _, id := range ids {
		t.Skip(id, reason, details)
	}
}

// Processed is the number of orders recorded so far.
func (t *Tally) Processed() int {
	return len(t.added) + len(t.skipped)
}

// Added returns the orders that landed, in processing order.
func (t *Tally) Added() []kernel.UUID {
	return slices.Clone(t.added)
}

// Outcome snapshots the tally.
func (t *Tally) Outcome() AllocationOutcome {
	skipped := slices.Clone(t.skipped)
	if skipped == nil {
		skipped = []SkippedOrder{}
	}
	return AllocationOutcome{
		TotalRequested:    t.total,
		SuccessfullyAdded: len(t.added),
		Skipped:           len(skipped),
		SkippedOrders:     skipped,
	}
}
