package outcome_test

import (
	"encoding/json"
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/outcome"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTally(t *testing.T) {
	t.Run("empty request yields zero outcome", func(t *testing.T) {
		o := outcome.NewTally(0).Outcome()

		require.NoError(t, o.Validate())
		assert.Zero(t, o.TotalRequested)
		assert.NotNil(t, o.SkippedOrders)
	})

	t.Run("should count successes and skips", func(t *testing.T) {
		ids := []kernel.UUID{kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()}
		tally := outcome.NewTally(len(ids))

		tally.Succeed(ids[0])
		tally.Skip(ids[1], outcome.ReasonAlreadyMember, "")
		tally.SkipRemaining(ids[2:], outcome.ReasonCancelled, "context canceled")
		o := tally.Outcome()

		require.NoError(t, o.Validate())
		assert.Equal(t, 4, o.TotalRequested)
		assert.Equal(t, 1, o.SuccessfullyAdded)
		assert.Equal(t, 3, o.Skipped)
		assert.Equal(t, map[outcome.Reason]int{
			outcome.ReasonAlreadyMember: 1,
			outcome.ReasonCancelled:     2,
		}, o.CountByReason())
		assert.Equal(t, []kernel.UUID{ids[0]}, tally.Added())
	})

	t.Run("snapshot is not affected by later records", func(t *testing.T) {
		tally := outcome.NewTally(2)
		tally.Skip(kernel.NewUUID(), outcome.ReasonNotFound, "")
		snapshot := tally.Outcome()

		tally.Skip(kernel.NewUUID(), outcome.ReasonNotFound, "")

		assert.Len(t, snapshot.SkippedOrders, 1)
	})
}

func TestAllocationOutcome_Validate(t *testing.T) {
	t.Run("should reject broken identity", func(t *testing.T) {
		o := outcome.AllocationOutcome{TotalRequested: 3, SuccessfullyAdded: 1, Skipped: 1,
			SkippedOrders: []outcome.SkippedOrder{{OrderID: kernel.NewUUID(), Reason: outcome.ReasonNotFound}}}

		assert.ErrorContains(t, o.Validate(), "does not add up")
	})

	t.Run("should reject unknown reason", func(t *testing.T) {
		o := outcome.AllocationOutcome{TotalRequested: 1, Skipped: 1,
			SkippedOrders: []outcome.SkippedOrder{{OrderID: kernel.NewUUID(), Reason: "Busy"}}}

		assert.Error(t, o.Validate())
	})
}

func TestAllocationOutcome_JSON(t *testing.T) {
	id, _ := kernel.UUIDFromString("7b0b8f0e-2f6c-4a8e-9a51-3c1f3f8a2f10")
	tally := outcome.NewTally(1)
	tally.Skip(id, outcome.ReasonAgentAtCapacity, "agent holds 5 of 5 groups")

	raw, err := json.Marshal(tally.Outcome())

	require.NoError(t, err)
	assert.JSONEq(t, `{
		"totalRequested": 1,
		"successfullyAdded": 0,
		"skipped": 1,
		"skippedOrders": [{
			"orderId": "7b0b8f0e-2f6c-4a8e-9a51-3c1f3f8a2f10",
			"reason": "AgentAtCapacity",
			"details": "agent holds 5 of 5 groups"
		}]
	}`, string(raw))
}
