package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/group"
	"dispatch/internal/core/domain/model/outcome"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// ReasonFor maps a per-order error to its skip reason. Lock contention counts as a
// per-order outcome. The second result is false for storage failures, which abort a
// batch instead of skipping one order.
func ReasonFor(err error) (outcome.Reason, bool) {
	switch {
	case errors.Is(err, services.ErrAgentAtCapacity):
		return outcome.ReasonAgentAtCapacity, true
	case errors.Is(err, group.ErrDeliveryAlreadyStarted):
		return outcome.ReasonDeliveryAlreadyStarted, true
	case errors.Is(err, group.ErrAlreadyMember):
		return outcome.ReasonAlreadyMember, true
	case errors.Is(err, group.ErrAlreadyGrouped):
		return outcome.ReasonAlreadyGrouped, true
	case errors.Is(err, group.ErrInvalidTransition):
		return outcome.ReasonInvalidTransition, true
	case errors.Is(err, errs.ErrObjectNotFound):
		return outcome.ReasonNotFound, true
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return outcome.ReasonCancelled, true
	case errors.Is(err, ports.ErrLockNotAcquired), errors.Is(err, ErrConcurrentModification):
		return outcome.ReasonBusy, true
	default:
		return "", false
	}
}
