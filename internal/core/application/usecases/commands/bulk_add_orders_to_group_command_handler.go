package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/outcome"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// BulkAddOrdersToGroupCommandHandler applies the single-order placement to every order in
// the request. Each order commits on its own; a failure never undoes earlier ones.
//
// Example:
//
//	cmd, _ := NewBulkAddOrdersToGroupCommand("shop-1", groupID, orderIDs)
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil && result.TotalRequested == 0 {
//	    // nothing was attempted
//	}
//	for _, s := range result.SkippedOrders {
//	    log.Printf("%s skipped: %s", s.OrderID, s.Reason)
//	}
type BulkAddOrdersToGroupCommandHandler struct {
	uowFactory UoWFactory
	allocator  allocator
}

func NewBulkAddOrdersToGroupCommandHandler(
	uowFactory UoWFactory,
	locker ports.Locker,
	logger *slog.Logger,
) BulkAddOrdersToGroupCommandHandler {
	return BulkAddOrdersToGroupCommandHandler{
		uowFactory: uowFactory,
		allocator:  newAllocator(uowFactory, locker, logger),
	}
}

// Handle returns an error with an empty outcome when the request cannot start at all:
// invalid command, unknown target group, or a context already cancelled.
// Otherwise it returns the outcome, plus an error if storage failed mid-batch.
func (h BulkAddOrdersToGroupCommandHandler) Handle(
	ctx context.Context,
	cmd BulkAddOrdersToGroupCommand,
) (outcome.AllocationOutcome, error) {
	if err := cmd.Validate(); err != nil {
		return outcome.AllocationOutcome{}, err
	}
	if err := ctx.Err(); err != nil {
		return outcome.AllocationOutcome{}, err
	}

	target, err := h.uowFactory.Create().GroupRepository().Get(ctx, cmd.GroupID())
	if err != nil {
		return outcome.AllocationOutcome{}, err
	}
	if target.ShopID() != cmd.ShopID() {
		return outcome.AllocationOutcome{}, errs.NewObjectNotFoundError("groupId", cmd.GroupID())
	}

	return h.allocator.placeAll(ctx, services.ModeAdd, cmd.ShopID(), cmd.GroupID(), cmd.OrderIDs())
}
