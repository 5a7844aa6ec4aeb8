package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// AddOrderToGroupCommandHandler places a single order.
// Errors: DeliveryStartedError (either side), group.ErrAlreadyMember, not found.
type AddOrderToGroupCommandHandler struct {
	allocator allocator
}

func NewAddOrderToGroupCommandHandler(
	uowFactory UoWFactory,
	locker ports.Locker,
	logger *slog.Logger,
) AddOrderToGroupCommandHandler {
	return AddOrderToGroupCommandHandler{
		allocator: newAllocator(uowFactory, locker, logger),
	}
}

func (h AddOrderToGroupCommandHandler) Handle(
	ctx context.Context,
	cmd AddOrderToGroupCommand,
) (services.Placement, error) {
	if err := cmd.Validate(); err != nil {
		return services.Placement{}, err
	}
	return h.allocator.place(ctx, services.ModeAdd, cmd.ShopID(), cmd.OrderID(), cmd.GroupID())
}
