package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// ChangeOrderGroupCommandHandler moves an order between groups. The order must already have
// a group; when its current group has started the error names the source side.
type ChangeOrderGroupCommandHandler struct {
	allocator allocator
}

func NewChangeOrderGroupCommandHandler(
	uowFactory UoWFactory,
	locker ports.Locker,
	logger *slog.Logger,
) ChangeOrderGroupCommandHandler {
	return ChangeOrderGroupCommandHandler{
		allocator: newAllocator(uowFactory, locker, logger),
	}
}

func (h ChangeOrderGroupCommandHandler) Handle(
	ctx context.Context,
	cmd ChangeOrderGroupCommand,
) (services.Placement, error) {
	if err := cmd.Validate(); err != nil {
		return services.Placement{}, err
	}
	return h.allocator.place(ctx, services.ModeChange, cmd.ShopID(), cmd.OrderID(), cmd.NewGroupID())
}
