package commands

import (
	"context"
	"errors"
	"log/slog"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// RegisterOrderCommandHandler upserts an order. Re-registering keeps the group pointer
// and only refreshes the kind. The order lock is held from read to commit so a placement
// cannot land in between and have its group pointer overwritten.
type RegisterOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	locker     ports.Locker
	logger     *slog.Logger
}

func NewRegisterOrderCommandHandler(
	uowFactory OrderUoWFactory,
	locker ports.Locker,
	logger *slog.Logger,
) RegisterOrderCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return RegisterOrderCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		logger:     logger.With("component", "order-records"),
	}
}

// Handle returns true when the order was created, false when it already existed.
func (h RegisterOrderCommandHandler) Handle(ctx context.Context, cmd RegisterOrderCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	lease, err := h.locker.Acquire(ctx, ports.OrderLockKey(cmd.OrderID()))
	if err != nil {
		return false, err
	}
	defer func() {
		if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
			h.logger.WarnContext(ctx, "failed to release order lock", "orderId", cmd.OrderID(), "error", err)
		}
	}()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	existing, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		created, err := order.NewOrder(cmd.OrderID(), cmd.ShopID(), cmd.Kind())
		if err != nil {
			return false, err
		}
		if err = orderRepo.Add(ctx, created); err != nil {
			return false, err
		}
	case err != nil:
		return false, err
	default:
		if existing.ShopID() != cmd.ShopID() {
			return false, errs.NewObjectNotFoundError("orderId", cmd.OrderID())
		}
		if existing.Kind() == cmd.Kind() {
			return false, nil
		}
		if err = existing.ChangeKind(cmd.Kind()); err != nil {
			return false, err
		}
		if err = orderRepo.Update(ctx, existing); err != nil {
			return false, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	return existing == nil, nil
}
