package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/group"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/metrics"
)

// TransitionGroupStatusCommandHandler applies a status change under the group lock, so a
// group cannot start while an order is being placed into it.
//
// Example:
//
//	cmd, _ := NewTransitionGroupStatusCommand("shop-1", groupID, group.InProgress)
//	g, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, group.ErrInvalidTransition) {
//	    // e.g. READY -> COMPLETED
//	}
type TransitionGroupStatusCommandHandler struct {
	uowFactory UoWFactory
	locker     ports.Locker
	logger     *slog.Logger
}

func NewTransitionGroupStatusCommandHandler(
	uowFactory UoWFactory,
	locker ports.Locker,
	logger *slog.Logger,
) TransitionGroupStatusCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return TransitionGroupStatusCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		logger:     logger.With("component", "group-status"),
	}
}

// Handle returns the group in its new status.
func (h TransitionGroupStatusCommandHandler) Handle(
	ctx context.Context,
	cmd TransitionGroupStatusCommand,
) (*group.DeliveryGroup, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	lease, err := h.locker.Acquire(ctx, ports.GroupLockKey(cmd.GroupID()))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
			h.logger.WarnContext(ctx, "failed to release group lock", "groupId", cmd.GroupID(), "error", err)
		}
	}()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	groupRepo := uow.GroupRepository()

	g, err := loadGroupInShop(ctx, groupRepo, cmd.GroupID(), cmd.ShopID())
	if err != nil {
		return nil, err
	}

	from := g.Status()
	if err = g.TransitionTo(cmd.Status()); err != nil {
		return nil, err
	}

	if err = groupRepo.Update(ctx, g); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.StatusTransitionsTotal.WithLabelValues(g.Status().String()).Inc()
	h.logger.InfoContext(ctx, "group status changed",
		"groupId", g.ID(), "from", from.String(), "to", g.Status().String(), "members", g.MemberCount())
	return g, nil
}
