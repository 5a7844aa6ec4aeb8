package commands

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/group"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/metrics"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type groupSpec struct {
	groupID     kernel.UUID
	shopID      kernel.ShopID
	name        string
	description string
	agentID     kernel.UUID
}

// groupCreator creates empty groups. The capacity check and the insert run under the
// agent lock so two concurrent creations for one agent cannot both pass the check.
type groupCreator struct {
	uowFactory UoWFactory
	locker     ports.Locker
	policy     services.CapacityPolicy
	now        func() time.Time
	logger     *slog.Logger
}

func newGroupCreator(
	uowFactory UoWFactory,
	locker ports.Locker,
	policy services.CapacityPolicy,
	logger *slog.Logger,
) groupCreator {
	if logger == nil {
		logger = slog.Default()
	}
	return groupCreator{
		uowFactory: uowFactory,
		locker:     locker,
		policy:     policy,
		now:        time.Now,
		logger:     logger.With("component", "group-creator"),
	}
}

func (c groupCreator) create(ctx context.Context, spec groupSpec) (*group.DeliveryGroup, error) {
	ctx, span := tracer.Start(ctx, "groupCreator.create", trace.WithAttributes(
		attribute.String("agent.id", spec.agentID.String()),
		attribute.String("shop.id", spec.shopID.String()),
	))
	defer span.End()

	g, err := c.createLocked(ctx, spec)
	recordSpanError(span, err)
	return g, err
}

func (c groupCreator) createLocked(ctx context.Context, spec groupSpec) (*group.DeliveryGroup, error) {
	lease, err := c.locker.Acquire(ctx, ports.AgentLockKey(spec.agentID))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
			c.logger.WarnContext(ctx, "failed to release agent lock", "agentId", spec.agentID, "error", err)
		}
	}()

	uow := c.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	a, err := uow.AgentRepository().GetForUpdate(ctx, spec.agentID)
	if err != nil {
		return nil, err
	}
	if a.ShopID() != spec.shopID {
		return nil, errs.NewObjectNotFoundError("agentId", spec.agentID)
	}
	if err = c.policy.Check(a); err != nil {
		metrics.CapacityRejectionsTotal.Inc()
		return nil, err
	}

	g, err := group.NewDeliveryGroup(spec.groupID, spec.shopID, spec.name, spec.description, spec.agentID, c.now())
	if err != nil {
		return nil, err
	}
	if err = uow.GroupRepository().Add(ctx, g); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.GroupsCreatedTotal.Inc()
	c.logger.InfoContext(ctx, "group created",
		"groupId", g.ID(), "agentId", spec.agentID, "activeGroups", a.ActiveGroupCount()+1)
	return g, nil
}

// reload reads the group after placements so callers see its final member list.
func (c groupCreator) reload(ctx context.Context, groupID kernel.UUID) (*group.DeliveryGroup, error) {
	return c.uowFactory.Create().GroupRepository().Get(ctx, groupID)
}
