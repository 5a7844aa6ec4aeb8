package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/group"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/outcome"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/metrics"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// maxPlacementAttempts bounds how often a placement re-reads an order that changed group
// between the unlocked read and lock acquisition.
const maxPlacementAttempts = 3

// ErrConcurrentModification is returned when an order kept moving while a placement tried
// to lock it.
var ErrConcurrentModification = errors.New("order changed group concurrently")

var errStalePlacement = errors.New("order changed group before locks were taken")

// allocator places orders into groups. Each placement locks the order, the target group and
// the order's current group, then runs in its own unit of work.
type allocator struct {
	uowFactory UoWFactory
	locker     ports.Locker
	planner    services.PlacementPlanner
	logger     *slog.Logger
}

func newAllocator(uowFactory UoWFactory, locker ports.Locker, logger *slog.Logger) allocator {
	if logger == nil {
		logger = slog.Default()
	}
	return allocator{
		uowFactory: uowFactory,
		locker:     locker,
		planner:    services.NewPlacementPlanner(),
		logger:     logger.With("component", "allocator"),
	}
}

// place puts one order into targetID following mode's rules.
func (a allocator) place(
	ctx context.Context,
	mode services.PlacementMode,
	shopID kernel.ShopID,
	orderID, targetID kernel.UUID,
) (services.Placement, error) {
	ctx, span := tracer.Start(ctx, "allocator.place", trace.WithAttributes(
		attribute.String("order.id", orderID.String()),
		attribute.String("group.id", targetID.String()),
	))
	defer span.End()

	for attempt := 1; attempt <= maxPlacementAttempts; attempt++ {
		current, err := a.currentGroup(ctx, orderID)
		if err != nil {
			recordSpanError(span, err)
			return services.Placement{}, err
		}

		placement, err := a.placeLocked(ctx, mode, shopID, orderID, targetID, current)
		if errors.Is(err, errStalePlacement) {
			metrics.PlacementRetriesTotal.Inc()
			a.logger.DebugContext(ctx, "order moved while locking, retrying",
				"orderId", orderID, "attempt", attempt)
			continue
		}
		recordSpanError(span, err)
		return placement, err
	}

	err := fmt.Errorf("%w: order %s", ErrConcurrentModification, orderID)
	recordSpanError(span, err)
	return services.Placement{}, err
}

// currentGroup reads the order's group pointer without locks to know which keys to take.
func (a allocator) currentGroup(ctx context.Context, orderID kernel.UUID) (*kernel.UUID, error) {
	o, err := a.uowFactory.Create().OrderRepository().Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return o.Group(), nil
}

func (a allocator) placeLocked(
	ctx context.Context,
	mode services.PlacementMode,
	shopID kernel.ShopID,
	orderID, targetID kernel.UUID,
	current *kernel.UUID,
) (services.Placement, error) {
	moving := current != nil && !current.IsEqual(targetID)

	keys := []string{ports.OrderLockKey(orderID), ports.GroupLockKey(targetID)}
	if moving {
		keys = append(keys, ports.GroupLockKey(*current))
	}
	lease, err := a.locker.Acquire(ctx, keys...)
	if err != nil {
		return services.Placement{}, err
	}
	defer a.release(ctx, lease)

	uow := a.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return services.Placement{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := uow.OrderRepository()
	groups := uow.GroupRepository()

	o, err := orders.GetForUpdate(ctx, orderID)
	if err != nil {
		return services.Placement{}, err
	}
	if !sameGroup(o.Group(), current) {
		return services.Placement{}, errStalePlacement
	}

	target, err := loadGroupInShop(ctx, groups, targetID, shopID)
	if err != nil {
		return services.Placement{}, err
	}

	var source *group.DeliveryGroup
	if moving {
		if source, err = groups.GetForUpdate(ctx, *current); err != nil {
			return services.Placement{}, err
		}
	}

	placement, err := a.planner.Place(mode, o, source, target)
	if errors.Is(err, services.ErrSourceGroupMismatch) {
		return services.Placement{}, errStalePlacement
	}
	if err != nil {
		return services.Placement{}, err
	}

	if source != nil {
		if err = groups.Update(ctx, source); err != nil {
			return services.Placement{}, err
		}
	}
	if err = groups.Update(ctx, target); err != nil {
		return services.Placement{}, err
	}
	if err = orders.Update(ctx, o); err != nil {
		return services.Placement{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return services.Placement{}, err
	}

	metrics.OrderPlacementsTotal.WithLabelValues(string(placement.Kind)).Inc()
	return placement, nil
}

// placeAll places orderIDs one by one. Business failures and lock contention are recorded
// as skips. A context cancellation skips the rest as Cancelled. A storage error aborts the
// batch, marking the unprocessed orders as Cancelled and returning the error with the
// partial outcome.
func (a allocator) placeAll(
	ctx context.Context,
	mode services.PlacementMode,
	shopID kernel.ShopID,
	targetID kernel.UUID,
	orderIDs []kernel.UUID,
) (outcome.AllocationOutcome, error) {
	ctx, span := tracer.Start(ctx, "allocator.placeAll", trace.WithAttributes(
		attribute.String("group.id", targetID.String()),
		attribute.Int("orders.requested", len(orderIDs)),
	))
	defer span.End()

	started := time.Now()
	defer func() {
		metrics.BulkDurationSeconds.Observe(time.Since(started).Seconds())
	}()

	tally := outcome.NewTally(len(orderIDs))
	var abortErr error

	for i, orderID := range orderIDs {
		if err := ctx.Err(); err != nil {
			tally.SkipRemaining(orderIDs[i:], outcome.ReasonCancelled, err.Error())
			break
		}

		_, err := a.place(ctx, mode, shopID, orderID, targetID)
		if err == nil {
			tally.Succeed(orderID)
			continue
		}

		reason, ok := ReasonFor(err)
		if !ok {
			abortErr = fmt.Errorf("place order %s: %w", orderID, err)
			tally.SkipRemaining(orderIDs[i:], outcome.ReasonCancelled, "batch aborted: "+err.Error())
			break
		}
		tally.Skip(orderID, reason, err.Error())
	}

	result := tally.Outcome()
	for _, s := range result.SkippedOrders {
		metrics.OrderSkipsTotal.WithLabelValues(string(s.Reason)).Inc()
	}
	span.SetAttributes(
		attribute.Int("orders.added", result.SuccessfullyAdded),
		attribute.Int("orders.skipped", result.Skipped),
	)

	if abortErr != nil {
		recordSpanError(span, abortErr)
		a.logger.ErrorContext(ctx, "bulk placement aborted",
			"groupId", targetID, "added", result.SuccessfullyAdded, "error", abortErr)
		return result, abortErr
	}

	a.logger.InfoContext(ctx, "bulk placement finished",
		"groupId", targetID,
		"requested", result.TotalRequested,
		"added", result.SuccessfullyAdded,
		"skipped", result.Skipped)
	return result, nil
}

func (a allocator) release(ctx context.Context, lease ports.Lease) {
	if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
		a.logger.WarnContext(ctx, "failed to release locks", "error", err)
	}
}

// loadGroupInShop loads a group under its row lock and hides groups of other shops.
func loadGroupInShop(
	ctx context.Context,
	groups ports.GroupRepository,
	groupID kernel.UUID,
	shopID kernel.ShopID,
) (*group.DeliveryGroup, error) {
	g, err := groups.GetForUpdate(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g.ShopID() != shopID {
		return nil, errs.NewObjectNotFoundError("groupId", groupID)
	}
	return g, nil
}

func sameGroup(a, b *kernel.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.IsEqual(*b)
}
