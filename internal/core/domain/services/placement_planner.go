package services

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/group"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// ErrSourceGroupMismatch is returned when the caller loaded a source group that is not the
// one the order points at. The application layer treats it as a signal to re-read and retry.
var ErrSourceGroupMismatch = errors.New("source group does not match order's current group")

// PlacementMode selects which operation's rules apply.
type PlacementMode int

const (
	// ModeAdd places an order into a group, moving it out of a READY group if needed.
	ModeAdd PlacementMode = iota + 1
	// ModeChange moves an order that already has a group. Ungrouped orders are rejected.
	ModeChange
	// ModeSeed fills a freshly created group. Orders held by another group are skipped,
	// never moved.
	ModeSeed
)

// PlacementKind describes what happened to the order.
type PlacementKind string

const (
	// PlacementAttach means the order had no group and joined the target.
	PlacementAttach PlacementKind = "ATTACH"
	// PlacementMove means the order left a READY group and joined the target.
	PlacementMove PlacementKind = "MOVE"
)

// Placement is the result of a successful placement.
type Placement struct {
	Kind    PlacementKind
	OrderID kernel.UUID
	From    *kernel.UUID
	To      kernel.UUID
}

// PlacementPlanner keeps the "one active group per order" rule by mutating the order, its
// current group and the target group in a single step.
//
// Business rules:
//   - A group whose delivery started neither accepts nor releases orders
//   - An order already in the target is reported as AlreadyMember, never duplicated
//   - An order only ever lands in a group of its own shop
//   - Either every aggregate is mutated or none is
//
// Example usage:
//
//	planner := services.NewPlacementPlanner()
//	placement, err := planner.Place(services.ModeAdd, o, currentGroup, targetGroup)
//	if errors.Is(err, group.ErrDeliveryAlreadyStarted) {
//	    // skip the order
//	}
type PlacementPlanner struct{}

// NewPlacementPlanner creates a new PlacementPlanner instance.
func NewPlacementPlanner() PlacementPlanner {
	return PlacementPlanner{}
}

// Place checks every precondition for moving o into target and then applies the change.
//
// Parameters:
//   - mode: which operation's rules apply
//   - o: the order, loaded under its lock
//   - source: the group o currently points at, or nil when o is ungrouped or already in target
//   - target: the destination group, loaded under its lock
//
// Returns:
//   - Placement: what was done
//   - error: DeliveryStartedError, ErrAlreadyMember, ErrAlreadyGrouped, ObjectNotFoundError,
//     ErrSourceGroupMismatch or a validation error; nothing is mutated on error
func (p PlacementPlanner) Place(
	mode PlacementMode,
	o *order.Order,
	source *group.DeliveryGroup,
	target *group.DeliveryGroup,
) (Placement, error) {
	if err := p.check(mode, o, source, target); err != nil {
		return Placement{}, err
	}

	placement := Placement{Kind: PlacementAttach, OrderID: o.ID(), To: target.ID()}
	if source != nil {
		if err := source.Detach(o.ID()); err != nil && !errors.Is(err, group.ErrNotMember) {
			return Placement{}, err
		}
		from := source.ID()
		placement.Kind = PlacementMove
		placement.From = &from
	}

	if err := target.Attach(o.ID()); err != nil {
		return Placement{}, err
	}
	if err := o.AssignGroup(target.ID()); err != nil {
		return Placement{}, err
	}
	return placement, nil
}

func (p PlacementPlanner) check(
	mode PlacementMode,
	o *order.Order,
	source *group.DeliveryGroup,
	target *group.DeliveryGroup,
) error {
	if err := errors.Join(o.Validate(), target.Validate()); err != nil {
		return err
	}
	if o.ShopID() != target.ShopID() {
		return errs.NewObjectNotFoundErrorWithCause("orderId", o.ID(),
			fmt.Errorf("order belongs to shop %s, group to shop %s", o.ShopID(), target.ShopID()))
	}

	current := o.Group()
	inTarget := o.IsInGroup(target.ID()) || target.Contains(o.ID())
	if err := p.checkSource(current, source, target, inTarget); err != nil {
		return err
	}

	switch mode {
	case ModeChange:
		if current == nil {
			return errs.NewObjectNotFoundErrorWithCause("currentGroupId", o.ID(),
				errors.New("order has no group to change from"))
		}
		if source != nil {
			if err := source.CheckOpen(group.SideSource); err != nil {
				return err
			}
		}
		if err := target.CheckOpen(group.SideTarget); err != nil {
			return err
		}
		if inTarget {
			return fmt.Errorf("%w: order %s, group %s", group.ErrAlreadyMember, o.ID(), target.ID())
		}
	case ModeAdd:
		if err := target.CheckOpen(group.SideTarget); err != nil {
			return err
		}
		if inTarget {
			return fmt.Errorf("%w: order %s, group %s", group.ErrAlreadyMember, o.ID(), target.ID())
		}
		if source != nil {
			if err := source.CheckOpen(group.SideSource); err != nil {
				return err
			}
		}
	case ModeSeed:
		if err := target.CheckOpen(group.SideTarget); err != nil {
			return err
		}
		if inTarget {
			return fmt.Errorf("%w: order %s, group %s", group.ErrAlreadyMember, o.ID(), target.ID())
		}
		if source != nil {
			if err := source.CheckOpen(group.SideSource); err != nil {
				return err
			}
			return fmt.Errorf("%w: order %s is in group %s", group.ErrAlreadyGrouped, o.ID(), source.ID())
		}
	default:
		return errs.NewValueIsInvalidErrorWithCause("mode", fmt.Errorf("unknown placement mode %d", mode))
	}
	return nil
}

// checkSource verifies the caller loaded the group the order actually points at.
func (p PlacementPlanner) checkSource(
	current *kernel.UUID,
	source *group.DeliveryGroup,
	target *group.DeliveryGroup,
	inTarget bool,
) error {
	switch {
	case current == nil && source == nil:
		return nil
	case current == nil:
		return fmt.Errorf("%w: order has no group, got %s", ErrSourceGroupMismatch, source.ID())
	case inTarget && source == nil:
		return nil
	case source == nil:
		return fmt.Errorf("%w: order is in %s, no source loaded", ErrSourceGroupMismatch, current)
	case !current.IsEqual(source.ID()) || source.IsEqual(target):
		return fmt.Errorf("%w: order is in %s, got %s", ErrSourceGroupMismatch, current, source.ID())
	}
	return source.Validate()
}
