package group

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	// NameMaxLength bounds the display name of a group.
	NameMaxLength = 255
	// DescriptionMaxLength bounds the free-text description of a group.
	DescriptionMaxLength = 1000
)

// DeliveryGroup is the aggregate root for one delivery trip.
//
// Invariants:
//   - status is valid and only moves forward
//   - deliveryStarted is true whenever status is not Ready, and never resets
//   - members holds unique order IDs in the order they joined
//   - membership changes are rejected once deliveryStarted is true
type DeliveryGroup struct {
	id              kernel.UUID
	shopID          kernel.ShopID
	name            string
	description     string
	agentID         kernel.UUID
	status          Status
	deliveryStarted bool
	members         []kernel.UUID
	createdAt       time.Time
	version         int
	guard           guard.ConstructorGuard
}

// NewDeliveryGroup creates an empty READY group assigned to agentID.
// Capacity of the agent is checked by the caller before the group is created.
//
// Example:
//
//	g, err := group.NewDeliveryGroup(kernel.NewUUID(), "shop-1", "Morning north", "", agentID, time.Now())
func NewDeliveryGroup(
	id kernel.UUID,
	shopID kernel.ShopID,
	name, description string,
	agentID kernel.UUID,
	createdAt time.Time,
) (*DeliveryGroup, error) {
	return RestoreDeliveryGroup(id, shopID, name, description, agentID, Ready, false, nil, createdAt, 0)
}

// RestoreDeliveryGroup rebuilds a group from storage and re-checks its invariants.
func RestoreDeliveryGroup(
	id kernel.UUID,
	shopID kernel.ShopID,
	name, description string,
	agentID kernel.UUID,
	status Status,
	deliveryStarted bool,
	members []kernel.UUID,
	createdAt time.Time,
	version int,
) (*DeliveryGroup, error) {
	g := &DeliveryGroup{
		createdAt: createdAt.UTC(),
		version:   version,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		g.setID(id),
		g.setShopID(shopID),
		g.setName(name),
		g.setDescription(description),
		g.setAgentID(agentID),
		g.setStatus(status, deliveryStarted),
		g.setMembers(members),
	); err != nil {
		return nil, err
	}

	return g, nil
}

// Validate ensures the group was created through a constructor.
func (g *DeliveryGroup) Validate() error {
	if g == nil {
		return ErrGroupIsNotConstructed
	}
	return g.guard.Validate(ErrGroupIsNotConstructed)
}

// IsEqual compares groups by identifier.
func (g *DeliveryGroup) IsEqual(other *DeliveryGroup) bool {
	return other != nil && g.id.IsEqual(other.id)
}

func (g *DeliveryGroup) ID() kernel.UUID {
	return g.id
}

func (g *DeliveryGroup) ShopID() kernel.ShopID {
	return g.shopID
}

func (g *DeliveryGroup) Name() string {
	return g.name
}

func (g *DeliveryGroup) Description() string {
	return g.description
}

func (g *DeliveryGroup) AgentID() kernel.UUID {
	return g.agentID
}

func (g *DeliveryGroup) Status() Status {
	return g.status
}

// HasDeliveryStarted reports whether the group ever left READY.
func (g *DeliveryGroup) HasDeliveryStarted() bool {
	return g.deliveryStarted
}

// IsActive reports whether the group still counts against its agent's capacity.
func (g *DeliveryGroup) IsActive() bool {
	return g.status.IsActive()
}

func (g *DeliveryGroup) CreatedAt() time.Time {
	return g.createdAt
}

// Version increases with every successful mutation of the aggregate.
func (g *DeliveryGroup) Version() int {
	return g.version
}

// MemberOrderIDs returns a copy of the member list in insertion order.
func (g *DeliveryGroup) MemberOrderIDs() []kernel.UUID {
	return slices.Clone(g.members)
}

// MemberCount returns the number of orders in the group.
func (g *DeliveryGroup) MemberCount() int {
	return len(g.members)
}

// Contains reports whether orderID is a member.
func (g *DeliveryGroup) Contains(orderID kernel.UUID) bool {
	return g.indexOf(orderID) >= 0
}

// CheckOpen returns a DeliveryStartedError naming side when membership is frozen.
func (g *DeliveryGroup) CheckOpen(side Side) error {
	if g.deliveryStarted {
		return NewDeliveryStartedError(g.id, g.status, side)
	}
	return nil
}

// Attach appends orderID to the member list.
func (g *DeliveryGroup) Attach(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	if err := g.CheckOpen(SideTarget); err != nil {
		return err
	}
	if g.Contains(orderID) {
		return fmt.Errorf("%w: order %s, group %s", ErrAlreadyMember, orderID, g.id)
	}

	g.members = append(g.members, orderID)
	g.version++
	return nil
}

// Detach removes orderID from the member list, keeping the order of the others.
func (g *DeliveryGroup) Detach(orderID kernel.UUID) error {
	if err := g.CheckOpen(SideSource); err != nil {
		return err
	}
	idx := g.indexOf(orderID)
	if idx < 0 {
		return fmt.Errorf("%w: order %s, group %s", ErrNotMember, orderID, g.id)
	}

	g.members = slices.Delete(g.members, idx, idx+1)
	g.version++
	return nil
}

// TransitionTo moves the group forward. Leaving READY sets the delivery-started flag.
func (g *DeliveryGroup) TransitionTo(next Status) error {
	if err := g.status.CanTransitionTo(next); err != nil {
		return err
	}

	g.status = next
	if next != Ready {
		g.deliveryStarted = true
	}
	g.version++
	return nil
}

func (g *DeliveryGroup) indexOf(orderID kernel.UUID) int {
	return slices.IndexFunc(g.members, func(id kernel.UUID) bool {
		return id.IsEqual(orderID)
	})
}

func (g *DeliveryGroup) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	g.id = id
	return nil
}

func (g *DeliveryGroup) setShopID(shopID kernel.ShopID) error {
	if err := shopID.Validate(); err != nil {
		return err
	}
	g.shopID = shopID
	return nil
}

func (g *DeliveryGroup) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	if len(name) > NameMaxLength {
		return errs.NewValueIsInvalidErrorWithCause("name",
			fmt.Errorf("length %d exceeds %d characters", len(name), NameMaxLength))
	}
	g.name = name
	return nil
}

func (g *DeliveryGroup) setDescription(description string) error {
	if len(description) > DescriptionMaxLength {
		return errs.NewValueIsInvalidErrorWithCause("description",
			fmt.Errorf("length %d exceeds %d characters", len(description), DescriptionMaxLength))
	}
	g.description = description
	return nil
}

func (g *DeliveryGroup) setAgentID(agentID kernel.UUID) error {
	if err := agentID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("agentId", err)
	}
	g.agentID = agentID
	return nil
}

func (g *DeliveryGroup) setStatus(status Status, deliveryStarted bool) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if status != Ready && !deliveryStarted {
		return errs.NewValueIsInvalidErrorWithCause("deliveryStarted",
			fmt.Errorf("group in status %s must have delivery started", status))
	}
	if status == Ready && deliveryStarted {
		return errs.NewValueIsInvalidErrorWithCause("deliveryStarted",
			errors.New("READY group cannot have delivery started"))
	}
	g.status = status
	g.deliveryStarted = deliveryStarted
	return nil
}

func (g *DeliveryGroup) setMembers(members []kernel.UUID) error {
	seen := make(map[kernel.UUID]struct{}, len(members))
	for _, id := range members {
		if err := id.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("memberOrderIds", err)
		}
		if _, dup := seen[id]; dup {
			return errs.NewValueIsInvalidErrorWithCause("memberOrderIds",
				fmt.Errorf("order %s is listed twice", id))
		}
		seen[id] = struct{}{}
	}
	g.members = slices.Clone(members)
	return nil
}
