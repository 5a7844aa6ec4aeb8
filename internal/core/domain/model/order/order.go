package order

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

// ErrOrderIsNotConstructed is returned when an Order was not built by NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// Order is the allocation view of a customer order.
//
// Invariants:
//   - id and shopID are valid and never change
//   - groupID is nil or a valid UUID
//   - can only be created through NewOrder or RestoreOrder
type Order struct {
	id      kernel.UUID
	shopID  kernel.ShopID
	kind    Kind
	groupID *kernel.UUID
	guard   guard.ConstructorGuard
}

// NewOrder registers an order that has not been grouped yet.
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewUUID(), "shop-1", order.Delivery)
//	if err != nil {
//	    return err
//	}
func NewOrder(id kernel.UUID, shopID kernel.ShopID, kind Kind) (*Order, error) {
	return RestoreOrder(id, shopID, kind, nil)
}

// RestoreOrder rebuilds an order from storage, including its current group pointer.
func RestoreOrder(id kernel.UUID, shopID kernel.ShopID, kind Kind, groupID *kernel.UUID) (*Order, error) {
	o := &Order{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setShopID(shopID),
		o.setKind(kind),
		o.setGroupID(groupID),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the order was created through a constructor.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// ShopID returns the tenant the order belongs to.
func (o *Order) ShopID() kernel.ShopID {
	return o.shopID
}

// Kind returns the trip type of the order.
func (o *Order) Kind() Kind {
	return o.kind
}

// Group returns a copy of the current group pointer, nil when the order is ungrouped.
func (o *Order) Group() *kernel.UUID {
	if o.groupID == nil {
		return nil
	}
	id := *o.groupID
	return &id
}

// IsInGroup reports whether the order currently points at groupID.
func (o *Order) IsInGroup(groupID kernel.UUID) bool {
	return o.groupID != nil && o.groupID.IsEqual(groupID)
}

// AssignGroup points the order at groupID. Membership rules are enforced by the
// delivery group and the placement planner before this is called.
func (o *Order) AssignGroup(groupID kernel.UUID) error {
	if err := groupID.Validate(); err != nil {
		return err
	}
	o.groupID = &groupID
	return nil
}

// ChangeKind updates the trip type when the external record system re-sends the order.
func (o *Order) ChangeKind(kind Kind) error {
	return o.setKind(kind)
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setShopID(shopID kernel.ShopID) error {
	if err := shopID.Validate(); err != nil {
		return err
	}
	o.shopID = shopID
	return nil
}

func (o *Order) setKind(kind Kind) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	o.kind = kind
	return nil
}

func (o *Order) setGroupID(groupID *kernel.UUID) error {
	if groupID == nil {
		o.groupID = nil
		return nil
	}
	if err := groupID.Validate(); err != nil {
		return err
	}
	id := *groupID
	o.groupID = &id
	return nil
}
