package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrRegisterOrderCommandIsNotConstructed = errors.New(
	"RegisterOrderCommand must be created via NewRegisterOrderCommand constructor",
)

// RegisterOrderCommand makes an order known to the allocation core. The external order
// system owns the order; only its identity, shop and kind are copied here.
type RegisterOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	shopID  kernel.ShopID
	kind    order.Kind

	guard guard.ConstructorGuard
}

func NewRegisterOrderCommand(orderID kernel.UUID, shopID kernel.ShopID, kind order.Kind) (RegisterOrderCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		shopID.Validate(),
		kind.Validate(),
	); err != nil {
		return RegisterOrderCommand{}, err
	}

	return RegisterOrderCommand{
		orderID: orderID,
		shopID:  shopID,
		kind:    kind,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterOrderCommand) Validate() error {
	return c.guard.Validate(ErrRegisterOrderCommandIsNotConstructed)
}

func (c RegisterOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RegisterOrderCommand) ShopID() kernel.ShopID {
	return c.shopID
}

func (c RegisterOrderCommand) Kind() order.Kind {
	return c.kind
}
