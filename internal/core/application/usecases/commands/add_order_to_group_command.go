package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrAddOrderToGroupCommandIsNotConstructed = errors.New(
	"AddOrderToGroupCommand must be created via NewAddOrderToGroupCommand constructor",
)

// AddOrderToGroupCommand places one order into a group, moving it out of a READY group
// when it already has one.
type AddOrderToGroupCommand struct { //nolint:recvcheck //using for validation
	shopID  kernel.ShopID
	groupID kernel.UUID
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAddOrderToGroupCommand(shopID kernel.ShopID, groupID, orderID kernel.UUID) (AddOrderToGroupCommand, error) {
	if err := errors.Join(
		shopID.Validate(),
		groupID.Validate(),
		orderID.Validate(),
	); err != nil {
		return AddOrderToGroupCommand{}, err
	}

	return AddOrderToGroupCommand{
		shopID:  shopID,
		groupID: groupID,
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c AddOrderToGroupCommand) Validate() error {
	return c.guard.Validate(ErrAddOrderToGroupCommandIsNotConstructed)
}

func (c AddOrderToGroupCommand) ShopID() kernel.ShopID {
	return c.shopID
}

func (c AddOrderToGroupCommand) GroupID() kernel.UUID {
	return c.groupID
}

func (c AddOrderToGroupCommand) OrderID() kernel.UUID {
	return c.orderID
}
