package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrChangeOrderGroupCommandIsNotConstructed = errors.New(
	"ChangeOrderGroupCommand must be created via NewChangeOrderGroupCommand constructor",
)

// ChangeOrderGroupCommand moves an already grouped order to another group.
type ChangeOrderGroupCommand struct { //nolint:recvcheck //using for validation
	shopID     kernel.ShopID
	orderID    kernel.UUID
	newGroupID kernel.UUID

	guard guard.ConstructorGuard
}

func NewChangeOrderGroupCommand(shopID kernel.ShopID, orderID, newGroupID kernel.UUID) (ChangeOrderGroupCommand, error) {
	if err := errors.Join(
		shopID.Validate(),
		orderID.Validate(),
		newGroupID.Validate(),
	); err != nil {
		return ChangeOrderGroupCommand{}, err
	}

	return ChangeOrderGroupCommand{
		shopID:     shopID,
		orderID:    orderID,
		newGroupID: newGroupID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c ChangeOrderGroupCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderGroupCommandIsNotConstructed)
}

func (c ChangeOrderGroupCommand) ShopID() kernel.ShopID {
	return c.shopID
}

func (c ChangeOrderGroupCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ChangeOrderGroupCommand) NewGroupID() kernel.UUID {
	return c.newGroupID
}
