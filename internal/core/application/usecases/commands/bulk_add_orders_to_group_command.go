package commands

import (
	"errors"
	"slices"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrBulkAddOrdersToGroupCommandIsNotConstructed = errors.New(
	"BulkAddOrdersToGroupCommand must be created via NewBulkAddOrdersToGroupCommand constructor",
)

// BulkAddOrdersToGroupCommand places many orders into one group, each independently.
type BulkAddOrdersToGroupCommand struct { //nolint:recvcheck //using for validation
	shopID   kernel.ShopID
	groupID  kernel.UUID
	orderIDs []kernel.UUID

	guard guard.ConstructorGuard
}

func NewBulkAddOrdersToGroupCommand(
	shopID kernel.ShopID,
	groupID kernel.UUID,
	orderIDs []kernel.UUID,
) (BulkAddOrdersToGroupCommand, error) {
	ids, idsErr := validateOrderIDs(orderIDs)
	if err := errors.Join(
		shopID.Validate(),
		groupID.Validate(),
		idsErr,
	); err != nil {
		return BulkAddOrdersToGroupCommand{}, err
	}

	return BulkAddOrdersToGroupCommand{
		shopID:   shopID,
		groupID:  groupID,
		orderIDs: ids,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c BulkAddOrdersToGroupCommand) Validate() error {
	return c.guard.Validate(ErrBulkAddOrdersToGroupCommandIsNotConstructed)
}

func (c BulkAddOrdersToGroupCommand) ShopID() kernel.ShopID {
	return c.shopID
}

func (c BulkAddOrdersToGroupCommand) GroupID() kernel.UUID {
	return c.groupID
}

// OrderIDs returns a copy of the orders in request order.
func (c BulkAddOrdersToGroupCommand) OrderIDs() []kernel.UUID {
	return slices.Clone(c.orderIDs)
}
