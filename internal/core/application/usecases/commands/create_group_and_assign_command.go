package commands

import (
	"errors"
	"slices"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrCreateGroupAndAssignCommandIsNotConstructed = errors.New(
	"CreateGroupAndAssignCommand must be created via NewCreateGroupAndAssignCommand constructor",
)

// CreateGroupAndAssignCommand creates a group and bulk-adds orders to it. Unlike seeding a
// plain CreateGroupCommand, orders in other READY groups are moved.
type CreateGroupAndAssignCommand struct { //nolint:recvcheck //using for validation
	groupID     kernel.UUID
	shopID      kernel.ShopID
	name        string
	description string
	agentID     kernel.UUID
	orderIDs    []kernel.UUID

	guard guard.ConstructorGuard
}

func NewCreateGroupAndAssignCommand(
	shopID kernel.ShopID,
	name, description string,
	agentID kernel.UUID,
	orderIDs []kernel.UUID,
) (CreateGroupAndAssignCommand, error) {
	ids, idsErr := validateOrderIDs(orderIDs)

	var nameErr, agentErr error
	if strings.TrimSpace(name) == "" {
		nameErr = ErrNameIsRequired
	}
	if err := agentID.Validate(); err != nil {
		agentErr = errs.NewValueIsRequiredErrorWithCause("agentId", err)
	}

	if err := errors.Join(shopID.Validate(), nameErr, agentErr, idsErr); err != nil {
		return CreateGroupAndAssignCommand{}, err
	}

	return CreateGroupAndAssignCommand{
		groupID:     kernel.NewUUID(),
		shopID:      shopID,
		name:        name,
		description: description,
		agentID:     agentID,
		orderIDs:    ids,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c CreateGroupAndAssignCommand) Validate() error {
	return c.guard.Validate(ErrCreateGroupAndAssignCommandIsNotConstructed)
}

func (c CreateGroupAndAssignCommand) GroupID() kernel.UUID {
	return c.groupID
}

func (c CreateGroupAndAssignCommand) ShopID() kernel.ShopID {
	return c.shopID
}

func (c CreateGroupAndAssignCommand) Name() string {
	return c.name
}

func (c CreateGroupAndAssignCommand) Description() string {
	return c.description
}

func (c CreateGroupAndAssignCommand) AgentID() kernel.UUID {
	return c.agentID
}

func (c CreateGroupAndAssignCommand) OrderIDs() []kernel.UUID {
	return slices.Clone(c.orderIDs)
}
