package commands

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// MaxOrdersPerRequest caps how many orders one command may carry.
const MaxOrdersPerRequest = 1000

var (
	ErrCreateGroupCommandIsNotConstructed = errors.New(
		"CreateGroupCommand must be created via NewCreateGroupCommand constructor",
	)
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
)

// CreateGroupCommand creates a READY group for an agent, optionally seeded with orders.
//
// Example:
//
//	cmd, err := NewCreateGroupCommand("shop-1", "Morning north", "", agentID, []kernel.UUID{o1, o2})
//	if err != nil {
//	    return fmt.Errorf("invalid group data: %w", err)
//	}
//
//	result, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, services.ErrAgentAtCapacity) {
//	    // pick another agent
//	}
//	fmt.Printf("created group %s with %d orders", cmd.GroupID(), result.Seeding.SuccessfullyAdded)
type CreateGroupCommand struct { //nolint:recvcheck //using for validation
	groupID     kernel.UUID
	shopID      kernel.ShopID
	name        string
	description string
	agentID     kernel.UUID
	orderIDs    []kernel.UUID

	guard guard.ConstructorGuard
}

// NewCreateGroupCommand generates the group ID and validates the request.
func NewCreateGroupCommand(
	shopID kernel.ShopID,
	name, description string,
	agentID kernel.UUID,
	initialOrderIDs []kernel.UUID,
) (CreateGroupCommand, error) {
	command := CreateGroupCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setGroupID(kernel.NewUUID()),
		command.setShopID(shopID),
		command.setName(name),
		command.setAgentID(agentID),
		command.setOrderIDs(initialOrderIDs),
	); err != nil {
		return CreateGroupCommand{}, err
	}
	command.description = description

	return command, nil
}

func (c CreateGroupCommand) Validate() error {
	return c.guard.Validate(ErrCreateGroupCommandIsNotConstructed)
}

// GroupID returns the identifier the new group will get.
func (c CreateGroupCommand) GroupID() kernel.UUID {
	return c.groupID
}

func (c CreateGroupCommand) ShopID() kernel.ShopID {
	return c.shopID
}

func (c CreateGroupCommand) Name() string {
	return c.name
}

func (c CreateGroupCommand) Description() string {
	return c.description
}

func (c CreateGroupCommand) AgentID() kernel.UUID {
	return c.agentID
}

// InitialOrderIDs returns a copy of the seed orders in request order.
func (c CreateGroupCommand) InitialOrderIDs() []kernel.UUID {
	return slices.Clone(c.orderIDs)
}

func (c *CreateGroupCommand) setGroupID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.groupID = id
	return nil
}

func (c *CreateGroupCommand) setShopID(shopID kernel.ShopID) error {
	if err := shopID.Validate(); err != nil {
		return err
	}
	c.shopID = shopID
	return nil
}

func (c *CreateGroupCommand) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}

func (c *CreateGroupCommand) setAgentID(agentID kernel.UUID) error {
	if err := agentID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("agentId", err)
	}
	c.agentID = agentID
	return nil
}

func (c *CreateGroupCommand) setOrderIDs(ids []kernel.UUID) error {
	ids, err := validateOrderIDs(ids)
	if err != nil {
		return err
	}
	c.orderIDs = ids
	return nil
}

// validateOrderIDs checks the batch size and every identifier. Duplicates are kept: the
// second occurrence is reported per order as AlreadyMember.
func validateOrderIDs(ids []kernel.UUID) ([]kernel.UUID, error) {
	if len(ids) > MaxOrdersPerRequest {
		return nil, errs.NewValueIsOutOfRangeError("orderIds", len(ids), 0, MaxOrdersPerRequest)
	}
	for i, id := range ids {
		if err := id.Validate(); err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("orderIds[%d]", i), err)
		}
	}
	return slices.Clone(ids), nil
}
