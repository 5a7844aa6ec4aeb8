package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrRegisterAgentCommandIsNotConstructed = errors.New(
	"RegisterAgentCommand must be created via NewRegisterAgentCommand constructor",
)

// RegisterAgentCommand creates or refreshes an agent synced from the shop's staff directory.
type RegisterAgentCommand struct { //nolint:recvcheck //using for validation
	agentID kernel.UUID
	shopID  kernel.ShopID
	name    string
	contact agent.Contact

	guard guard.ConstructorGuard
}

// NewRegisterAgentCommand validates identifiers and contact details.
func NewRegisterAgentCommand(
	agentID kernel.UUID,
	shopID kernel.ShopID,
	name, phone, email string,
) (RegisterAgentCommand, error) {
	command := RegisterAgentCommand{
		name:  name,
		guard: guard.NewConstructorGuard(),
	}

	contact, contactErr := agent.NewContact(phone, email)
	command.contact = contact

	if err := errors.Join(
		agentID.Validate(),
		shopID.Validate(),
		contactErr,
	); err != nil {
		return RegisterAgentCommand{}, err
	}

	command.agentID = agentID
	command.shopID = shopID
	return command, nil
}

func (c RegisterAgentCommand) Validate() error {
	return c.guard.Validate(ErrRegisterAgentCommandIsNotConstructed)
}

func (c RegisterAgentCommand) AgentID() kernel.UUID {
	return c.agentID
}

func (c RegisterAgentCommand) ShopID() kernel.ShopID {
	return c.shopID
}

func (c RegisterAgentCommand) Name() string {
	return c.name
}

func (c RegisterAgentCommand) Contact() agent.Contact {
	return c.contact
}
