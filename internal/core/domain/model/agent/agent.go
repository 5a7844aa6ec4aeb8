package agent

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrAgentIsNotConstructed is returned when an Agent was not built by a constructor.
var ErrAgentIsNotConstructed = errors.New("Agent must be created via NewAgent constructor")

// Agent is a delivery agent with the number of active groups it currently holds.
//
// activeGroupCount is never stored on the agent record. Repositories fill it in by counting
// READY and IN_PROGRESS groups at read time, so it cannot drift from the groups themselves.
type Agent struct {
	id               kernel.UUID
	shopID           kernel.ShopID
	name             string
	contact          Contact
	activeGroupCount int
	guard            guard.ConstructorGuard
}

// NewAgent creates an agent that holds no groups yet.
func NewAgent(id kernel.UUID, shopID kernel.ShopID, name string, contact Contact) (*Agent, error) {
	return RestoreAgent(id, shopID, name, contact, 0)
}

// RestoreAgent rebuilds an agent with the active group count computed by storage.
func RestoreAgent(
	id kernel.UUID,
	shopID kernel.ShopID,
	name string,
	contact Contact,
	activeGroupCount int,
) (*Agent, error) {
	a := &Agent{
		contact: contact,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(id),
		a.setShopID(shopID),
		a.setName(name),
		a.setActiveGroupCount(activeGroupCount),
	); err != nil {
		return nil, err
	}

	return a, nil
}

// Validate ensures the agent was created through a constructor.
func (a *Agent) Validate() error {
	if a == nil {
		return ErrAgentIsNotConstructed
	}
	return a.guard.Validate(ErrAgentIsNotConstructed)
}

func (a *Agent) IsEqual(other *Agent) bool {
	return other != nil && a.id.IsEqual(other.id)
}

func (a *Agent) ID() kernel.UUID {
	return a.id
}

func (a *Agent) ShopID() kernel.ShopID {
	return a.shopID
}

func (a *Agent) Name() string {
	return a.name
}

func (a *Agent) Contact() Contact {
	return a.contact
}

// ActiveGroupCount is the number of READY or IN_PROGRESS groups assigned to the agent.
func (a *Agent) ActiveGroupCount() int {
	return a.activeGroupCount
}

// UpdateProfile replaces name and contact details as synced from the staff directory.
func (a *Agent) UpdateProfile(name string, contact Contact) error {
	if err := a.setName(name); err != nil {
		return err
	}
	a.contact = contact
	return nil
}

func (a *Agent) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Agent) setShopID(shopID kernel.ShopID) error {
	if err := shopID.Validate(); err != nil {
		return err
	}
	a.shopID = shopID
	return nil
}

func (a *Agent) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	a.name = name
	return nil
}

func (a *Agent) setActiveGroupCount(count int) error {
	if count < 0 {
		return errs.NewValueIsOutOfRangeError("activeGroupCount", count, 0, "unbounded")
	}
	a.activeGroupCount = count
	return nil
}
