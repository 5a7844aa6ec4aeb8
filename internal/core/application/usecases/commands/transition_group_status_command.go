package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/group"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrTransitionGroupStatusCommandIsNotConstructed = errors.New(
	"TransitionGroupStatusCommand must be created via NewTransitionGroupStatusCommand constructor",
)

// TransitionGroupStatusCommand moves a group forward in its lifecycle.
type TransitionGroupStatusCommand struct { //nolint:recvcheck //using for validation
	shopID  kernel.ShopID
	groupID kernel.UUID
	status  group.Status

	guard guard.ConstructorGuard
}

func NewTransitionGroupStatusCommand(
	shopID kernel.ShopID,
	groupID kernel.UUID,
	status group.Status,
) (TransitionGroupStatusCommand, error) {
	if err := errors.Join(
		shopID.Validate(),
		groupID.Validate(),
		status.Validate(),
	); err != nil {
		return TransitionGroupStatusCommand{}, err
	}

	return TransitionGroupStatusCommand{
		shopID:  shopID,
		groupID: groupID,
		status:  status,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c TransitionGroupStatusCommand) Validate() error {
	return c.guard.Validate(ErrTransitionGroupStatusCommandIsNotConstructed)
}

func (c TransitionGroupStatusCommand) ShopID() kernel.ShopID {
	return c.shopID
}

func (c TransitionGroupStatusCommand) GroupID() kernel.UUID {
	return c.groupID
}

func (c TransitionGroupStatusCommand) Status() group.Status {
	return c.status
}
