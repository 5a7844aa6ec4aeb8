package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/pkg/errs"
)

// RegisterAgentCommandHandler upserts an agent. An agent ID already registered by another
// shop is reported as not found.
type RegisterAgentCommandHandler struct {
	uowFactory AgentUoWFactory
}

func NewRegisterAgentCommandHandler(uowFactory AgentUoWFactory) RegisterAgentCommandHandler {
	return RegisterAgentCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle returns true when the agent was created, false when it was updated.
func (h RegisterAgentCommandHandler) Handle(ctx context.Context, cmd RegisterAgentCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	agentRepo := uow.AgentRepository()

	existing, err := agentRepo.GetForUpdate(ctx, cmd.AgentID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		created, err := agent.NewAgent(cmd.AgentID(), cmd.ShopID(), cmd.Name(), cmd.Contact())
		if err != nil {
			return false, err
		}
		if err = agentRepo.Add(ctx, created); err != nil {
			return false, err
		}
	case err != nil:
		return false, err
	default:
		if existing.ShopID() != cmd.ShopID() {
			return false, errs.NewObjectNotFoundError("agentId", cmd.AgentID())
		}
		if err = existing.UpdateProfile(cmd.Name(), cmd.Contact()); err != nil {
			return false, err
		}
		if err = agentRepo.Update(ctx, existing); err != nil {
			return false, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	return existing == nil, nil
}
