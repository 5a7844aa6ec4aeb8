package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/group"
	"dispatch/internal/core/domain/model/outcome"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// CreateGroupAndAssignResult is the created group and the bulk report for its orders.
type CreateGroupAndAssignResult struct {
	Group   *group.DeliveryGroup
	Outcome outcome.AllocationOutcome
}

// CreateGroupAndAssignCommandHandler composes group creation with a bulk add.
// If the group cannot be created nothing else happens; once it exists it is kept even
// when every order is skipped.
type CreateGroupAndAssignCommandHandler struct {
	creator   groupCreator
	allocator allocator
}

func NewCreateGroupAndAssignCommandHandler(
	uowFactory UoWFactory,
	locker ports.Locker,
	policy services.CapacityPolicy,
	logger *slog.Logger,
) CreateGroupAndAssignCommandHandler {
	return CreateGroupAndAssignCommandHandler{
		creator:   newGroupCreator(uowFactory, locker, policy, logger),
		allocator: newAllocator(uowFactory, locker, logger),
	}
}

func (h CreateGroupAndAssignCommandHandler) Handle(
	ctx context.Context,
	cmd CreateGroupAndAssignCommand,
) (CreateGroupAndAssignResult, error) {
	if err := cmd.Validate(); err != nil {
		return CreateGroupAndAssignResult{}, err
	}

	g, err := h.creator.create(ctx, groupSpec{
		groupID:     cmd.GroupID(),
		shopID:      cmd.ShopID(),
		name:        cmd.Name(),
		description: cmd.Description(),
		agentID:     cmd.AgentID(),
	})
	if err != nil {
		return CreateGroupAndAssignResult{}, err
	}

	result, placeErr := h.allocator.placeAll(ctx, services.ModeAdd, cmd.ShopID(), g.ID(), cmd.OrderIDs())

	reloaded, err := h.creator.reload(context.WithoutCancel(ctx), g.ID())
	if err != nil {
		return CreateGroupAndAssignResult{Group: g, Outcome: result}, err
	}
	return CreateGroupAndAssignResult{Group: reloaded, Outcome: result}, placeErr
}
