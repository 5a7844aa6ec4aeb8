package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/group"
	"dispatch/internal/core/domain/model/outcome"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// CreateGroupResult is the created group and the report for its seed orders.
type CreateGroupResult struct {
	Group   *group.DeliveryGroup
	Seeding outcome.AllocationOutcome
}

// CreateGroupCommandHandler creates a group after checking the agent's capacity, then
// seeds it. Seed orders held by another group are skipped as AlreadyGrouped, never moved.
type CreateGroupCommandHandler struct {
	creator   groupCreator
	allocator allocator
}

func NewCreateGroupCommandHandler(
	uowFactory UoWFactory,
	locker ports.Locker,
	policy services.CapacityPolicy,
	logger *slog.Logger,
) CreateGroupCommandHandler {
	return CreateGroupCommandHandler{
		creator:   newGroupCreator(uowFactory, locker, policy, logger),
		allocator: newAllocator(uowFactory, locker, logger),
	}
}

// Handle returns AgentAtCapacityError or a not-found error without creating anything.
// Once the group exists, seeding problems are reported in the result; a storage failure
// while seeding returns the result together with the error.
func (h CreateGroupCommandHandler) Handle(ctx context.Context, cmd CreateGroupCommand) (CreateGroupResult, error) {
	if err := cmd.Validate(); err != nil {
		return CreateGroupResult{}, err
	}

	g, err := h.creator.create(ctx, groupSpec{
		groupID:     cmd.GroupID(),
		shopID:      cmd.ShopID(),
		name:        cmd.Name(),
		description: cmd.Description(),
		agentID:     cmd.AgentID(),
	})
	if err != nil {
		return CreateGroupResult{}, err
	}

	seeds := cmd.InitialOrderIDs()
	if len(seeds) == 0 {
		return CreateGroupResult{Group: g, Seeding: outcome.NewTally(0).Outcome()}, nil
	}

	seeding, seedErr := h.allocator.placeAll(ctx, services.ModeSeed, cmd.ShopID(), g.ID(), seeds)

	reloaded, err := h.creator.reload(context.WithoutCancel(ctx), g.ID())
	if err != nil {
		return CreateGroupResult{Group: g, Seeding: seeding}, err
	}
	return CreateGroupResult{Group: reloaded, Seeding: seeding}, seedErr
}
