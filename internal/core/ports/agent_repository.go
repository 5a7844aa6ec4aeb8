package ports

import (
	"context"

	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/kernel"
)

// AgentRepository defines the persistence contract for delivery agents.
// Agents returned by Get carry an active group count computed from the groups table at
// read time; it is never stored.
type AgentRepository interface {
	// Add persists a new agent.
	Add(ctx context.Context, aggregate *agent.Agent) error

	// Update persists name and contact details.
	Update(ctx context.Context, aggregate *agent.Agent) error

	// Get retrieves an agent with its current active group count.
	// Returns errs.ObjectNotFoundError when the agent does not exist.
	Get(ctx context.Context, id kernel.UUID) (*agent.Agent, error)

	// GetForUpdate is Get with a row lock on the agent held until the transaction ends.
	// Callers creating a group for the agent use it to serialize the capacity check.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*agent.Agent, error)
}
