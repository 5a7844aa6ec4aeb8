package queries

import (
	"context"

	"dispatch/internal/core/domain/services"
)

type ListAgentsQueryHandler struct {
	reader AgentReader
	policy services.CapacityPolicy
}

func NewListAgentsQueryHandler(reader AgentReader, policy services.CapacityPolicy) ListAgentsQueryHandler {
	return ListAgentsQueryHandler{reader: reader, policy: policy}
}

// Handle marks every agent with whether it can take one more group right now. The flag is
// advisory: createGroup checks again under the agent lock.
func (h ListAgentsQueryHandler) Handle(ctx context.Context, query ListAgentsQuery) ([]AgentView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	agents, err := h.reader.ListAgents(ctx, query.ShopID())
	if err != nil {
		return nil, err
	}

	result := make([]AgentView, 0, len(agents))
	for _, a := range agents {
		a.Eligible = h.policy.IsEligible(a.ActiveGroupCount)
		result = append(result, a)
	}
	return result, nil
}
