package queries_test

import (
	"context"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/mock"
)

type MockGroupReader struct{ mock.Mock }

func (m *MockGroupReader) GroupByID(ctx context.Context, id kernel.UUID) (queries.GroupView, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(queries.GroupView), args.Error(1)
}

func (m *MockGroupReader) ListGroups(ctx context.Context, filter queries.GroupFilter) ([]queries.GroupView, int, error) {
	args := m.Called(ctx, filter)
	items, _ := args.Get(0).([]queries.GroupView)
	return items, args.Int(1), args.Error(2)
}

type MockAgentReader struct{ mock.Mock }

func (m *MockAgentReader) ListAgents(ctx context.Context, shopID kernel.ShopID) ([]queries.AgentView, error) {
	args := m.Called(ctx, shopID)
	agents, _ := args.Get(0).([]queries.AgentView)
	return agents, args.Error(1)
}
