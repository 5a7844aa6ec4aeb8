package commands_test

import (
	"context"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/group"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockAgentRepository struct{ mock.Mock }

func (m *MockAgentRepository) Add(ctx context.Context, a *agent.Agent) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAgentRepository) Update(ctx context.Context, a *agent.Agent) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAgentRepository) Get(ctx context.Context, id kernel.UUID) (*agent.Agent, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*agent.Agent)
	return a, args.Error(1)
}

func (m *MockAgentRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*agent.Agent, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*agent.Agent)
	return a, args.Error(1)
}

type MockGroupRepository struct{ mock.Mock }

func (m *MockGroupRepository) Add(ctx context.Context, g *group.DeliveryGroup) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockGroupRepository) Update(ctx context.Context, g *group.DeliveryGroup) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockGroupRepository) Get(ctx context.Context, id kernel.UUID) (*group.DeliveryGroup, error) {
	args := m.Called(ctx, id)
	g, _ := args.Get(0).(*group.DeliveryGroup)
	return g, args.Error(1)
}

func (m *MockGroupRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*group.DeliveryGroup, error) {
	args := m.Called(ctx, id)
	g, _ := args.Get(0).(*group.DeliveryGroup)
	return g, args.Error(1)
}

func (m *MockGroupRepository) CountActiveByAgent(ctx context.Context, agentID kernel.UUID) (int, error) {
	args := m.Called(ctx, agentID)
	return args.Int(0), args.Error(1)
}

type MockTxManager struct{ mock.Mock }

func (m *MockTxManager) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTxManager) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTxManager) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockOrderUoW struct{ MockTxManager }

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockAgentUoW struct{ MockTxManager }

func (m *MockAgentUoW) AgentRepository() ports.AgentRepository {
	args := m.Called()
	return args.Get(0).(ports.AgentRepository)
}

type MockAgentUoWFactory struct{ mock.Mock }

func (m *MockAgentUoWFactory) Create() commands.AgentUoW {
	args := m.Called()
	return args.Get(0).(commands.AgentUoW)
}

type MockUoW struct{ MockTxManager }

func (m *MockUoW) GroupRepository() ports.GroupRepository {
	args := m.Called()
	return args.Get(0).(ports.GroupRepository)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) AgentRepository() ports.AgentRepository {
	args := m.Called()
	return args.Get(0).(ports.AgentRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockLocker struct{ mock.Mock }

func (m *MockLocker) Acquire(ctx context.Context, keys ...string) (ports.Lease, error) {
	args := m.Called(ctx, keys)
	lease, _ := args.Get(0).(ports.Lease)
	return lease, args.Error(1)
}

type MockLease struct{ mock.Mock }

func (m *MockLease) Release(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
