package memory

import (
	"context"
	"fmt"

	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/group"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

var (
	_ ports.GroupRepository = &GroupRepository{}
	_ ports.OrderRepository = &OrderRepository{}
	_ ports.AgentRepository = &AgentRepository{}
)

// GroupRepository stores delivery groups in the Store.
type GroupRepository struct {
	uow *UnitOfWork
}

func (r *GroupRepository) staged() map[kernel.UUID]groupRecord {
	if r.uow.tx == nil {
		return nil
	}
	return r.uow.tx.groups
}

func (r *GroupRepository) Add(ctx context.Context, aggregate *group.DeliveryGroup) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, exists := lookup(r.uow, r.staged(), r.uow.store.groups, aggregate.ID()); exists {
		return fmt.Errorf("group %s already exists", aggregate.ID())
	}
	write(r.uow, r.staged(), r.uow.store.groups, aggregate.ID(), groupFromDomain(aggregate))
	return nil
}

func (r *GroupRepository) Update(ctx context.Context, aggregate *group.DeliveryGroup) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, exists := lookup(r.uow, r.staged(), r.uow.store.groups, aggregate.ID()); !exists {
		return errs.NewObjectNotFoundError("groupId", aggregate.ID())
	}
	write(r.uow, r.staged(), r.uow.store.groups, aggregate.ID(), groupFromDomain(aggregate))
	return nil
}

func (r *GroupRepository) Get(ctx context.Context, id kernel.UUID) (*group.DeliveryGroup, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec, ok := lookup(r.uow, r.staged(), r.uow.store.groups, id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("groupId", id)
	}
	return rec.toDomain()
}

// GetForUpdate is Get; in-process exclusion comes from the Locker.
func (r *GroupRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*group.DeliveryGroup, error) {
	return r.Get(ctx, id)
}

func (r *GroupRepository) CountActiveByAgent(ctx context.Context, agentID kernel.UUID) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return countActive(r.uow, agentID), nil
}

// countActive counts committed groups with staged writes of the open transaction applied.
func countActive(u *UnitOfWork, agentID kernel.UUID) int {
	if !u.inTx() || len(u.tx.groups) == 0 {
		return u.store.countActiveGroups(agentID)
	}

	merged := make(map[kernel.UUID]groupRecord)
	for _, g := range u.store.snapshotGroups() {
		merged[g.id] = g
	}
	for id, g := range u.tx.groups {
		merged[id] = g
	}

	count := 0
	for _, g := range merged {
		if g.agentID.IsEqual(agentID) && g.status.IsActive() {
			count++
		}
	}
	return count
}

// OrderRepository stores orders in the Store.
type OrderRepository struct {
	uow *UnitOfWork
}

func (r *OrderRepository) staged() map[kernel.UUID]orderRecord {
	if r.uow.tx == nil {
		return nil
	}
	return r.uow.tx.orders
}

func (r *OrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, exists := lookup(r.uow, r.staged(), r.uow.store.orders, aggregate.ID()); exists {
		return fmt.Errorf("order %s already exists", aggregate.ID())
	}
	write(r.uow, r.staged(), r.uow.store.orders, aggregate.ID(), orderFromDomain(aggregate))
	return nil
}

func (r *OrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, exists := lookup(r.uow, r.staged(), r.uow.store.orders, aggregate.ID()); !exists {
		return errs.NewObjectNotFoundError("orderId", aggregate.ID())
	}
	write(r.uow, r.staged(), r.uow.store.orders, aggregate.ID(), orderFromDomain(aggregate))
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec, ok := lookup(r.uow, r.staged(), r.uow.store.orders, id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("orderId", id)
	}
	return rec.toDomain()
}

func (r *OrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.Get(ctx, id)
}

// AgentRepository stores agents in the Store and derives their active group count.
type AgentRepository struct {
	uow *UnitOfWork
}

func (r *AgentRepository) staged() map[kernel.UUID]agentRecord {
	if r.uow.tx == nil {
		return nil
	}
	return r.uow.tx.agents
}

func (r *AgentRepository) Add(ctx context.Context, aggregate *agent.Agent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, exists := lookup(r.uow, r.staged(), r.uow.store.agents, aggregate.ID()); exists {
		return fmt.Errorf("agent %s already exists", aggregate.ID())
	}
	write(r.uow, r.staged(), r.uow.store.agents, aggregate.ID(), agentFromDomain(aggregate))
	return nil
}

func (r *AgentRepository) Update(ctx context.Context, aggregate *agent.Agent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, exists := lookup(r.uow, r.staged(), r.uow.store.agents, aggregate.ID()); !exists {
		return errs.NewObjectNotFoundError("agentId", aggregate.ID())
	}
	write(r.uow, r.staged(), r.uow.store.agents, aggregate.ID(), agentFromDomain(aggregate))
	return nil
}

func (r *AgentRepository) Get(ctx context.Context, id kernel.UUID) (*agent.Agent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec, ok := lookup(r.uow, r.staged(), r.uow.store.agents, id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("agentId", id)
	}
	return rec.toDomain(countActive(r.uow, id))
}

func (r *AgentRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*agent.Agent, error) {
	return r.Get(ctx, id)
}
