package memory_test

import (
	"testing"
	"time"

	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/group"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_CommitAppliesStagedWrites(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	factory := memory.NewUnitOfWorkFactory(store)

	o, err := order.NewOrder(kernel.NewUUID(), "shop-1", order.Delivery)
	require.NoError(t, err)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.OrderRepository().Add(ctx, o))

	// Visible inside the transaction only.
	_, err = uow.OrderRepository().Get(ctx, o.ID())
	require.NoError(t, err)
	_, err = factory.Create().OrderRepository().Get(ctx, o.ID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)

	require.NoError(t, uow.Commit(ctx))

	got, err := factory.Create().OrderRepository().Get(ctx, o.ID())
	require.NoError(t, err)
	assert.True(t, got.IsEqual(o))
	assert.Equal(t, order.Delivery, got.Kind())
}

func TestUnitOfWork_RollbackDiscardsWrites(t *testing.T) {
	ctx := t.Context()
	factory := memory.NewUnitOfWorkFactory(memory.NewStore())

	a, err := agent.NewAgent(kernel.NewUUID(), "shop-1", "Kim", agent.Contact{})
	require.NoError(t, err)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.AgentRepository().Add(ctx, a))
	require.NoError(t, uow.Rollback(ctx))

	_, err = factory.Create().AgentRepository().Get(ctx, a.ID())
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.ErrorIs(t, uow.Rollback(ctx), memory.ErrNoActiveTransaction)
	assert.ErrorIs(t, uow.Commit(ctx), memory.ErrNoActiveTransaction)
}

func TestGroupRepository_RoundTripKeepsMembersAndFlags(t *testing.T) {
	ctx := t.Context()
	factory := memory.NewUnitOfWorkFactory(memory.NewStore())
	repo := factory.Create().GroupRepository()

	g, err := group.NewDeliveryGroup(kernel.NewUUID(), "shop-1", "North", "desc", kernel.NewUUID(), time.Now())
	require.NoError(t, err)
	first, second := kernel.NewUUID(), kernel.NewUUID()
	require.NoError(t, g.Attach(first))
	require.NoError(t, g.Attach(second))
	require.NoError(t, g.TransitionTo(group.InProgress))

	require.NoError(t, repo.Add(ctx, g))
	got, err := repo.Get(ctx, g.ID())

	require.NoError(t, err)
	assert.Equal(t, []kernel.UUID{first, second}, got.MemberOrderIDs())
	assert.Equal(t, group.InProgress, got.Status())
	assert.True(t, got.HasDeliveryStarted())
	assert.Equal(t, g.Version(), got.Version())

	assert.Error(t, repo.Add(ctx, g), "duplicate add must fail")
}

func TestAgentRepository_ActiveGroupCountIncludesStagedGroups(t *testing.T) {
	ctx := t.Context()
	factory := memory.NewUnitOfWorkFactory(memory.NewStore())

	a, _ := agent.NewAgent(kernel.NewUUID(), "shop-1", "Kim", agent.Contact{})
	require.NoError(t, factory.Create().AgentRepository().Add(ctx, a))

	completed, _ := group.RestoreDeliveryGroup(kernel.NewUUID(), "shop-1", "old", "", a.ID(),
		group.Completed, true, nil, time.Now(), 2)
	require.NoError(t, factory.Create().GroupRepository().Add(ctx, completed))

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	for i := 0; i < 2; i++ {
		g, _ := group.NewDeliveryGroup(kernel.NewUUID(), "shop-1", "new", "", a.ID(), time.Now())
		require.NoError(t, uow.GroupRepository().Add(ctx, g))
	}

	inTx, err := uow.AgentRepository().Get(ctx, a.ID())
	require.NoError(t, err)
	outside, err := factory.Create().AgentRepository().Get(ctx, a.ID())
	require.NoError(t, err)

	assert.Equal(t, 2, inTx.ActiveGroupCount())
	assert.Zero(t, outside.ActiveGroupCount())

	count, err := uow.GroupRepository().CountActiveByAgent(ctx, a.ID())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRepositories_UpdateUnknownIsNotFound(t *testing.T) {
	ctx := t.Context()
	uow := memory.NewUnitOfWorkFactory(memory.NewStore()).Create()

	o, _ := order.NewOrder(kernel.NewUUID(), "shop-1", order.Delivery)
	g, _ := group.NewDeliveryGroup(kernel.NewUUID(), "shop-1", "g", "", kernel.NewUUID(), time.Now())

	assert.ErrorIs(t, uow.OrderRepository().Update(ctx, o), errs.ErrObjectNotFound)
	assert.ErrorIs(t, uow.GroupRepository().Update(ctx, g), errs.ErrObjectNotFound)
}
