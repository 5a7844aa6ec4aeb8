package commands_test

import (
	"context"
	"errors"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"dispatch/internal/adapters/out/locks"
	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/group"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/require"
)

const testShop kernel.ShopID = "shop-1"

type memoryUoWFactory struct {
	factory *memory.UnitOfWorkFactory
}

func (f memoryUoWFactory) Create() commands.UoW {
	return f.factory.Create()
}

// world is a fully wired allocation core over the memory adapter.
type world struct {
	t       *testing.T
	uows    commands.UoWFactory
	locker  ports.Locker
	policy  services.CapacityPolicy
	factory *memory.UnitOfWorkFactory
}

func newWorld(t *testing.T) *world {
	t.Helper()
	factory := memory.NewUnitOfWorkFactory(memory.NewStore())
	return &world{
		t:       t,
		uows:    memoryUoWFactory{factory: factory},
		locker:  locks.NewKeyedLocker(),
		policy:  services.DefaultCapacityPolicy(),
		factory: factory,
	}
}

func (w *world) agent(name string) kernel.UUID {
	w.t.Helper()
	a, err := agent.NewAgent(kernel.NewUUID(), testShop, name, agent.Contact{})
	require.NoError(w.t, err)
	require.NoError(w.t, w.factory.Create().AgentRepository().Add(context.Background(), a))
	return a.ID()
}

func (w *world) order() kernel.UUID {
	w.t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), testShop, order.Delivery)
	require.NoError(w.t, err)
	require.NoError(w.t, w.factory.Create().OrderRepository().Add(context.Background(), o))
	return o.ID()
}

// group creates a group for agentID through the handler so capacity rules apply.
func (w *world) group(agentID kernel.UUID) kernel.UUID {
	w.t.Helper()
	cmd, err := commands.NewCreateGroupCommand(testShop, "group", "", agentID, nil)
	require.NoError(w.t, err)
	_, err = w.createGroupHandler().Handle(context.Background(), cmd)
	require.NoError(w.t, err)
	return cmd.GroupID()
}

// groupWith creates a group and places orders into it.
func (w *world) groupWith(agentID kernel.UUID, orderIDs ...kernel.UUID) kernel.UUID {
	w.t.Helper()
	groupID := w.group(agentID)
	for _, id := range orderIDs {
		w.add(groupID, id)
	}
	return groupID
}

func (w *world) add(groupID, orderID kernel.UUID) {
	w.t.Helper()
	cmd, err := commands.NewAddOrderToGroupCommand(testShop, groupID, orderID)
	require.NoError(w.t, err)
	_, err = w.addHandler().Handle(context.Background(), cmd)
	require.NoError(w.t, err)
}

func (w *world) transition(groupID kernel.UUID, statuses ...group.Status) {
	w.t.Helper()
	for _, st := range statuses {
		cmd, err := commands.NewTransitionGroupStatusCommand(testShop, groupID, st)
		require.NoError(w.t, err)
		_, err = w.transitionHandler().Handle(context.Background(), cmd)
		require.NoError(w.t, err)
	}
}

func (w *world) loadGroup(id kernel.UUID) *group.DeliveryGroup {
	w.t.Helper()
	g, err := w.factory.Create().GroupRepository().Get(context.Background(), id)
	require.NoError(w.t, err)
	return g
}

func (w *world) loadOrder(id kernel.UUID) *order.Order {
	w.t.Helper()
	o, err := w.factory.Create().OrderRepository().Get(context.Background(), id)
	require.NoError(w.t, err)
	return o
}

func (w *world) activeGroups(agentID kernel.UUID) int {
	w.t.Helper()
	a, err := w.factory.Create().AgentRepository().Get(context.Background(), agentID)
	require.NoError(w.t, err)
	return a.ActiveGroupCount()
}

func (w *world) createGroupHandler() commands.CreateGroupCommandHandler {
	return commands.NewCreateGroupCommandHandler(w.uows, w.locker, w.policy, nil)
}

func (w *world) createAndAssignHandler() commands.CreateGroupAndAssignCommandHandler {
	return commands.NewCreateGroupAndAssignCommandHandler(w.uows, w.locker, w.policy, nil)
}

func (w *world) addHandler() commands.AddOrderToGroupCommandHandler {
	return commands.NewAddOrderToGroupCommandHandler(w.uows, w.locker, nil)
}

func (w *world) changeHandler() commands.ChangeOrderGroupCommandHandler {
	return commands.NewChangeOrderGroupCommandHandler(w.uows, w.locker, nil)
}

func (w *world) bulkHandler() commands.BulkAddOrdersToGroupCommandHandler {
	return commands.NewBulkAddOrdersToGroupCommandHandler(w.uows, w.locker, nil)
}

func (w *world) transitionHandler() commands.TransitionGroupStatusCommandHandler {
	return commands.NewTransitionGroupStatusCommandHandler(w.uows, w.locker, nil)
}

// busyLocker refuses every acquisition that includes the busy key.
type busyLocker struct {
	inner ports.Locker
	busy  string
}

func (l busyLocker) Acquire(ctx context.Context, keys ...string) (ports.Lease, error) {
	if slices.Contains(keys, l.busy) {
		return nil, ports.ErrLockNotAcquired
	}
	return l.inner.Acquire(ctx, keys...)
}

// pausingOrderUoWFactory stops order registration right after the order was read, until
// resume is closed. read is closed once the read happened.
type pausingOrderUoWFactory struct {
	factory *memory.UnitOfWorkFactory
	read    chan struct{}
	resume  chan struct{}
}

func (f pausingOrderUoWFactory) Create() commands.OrderUoW {
	return pausingOrderUoW{UnitOfWork: f.factory.Create(), read: f.read, resume: f.resume}
}

type pausingOrderUoW struct {
	ports.UnitOfWork
	read   chan struct{}
	resume chan struct{}
}

func (u pausingOrderUoW) OrderRepository() ports.OrderRepository {
	return pausingOrderRepository{OrderRepository: u.UnitOfWork.OrderRepository(), read: u.read, resume: u.resume}
}

type pausingOrderRepository struct {
	ports.OrderRepository
	read   chan struct{}
	resume chan struct{}
}

func (r pausingOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	o, err := r.OrderRepository.GetForUpdate(ctx, id)
	close(r.read)
	<-r.resume
	return o, err
}

// cancellingLocker cancels the caller's context on the n-th acquisition.
type cancellingLocker struct {
	inner  ports.Locker
	cancel context.CancelFunc
	at     int32
	calls  atomic.Int32
}

func (l *cancellingLocker) Acquire(ctx context.Context, keys ...string) (ports.Lease, error) {
	if l.calls.Add(1) == l.at {
		l.cancel()
		return nil, ctx.Err()
	}
	return l.inner.Acquire(ctx, keys...)
}

var errStorageDown = errors.New("storage down")

// failingCommitFactory fails every commit after the first n.
type failingCommitFactory struct {
	inner   commands.UoWFactory
	allowed int32
	commits *atomic.Int32
}

func (f failingCommitFactory) Create() commands.UoW {
	return failingCommitUoW{UoW: f.inner.Create(), allowed: f.allowed, commits: f.commits}
}

type failingCommitUoW struct {
	commands.UoW
	allowed int32
	commits *atomic.Int32
}

func (u failingCommitUoW) Commit(ctx context.Context) error {
	if u.commits.Add(1) > u.allowed {
		return errStorageDown
	}
	return u.UoW.Commit(ctx)
}

func withTimeout(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}
