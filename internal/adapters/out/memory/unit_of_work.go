package memory

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

// ErrNoActiveTransaction is returned by Commit and Rollback outside a transaction.
var ErrNoActiveTransaction = errors.New("no active transaction")

// staging holds writes of an open transaction until Commit.
type staging struct {
	agents map[kernel.UUID]agentRecord
	groups map[kernel.UUID]groupRecord
	orders map[kernel.UUID]orderRecord
}

func newStaging() *staging {
	return &staging{
		agents: make(map[kernel.UUID]agentRecord),
		groups: make(map[kernel.UUID]groupRecord),
		orders: make(map[kernel.UUID]orderRecord),
	}
}

var _ ports.UnitOfWork = &UnitOfWork{}

// UnitOfWorkFactory creates units of work over one Store.
type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return NewUnitOfWork(f.store)
}

// UnitOfWork stages writes and applies them to the Store atomically on Commit.
// Without Begin, repository writes go straight to the store. Calling Begin twice keeps
// the open transaction.
type UnitOfWork struct {
	store *Store
	tx    *staging
}

func NewUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{store: store}
}

func (u *UnitOfWork) Begin(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if u.tx != nil {
		return nil
	}
	u.tx = newStaging()
	return nil
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return ErrNoActiveTransaction
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	for id, r := range u.tx.agents {
		u.store.agents[id] = r
	}
	for id, r := range u.tx.groups {
		u.store.groups[id] = r
	}
	for id, r := range u.tx.orders {
		u.store.orders[id] = r
	}
	u.tx = nil
	return nil
}

func (u *UnitOfWork) Rollback(_ context.Context) error {
	if u.tx == nil {
		return ErrNoActiveTransaction
	}
	u.tx = nil
	return nil
}

func (u *UnitOfWork) GroupRepository() ports.GroupRepository {
	return &GroupRepository{uow: u}
}

func (u *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &OrderRepository{uow: u}
}

func (u *UnitOfWork) AgentRepository() ports.AgentRepository {
	return &AgentRepository{uow: u}
}

func (u *UnitOfWork) inTx() bool {
	return u.tx != nil
}

// lookup returns the staged record if any, otherwise the committed one.
func lookup[T any](u *UnitOfWork, staged, committed map[kernel.UUID]T, id kernel.UUID) (T, bool) {
	if u.inTx() {
		if r, ok := staged[id]; ok {
			return r, true
		}
	}
	u.store.mu.RLock()
	defer u.store.mu.RUnlock()
	r, ok := committed[id]
	return r, ok
}

// write stages the record inside a transaction or stores it directly outside one.
func write[T any](u *UnitOfWork, staged, committed map[kernel.UUID]T, id kernel.UUID, r T) {
	if u.inTx() {
		staged[id] = r
		return
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	committed[id] = r
}
