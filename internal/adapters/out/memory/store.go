// Package memory is an in-process storage adapter. It keeps the same unit of work
// semantics as the postgres adapter (staged writes, all-or-nothing commit) and serves
// single-instance deployments and tests.
package memory

import (
	"slices"
	"sync"
	"time"

	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/group"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// Store holds committed state. Records are values, so no caller ever shares memory with it.
type Store struct {
	mu     sync.RWMutex
	agents map[kernel.UUID]agentRecord
	groups map[kernel.UUID]groupRecord
	orders map[kernel.UUID]orderRecord
}

func NewStore() *Store {
	return &Store{
		agents: make(map[kernel.UUID]agentRecord),
		groups: make(map[kernel.UUID]groupRecord),
		orders: make(map[kernel.UUID]orderRecord),
	}
}

type agentRecord struct {
	id     kernel.UUID
	shopID kernel.ShopID
	name   string
	phone  string
	email  string
}

type groupRecord struct {
	id              kernel.UUID
	shopID          kernel.ShopID
	name            string
	description     string
	agentID         kernel.UUID
	status          group.Status
	deliveryStarted bool
	members         []kernel.UUID
	createdAt       time.Time
	version         int
}

type orderRecord struct {
	id      kernel.UUID
	shopID  kernel.ShopID
	kind    order.Kind
	groupID *kernel.UUID
}

func agentFromDomain(a *agent.Agent) agentRecord {
	return agentRecord{
		id:     a.ID(),
		shopID: a.ShopID(),
		name:   a.Name(),
		phone:  a.Contact().Phone(),
		email:  a.Contact().Email(),
	}
}

func (r agentRecord) toDomain(activeGroups int) (*agent.Agent, error) {
	contact, err := agent.NewContact(r.phone, r.email)
	if err != nil {
		return nil, err
	}
	return agent.RestoreAgent(r.id, r.shopID, r.name, contact, activeGroups)
}

func groupFromDomain(g *group.DeliveryGroup) groupRecord {
	return groupRecord{
		id:              g.ID(),
		shopID:          g.ShopID(),
		name:            g.Name(),
		description:     g.Description(),
		agentID:         g.AgentID(),
		status:          g.Status(),
		deliveryStarted: g.HasDeliveryStarted(),
		members:         g.MemberOrderIDs(),
		createdAt:       g.CreatedAt(),
		version:         g.Version(),
	}
}

func (r groupRecord) toDomain() (*group.DeliveryGroup, error) {
	return group.RestoreDeliveryGroup(r.id, r.shopID, r.name, r.description, r.agentID,
		r.status, r.deliveryStarted, slices.Clone(r.members), r.createdAt, r.version)
}

func orderFromDomain(o *order.Order) orderRecord {
	return orderRecord{
		id:      o.ID(),
		shopID:  o.ShopID(),
		kind:    o.Kind(),
		groupID: o.Group(),
	}
}

func (r orderRecord) toDomain() (*order.Order, error) {
	return order.RestoreOrder(r.id, r.shopID, r.kind, r.groupID)
}

// snapshot copies the committed maps under the read lock.
func (s *Store) snapshotGroups() []groupRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]groupRecord, 0, len(s.groups))
	for _, g := range s.groups {
		out = append(out, g)
	}
	return out
}

func (s *Store) snapshotAgents() []agentRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]agentRecord, 0, len(s.agents))
	for _, a := range s.agents {
		out = append(out, a)
	}
	return out
}

func (s *Store) countActiveGroups(agentID kernel.UUID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, g := range s.groups {
		if g.agentID.IsEqual(agentID) && g.status.IsActive() {
			count++
		}
	}
	return count
}
