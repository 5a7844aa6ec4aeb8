// Package queries contains read operations for retrieving system state.
// Queries return read models shaped for API responses and dashboards; they never
// take allocation locks.
package queries

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/group"
	"dispatch/internal/core/domain/model/kernel"
)

// GroupView is a delivery group snapshot.
type GroupView struct {
	ID                 kernel.UUID
	ShopID             kernel.ShopID
	Name               string
	Description        string
	AgentID            kernel.UUID
	Status             group.Status
	HasDeliveryStarted bool
	MemberOrderIDs     []kernel.UUID
	CreatedAt          time.Time
	Version            int
}

// AgentView is an agent with its recomputed active group count.
type AgentView struct {
	ID               kernel.UUID
	ShopID           kernel.ShopID
	Name             string
	Phone            string
	Email            string
	ActiveGroupCount int
	// Eligible is filled in by the handler from the capacity policy.
	Eligible bool
}

// GroupFilter narrows a group listing. Zero values mean "no filter".
type GroupFilter struct {
	ShopID         kernel.ShopID
	AgentID        *kernel.UUID
	Name           string
	IncludeStarted bool
	Offset         int
	Limit          int
}

// GroupReader reads group snapshots.
type GroupReader interface {
	// GroupByID returns errs.ObjectNotFoundError when the group does not exist.
	GroupByID(ctx context.Context, id kernel.UUID) (GroupView, error)

	// ListGroups returns one page of groups ordered by creation time and the total number
	// of groups matching the filter.
	ListGroups(ctx context.Context, filter GroupFilter) ([]GroupView, int, error)
}

// AgentReader reads the agent directory.
type AgentReader interface {
	// ListAgents returns agents ordered by name. An empty shopID lists every shop.
	ListAgents(ctx context.Context, shopID kernel.ShopID) ([]AgentView, error)
}
