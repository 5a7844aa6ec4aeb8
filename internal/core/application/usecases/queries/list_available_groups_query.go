package queries

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var ErrListAvailableGroupsQueryIsNotConstructed = errors.New(
	"ListAvailableGroupsQuery must be created via NewListAvailableGroupsQuery constructor",
)

// ListAvailableGroupsQuery lists groups that can still receive orders. Started groups are
// only included when includeStarted is set, for history views.
//
// Example:
//
//	query, _ := NewListAvailableGroupsQuery("shop-1", &agentID, "", false, 1, 20)
//	page, err := handler.Handle(ctx, query)
//	fmt.Printf("%d of %d groups\n", len(page.Items), page.Total)
type ListAvailableGroupsQuery struct { //nolint:recvcheck //using for validation
	shopID         kernel.ShopID
	agentID        *kernel.UUID
	name           string
	includeStarted bool
	page           int
	pageSize       int

	guard guard.ConstructorGuard
}

// NewListAvailableGroupsQuery validates the filter. A page of 0 means the first page and a
// pageSize of 0 means DefaultPageSize.
func NewListAvailableGroupsQuery(
	shopID kernel.ShopID,
	agentID *kernel.UUID,
	name string,
	includeStarted bool,
	page, pageSize int,
) (ListAvailableGroupsQuery, error) {
	query := ListAvailableGroupsQuery{
		name:           strings.TrimSpace(name),
		includeStarted: includeStarted,
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		shopID.Validate(),
		query.setAgentID(agentID),
		query.setPage(page, pageSize),
	); err != nil {
		return ListAvailableGroupsQuery{}, err
	}
	query.shopID = shopID

	return query, nil
}

func (q ListAvailableGroupsQuery) Validate() error {
	return q.guard.Validate(ErrListAvailableGroupsQueryIsNotConstructed)
}

func (q ListAvailableGroupsQuery) Page() int {
	return q.page
}

func (q ListAvailableGroupsQuery) PageSize() int {
	return q.pageSize
}

// Filter converts the query into a reader filter.
func (q ListAvailableGroupsQuery) Filter() GroupFilter {
	return GroupFilter{
		ShopID:         q.shopID,
		AgentID:        q.agentID,
		Name:           q.name,
		IncludeStarted: q.includeStarted,
		Offset:         (q.page - 1) * q.pageSize,
		Limit:          q.pageSize,
	}
}

func (q *ListAvailableGroupsQuery) setAgentID(agentID *kernel.UUID) error {
	if agentID == nil {
		return nil
	}
	if err := agentID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("agentId", err)
	}
	id := *agentID
	q.agentID = &id
	return nil
}

func (q *ListAvailableGroupsQuery) setPage(page, pageSize int) error {
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}

	var err error
	if page < 1 {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("page", page, 1, "unbounded"))
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("pageSize", pageSize, 1, MaxPageSize))
	}
	if err != nil {
		return err
	}

	q.page = page
	q.pageSize = pageSize
	return nil
}
