package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrListAgentsQueryIsNotConstructed = errors.New(
	"ListAgentsQuery must be created via NewListAgentsQuery or NewListAllAgentsQuery constructor",
)

// ListAgentsQuery lists agents with their active group counts, used to pick an agent
// for a new group.
type ListAgentsQuery struct {
	shopID kernel.ShopID

	guard guard.ConstructorGuard
}

// NewListAgentsQuery lists the agents of one shop.
func NewListAgentsQuery(shopID kernel.ShopID) (ListAgentsQuery, error) {
	if err := shopID.Validate(); err != nil {
		return ListAgentsQuery{}, err
	}
	return ListAgentsQuery{shopID: shopID, guard: guard.NewConstructorGuard()}, nil
}

// NewListAllAgentsQuery lists agents of every shop. Only background jobs use it.
func NewListAllAgentsQuery() ListAgentsQuery {
	return ListAgentsQuery{guard: guard.NewConstructorGuard()}
}

func (q ListAgentsQuery) Validate() error {
	return q.guard.Validate(ErrListAgentsQueryIsNotConstructed)
}

func (q ListAgentsQuery) ShopID() kernel.ShopID {
	return q.shopID
}
