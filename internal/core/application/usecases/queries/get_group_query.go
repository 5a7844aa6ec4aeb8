package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetGroupQueryIsNotConstructed = errors.New(
	"GetGroupQuery must be created via NewGetGroupQuery constructor",
)

// GetGroupQuery fetches one group of a shop.
type GetGroupQuery struct {
	shopID  kernel.ShopID
	groupID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetGroupQuery(shopID kernel.ShopID, groupID kernel.UUID) (GetGroupQuery, error) {
	if err := errors.Join(shopID.Validate(), groupID.Validate()); err != nil {
		return GetGroupQuery{}, err
	}
	return GetGroupQuery{
		shopID:  shopID,
		groupID: groupID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (q GetGroupQuery) Validate() error {
	return q.guard.Validate(ErrGetGroupQueryIsNotConstructed)
}

func (q GetGroupQuery) ShopID() kernel.ShopID {
	return q.shopID
}

func (q GetGroupQuery) GroupID() kernel.UUID {
	return q.groupID
}
