// Package orderrepo persists order records. An order row carries the pointer to the group
// that currently holds it; the authoritative member list lives in group_members.
package orderrepo

import (
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO maps an order to the orders table.
type OrderDTO struct {
	ID      uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ShopID  string     `gorm:"type:varchar(64);not null;index"`
	Kind    int        `gorm:"type:smallint;not null"`
	GroupID *uuid.UUID `gorm:"type:uuid;index"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(o *order.Order) OrderDTO {
	var groupID *uuid.UUID
	if id := o.Group(); id != nil {
		raw := id.Bytes()
		groupID = &raw
	}

	return OrderDTO{
		ID:      o.ID().Bytes(),
		ShopID:  o.ShopID().String(),
		Kind:    int(o.Kind()),
		GroupID: groupID,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var groupID *kernel.UUID
	if dto.GroupID != nil {
		gID, groupErr := kernel.UUIDFromBytes((*dto.GroupID)[:])
		if groupErr != nil {
			return nil, groupErr
		}
		groupID = &gID
	}

	return order.RestoreOrder(id, kernel.ShopID(dto.ShopID), order.Kind(dto.Kind), groupID)
}
