// Package grouprepo persists delivery groups and their member lists.
package grouprepo

import (
	"time"

	"dispatch/internal/core/domain/model/group"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// GroupDTO maps a group to the delivery_groups table.
type GroupDTO struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey"`
	ShopID          string      `gorm:"type:varchar(64);not null;index:idx_groups_shop_created,priority:1"`
	Name            string      `gorm:"type:varchar(255);not null"`
	Description     string      `gorm:"type:varchar(1000);not null;default:''"`
	AgentID         uuid.UUID   `gorm:"type:uuid;not null;index:idx_groups_agent_status,priority:1"`
	Status          int         `gorm:"type:smallint;not null;index:idx_groups_agent_status,priority:2"`
	DeliveryStarted bool        `gorm:"not null;default:false"`
	CreatedAt       time.Time   `gorm:"not null;index:idx_groups_shop_created,priority:2"`
	Version         int         `gorm:"not null;default:0"`
	Members         []MemberDTO `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
}

func (GroupDTO) TableName() string {
	return "delivery_groups"
}

// MemberDTO is one order of a group. Position keeps insertion order.
type MemberDTO struct {
	GroupID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_group_members_order"`
	Position int       `gorm:"primaryKey;autoIncrement:false"`
}

func (MemberDTO) TableName() string {
	return "group_members"
}

func fromDomain(g *group.DeliveryGroup) GroupDTO {
	groupID := g.ID().Bytes()
	members := make([]MemberDTO, 0, g.MemberCount())
	for i, orderID := range g.MemberOrderIDs() {
		members = append(members, MemberDTO{
			GroupID:  groupID,
			OrderID:  orderID.Bytes(),
			Position: i,
		})
	}

	return GroupDTO{
		ID:              groupID,
		ShopID:          g.ShopID().String(),
		Name:            g.Name(),
		Description:     g.Description(),
		AgentID:         g.AgentID().Bytes(),
		Status:          int(g.Status()),
		DeliveryStarted: g.HasDeliveryStarted(),
		CreatedAt:       g.CreatedAt(),
		Version:         g.Version(),
		Members:         members,
	}
}

func toDomain(dto GroupDTO) (*group.DeliveryGroup, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	agentID, err := kernel.UUIDFromBytes(dto.AgentID[:])
	if err != nil {
		return nil, err
	}

	members := make([]kernel.UUID, 0, len(dto.Members))
	for _, m := range dto.Members {
		orderID, memberErr := kernel.UUIDFromBytes(m.OrderID[:])
		if memberErr != nil {
			return nil, memberErr
		}
		members = append(members, orderID)
	}

	return group.RestoreDeliveryGroup(
		id,
		kernel.ShopID(dto.ShopID),
		dto.Name,
		dto.Description,
		agentID,
		group.Status(dto.Status),
		dto.DeliveryStarted,
		members,
		dto.CreatedAt,
		dto.Version,
	)
}
