// Package agentrepo persists agents. The active group count is never stored: it is
// counted from delivery_groups on every read.
package agentrepo

import (
	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AgentDTO maps an agent to the agents table.
type AgentDTO struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShopID string    `gorm:"type:varchar(64);not null;index"`
	Name   string    `gorm:"type:varchar(255);not null"`
	Phone  string    `gorm:"type:varchar(64);not null;default:''"`
	Email  string    `gorm:"type:varchar(255);not null;default:''"`
}

func (AgentDTO) TableName() string {
	return "agents"
}

func fromDomain(a *agent.Agent) AgentDTO {
	return AgentDTO{
		ID:     a.ID().Bytes(),
		ShopID: a.ShopID().String(),
		Name:   a.Name(),
		Phone:  a.Contact().Phone(),
		Email:  a.Contact().Email(),
	}
}

func toDomain(dto AgentDTO, activeGroups int) (*agent.Agent, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	contact, err := agent.NewContact(dto.Phone, dto.Email)
	if err != nil {
		return nil, err
	}

	return agent.RestoreAgent(id, kernel.ShopID(dto.ShopID), dto.Name, contact, activeGroups)
}
