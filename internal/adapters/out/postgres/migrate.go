package postgres

import (
	"dispatch/internal/adapters/out/postgres/agentrepo"
	"dispatch/internal/adapters/out/postgres/grouprepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates the allocation schema.
// group_members.order_id is unique, so an order can never be stored in two groups.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&agentrepo.AgentDTO{},
		&orderrepo.OrderDTO{},
		&grouprepo.GroupDTO{},
		&grouprepo.MemberDTO{},
	)
}
