// Package ports defines the contracts between the allocation core and its infrastructure:
// repositories for the three aggregates, the unit of work that spans them and the locker
// that serializes concurrent placements.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/group"
	"dispatch/internal/core/domain/model/kernel"
)

// GroupRepository defines the persistence contract for delivery groups.
type GroupRepository interface {
	// Add persists a new group. The group must not already exist.
	Add(ctx context.Context, aggregate *group.DeliveryGroup) error

	// Update persists status, delivery-started flag and the full member list.
	Update(ctx context.Context, aggregate *group.DeliveryGroup) error

	// Get retrieves a group with its members in insertion order.
	// Returns errs.ObjectNotFoundError when the group does not exist.
	Get(ctx context.Context, id kernel.UUID) (*group.DeliveryGroup, error)

	// GetForUpdate is Get with a row lock held until the transaction ends.
	// Outside a transaction it behaves like Get.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*group.DeliveryGroup, error)

	// CountActiveByAgent counts READY and IN_PROGRESS groups assigned to agentID.
	CountActiveByAgent(ctx context.Context, agentID kernel.UUID) (int, error)
}
