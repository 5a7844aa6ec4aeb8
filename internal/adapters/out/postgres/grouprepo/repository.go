package grouprepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/group"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormGroupRepository implements GroupRepository using GORM.
type GormGroupRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormGroupRepository(db *gorm.DB, tracker aggregateTracker) *GormGroupRepository {
	return &GormGroupRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the group and its members.
func (r *GormGroupRepository) Add(ctx context.Context, aggregate *group.DeliveryGroup) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Members").Create(&dto).Error; err != nil {
			return err
		}
		return r.insertMembers(tx, dto.Members)
	})
	if err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the group row and replaces its member list. When an order moves, callers
// update the source group before the target so the unique order index never sees it twice.
func (r *GormGroupRepository) Update(ctx context.Context, aggregate *group.DeliveryGroup) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&GroupDTO{}).Where("id = ?", dto.ID).Updates(map[string]any{
			"name":             dto.Name,
			"description":      dto.Description,
			"status":           dto.Status,
			"delivery_started": dto.DeliveryStarted,
			"version":          dto.Version,
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errs.NewObjectNotFoundError("groupId", aggregate.ID())
		}

		if err := tx.Where("group_id = ?", dto.ID).Delete(&MemberDTO{}).Error; err != nil {
			return err
		}
		return r.insertMembers(tx, dto.Members)
	})
	if err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormGroupRepository) Get(ctx context.Context, id kernel.UUID) (*group.DeliveryGroup, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// GetForUpdate locks the group row until the surrounding transaction ends.
func (r *GormGroupRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*group.DeliveryGroup, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// CountActiveByAgent counts READY and IN_PROGRESS groups of the agent.
func (r *GormGroupRepository) CountActiveByAgent(ctx context.Context, agentID kernel.UUID) (int, error) {
	if err := agentID.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&GroupDTO{}).
		Where("agent_id = ? AND status IN ?", agentID.Bytes(), ActiveStatuses()).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *GormGroupRepository) get(db *gorm.DB, id kernel.UUID) (*group.DeliveryGroup, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto GroupDTO
	err := db.Preload("Members", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position")
	}).First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("groupId", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormGroupRepository) insertMembers(tx *gorm.DB, members []MemberDTO) error {
	if len(members) == 0 {
		return nil
	}
	return tx.Create(&members).Error
}

// ActiveStatuses lists the stored status values that count toward agent capacity.
func ActiveStatuses() []int {
	return []int{int(group.Ready), int(group.InProgress)}
}
