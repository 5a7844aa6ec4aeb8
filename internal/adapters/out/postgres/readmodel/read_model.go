// Package readmodel answers group and agent queries with hand-written SQL so a page of
// groups and their members is one round trip.
package readmodel

import (
	"context"
	"strings"
	"time"

	"dispatch/internal/adapters/out/postgres/grouprepo"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/group"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const groupSelect = `SELECT g.id, g.shop_id, g.name, g.description, g.agent_id, g.status,
	g.delivery_started, g.created_at, g.version,
	COALESCE(array_agg(m.order_id::text ORDER BY m.position) FILTER (WHERE m.order_id IS NOT NULL), '{}') AS member_ids
FROM delivery_groups g
LEFT JOIN group_members m ON m.group_id = g.id`

const agentSelect = `SELECT a.id, a.shop_id, a.name, a.phone, a.email, COUNT(g.id) AS active_groups
FROM agents a
LEFT JOIN delivery_groups g ON g.agent_id = a.id AND g.status IN ?`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type groupRow struct {
	ID              uuid.UUID      `gorm:"column:id"`
	ShopID          string         `gorm:"column:shop_id"`
	Name            string         `gorm:"column:name"`
	Description     string         `gorm:"column:description"`
	AgentID         uuid.UUID      `gorm:"column:agent_id"`
	Status          int            `gorm:"column:status"`
	DeliveryStarted bool           `gorm:"column:delivery_started"`
	CreatedAt       time.Time      `gorm:"column:created_at"`
	Version         int            `gorm:"column:version"`
	MemberIDs       pq.StringArray `gorm:"column:member_ids"`
}

type agentRow struct {
	ID           uuid.UUID `gorm:"column:id"`
	ShopID       string    `gorm:"column:shop_id"`
	Name         string    `gorm:"column:name"`
	Phone        string    `gorm:"column:phone"`
	Email        string    `gorm:"column:email"`
	ActiveGroups int       `gorm:"column:active_groups"`
}

// ReadModel implements queries.GroupReader and queries.AgentReader.
type ReadModel struct {
	db *gorm.DB
}

func NewReadModel(db *gorm.DB) *ReadModel {
	return &ReadModel{db: db}
}

func (r *ReadModel) GroupByID(ctx context.Context, id kernel.UUID) (queries.GroupView, error) {
	var rows []groupRow
	err := r.db.WithContext(ctx).
		Raw(groupSelect+"\nWHERE g.id = ?\nGROUP BY g.id", id.Bytes()).
		Scan(&rows).Error
	if err != nil {
		return queries.GroupView{}, err
	}
	if len(rows) == 0 {
		return queries.GroupView{}, errs.NewObjectNotFoundError("groupId", id)
	}
	return rows[0].toView()
}

func (r *ReadModel) ListGroups(ctx context.Context, filter queries.GroupFilter) ([]queries.GroupView, int, error) {
	where, args := groupConditions(filter)
	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Raw("SELECT COUNT(*) FROM delivery_groups g"+where, args...).Scan(&total).Error; err != nil {
		return nil, 0, err
	}

	query := groupSelect + where + "\nGROUP BY g.id\nORDER BY g.created_at, g.id"
	if filter.Limit > 0 {
		query += "\nLIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	var rows []groupRow
	if err := db.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	views := make([]queries.GroupView, 0, len(rows))
	for _, row := range rows {
		view, err := row.toView()
		if err != nil {
			return nil, 0, err
		}
		views = append(views, view)
	}
	return views, int(total), nil
}

func (r *ReadModel) ListAgents(ctx context.Context, shopID kernel.ShopID) ([]queries.AgentView, error) {
	query := agentSelect
	args := []any{grouprepo.ActiveStatuses()}
	if shopID != "" {
		query += "\nWHERE a.shop_id = ?"
		args = append(args, shopID.String())
	}
	query += "\nGROUP BY a.id\nORDER BY a.name, a.id"

	var rows []agentRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	views := make([]queries.AgentView, 0, len(rows))
	for _, row := range rows {
		id, err := kernel.UUIDFromBytes(row.ID[:])
		if err != nil {
			return nil, err
		}
		views = append(views, queries.AgentView{
			ID:               id,
			ShopID:           kernel.ShopID(row.ShopID),
			Name:             row.Name,
			Phone:            row.Phone,
			Email:            row.Email,
			ActiveGroupCount: row.ActiveGroups,
		})
	}
	return views, nil
}

func groupConditions(filter queries.GroupFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.ShopID != "" {
		conds = append(conds, "g.shop_id = ?")
		args = append(args, filter.ShopID.String())
	}
	if filter.AgentID != nil {
		conds = append(conds, "g.agent_id = ?")
		args = append(args, filter.AgentID.Bytes())
	}
	if !filter.IncludeStarted {
		conds = append(conds, "g.delivery_started = false")
	}
	if filter.Name != "" {
		conds = append(conds, "g.name ILIKE ?")
		args = append(args, "%"+likeEscaper.Replace(filter.Name)+"%")
	}

	if len(conds) == 0 {
		return "", args
	}
	return "\nWHERE " + strings.Join(conds, " AND "), args
}

func (r groupRow) toView() (queries.GroupView, error) {
	id, err := kernel.UUIDFromBytes(r.ID[:])
	if err != nil {
		return queries.GroupView{}, err
	}
	agentID, err := kernel.UUIDFromBytes(r.AgentID[:])
	if err != nil {
		return queries.GroupView{}, err
	}

	members := make([]kernel.UUID, 0, len(r.MemberIDs))
	for _, raw := range r.MemberIDs {
		orderID, parseErr := kernel.UUIDFromString(raw)
		if parseErr != nil {
			return queries.GroupView{}, parseErr
		}
		members = append(members, orderID)
	}

	return queries.GroupView{
		ID:                 id,
		ShopID:             kernel.ShopID(r.ShopID),
		Name:               r.Name,
		Description:        r.Description,
		AgentID:            agentID,
		Status:             group.Status(r.Status),
		HasDeliveryStarted: r.DeliveryStarted,
		MemberOrderIDs:     members,
		CreatedAt:          r.CreatedAt.UTC(),
		Version:            r.Version,
	}, nil
}
