package readmodel_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/readmodel"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/group"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var groupColumns = []string{
	"id", "shop_id", "name", "description", "agent_id", "status",
	"delivery_started", "created_at", "version", "member_ids",
}

func newReadModel(t *testing.T) (*readmodel.ReadModel, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return readmodel.NewReadModel(db), mock
}

func TestGroupByID_MapsRowAndMembers(t *testing.T) {
	rm, mock := newReadModel(t)
	id, agentID := kernel.NewUUID(), kernel.NewUUID()
	first, second := kernel.NewUUID(), kernel.NewUUID()
	createdAt := time.Date(2026, 5, 4, 8, 30, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM delivery_groups g")).
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows(groupColumns).AddRow(
			id.String(), "shop-1", "north", "first wave", agentID.String(), int(group.InProgress),
			true, createdAt, 3, "{"+first.String()+","+second.String()+"}",
		))

	view, err := rm.GroupByID(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, id, view.ID)
	assert.Equal(t, kernel.ShopID("shop-1"), view.ShopID)
	assert.Equal(t, agentID, view.AgentID)
	assert.Equal(t, group.InProgress, view.Status)
	assert.True(t, view.HasDeliveryStarted)
	assert.Equal(t, []kernel.UUID{first, second}, view.MemberOrderIDs)
	assert.Equal(t, 3, view.Version)
	assert.True(t, createdAt.Equal(view.CreatedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupByID_NoRows_ReturnsNotFound(t *testing.T) {
	rm, mock := newReadModel(t)
	id := kernel.NewUUID()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE g.id = $1")).
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows(groupColumns))

	_, err := rm.GroupByID(context.Background(), id)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListGroups_AppliesFilterAndPage(t *testing.T) {
	rm, mock := newReadModel(t)
	agentID := kernel.NewUUID()
	id := kernel.NewUUID()

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM delivery_groups g\nWHERE g.shop_id = $1 AND g.agent_id = $2 AND g.delivery_started = false AND g.name ILIKE $3")).
		WithArgs("shop-1", agentID.String(), `%50\%%`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY g.created_at, g.id\nLIMIT $4 OFFSET $5")).
		WithArgs("shop-1", agentID.String(), `%50\%%`, 5, 5).
		WillReturnRows(sqlmock.NewRows(groupColumns).AddRow(
			id.String(), "shop-1", "50% off", "", agentID.String(), int(group.Ready),
			false, time.Now(), 0, "{}",
		))

	views, total, err := rm.ListGroups(context.Background(), queries.GroupFilter{
		ShopID:  "shop-1",
		AgentID: &agentID,
		Name:    "50%",
		Offset:  5,
		Limit:   5,
	})

	require.NoError(t, err)
	assert.Equal(t, 7, total)
	require.Len(t, views, 1)
	assert.Equal(t, id, views[0].ID)
	assert.Empty(t, views[0].MemberOrderIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListGroups_CountFailure(t *testing.T) {
	rm, mock := newReadModel(t)
	boom := errors.New("connection reset")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).WillReturnError(boom)

	_, _, err := rm.ListGroups(context.Background(), queries.GroupFilter{IncludeStarted: true})

	require.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAgents_ScopesByShop(t *testing.T) {
	rm, mock := newReadModel(t)
	ann, bob := kernel.NewUUID(), kernel.NewUUID()

	mock.ExpectQuery(regexp.QuoteMeta("g.status IN ($1,$2)\nWHERE a.shop_id = $3")).
		WithArgs(int(group.Ready), int(group.InProgress), "shop-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "shop_id", "name", "phone", "email", "active_groups"}).
			AddRow(ann.String(), "shop-1", "Ann", "", "ann@example.com", 5).
			AddRow(bob.String(), "shop-1", "Bob", "+1 555", "", 0))

	views, err := rm.ListAgents(context.Background(), "shop-1")

	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, ann, views[0].ID)
	assert.Equal(t, 5, views[0].ActiveGroupCount)
	assert.Equal(t, "ann@example.com", views[0].Email)
	assert.Equal(t, bob, views[1].ID)
	assert.Equal(t, "+1 555", views[1].Phone)
	assert.NoError(t, mock.ExpectationsWereMet())
}
