package queries_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewListAvailableGroupsQuery_Defaults(t *testing.T) {
	query, err := queries.NewListAvailableGroupsQuery("shop-1", nil, "  north ", false, 0, 0)

	require.NoError(t, err)
	assert.Equal(t, 1, query.Page())
	assert.Equal(t, queries.DefaultPageSize, query.PageSize())
	assert.Equal(t, queries.GroupFilter{
		ShopID: "shop-1",
		Name:   "north",
		Offset: 0,
		Limit:  queries.DefaultPageSize,
	}, query.Filter())
}

func TestNewListAvailableGroupsQuery_Pagination(t *testing.T) {
	agentID := kernel.NewUUID()

	query, err := queries.NewListAvailableGroupsQuery("shop-1", &agentID, "", true, 3, 10)

	require.NoError(t, err)
	filter := query.Filter()
	assert.Equal(t, 20, filter.Offset)
	assert.Equal(t, 10, filter.Limit)
	assert.True(t, filter.IncludeStarted)
	require.NotNil(t, filter.AgentID)
	assert.True(t, filter.AgentID.IsEqual(agentID))
}

func TestNewListAvailableGroupsQuery_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		pageSize int
	}{
		{"negative page", -1, 10},
		{"negative page size", 1, -5},
		{"page size above max", 1, queries.MaxPageSize + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := queries.NewListAvailableGroupsQuery("shop-1", nil, "", false, tt.page, tt.pageSize)
			require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		})
	}

	_, err := queries.NewListAvailableGroupsQuery("shop-1", &kernel.UUID{}, "", false, 1, 10)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestListAvailableGroupsQueryHandler_Handle(t *testing.T) {
	query, _ := queries.NewListAvailableGroupsQuery("shop-1", nil, "", false, 2, 5)
	items := []queries.GroupView{{ID: kernel.NewUUID(), ShopID: "shop-1"}}

	reader := new(MockGroupReader)
	reader.On("ListGroups", t.Context(), query.Filter()).Return(items, 6, nil).Once()

	page, err := queries.NewListAvailableGroupsQueryHandler(reader).Handle(t.Context(), query)

	require.NoError(t, err)
	assert.Equal(t, items, page.Items)
	assert.Equal(t, 6, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 5, page.PageSize)
	reader.AssertExpectations(t)
}

func TestListAvailableGroupsQueryHandler_Handle_EmptyResult(t *testing.T) {
	query, _ := queries.NewListAvailableGroupsQuery("shop-1", nil, "", false, 1, 10)
	reader := new(MockGroupReader)
	reader.On("ListGroups", mock.Anything, mock.Anything).Return(nil, 0, nil).Once()

	page, err := queries.NewListAvailableGroupsQueryHandler(reader).Handle(t.Context(), query)

	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}
