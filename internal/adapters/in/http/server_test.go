package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	httpadapter "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/locks"
	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/outcome"
	"dispatch/internal/core/domain/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uowFactory struct{ f *memory.UnitOfWorkFactory }

func (u uowFactory) Create() commands.UoW { return u.f.Create() }

type orderUoWFactory struct{ f *memory.UnitOfWorkFactory }

func (u orderUoWFactory) Create() commands.OrderUoW { return u.f.Create() }

type agentUoWFactory struct{ f *memory.UnitOfWorkFactory }

func (u agentUoWFactory) Create() commands.AgentUoW { return u.f.Create() }

func newTestRouter(t *testing.T, cfg httpadapter.RouterConfig) *echo.Echo {
	t.Helper()

	store := memory.NewStore()
	factory := memory.NewUnitOfWorkFactory(store)
	readModel := memory.NewReadModel(store)
	locker := locks.NewKeyedLocker()
	policy := services.DefaultCapacityPolicy()
	uows := uowFactory{f: factory}

	server := httpadapter.NewServer(httpadapter.Handlers{
		CreateGroup:          commands.NewCreateGroupCommandHandler(uows, locker, policy, nil),
		CreateGroupAndAssign: commands.NewCreateGroupAndAssignCommandHandler(uows, locker, policy, nil),
		TransitionStatus:     commands.NewTransitionGroupStatusCommandHandler(uows, locker, nil),
		AddOrder:             commands.NewAddOrderToGroupCommandHandler(uows, locker, nil),
		BulkAddOrders:        commands.NewBulkAddOrdersToGroupCommandHandler(uows, locker, nil),
		ChangeOrderGroup:     commands.NewChangeOrderGroupCommandHandler(uows, locker, nil),
		RegisterOrder:        commands.NewRegisterOrderCommandHandler(orderUoWFactory{f: factory}, locker, nil),
		RegisterAgent:        commands.NewRegisterAgentCommandHandler(agentUoWFactory{f: factory}),
		GetGroup:             queries.NewGetGroupQueryHandler(readModel),
		ListGroups:           queries.NewListAvailableGroupsQueryHandler(readModel),
		ListAgents:           queries.NewListAgentsQueryHandler(readModel, policy),
	}, nil)

	e, err := httpadapter.NewRouter(server, cfg)
	require.NoError(t, err)
	return e
}

type client struct {
	t    *testing.T
	e    *echo.Echo
	shop string
}

func (c client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, path, &payload)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if c.shop != "" {
		req.Header.Set(httpadapter.HeaderShopID, c.shop)
	}
	rec := httptest.NewRecorder()
	c.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (c client) agent(name string) kernel.UUID {
	c.t.Helper()
	id := kernel.NewUUID()
	rec := c.do(http.MethodPut, "/api/v1/agents/"+id.String(), map[string]string{"name": name})
	require.Equal(c.t, http.StatusCreated, rec.Code, rec.Body.String())
	return id
}

func (c client) order() kernel.UUID {
	c.t.Helper()
	id := kernel.NewUUID()
	rec := c.do(http.MethodPut, "/api/v1/orders/"+id.String(), map[string]string{"kind": "DELIVERY"})
	require.Equal(c.t, http.StatusCreated, rec.Code, rec.Body.String())
	return id
}

func (c client) group(agentID kernel.UUID, seeds ...kernel.UUID) httpadapter.Group {
	c.t.Helper()
	body := map[string]any{"name": "wave", "agentId": agentID.String()}
	if len(seeds) > 0 {
		body["initialOrderIds"] = seeds
	}
	rec := c.do(http.MethodPost, "/api/v1/groups", body)
	require.Equal(c.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[httpadapter.GroupCreated](c.t, rec).Group
}

func (c client) start(groupID kernel.UUID) {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/api/v1/groups/"+groupID.String()+"/status", map[string]string{"status": "IN_PROGRESS"})
	require.Equal(c.t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRegisterRecords_CreatedThenUpdated(t *testing.T) {
	c := client{t: t, e: newTestRouter(t, httpadapter.RouterConfig{}), shop: "shop-1"}
	agentID := c.agent("Ann")

	rec := c.do(http.MethodPut, "/api/v1/agents/"+agentID.String(),
		map[string]string{"name": "Ann Lee", "email": "ann@example.com"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodPut, "/api/v1/agents/"+agentID.String(),
		map[string]string{"name": "Ann", "email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodPut, "/api/v1/orders/"+kernel.NewUUID().String(), map[string]string{"kind": "TELEPORT"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateGroup_WithSeedsAndGet(t *testing.T) {
	c := client{t: t, e: newTestRouter(t, httpadapter.RouterConfig{}), shop: "shop-1"}
	agentID := c.agent("Ann")
	first, second := c.order(), c.order()
	missing := kernel.NewUUID()

	rec := c.do(http.MethodPost, "/api/v1/groups", map[string]any{
		"name":            "north",
		"description":     "morning",
		"agentId":         agentID.String(),
		"initialOrderIds": []kernel.UUID{first, second, missing},
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[httpadapter.GroupCreated](t, rec)
	assert.Equal(t, "READY", created.Group.Status)
	assert.Equal(t, []kernel.UUID{first, second}, created.Group.MemberOrderIDs)
	assert.Equal(t, 3, created.Seeding.TotalRequested)
	assert.Equal(t, 2, created.Seeding.SuccessfullyAdded)
	require.Len(t, created.Seeding.SkippedOrders, 1)
	assert.Equal(t, outcome.ReasonNotFound, created.Seeding.SkippedOrders[0].Reason)

	rec = c.do(http.MethodGet, "/api/v1/groups/"+created.Group.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[httpadapter.Group](t, rec)
	assert.Equal(t, created.Group.ID, got.ID)
	assert.Equal(t, "north", got.Name)
	assert.Equal(t, "morning", got.Description)
	assert.Equal(t, []kernel.UUID{first, second}, got.MemberOrderIDs)

	other := client{t: t, e: c.e, shop: "shop-2"}
	rec = other.do(http.MethodGet, "/api/v1/groups/"+created.Group.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateGroup_AgentAtCapacity(t *testing.T) {
	c := client{t: t, e: newTestRouter(t, httpadapter.RouterConfig{}), shop: "shop-1"}
	agentID := c.agent("Ann")
	for i := 0; i < services.DefaultMaxActiveGroups; i++ {
		c.group(agentID)
	}

	rec := c.do(http.MethodPost, "/api/v1/groups", map[string]any{"name": "sixth", "agentId": agentID.String()})

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decode[httpadapter.Error](t, rec)
	assert.Equal(t, "AgentAtCapacity", body.Reason)

	rec = c.do(http.MethodGet, "/api/v1/agents", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	agents := decode[[]httpadapter.Agent](t, rec)
	require.Len(t, agents, 1)
	assert.Equal(t, services.DefaultMaxActiveGroups, agents[0].ActiveGroupCount)
	assert.False(t, agents[0].Eligible)
}

func TestAddOrder_StartedGroupRefuses(t *testing.T) {
	c := client{t: t, e: newTestRouter(t, httpadapter.RouterConfig{}), shop: "shop-1"}
	agentID := c.agent("Ann")
	g := c.group(agentID)
	orderID := c.order()

	rec := c.do(http.MethodPost, "/api/v1/groups/"+g.ID.String()+"/orders", map[string]string{"orderId": orderID.String()})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	placement := decode[httpadapter.Placement](t, rec)
	assert.Equal(t, "ATTACH", placement.Kind)
	assert.Equal(t, g.ID, placement.ToGroupID)
	assert.Nil(t, placement.FromGroupID)

	rec = c.do(http.MethodPost, "/api/v1/groups/"+g.ID.String()+"/orders", map[string]string{"orderId": orderID.String()})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "AlreadyMember", decode[httpadapter.Error](t, rec).Reason)

	c.start(g.ID)
	rec = c.do(http.MethodPost, "/api/v1/groups/"+g.ID.String()+"/orders", map[string]string{"orderId": c.order().String()})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "DeliveryAlreadyStarted", decode[httpadapter.Error](t, rec).Reason)
}

func TestBulkAdd_SkipsOrderOfStartedGroup(t *testing.T) {
	c := client{t: t, e: newTestRouter(t, httpadapter.RouterConfig{}), shop: "shop-1"}
	agentID := c.agent("Ann")
	one, two, three := c.order(), c.order(), c.order()
	started := c.group(agentID, two)
	c.start(started.ID)
	target := c.group(agentID)

	rec := c.do(http.MethodPost, "/api/v1/groups/"+target.ID.String()+"/orders/bulk",
		map[string]any{"orderIds": []kernel.UUID{one, two, three}})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := decode[outcome.AllocationOutcome](t, rec)
	assert.Equal(t, 3, result.TotalRequested)
	assert.Equal(t, 2, result.SuccessfullyAdded)
	require.Len(t, result.SkippedOrders, 1)
	assert.Equal(t, two, result.SkippedOrders[0].OrderID)
	assert.Equal(t, outcome.ReasonDeliveryAlreadyStarted, result.SkippedOrders[0].Reason)
}

func TestChangeOrderGroup(t *testing.T) {
	c := client{t: t, e: newTestRouter(t, httpadapter.RouterConfig{}), shop: "shop-1"}
	agentID := c.agent("Ann")
	orderID := c.order()
	source := c.group(agentID, orderID)
	target := c.group(agentID)

	rec := c.do(http.MethodPut, "/api/v1/orders/"+orderID.String()+"/group", map[string]string{"groupId": target.ID.String()})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	placement := decode[httpadapter.Placement](t, rec)
	assert.Equal(t, "MOVE", placement.Kind)
	require.NotNil(t, placement.FromGroupID)
	assert.Equal(t, source.ID, *placement.FromGroupID)

	c.start(target.ID)
	rec = c.do(http.MethodPut, "/api/v1/orders/"+orderID.String()+"/group", map[string]string{"groupId": source.ID.String()})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "DeliveryAlreadyStarted", decode[httpadapter.Error](t, rec).Reason)
}

func TestTransitionGroupStatus_InvalidTransition(t *testing.T) {
	c := client{t: t, e: newTestRouter(t, httpadapter.RouterConfig{}), shop: "shop-1"}
	g := c.group(c.agent("Ann"))

	rec := c.do(http.MethodPost, "/api/v1/groups/"+g.ID.String()+"/status", map[string]string{"status": "COMPLETED"})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "InvalidTransition", decode[httpadapter.Error](t, rec).Reason)
}

func TestCreateGroupAndAssign(t *testing.T) {
	c := client{t: t, e: newTestRouter(t, httpadapter.RouterConfig{}), shop: "shop-1"}
	agentID := c.agent("Ann")
	orderID := c.order()
	previous := c.group(agentID, orderID)

	rec := c.do(http.MethodPost, "/api/v1/groups/assign", map[string]any{
		"name":     "merged",
		"agentId":  agentID.String(),
		"orderIds": []kernel.UUID{orderID},
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assigned := decode[httpadapter.GroupAssigned](t, rec)
	assert.Equal(t, []kernel.UUID{orderID}, assigned.Group.MemberOrderIDs)
	assert.Equal(t, 1, assigned.Outcome.SuccessfullyAdded)

	rec = c.do(http.MethodGet, "/api/v1/groups/"+previous.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[httpadapter.Group](t, rec).MemberOrderIDs)
}

func TestListGroups_FiltersAndPages(t *testing.T) {
	c := client{t: t, e: newTestRouter(t, httpadapter.RouterConfig{}), shop: "shop-1"}
	ann, bob := c.agent("Ann"), c.agent("Bob")
	started := c.group(ann)
	c.group(ann)
	c.group(bob)
	c.start(started.ID)

	rec := c.do(http.MethodGet, "/api/v1/groups", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page := decode[httpadapter.GroupPage](t, rec)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, queries.DefaultPageSize, page.PageSize)

	rec = c.do(http.MethodGet, "/api/v1/groups?includeStarted=true&agentId="+ann.String()+"&pageSize=1&page=2", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page = decode[httpadapter.GroupPage](t, rec)
	assert.Equal(t, 2, page.Total)
	assert.Len(t, page.Items, 1)

	rec = c.do(http.MethodGet, "/api/v1/groups?pageSize=500", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestsWithoutShopAreRejected(t *testing.T) {
	c := client{t: t, e: newTestRouter(t, httpadapter.RouterConfig{})}

	rec := c.do(http.MethodGet, "/api/v1/agents", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMalformedIdentifiers(t *testing.T) {
	c := client{t: t, e: newTestRouter(t, httpadapter.RouterConfig{}), shop: "shop-1"}

	rec := c.do(http.MethodGet, "/api/v1/groups/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodPost, "/api/v1/groups", map[string]any{"name": "x", "agentId": "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimitPerShop(t *testing.T) {
	e := newTestRouter(t, httpadapter.RouterConfig{RateLimitRPS: 0.001, RateLimitBurst: 1})
	shop1 := client{t: t, e: e, shop: "shop-1"}
	shop2 := client{t: t, e: e, shop: "shop-2"}

	assert.Equal(t, http.StatusOK, shop1.do(http.MethodGet, "/api/v1/agents", nil).Code)

	rec := shop1.do(http.MethodGet, "/api/v1/agents", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, shop2.do(http.MethodGet, "/api/v1/agents", nil).Code)
}

func TestAmbientEndpoints(t *testing.T) {
	c := client{t: t, e: newTestRouter(t, httpadapter.RouterConfig{}), shop: "shop-1"}
	g := c.group(c.agent("Ann"))
	require.NotEmpty(t, g.ID)

	rec := c.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())

	rec = c.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "dispatch_groups_created_total")

	rec = c.do(http.MethodGet, "/swagger/doc.json", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/v1/groups")
}
