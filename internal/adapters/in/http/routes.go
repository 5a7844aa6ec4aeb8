package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface lists the operations of the OpenAPI document.
type ServerInterface interface {
	// (POST /api/v1/groups)
	CreateGroup(ctx echo.Context) error
	// (GET /api/v1/groups)
	ListGroups(ctx echo.Context, params ListGroupsParams) error
	// (POST /api/v1/groups/assign)
	CreateGroupAndAssign(ctx echo.Context) error
	// (GET /api/v1/groups/{groupId})
	GetGroup(ctx echo.Context, groupID string) error
	// (POST /api/v1/groups/{groupId}/status)
	TransitionGroupStatus(ctx echo.Context, groupID string) error
	// (POST /api/v1/groups/{groupId}/orders)
	AddOrderToGroup(ctx echo.Context, groupID string) error
	// (POST /api/v1/groups/{groupId}/orders/bulk)
	BulkAddOrdersToGroup(ctx echo.Context, groupID string) error
	// (PUT /api/v1/orders/{orderId})
	RegisterOrder(ctx echo.Context, orderID string) error
	// (PUT /api/v1/orders/{orderId}/group)
	ChangeOrderGroup(ctx echo.Context, orderID string) error
	// (GET /api/v1/agents)
	ListAgents(ctx echo.Context) error
	// (PUT /api/v1/agents/{agentId})
	RegisterAgent(ctx echo.Context, agentID string) error
}

// ServerInterfaceWrapper binds path and query parameters before calling the handler.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) CreateGroup(ctx echo.Context) error {
	return w.Handler.CreateGroup(ctx)
}

func (w *ServerInterfaceWrapper) ListGroups(ctx echo.Context) error {
	var params ListGroupsParams
	query := ctx.QueryParams()

	if err := runtime.BindQueryParameter("form", true, false, "agentId", query, &params.AgentID); err != nil {
		return bindError("agentId", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "name", query, &params.Name); err != nil {
		return bindError("name", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "includeStarted", query, &params.IncludeStarted); err != nil {
		return bindError("includeStarted", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "page", query, &params.Page); err != nil {
		return bindError("page", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "pageSize", query, &params.PageSize); err != nil {
		return bindError("pageSize", err)
	}

	return w.Handler.ListGroups(ctx, params)
}

func (w *ServerInterfaceWrapper) CreateGroupAndAssign(ctx echo.Context) error {
	return w.Handler.CreateGroupAndAssign(ctx)
}

func (w *ServerInterfaceWrapper) GetGroup(ctx echo.Context) error {
	groupID, err := bindPathParameter(ctx, "groupId")
	if err != nil {
		return err
	}
	return w.Handler.GetGroup(ctx, groupID)
}

func (w *ServerInterfaceWrapper) TransitionGroupStatus(ctx echo.Context) error {
	groupID, err := bindPathParameter(ctx, "groupId")
	if err != nil {
		return err
	}
	return w.Handler.TransitionGroupStatus(ctx, groupID)
}

func (w *ServerInterfaceWrapper) AddOrderToGroup(ctx echo.Context) error {
	groupID, err := bindPathParameter(ctx, "groupId")
	if err != nil {
		return err
	}
	return w.Handler.AddOrderToGroup(ctx, groupID)
}

func (w *ServerInterfaceWrapper) BulkAddOrdersToGroup(ctx echo.Context) error {
	groupID, err := bindPathParameter(ctx, "groupId")
	if err != nil {
		return err
	}
	return w.Handler.BulkAddOrdersToGroup(ctx, groupID)
}

func (w *ServerInterfaceWrapper) RegisterOrder(ctx echo.Context) error {
	orderID, err := bindPathParameter(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.RegisterOrder(ctx, orderID)
}

func (w *ServerInterfaceWrapper) ChangeOrderGroup(ctx echo.Context) error {
	orderID, err := bindPathParameter(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.ChangeOrderGroup(ctx, orderID)
}

func (w *ServerInterfaceWrapper) ListAgents(ctx echo.Context) error {
	return w.Handler.ListAgents(ctx)
}

func (w *ServerInterfaceWrapper) RegisterAgent(ctx echo.Context) error {
	agentID, err := bindPathParameter(ctx, "agentId")
	if err != nil {
		return err
	}
	return w.Handler.RegisterAgent(ctx, agentID)
}

// EchoRouter is the subset of echo.Echo and echo.Group used to register routes.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds every operation to router. m wraps each operation route only.
func RegisterHandlers(router EchoRouter, si ServerInterface, m ...echo.MiddlewareFunc) {
	w := ServerInterfaceWrapper{Handler: si}

	router.POST("/api/v1/groups", w.CreateGroup, m...)
	router.GET("/api/v1/groups", w.ListGroups, m...)
	router.POST("/api/v1/groups/assign", w.CreateGroupAndAssign, m...)
	router.GET("/api/v1/groups/:groupId", w.GetGroup, m...)
	router.POST("/api/v1/groups/:groupId/status", w.TransitionGroupStatus, m...)
	router.POST("/api/v1/groups/:groupId/orders", w.AddOrderToGroup, m...)
	router.POST("/api/v1/groups/:groupId/orders/bulk", w.BulkAddOrdersToGroup, m...)
	router.PUT("/api/v1/orders/:orderId", w.RegisterOrder, m...)
	router.PUT("/api/v1/orders/:orderId/group", w.ChangeOrderGroup, m...)
	router.GET("/api/v1/agents", w.ListAgents, m...)
	router.PUT("/api/v1/agents/:agentId", w.RegisterAgent, m...)
}

func bindPathParameter(ctx echo.Context, name string) (string, error) {
	var value string
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &value,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", bindError(name, err)
	}
	return value, nil
}

func bindError(name string, err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
}
