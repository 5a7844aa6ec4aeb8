package http

import (
	"log/slog"
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/group"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

var _ ServerInterface = &Server{}

// Handlers groups the use cases the server exposes.
type Handlers struct {
	CreateGroup          commands.CreateGroupCommandHandler
	CreateGroupAndAssign commands.CreateGroupAndAssignCommandHandler
	TransitionStatus     commands.TransitionGroupStatusCommandHandler
	AddOrder             commands.AddOrderToGroupCommandHandler
	BulkAddOrders        commands.BulkAddOrdersToGroupCommandHandler
	ChangeOrderGroup     commands.ChangeOrderGroupCommandHandler
	RegisterOrder        commands.RegisterOrderCommandHandler
	RegisterAgent        commands.RegisterAgentCommandHandler

	GetGroup   queries.GetGroupQueryHandler
	ListGroups queries.ListAvailableGroupsQueryHandler
	ListAgents queries.ListAgentsQueryHandler
}

// Server implements ServerInterface on top of the command and query handlers.
type Server struct {
	handlers Handlers
	logger   *slog.Logger
}

func NewServer(handlers Handlers, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		handlers: handlers,
		logger:   logger.With("component", "http"),
	}
}

// CreateGroup handles POST /api/v1/groups.
func (s *Server) CreateGroup(c echo.Context) error {
	shopID, err := shopFrom(c)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}

	var body NewGroup
	if err = c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	agentID, err := parseID("agentId", body.AgentID)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}
	seeds, err := parseIDs("initialOrderIds", body.InitialOrderIDs)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}

	cmd, err := commands.NewCreateGroupCommand(shopID, body.Name, body.Description, agentID, seeds)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}

	result, err := s.handlers.CreateGroup.Handle(c.Request().Context(), cmd)
	if err != nil {
		if result.Group != nil {
			return s.errorResponse(c, err, &result.Seeding)
		}
		return s.errorResponse(c, err, nil)
	}

	return c.JSON(http.StatusCreated, GroupCreated{
		Group:   groupFromDomain(result.Group),
		Seeding: result.Seeding,
	})
}

// CreateGroupAndAssign handles POST /api/v1/groups/assign.
func (s *Server) CreateGroupAndAssign(c echo.Context) error {
	shopID, err := shopFrom(c)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}

	var body NewGroupAssignment
	if err = c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	agentID, err := parseID("agentId", body.AgentID)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}
	orderIDs, err := parseIDs("orderIds", body.OrderIDs)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}

	cmd, err := commands.NewCreateGroupAndAssignCommand(shopID, body.Name, body.Description, agentID, orderIDs)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}

	result, err := s.handlers.CreateGroupAndAssign.Handle(c.Request().Context(), cmd)
	if err != nil {
		if result.Group != nil {
			return s.errorResponse(c, err, &result.Outcome)
		}
		return s.errorResponse(c, err, nil)
	}

	return c.JSON(http.StatusCreated, GroupAssigned{
		Group:   groupFromDomain(result.Group),
		Outcome: result.Outcome,
	})
}

// ListGroups handles GET /api/v1/groups.
func (s *Server) ListGroups(c echo.Context, params ListGroupsParams) error {
	shopID, err := shopFrom(c)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}

	var agentID *kernel.UUID
	if params.AgentID != nil {
		id, parseErr := parseID("agentId", *params.AgentID)
		if parseErr != nil {
			return s.errorResponse(c, parseErr, nil)
		}
		agentID = &id
	}

	query, err := queries.NewListAvailableGroupsQuery(
		shopID,
		agentID,
		valueOrZero(params.Name),
		valueOrZero(params.IncludeStarted),
		valueOrZero(params.Page),
		valueOrZero(params.PageSize),
	)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}

	page, err := s.handlers.ListGroups.Handle(c.Request().Context(), query)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}

	items := make([]Group, 0, len(page.Items))
	for _, v := range page.Items {
		items = append(items, groupFromView(v))
	}
	return c.JSON(http.StatusOK, GroupPage{
		Items:    items,
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}

// GetGroup handles GET /api/v1/groups/{groupId}.
func (s *Server) GetGroup(c echo.Context, groupID string) error {
	shopID, err := shopFrom(c)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}
	id, err := parseID("groupId", groupID)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}

	query, err := queries.NewGetGroupQuery(shopID, id)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}
	view, err := s.handlers.GetGroup.Handle(c.Request().Context(), query)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}
	return c.JSON(http.StatusOK, groupFromView(view))
}

// TransitionGroupStatus handles POST /api/v1/groups/{groupId}/status.
func (s *Server) TransitionGroupStatus(c echo.Context, groupID string) error {
	shopID, err := shopFrom(c)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}
	id, err := parseID("groupId", groupID)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}

	var body StatusChange
	if err = c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	status, err := group.ParseStatus(body.Status)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}

	cmd, err := commands.NewTransitionGroupStatusCommand(shopID, id, status)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}
	updated, err := s.handlers.TransitionStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}
	return c.JSON(http.StatusOK, groupFromDomain(updated))
}

// AddOrderToGroup handles POST /api/v1/groups/{groupId}/orders.
func (s *Server) AddOrderToGroup(c echo.Context, groupID string) error {
	shopID, err := shopFrom(c)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}
	id, err := parseID("groupId", groupID)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}

	var body OrderRef
	if err = c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	orderID, err := parseID("orderId", body.OrderID)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}

	cmd, err := commands.NewAddOrderToGroupCommand(shopID, id, orderID)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}
	placement, err := s.handlers.AddOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}
	return c.JSON(http.StatusOK, placementFromDomain(placement))
}

// BulkAddOrdersToGroup handles POST /api/v1/groups/{groupId}/orders/bulk.
func (s *Server) BulkAddOrdersToGroup(c echo.Context, groupID string) error {
	shopID, err := shopFrom(c)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}
	id, err := parseID("groupId", groupID)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}

	var body OrderRefs
	if err = c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	orderIDs, err := parseIDs("orderIds", body.OrderIDs)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}

	cmd, err := commands.NewBulkAddOrdersToGroupCommand(shopID, id, orderIDs)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}
	result, err := s.handlers.BulkAddOrders.Handle(c.Request().Context(), cmd)
	if err != nil {
		if result.TotalRequested > 0 {
			return s.errorResponse(c, err, &result)
		}
		return s.errorResponse(c, err, nil)
	}
	return c.JSON(http.StatusOK, result)
}

// ChangeOrderGroup handles PUT /api/v1/orders/{orderId}/group.
func (s *Server) ChangeOrderGroup(c echo.Context, orderID string) error {
	shopID, err := shopFrom(c)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}
	id, err := parseID("orderId", orderID)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}

	var body GroupRef
	if err = c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	groupID, err := parseID("groupId", body.GroupID)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}

	cmd, err := commands.NewChangeOrderGroupCommand(shopID, id, groupID)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}
	placement, err := s.handlers.ChangeOrderGroup.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}
	return c.JSON(http.StatusOK, placementFromDomain(placement))
}

// RegisterOrder handles PUT /api/v1/orders/{orderId}.
func (s *Server) RegisterOrder(c echo.Context, orderID string) error {
	shopID, err := shopFrom(c)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}
	id, err := parseID("orderId", orderID)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}

	var body OrderRecord
	if err = c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	kind, err := order.ParseKind(body.Kind)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}

	cmd, err := commands.NewRegisterOrderCommand(id, shopID, kind)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}
	created, err := s.handlers.RegisterOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}
	return c.NoContent(upsertStatus(created))
}

// ListAgents handles GET /api/v1/agents.
func (s *Server) ListAgents(c echo.Context) error {
	shopID, err := shopFrom(c)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}

	query, err := queries.NewListAgentsQuery(shopID)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}
	views, err := s.handlers.ListAgents.Handle(c.Request().Context(), query)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}

	response := make([]Agent, 0, len(views))
	for _, v := range views {
		response = append(response, agentFromView(v))
	}
	return c.JSON(http.StatusOK, response)
}

// RegisterAgent handles PUT /api/v1/agents/{agentId}.
func (s *Server) RegisterAgent(c echo.Context, agentID string) error {
	shopID, err := shopFrom(c)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}
	id, err := parseID("agentId", agentID)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}

	var body AgentRecord
	if err = c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	cmd, err := commands.NewRegisterAgentCommand(id, shopID, body.Name, body.Phone, body.Email)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}
	created, err := s.handlers.RegisterAgent.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.errorResponse(c, err, nil)
	}
	return c.NoContent(upsertStatus(created))
}

func upsertStatus(created bool) int {
	if created {
		return http.StatusCreated
	}
	return http.StatusOK
}

func valueOrZero[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
