package http

import (
	"time"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/group"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/outcome"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"
)

// Request bodies. Identifiers arrive as strings so a malformed one is reported with the
// name of the field it came from.
type (
	NewGroup struct {
		Name            string   `json:"name"`
		Description     string   `json:"description"`
		AgentID         string   `json:"agentId"`
		InitialOrderIDs []string `json:"initialOrderIds"`
	}

	NewGroupAssignment struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		AgentID     string   `json:"agentId"`
		OrderIDs    []string `json:"orderIds"`
	}

	StatusChange struct {
		Status string `json:"status"`
	}

	OrderRef struct {
		OrderID string `json:"orderId"`
	}

	OrderRefs struct {
		OrderIDs []string `json:"orderIds"`
	}

	GroupRef struct {
		GroupID string `json:"groupId"`
	}

	OrderRecord struct {
		Kind string `json:"kind"`
	}

	AgentRecord struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
		Email string `json:"email"`
	}
)

// ListGroupsParams are the query parameters of GET /api/v1/groups.
type ListGroupsParams struct {
	AgentID        *string
	Name           *string
	IncludeStarted *bool
	Page           *int
	PageSize       *int
}

// Responses.
type (
	Group struct {
		ID                 kernel.UUID   `json:"id"`
		ShopID             string        `json:"shopId"`
		Name               string        `json:"name"`
		Description        string        `json:"description"`
		AgentID            kernel.UUID   `json:"agentId"`
		Status             string        `json:"status"`
		HasDeliveryStarted bool          `json:"hasDeliveryStarted"`
		MemberOrderIDs     []kernel.UUID `json:"memberOrderIds"`
		CreatedAt          time.Time     `json:"createdAt"`
		Version            int           `json:"version"`
	}

	GroupPage struct {
		Items    []Group `json:"items"`
		Total    int     `json:"total"`
		Page     int     `json:"page"`
		PageSize int     `json:"pageSize"`
	}

	GroupCreated struct {
		Group   Group                     `json:"group"`
		Seeding outcome.AllocationOutcome `json:"seeding"`
	}

	GroupAssigned struct {
		Group   Group                     `json:"group"`
		Outcome outcome.AllocationOutcome `json:"outcome"`
	}

	Placement struct {
		Kind        string       `json:"kind"`
		OrderID     kernel.UUID  `json:"orderId"`
		FromGroupID *kernel.UUID `json:"fromGroupId,omitempty"`
		ToGroupID   kernel.UUID  `json:"toGroupId"`
	}

	Agent struct {
		ID               kernel.UUID `json:"id"`
		ShopID           string      `json:"shopId"`
		Name             string      `json:"name"`
		Phone            string      `json:"phone,omitempty"`
		Email            string      `json:"email,omitempty"`
		ActiveGroupCount int         `json:"activeGroupCount"`
		Eligible         bool        `json:"eligible"`
	}

	Error struct {
		Code    int                        `json:"code"`
		Reason  string                     `json:"reason,omitempty"`
		Message string                     `json:"message"`
		Outcome *outcome.AllocationOutcome `json:"outcome,omitempty"`
	}
)

func groupFromDomain(g *group.DeliveryGroup) Group {
	return Group{
		ID:                 g.ID(),
		ShopID:             g.ShopID().String(),
		Name:               g.Name(),
		Description:        g.Description(),
		AgentID:            g.AgentID(),
		Status:             g.Status().String(),
		HasDeliveryStarted: g.HasDeliveryStarted(),
		MemberOrderIDs:     nonNilIDs(g.MemberOrderIDs()),
		CreatedAt:          g.CreatedAt(),
		Version:            g.Version(),
	}
}

func groupFromView(v queries.GroupView) Group {
	return Group{
		ID:                 v.ID,
		ShopID:             v.ShopID.String(),
		Name:               v.Name,
		Description:        v.Description,
		AgentID:            v.AgentID,
		Status:             v.Status.String(),
		HasDeliveryStarted: v.HasDeliveryStarted,
		MemberOrderIDs:     nonNilIDs(v.MemberOrderIDs),
		CreatedAt:          v.CreatedAt,
		Version:            v.Version,
	}
}

func nonNilIDs(ids []kernel.UUID) []kernel.UUID {
	if ids == nil {
		return []kernel.UUID{}
	}
	return ids
}

func placementFromDomain(p services.Placement) Placement {
	return Placement{
		Kind:        string(p.Kind),
		OrderID:     p.OrderID,
		FromGroupID: p.From,
		ToGroupID:   p.To,
	}
}

func agentFromView(v queries.AgentView) Agent {
	return Agent{
		ID:               v.ID,
		ShopID:           v.ShopID.String(),
		Name:             v.Name,
		Phone:            v.Phone,
		Email:            v.Email,
		ActiveGroupCount: v.ActiveGroupCount,
		Eligible:         v.Eligible,
	}
}

func parseID(param, raw string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(param, err)
	}
	return id, nil
}

func parseIDs(param string, raw []string) ([]kernel.UUID, error) {
	ids := make([]kernel.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := parseID(param, r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
