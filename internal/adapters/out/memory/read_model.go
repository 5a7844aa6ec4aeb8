package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ReadModel serves queries straight from committed state.
type ReadModel struct {
	store *Store
}

func NewReadModel(store *Store) *ReadModel {
	return &ReadModel{store: store}
}

func (r *ReadModel) GroupByID(ctx context.Context, id kernel.UUID) (queries.GroupView, error) {
	if err := ctx.Err(); err != nil {
		return queries.GroupView{}, err
	}

	r.store.mu.RLock()
	rec, ok := r.store.groups[id]
	r.store.mu.RUnlock()

	if !ok {
		return queries.GroupView{}, errs.NewObjectNotFoundError("groupId", id)
	}
	return rec.toView(), nil
}

func (r *ReadModel) ListGroups(ctx context.Context, filter queries.GroupFilter) ([]queries.GroupView, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	name := strings.ToLower(filter.Name)
	matched := make([]groupRecord, 0)
	for _, g := range r.store.snapshotGroups() {
		switch {
		case filter.ShopID != "" && g.shopID != filter.ShopID:
			continue
		case filter.AgentID != nil && !g.agentID.IsEqual(*filter.AgentID):
			continue
		case !filter.IncludeStarted && g.deliveryStarted:
			continue
		case name != "" && !strings.Contains(strings.ToLower(g.name), name):
			continue
		}
		matched = append(matched, g)
	}

	slices.SortFunc(matched, func(a, b groupRecord) int {
		if c := a.createdAt.Compare(b.createdAt); c != 0 {
			return c
		}
		return cmp.Compare(a.id.String(), b.id.String())
	})

	total := len(matched)
	start := min(filter.Offset, total)
	end := total
	if filter.Limit > 0 {
		end = min(start+filter.Limit, total)
	}

	views := make([]queries.GroupView, 0, end-start)
	for _, g := range matched[start:end] {
		views = append(views, g.toView())
	}
	return views, total, nil
}

func (r *ReadModel) ListAgents(ctx context.Context, shopID kernel.ShopID) ([]queries.AgentView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	agents := r.store.snapshotAgents()
	views := make([]queries.AgentView, 0, len(agents))
	for _, a := range agents {
		if shopID != "" && a.shopID != shopID {
			continue
		}
		views = append(views, queries.AgentView{
			ID:               a.id,
			ShopID:           a.shopID,
			Name:             a.name,
			Phone:            a.phone,
			Email:            a.email,
			ActiveGroupCount: r.store.countActiveGroups(a.id),
		})
	}

	slices.SortFunc(views, func(a, b queries.AgentView) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
	return views, nil
}

func (r groupRecord) toView() queries.GroupView {
	return queries.GroupView{
		ID:                 r.id,
		ShopID:             r.shopID,
		Name:               r.name,
		Description:        r.description,
		AgentID:            r.agentID,
		Status:             r.status,
		HasDeliveryStarted: r.deliveryStarted,
		MemberOrderIDs:     slices.Clone(r.members),
		CreatedAt:          r.createdAt,
		Version:            r.version,
	}
}
