package queries

import (
	"context"

	"dispatch/internal/pkg/errs"
)

// GetGroupQueryHandler returns a group snapshot. Groups of other shops are reported
// as not found.
type GetGroupQueryHandler struct {
	reader GroupReader
}

func NewGetGroupQueryHandler(reader GroupReader) GetGroupQueryHandler {
	return GetGroupQueryHandler{reader: reader}
}

func (h GetGroupQueryHandler) Handle(ctx context.Context, query GetGroupQuery) (GroupView, error) {
	if err := query.Validate(); err != nil {
		return GroupView{}, err
	}

	view, err := h.reader.GroupByID(ctx, query.GroupID())
	if err != nil {
		return GroupView{}, err
	}
	if view.ShopID != query.ShopID() {
		return GroupView{}, errs.NewObjectNotFoundError("groupId", query.GroupID())
	}
	return view, nil
}
