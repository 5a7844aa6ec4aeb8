package queries

import (
	"context"
)

// GroupPage is one page of a group listing.
type GroupPage struct {
	Items    []GroupView
	Total    int
	Page     int
	PageSize int
}

type ListAvailableGroupsQueryHandler struct {
	reader GroupReader
}

func NewListAvailableGroupsQueryHandler(reader GroupReader) ListAvailableGroupsQueryHandler {
	return ListAvailableGroupsQueryHandler{reader: reader}
}

// Handle returns an empty, non-nil Items slice when nothing matches.
func (h ListAvailableGroupsQueryHandler) Handle(
	ctx context.Context,
	query ListAvailableGroupsQuery,
) (GroupPage, error) {
	if err := query.Validate(); err != nil {
		return GroupPage{}, err
	}

	items, total, err := h.reader.ListGroups(ctx, query.Filter())
	if err != nil {
		return GroupPage{}, err
	}
	if items == nil {
		items = make([]GroupView, 0)
	}

	return GroupPage{
		Items:    items,
		Total:    total,
		Page:     query.Page(),
		PageSize: query.PageSize(),
	}, nil
}
