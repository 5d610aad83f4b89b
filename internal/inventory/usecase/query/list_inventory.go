package query

import (
	"context"

	"github.com/tair/commerce-core/internal/inventory/domain"
)

const defaultPageSize = 50

type ListInventoryHandler struct {
	repo domain.InventoryRepository
}

func NewListInventoryHandler(repo domain.InventoryRepository) *ListInventoryHandler {
	return &ListInventoryHandler{repo: repo}
}

func (h *ListInventoryHandler) Handle(ctx context.Context, limit, offset int) ([]InventoryStatus, error) {
	if limit <= 0 || limit > 200 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	items, err := h.repo.ListItems(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	statuses := make([]InventoryStatus, 0, len(items))
	for i := range items {
		statuses = append(statuses, *statusOf(&items[i]))
	}
	return statuses, nil
}
