package query

import (
	"context"

	"github.com/tair/commerce-core/internal/inventory/domain"
)

type ListAlertsHandler struct {
	repo domain.InventoryRepository
}

func NewListAlertsHandler(repo domain.InventoryRepository) *ListAlertsHandler {
	return &ListAlertsHandler{repo: repo}
}

func (h *ListAlertsHandler) Handle(ctx context.Context, itemID uint, includeResolved bool) ([]domain.InventoryAlert, error) {
	if _, err := h.repo.FindItem(ctx, itemID); err != nil {
		return nil, err
	}
	return h.repo.ListAlerts(ctx, itemID, includeResolved)
}
