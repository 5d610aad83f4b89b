package query

import (
	"context"

	"github.com/tair/commerce-core/internal/inventory/domain"
)

// InventoryStatus is the read model for a single item: raw counters plus
// the derived stock flags.
type InventoryStatus struct {
	Item           *domain.InventoryItem `json:"item"`
	QuantityOnHand int                   `json:"quantity_on_hand"`
	IsLowStock     bool                  `json:"is_low_stock"`
	IsOutOfStock   bool                  `json:"is_out_of_stock"`
}

type GetInventoryHandler struct {
	repo domain.InventoryRepository
}

func NewGetInventoryHandler(repo domain.InventoryRepository) *GetInventoryHandler {
	return &GetInventoryHandler{repo: repo}
}

func (h *GetInventoryHandler) Handle(ctx context.Context, id uint) (*InventoryStatus, error) {
	item, err := h.repo.FindItem(ctx, id)
	if err != nil {
		return nil, err
	}
	return statusOf(item), nil
}

// HandleByProduct looks the item up by its product instead of its own id.
func (h *GetInventoryHandler) HandleByProduct(ctx context.Context, productID uint) (*InventoryStatus, error) {
	item, err := h.repo.FindItemByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return statusOf(item), nil
}

func statusOf(item *domain.InventoryItem) *InventoryStatus {
	return &InventoryStatus{
		Item:           item,
		QuantityOnHand: item.QuantityOnHand(),
		IsLowStock:     item.IsLowStock(),
		IsOutOfStock:   item.IsOutOfStock(),
	}
}
