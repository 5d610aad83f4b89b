package command

import (
	"context"
	"errors"

	"github.com/tair/commerce-core/internal/inventory/domain"
)

// CreateItemCommand starts tracking stock for a product.
type CreateItemCommand struct {
	ProductID       uint `json:"product_id"`
	InitialQuantity int  `json:"initial_quantity"`
	ReorderPoint    *int `json:"reorder_point"`
	ReorderQuantity *int `json:"reorder_quantity"`
	TrackInventory  bool `json:"track_inventory"`
	AllowBackorder  bool `json:"allow_backorder"`
}

type CreateItemHandler struct {
	repo     domain.InventoryRepository
	notifier AlertNotifier
}

func NewCreateItemHandler(repo domain.InventoryRepository, notifier AlertNotifier) *CreateItemHandler {
	return &CreateItemHandler{repo: repo, notifier: notifier}
}

func (h *CreateItemHandler) Handle(ctx context.Context, cmd CreateItemCommand) (*domain.InventoryItem, error) {
	if cmd.ProductID == 0 {
		return nil, errors.New("product_id is required")
	}
	if cmd.InitialQuantity < 0 {
		return nil, errors.New("initial_quantity cannot be negative")
	}

	item := &domain.InventoryItem{
		ProductID:       cmd.ProductID,
		ReorderPoint:    cmd.ReorderPoint,
		ReorderQuantity: cmd.ReorderQuantity,
		TrackInventory:  cmd.TrackInventory,
		AllowBackorder:  cmd.AllowBackorder,
	}

	err := h.repo.Transact(ctx, func(tx domain.InventoryRepository) error {
		if err := tx.CreateItem(ctx, item); err != nil {
			return err
		}
		if cmd.InitialQuantity > 0 {
			if _, err := applyAvailableDelta(ctx, tx, item, cmd.InitialQuantity,
				domain.TransactionRestock, "initial stock", "", nil); err != nil {
				return err
			}
		}
		return evaluateAlerts(ctx, tx, item, h.notifier)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}
