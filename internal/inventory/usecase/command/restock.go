package command

import (
	"context"
	"errors"

	"github.com/tair/commerce-core/internal/inventory/domain"
)

// RestockCommand adds received stock to an item.
type RestockCommand struct {
	ItemID   uint   `json:"-"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes"`
}

type RestockHandler struct {
	repo     domain.InventoryRepository
	notifier AlertNotifier
}

func NewRestockHandler(repo domain.InventoryRepository, notifier AlertNotifier) *RestockHandler {
	return &RestockHandler{repo: repo, notifier: notifier}
}

func (h *RestockHandler) Handle(ctx context.Context, cmd RestockCommand) (*domain.InventoryTransaction, error) {
	if cmd.Quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}

	var txn *domain.InventoryTransaction
	err := h.repo.Transact(ctx, func(tx domain.InventoryRepository) error {
		item, err := tx.FindItemForUpdate(ctx, cmd.ItemID)
		if err != nil {
			return err
		}

		txn, err = applyAvailableDelta(ctx, tx, item, cmd.Quantity,
			domain.TransactionRestock, "restock", cmd.Notes, nil)
		if err != nil {
			return err
		}
		return evaluateAlerts(ctx, tx, item, h.notifier)
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}
