package command

import (
	"context"
	"errors"

	"github.com/tair/commerce-core/internal/inventory/domain"
	"github.com/tair/commerce-core/pkg/logger"
)

// AdjustStockCommand applies a signed manual correction to available stock.
type AdjustStockCommand struct {
	ItemID   uint   `json:"-"`
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason"`
	Notes    string `json:"notes"`
}

type AdjustStockHandler struct {
	repo     domain.InventoryRepository
	notifier AlertNotifier
}

func NewAdjustStockHandler(repo domain.InventoryRepository, notifier AlertNotifier) *AdjustStockHandler {
	return &AdjustStockHandler{repo: repo, notifier: notifier}
}

func (h *AdjustStockHandler) Handle(ctx context.Context, cmd AdjustStockCommand) (*domain.InventoryTransaction, error) {
	if cmd.Quantity == 0 {
		return nil, errors.New("quantity cannot be zero")
	}

	var txn *domain.InventoryTransaction
	err := h.repo.Transact(ctx, func(tx domain.InventoryRepository) error {
		item, err := tx.FindItemForUpdate(ctx, cmd.ItemID)
		if err != nil {
			return err
		}

		txn, err = applyAvailableDelta(ctx, tx, item, cmd.Quantity,
			domain.TransactionAdjustment, cmd.Reason, cmd.Notes, nil)
		if err != nil {
			return err
		}
		return evaluateAlerts(ctx, tx, item, h.notifier)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("inventory_item_id", cmd.ItemID).
		Int("quantity", cmd.Quantity).
		Str("reason", cmd.Reason).
		Msg("Stock adjusted")
	return txn, nil
}
