package command

import (
	"context"
	"errors"

	"github.com/tair/commerce-core/internal/inventory/domain"
)

// MarkDamagedCommand moves stock from available into the damaged count.
type MarkDamagedCommand struct {
	ItemID   uint   `json:"-"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes"`
}

type MarkDamagedHandler struct {
	repo     domain.InventoryRepository
	notifier AlertNotifier
}

func NewMarkDamagedHandler(repo domain.InventoryRepository, notifier AlertNotifier) *MarkDamagedHandler {
	return &MarkDamagedHandler{repo: repo, notifier: notifier}
}

func (h *MarkDamagedHandler) Handle(ctx context.Context, cmd MarkDamagedCommand) (*domain.InventoryTransaction, error) {
	if cmd.Quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}

	var txn *domain.InventoryTransaction
	err := h.repo.Transact(ctx, func(tx domain.InventoryRepository) error {
		item, err := tx.FindItemForUpdate(ctx, cmd.ItemID)
		if err != nil {
			return err
		}

		item.QuantityDamaged += cmd.Quantity
		txn, err = applyAvailableDelta(ctx, tx, item, -cmd.Quantity,
			domain.TransactionDamage, "damaged stock", cmd.Notes, nil)
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
