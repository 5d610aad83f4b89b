package command

import (
	"context"
	"errors"

	"github.com/tair/commerce-core/internal/inventory/domain"
)

// RecordReturnCommand puts stock returned by a customer back on the shelf.
type RecordReturnCommand struct {
	ItemID   uint   `json:"-"`
	Quantity int    `json:"quantity"`
	OrderID  *uint  `json:"order_id"`
	Notes    string `json:"notes"`
}

type RecordReturnHandler struct {
	repo     domain.InventoryRepository
	notifier AlertNotifier
}

func NewRecordReturnHandler(repo domain.InventoryRepository, notifier AlertNotifier) *RecordReturnHandler {
	return &RecordReturnHandler{repo: repo, notifier: notifier}
}

func (h *RecordReturnHandler) Handle(ctx context.Context, cmd RecordReturnCommand) (*domain.InventoryTransaction, error) {
	if cmd.Quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}

	var ref *domain.Reference
	if cmd.OrderID != nil {
		ref = &domain.Reference{Kind: domain.ReferenceOrder, ID: *cmd.OrderID}
	}

	var txn *domain.InventoryTransaction
	err := h.repo.Transact(ctx, func(tx domain.InventoryRepository) error {
		item, err := tx.FindItemForUpdate(ctx, cmd.ItemID)
		if err != nil {
			return err
		}

		txn, err = applyAvailableDelta(ctx, tx, item, cmd.Quantity,
			domain.TransactionReturn, "customer return", cmd.Notes, ref)
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
