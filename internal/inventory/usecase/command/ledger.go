package command

import (
	"context"
	"time"

	"github.com/tair/commerce-core/internal/inventory/domain"
	"github.com/tair/commerce-core/pkg/logger"
)

// AlertNotifier broadcasts newly opened stock alerts. A nil notifier is
// valid; notification failures never roll back the ledger write.
type AlertNotifier interface {
	NotifyStockAlert(ctx context.Context, item *domain.InventoryItem, alert *domain.InventoryAlert) error
}

// applyAvailableDelta moves QuantityAvailable and writes the audit row.
// Must run on a repository bound to a transaction, with the item row locked.
func applyAvailableDelta(
	ctx context.Context,
	tx domain.InventoryRepository,
	item *domain.InventoryItem,
	delta int,
	txnType, reason, notes string,
	ref *domain.Reference,
) (*domain.InventoryTransaction, error) {
	before := item.QuantityAvailable
	after := before + delta
	if after < 0 && !item.AllowBackorder {
		return nil, domain.ErrStockBelowZero
	}

	item.QuantityAvailable = after
	if err := tx.SaveItem(ctx, item); err != nil {
		return nil, err
	}

	txn := &domain.InventoryTransaction{
		InventoryItemID: item.ID,
		Type:            txnType,
		Quantity:        delta,
		QuantityBefore:  before,
		QuantityAfter:   after,
		Reason:          reason,
		Notes:           notes,
	}
	if ref != nil {
		txn.ReferenceType = ref.Kind
		txn.ReferenceID = ref.ID
	}
	if err := tx.CreateTransaction(ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// evaluateAlerts reconciles open alerts with the item's current state:
// crossed thresholds open exactly one unresolved alert per type, recovered
// thresholds resolve whatever is open.
func evaluateAlerts(ctx context.Context, tx domain.InventoryRepository, item *domain.InventoryItem, notifier AlertNotifier) error {
	now := time.Now()

	if item.IsLowStock() {
		if err := ensureAlert(ctx, tx, item, domain.AlertLowStock, *item.ReorderPoint, notifier); err != nil {
			return err
		}
	} else {
		// Also covers items whose reorder point was cleared while an
		// alert was open; the alert must not outlive its threshold.
		if err := tx.ResolveAlerts(ctx, item.ID, domain.AlertLowStock, now); err != nil {
			return err
		}
	}

	if item.IsOutOfStock() {
		if err := ensureAlert(ctx, tx, item, domain.AlertOutOfStock, 0, notifier); err != nil {
			return err
		}
	} else {
		if err := tx.ResolveAlerts(ctx, item.ID, domain.AlertOutOfStock, now); err != nil {
			return err
		}
	}

	return nil
}

// ensureAlert opens an alert of the given type unless one is already open.
func ensureAlert(ctx context.Context, tx domain.InventoryRepository, item *domain.InventoryItem, alertType string, threshold int, notifier AlertNotifier) error {
	existing, err := tx.UnresolvedAlert(ctx, item.ID, alertType)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	alert := &domain.InventoryAlert{
		InventoryItemID: item.ID,
		AlertType:       alertType,
		ThresholdValue:  threshold,
		CurrentValue:    item.QuantityAvailable,
	}
	if err := tx.CreateAlert(ctx, alert); err != nil {
		return err
	}

	logger.Warn(ctx).
		Uint("inventory_item_id", item.ID).
		Str("alert_type", alertType).
		Int("current_value", item.QuantityAvailable).
		Msg("Stock alert opened")

	if notifier != nil {
		if err := notifier.NotifyStockAlert(ctx, item, alert); err != nil {
			logger.Warn(ctx).Err(err).Uint("inventory_item_id", item.ID).Msg("Failed to publish stock alert")
		}
	}
	return nil
}
