package command

import (
	"context"

	"github.com/tair/commerce-core/internal/inventory/domain"
	"github.com/tair/commerce-core/pkg/logger"
)

// ReleaseReservationsCommand cancels an order's active holds and puts the
// stock back, used when an order is cancelled before fulfillment.
type ReleaseReservationsCommand struct {
	OrderID uint `json:"order_id"`
}

type ReleaseReservationsHandler struct {
	repo     domain.InventoryRepository
	notifier AlertNotifier
}

func NewReleaseReservationsHandler(repo domain.InventoryRepository, notifier AlertNotifier) *ReleaseReservationsHandler {
	return &ReleaseReservationsHandler{repo: repo, notifier: notifier}
}

func (h *ReleaseReservationsHandler) Handle(ctx context.Context, cmd ReleaseReservationsCommand) (int, error) {
	released := 0

	err := h.repo.Transact(ctx, func(tx domain.InventoryRepository) error {
		reservations, err := tx.ActiveReservationsForOrder(ctx, cmd.OrderID)
		if err != nil {
			return err
		}

		for i := range reservations {
			reservation, err := tx.FindReservationForUpdate(ctx, reservations[i].ID)
			if err != nil {
				return err
			}
			if !reservation.IsActive() {
				continue
			}

			item, err := tx.FindItemForUpdate(ctx, reservation.InventoryItemID)
			if err != nil {
				return err
			}
			if !item.TrackInventory {
				continue
			}

			if err := releaseHold(ctx, tx, item, reservation, "order cancelled", h.notifier); err != nil {
				return err
			}
			if err := reservation.Cancel(); err != nil {
				return err
			}
			if err := tx.SaveReservation(ctx, reservation); err != nil {
				return err
			}
			released++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Info(ctx).
		Uint("order_id", cmd.OrderID).
		Int("released", released).
		Msg("Reservations released")
	return released, nil
}

// releaseHold returns a reservation's quantity from reserved to available
// and writes the audit row. Caller transitions the reservation itself.
func releaseHold(ctx context.Context, tx domain.InventoryRepository, item *domain.InventoryItem, reservation *domain.InventoryReservation, reason string, notifier AlertNotifier) error {
	item.QuantityReserved -= reservation.Quantity

	var ref *domain.Reference
	if reservation.OrderID != nil {
		ref = &domain.Reference{Kind: domain.ReferenceOrder, ID: *reservation.OrderID}
	}
	if _, err := applyAvailableDelta(ctx, tx, item, reservation.Quantity,
		domain.TransactionReleased, reason, "", ref); err != nil {
		return err
	}
	return evaluateAlerts(ctx, tx, item, notifier)
}
