package command

import (
	"context"
	"time"

	"github.com/tair/commerce-core/internal/inventory/domain"
	"github.com/tair/commerce-core/pkg/logger"
)

// FulfillReservationsCommand converts an order's active holds into sales
// once payment succeeds.
type FulfillReservationsCommand struct {
	OrderID uint `json:"order_id"`
}

type FulfillReservationsHandler struct {
	repo domain.InventoryRepository
}

func NewFulfillReservationsHandler(repo domain.InventoryRepository) *FulfillReservationsHandler {
	return &FulfillReservationsHandler{repo: repo}
}

func (h *FulfillReservationsHandler) Handle(ctx context.Context, cmd FulfillReservationsCommand) (int, error) {
	now := time.Now()
	fulfilled := 0

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

			before := item.QuantityReserved
			item.QuantityReserved -= reservation.Quantity
			if err := tx.SaveItem(ctx, item); err != nil {
				return err
			}

			txn := &domain.InventoryTransaction{
				InventoryItemID: item.ID,
				Type:            domain.TransactionSale,
				Quantity:        -reservation.Quantity,
				QuantityBefore:  before,
				QuantityAfter:   item.QuantityReserved,
				ReferenceType:   domain.ReferenceOrder,
				ReferenceID:     cmd.OrderID,
				Reason:          "order fulfilled",
			}
			if err := tx.CreateTransaction(ctx, txn); err != nil {
				return err
			}

			if err := reservation.Fulfill(now); err != nil {
				return err
			}
			if err := tx.SaveReservation(ctx, reservation); err != nil {
				return err
			}
			fulfilled++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Info(ctx).
		Uint("order_id", cmd.OrderID).
		Int("fulfilled", fulfilled).
		Msg("Reservations fulfilled")
	return fulfilled, nil
}
