package command

import (
	"context"
	"time"

	"github.com/tair/commerce-core/internal/inventory/domain"
	orderdomain "github.com/tair/commerce-core/internal/order/domain"
	"github.com/tair/commerce-core/pkg/logger"
)

// ReserveInventoryCommand places a 24h hold on stock for every item of a
// pending order. The whole order reserves atomically or not at all.
type ReserveInventoryCommand struct {
	OrderID uint `json:"order_id"`
}

type ReserveInventoryHandler struct {
	repo     domain.InventoryRepository
	orders   orderdomain.OrderRepository
	notifier AlertNotifier
}

func NewReserveInventoryHandler(repo domain.InventoryRepository, orders orderdomain.OrderRepository, notifier AlertNotifier) *ReserveInventoryHandler {
	return &ReserveInventoryHandler{repo: repo, orders: orders, notifier: notifier}
}

func (h *ReserveInventoryHandler) Handle(ctx context.Context, cmd ReserveInventoryCommand) ([]domain.InventoryReservation, error) {
	order, err := h.orders.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(domain.ReservationTTL)
	var reservations []domain.InventoryReservation

	err = h.repo.Transact(ctx, func(tx domain.InventoryRepository) error {
		for _, line := range order.Items {
			item, err := tx.FindItemByProductIDForUpdate(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if !item.TrackInventory {
				return domain.ErrNotTracked
			}
			if item.QuantityAvailable < line.Quantity && !item.AllowBackorder {
				return domain.ErrInsufficientStock
			}

			item.QuantityReserved += line.Quantity
			ref := &domain.Reference{Kind: domain.ReferenceOrder, ID: order.ID}
			if _, err := applyAvailableDelta(ctx, tx, item, -line.Quantity,
				domain.TransactionReserved, "reserved for order", "", ref); err != nil {
				return err
			}

			reservation := domain.InventoryReservation{
				InventoryItemID: item.ID,
				OrderID:         &order.ID,
				Quantity:        line.Quantity,
				Status:          domain.ReservationActive,
				ExpiresAt:       expiresAt,
			}
			if err := tx.CreateReservation(ctx, &reservation); err != nil {
				return err
			}
			reservations = append(reservations, reservation)

			if err := evaluateAlerts(ctx, tx, item, h.notifier); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("order_id", order.ID).
		Int("reservations", len(reservations)).
		Msg("Inventory reserved for order")
	return reservations, nil
}
