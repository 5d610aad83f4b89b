package command

import (
	"context"
	"time"

	"github.com/tair/commerce-core/internal/inventory/domain"
	"github.com/tair/commerce-core/pkg/logger"
)

// ReleaseExpiredHandler sweeps reservations whose deadline has passed and
// returns their stock. Each reservation is processed in its own transaction
// with a locked re-check, so the sweep is idempotent and safe to run
// concurrently: a reservation already expired by another sweep is skipped.
type ReleaseExpiredHandler struct {
	repo     domain.InventoryRepository
	notifier AlertNotifier
}

func NewReleaseExpiredHandler(repo domain.InventoryRepository, notifier AlertNotifier) *ReleaseExpiredHandler {
	return &ReleaseExpiredHandler{repo: repo, notifier: notifier}
}

func (h *ReleaseExpiredHandler) Handle(ctx context.Context) (int, error) {
	now := time.Now()
	candidates, err := h.repo.ExpiredActiveReservations(ctx, now)
	if err != nil {
		return 0, err
	}

	released := 0
	for i := range candidates {
		id := candidates[i].ID
		err := h.repo.Transact(ctx, func(tx domain.InventoryRepository) error {
			reservation, err := tx.FindReservationForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if !reservation.IsExpired(now) {
				return nil
			}

			item, err := tx.FindItemForUpdate(ctx, reservation.InventoryItemID)
			if err != nil {
				return err
			}

			if err := releaseHold(ctx, tx, item, reservation, "reservation expired", h.notifier); err != nil {
				return err
			}
			if err := reservation.Expire(); err != nil {
				return err
			}
			if err := tx.SaveReservation(ctx, reservation); err != nil {
				return err
			}
			released++
			return nil
		})
		if err != nil {
			logger.Error(ctx).Err(err).Uint("reservation_id", id).Msg("Failed to release expired reservation")
			return released, err
		}
	}

	if released > 0 {
		logger.Info(ctx).Int("released", released).Msg("Expired reservations released")
	}
	return released, nil
}
