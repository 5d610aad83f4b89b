package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/commerce-core/internal/inventory/domain"
	orderdomain "github.com/tair/commerce-core/internal/order/domain"
)

func reservationFixture() (*fakeInventoryRepo, *fakeOrderRepo, *domain.InventoryItem, *orderdomain.Order) {
	repo := newFakeInventoryRepo()
	orders := newFakeOrderRepo()

	item := repo.add(&domain.InventoryItem{ProductID: 10, QuantityAvailable: 20, TrackInventory: true})
	order := &orderdomain.Order{
		ID:     1,
		UserID: 5,
		Status: orderdomain.StatusPending,
		Items: []orderdomain.OrderItem{
			{ProductID: 10, AmountCents: 2500, Quantity: 3},
		},
	}
	orders.orders[order.ID] = order
	return repo, orders, item, order
}

func TestReserveInventory(t *testing.T) {
	ctx := context.Background()

	t.Run("moves stock from available to reserved", func(t *testing.T) {
		repo, orders, item, order := reservationFixture()
		handler := NewReserveInventoryHandler(repo, orders, nil)

		reservations, err := handler.Handle(ctx, ReserveInventoryCommand{OrderID: order.ID})
		require.NoError(t, err)
		require.Len(t, reservations, 1)

		assert.Equal(t, 17, item.QuantityAvailable)
		assert.Equal(t, 3, item.QuantityReserved)
		assert.Equal(t, 20, item.QuantityOnHand())

		res := reservations[0]
		assert.Equal(t, domain.ReservationActive, res.Status)
		assert.Equal(t, 3, res.Quantity)
		require.NotNil(t, res.OrderID)
		assert.Equal(t, order.ID, *res.OrderID)
		assert.WithinDuration(t, time.Now().Add(domain.ReservationTTL), res.ExpiresAt, time.Minute)

		require.Len(t, repo.txns, 1)
		txn := repo.txns[0]
		assert.Equal(t, domain.TransactionReserved, txn.Type)
		assert.Equal(t, -3, txn.Quantity)
		assert.Equal(t, 20, txn.QuantityBefore)
		assert.Equal(t, 17, txn.QuantityAfter)
		assert.Equal(t, domain.ReferenceOrder, txn.ReferenceType)
		assert.Equal(t, order.ID, txn.ReferenceID)
	})

	t.Run("insufficient stock aborts the whole order", func(t *testing.T) {
		repo, orders, item, order := reservationFixture()
		item.QuantityAvailable = 2
		handler := NewReserveInventoryHandler(repo, orders, nil)

		_, err := handler.Handle(ctx, ReserveInventoryCommand{OrderID: order.ID})
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		assert.Empty(t, repo.reservations)
	})

	t.Run("backorder permits reserving past zero", func(t *testing.T) {
		repo, orders, item, order := reservationFixture()
		item.QuantityAvailable = 2
		item.AllowBackorder = true
		handler := NewReserveInventoryHandler(repo, orders, nil)

		_, err := handler.Handle(ctx, ReserveInventoryCommand{OrderID: order.ID})
		require.NoError(t, err)
		assert.Equal(t, -1, item.QuantityAvailable)
		assert.Equal(t, 3, item.QuantityReserved)
	})

	t.Run("untracked item cannot be reserved", func(t *testing.T) {
		repo, orders, item, order := reservationFixture()
		item.TrackInventory = false
		handler := NewReserveInventoryHandler(repo, orders, nil)

		_, err := handler.Handle(ctx, ReserveInventoryCommand{OrderID: order.ID})
		assert.ErrorIs(t, err, domain.ErrNotTracked)
	})

	t.Run("unknown order", func(t *testing.T) {
		repo, orders, _, _ := reservationFixture()
		handler := NewReserveInventoryHandler(repo, orders, nil)

		_, err := handler.Handle(ctx, ReserveInventoryCommand{OrderID: 999})
		assert.ErrorIs(t, err, orderNotFoundErr)
	})
}

func TestFulfillReservations(t *testing.T) {
	ctx := context.Background()
	repo, orders, item, order := reservationFixture()

	reserve := NewReserveInventoryHandler(repo, orders, nil)
	_, err := reserve.Handle(ctx, ReserveInventoryCommand{OrderID: order.ID})
	require.NoError(t, err)

	fulfill := NewFulfillReservationsHandler(repo)
	count, err := fulfill.Handle(ctx, FulfillReservationsCommand{OrderID: order.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Reserved stock leaves the building; available is untouched.
	assert.Equal(t, 17, item.QuantityAvailable)
	assert.Equal(t, 0, item.QuantityReserved)

	res := repo.reservations[1]
	assert.Equal(t, domain.ReservationFulfilled, res.Status)
	require.NotNil(t, res.FulfilledAt)

	require.Len(t, repo.txns, 2)
	sale := repo.txns[1]
	assert.Equal(t, domain.TransactionSale, sale.Type)
	assert.Equal(t, -3, sale.Quantity)
	assert.Equal(t, 3, sale.QuantityBefore)
	assert.Equal(t, 0, sale.QuantityAfter)

	// Second fulfillment finds nothing active.
	count, err = fulfill.Handle(ctx, FulfillReservationsCommand{OrderID: order.ID})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestReleaseReservations(t *testing.T) {
	ctx := context.Background()
	repo, orders, item, order := reservationFixture()

	reserve := NewReserveInventoryHandler(repo, orders, nil)
	_, err := reserve.Handle(ctx, ReserveInventoryCommand{OrderID: order.ID})
	require.NoError(t, err)

	release := NewReleaseReservationsHandler(repo, nil)
	count, err := release.Handle(ctx, ReleaseReservationsCommand{OrderID: order.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.Equal(t, 20, item.QuantityAvailable)
	assert.Equal(t, 0, item.QuantityReserved)
	assert.Equal(t, domain.ReservationCancelled, repo.reservations[1].Status)

	released := repo.txns[1]
	assert.Equal(t, domain.TransactionReleased, released.Type)
	assert.Equal(t, 3, released.Quantity)
	assert.Equal(t, 17, released.QuantityBefore)
	assert.Equal(t, 20, released.QuantityAfter)
}

func TestReleaseExpired(t *testing.T) {
	ctx := context.Background()
	repo, orders, item, order := reservationFixture()

	reserve := NewReserveInventoryHandler(repo, orders, nil)
	_, err := reserve.Handle(ctx, ReserveInventoryCommand{OrderID: order.ID})
	require.NoError(t, err)

	// Backdate the hold past its deadline.
	res := repo.reservations[1]
	res.ExpiresAt = time.Now().Add(-time.Hour)

	sweep := NewReleaseExpiredHandler(repo, nil)
	count, err := sweep.Handle(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.Equal(t, 20, item.QuantityAvailable)
	assert.Equal(t, 0, item.QuantityReserved)
	assert.Equal(t, domain.ReservationExpired, repo.reservations[1].Status)

	// The sweep is idempotent: a second pass finds nothing.
	count, err = sweep.Handle(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
