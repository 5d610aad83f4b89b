package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/commerce-core/internal/order/domain"
	"github.com/tair/commerce-core/kafka"
)

type stubOrderRepo struct {
	orders map[uint]*domain.Order
}

func (s *stubOrderRepo) Create(_ context.Context, o *domain.Order) error {
	s.orders[o.ID] = o
	return nil
}

func (s *stubOrderRepo) FindByID(_ context.Context, id uint) (*domain.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, errors.New("order not found")
	}
	return o, nil
}

func (s *stubOrderRepo) FindByUserID(_ context.Context, _ uint, _, _ int) ([]domain.Order, error) {
	return nil, nil
}

func (s *stubOrderRepo) UpdateStatus(_ context.Context, id uint, status string) error {
	s.orders[id].Status = status
	return nil
}

func (s *stubOrderRepo) CountRenewalOrders(_ context.Context, _ uint) (int64, error) {
	return 0, nil
}

type stubPublisher struct {
	events []kafka.OrderStatusChangedEvent
}

func (s *stubPublisher) PublishOrderStatusChanged(_ context.Context, event kafka.OrderStatusChangedEvent) error {
	s.events = append(s.events, event)
	return nil
}

func TestUpdateOrderStatus(t *testing.T) {
	ctx := context.Background()

	fixture := func() (*stubOrderRepo, *stubPublisher, *UpdateOrderStatusHandler) {
		repo := &stubOrderRepo{orders: map[uint]*domain.Order{
			1: {ID: 1, UserID: 9, Status: domain.StatusPending},
		}}
		pub := &stubPublisher{}
		return repo, pub, NewUpdateOrderStatusHandler(repo, pub)
	}

	t.Run("succeeded publishes order.paid", func(t *testing.T) {
		repo, pub, handler := fixture()

		order, err := handler.Handle(ctx, UpdateOrderStatusCommand{OrderID: 1, Status: domain.StatusSucceeded})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusSucceeded, order.Status)
		assert.Equal(t, domain.StatusSucceeded, repo.orders[1].Status)

		require.Len(t, pub.events, 1)
		assert.Equal(t, kafka.EventTypeOrderPaid, pub.events[0].EventType)
		assert.Equal(t, uint(1), pub.events[0].OrderID)
		assert.Equal(t, uint(9), pub.events[0].UserID)
	})

	t.Run("cancelled publishes order.cancelled", func(t *testing.T) {
		_, pub, handler := fixture()

		_, err := handler.Handle(ctx, UpdateOrderStatusCommand{OrderID: 1, Status: domain.StatusCancelled})
		require.NoError(t, err)
		require.Len(t, pub.events, 1)
		assert.Equal(t, kafka.EventTypeOrderCancelled, pub.events[0].EventType)
	})

	t.Run("processing publishes nothing", func(t *testing.T) {
		_, pub, handler := fixture()

		_, err := handler.Handle(ctx, UpdateOrderStatusCommand{OrderID: 1, Status: domain.StatusProcessing})
		require.NoError(t, err)
		assert.Empty(t, pub.events)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, _, handler := fixture()

		_, err := handler.Handle(ctx, UpdateOrderStatusCommand{OrderID: 1, Status: "shipped"})
		assert.Error(t, err)
	})
}
