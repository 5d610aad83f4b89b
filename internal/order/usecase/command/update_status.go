package command

import (
	"context"
	"fmt"

	"github.com/tair/commerce-core/internal/order/domain"
	"github.com/tair/commerce-core/kafka"
	"github.com/tair/commerce-core/pkg/logger"
)

// StatusEventPublisher emits order status events to the order-events topic.
type StatusEventPublisher interface {
	PublishOrderStatusChanged(ctx context.Context, event kafka.OrderStatusChangedEvent) error
}

// UpdateOrderStatusCommand moves an order to a new payment status.
type UpdateOrderStatusCommand struct {
	OrderID uint   `json:"-"`
	Status  string `json:"status"`
}

type UpdateOrderStatusHandler struct {
	orders    domain.OrderRepository
	publisher StatusEventPublisher
}

func NewUpdateOrderStatusHandler(orders domain.OrderRepository, publisher StatusEventPublisher) *UpdateOrderStatusHandler {
	return &UpdateOrderStatusHandler{orders: orders, publisher: publisher}
}

func (h *UpdateOrderStatusHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (*domain.Order, error) {
	switch cmd.Status {
	case domain.StatusProcessing, domain.StatusSucceeded, domain.StatusCancelled, domain.StatusRefunded:
	default:
		return nil, fmt.Errorf("invalid order status %q", cmd.Status)
	}

	order, err := h.orders.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	if err := h.orders.UpdateStatus(ctx, order.ID, cmd.Status); err != nil {
		return nil, err
	}
	order.Status = cmd.Status

	if eventType := statusEventType(cmd.Status); eventType != "" && h.publisher != nil {
		event := kafka.OrderStatusChangedEvent{
			EventType: eventType,
			OrderID:   order.ID,
			UserID:    order.UserID,
			Status:    cmd.Status,
		}
		if err := h.publisher.PublishOrderStatusChanged(ctx, event); err != nil {
			// The status change is committed; the event is best effort.
			logger.Warn(ctx).Err(err).Uint("order_id", order.ID).Msg("Failed to publish order status event")
		}
	}

	logger.Info(ctx).
		Uint("order_id", order.ID).
		Str("status", cmd.Status).
		Msg("Order status updated")
	return order, nil
}

// statusEventType maps terminal payment statuses to event types. Statuses
// with no downstream effect publish nothing.
func statusEventType(status string) string {
	switch status {
	case domain.StatusSucceeded:
		return kafka.EventTypeOrderPaid
	case domain.StatusCancelled:
		return kafka.EventTypeOrderCancelled
	}
	return ""
}
