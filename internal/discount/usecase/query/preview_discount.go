package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tair/commerce-core/internal/discount/domain"
	orderdomain "github.com/tair/commerce-core/internal/order/domain"
	"github.com/tair/commerce-core/pkg/money"
)

// PreviewDiscountQuery computes what a code would take off an order without
// applying it.
type PreviewDiscountQuery struct {
	OrderID uint
	Code    string
}

// PreviewDiscountHandler handles discount previews
type PreviewDiscountHandler struct {
	discounts domain.DiscountRepository
	orders    orderdomain.OrderRepository
}

// NewPreviewDiscountHandler creates a new preview handler
func NewPreviewDiscountHandler(discounts domain.DiscountRepository, orders orderdomain.OrderRepository) *PreviewDiscountHandler {
	return &PreviewDiscountHandler{discounts: discounts, orders: orders}
}

// Handle returns the computed amount, zero for anything invalid.
func (h *PreviewDiscountHandler) Handle(ctx context.Context, q PreviewDiscountQuery) (money.Money, error) {
	order, err := h.orders.FindByID(ctx, q.OrderID)
	if err != nil {
		return 0, fmt.Errorf("failed to load order: %w", err)
	}

	discount, err := h.discounts.FindByCode(ctx, q.Code)
	if err != nil {
		if errors.Is(err, domain.ErrDiscountNotFound) {
			return 0, nil
		}
		return 0, err
	}

	return discount.CalculateFor(order, time.Now()), nil
}
