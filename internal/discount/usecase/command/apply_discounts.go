package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tair/commerce-core/internal/discount/domain"
	orderdomain "github.com/tair/commerce-core/internal/order/domain"
	"github.com/tair/commerce-core/pkg/logger"
	"github.com/tair/commerce-core/pkg/money"
)

// ApplyDiscountsCommand applies a batch of codes to an order. Codes that do
// not resolve or compute to zero are skipped, never errored.
type ApplyDiscountsCommand struct {
	OrderID uint
	Codes   []string
}

// ApplyDiscountsHandler handles bulk discount application
type ApplyDiscountsHandler struct {
	discounts domain.DiscountRepository
	orders    orderdomain.OrderRepository
}

// NewApplyDiscountsHandler creates a new bulk apply handler
func NewApplyDiscountsHandler(discounts domain.DiscountRepository, orders orderdomain.OrderRepository) *ApplyDiscountsHandler {
	return &ApplyDiscountsHandler{discounts: discounts, orders: orders}
}

// Handle applies each code and returns the sum of applied amounts. Every
// amount is computed against the order's original subtotal, so stacked codes
// can discount more than the order is worth; that is the contract, not a bug.
func (h *ApplyDiscountsHandler) Handle(ctx context.Context, cmd ApplyDiscountsCommand) (money.Money, error) {
	order, err := h.orders.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return 0, fmt.Errorf("failed to load order: %w", err)
	}

	now := time.Now()
	var totalApplied money.Money

	for _, code := range cmd.Codes {
		discount, err := h.discounts.FindByCode(ctx, code)
		if err != nil {
			if errors.Is(err, domain.ErrDiscountNotFound) {
				logger.Debug(ctx).Str("code", code).Msg("Skipping unknown discount code")
				continue
			}
			return totalApplied, err
		}

		if discount.CalculateFor(order, now) == 0 {
			logger.Debug(ctx).Str("code", discount.Code).Msg("Skipping zero-amount discount")
			continue
		}

		// Redemption re-reads the discount under lock; a code drained by
		// a concurrent checkout since the lookup above is skipped here.
		record, err := h.discounts.ApplyToOrder(ctx, order.ID, discount.ID, order.Subtotal())
		if err != nil {
			if errors.Is(err, domain.ErrDiscountNotFound) {
				logger.Debug(ctx).Str("code", discount.Code).Msg("Skipping discount drained before redemption")
				continue
			}
			return totalApplied, fmt.Errorf("failed to apply discount %s: %w", discount.Code, err)
		}

		logger.Info(ctx).
			Str("code", discount.Code).
			Uint("order_id", order.ID).
			Str("amount", record.AmountApplied.String()).
			Msg("Discount applied")

		totalApplied += record.AmountApplied
	}

	return totalApplied, nil
}
