package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tair/commerce-core/internal/discount/domain"
	orderdomain "github.com/tair/commerce-core/internal/order/domain"
	productdomain "github.com/tair/commerce-core/internal/product/domain"
	"github.com/tair/commerce-core/pkg/logger"
	"github.com/tair/commerce-core/pkg/money"
)

// ApplyDiscountCommand applies a single code to an order at checkout.
type ApplyDiscountCommand struct {
	OrderID uint
	Code    string
}

// ApplyDiscountHandler is the strict checkout path: rule violations surface
// as typed domain errors instead of silent skips.
type ApplyDiscountHandler struct {
	discounts domain.DiscountRepository
	orders    orderdomain.OrderRepository
	products  productdomain.ProductRepository
}

// NewApplyDiscountHandler creates a new strict apply handler
func NewApplyDiscountHandler(
	discounts domain.DiscountRepository,
	orders orderdomain.OrderRepository,
	products productdomain.ProductRepository,
) *ApplyDiscountHandler {
	return &ApplyDiscountHandler{discounts: discounts, orders: orders, products: products}
}

// Handle validates every checkout rule, then applies the discount and
// returns the applied amount. State is only mutated after all checks pass.
func (h *ApplyDiscountHandler) Handle(ctx context.Context, cmd ApplyDiscountCommand) (money.Money, error) {
	order, err := h.orders.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return 0, fmt.Errorf("failed to load order: %w", err)
	}

	discount, err := h.discounts.FindByCode(ctx, cmd.Code)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	if !discount.IsUsable(now) {
		// Expired, drained or exhausted codes read as nonexistent.
		return 0, domain.ErrDiscountNotFound
	}

	if order.HasDiscount(discount.ID) {
		return 0, domain.ErrAlreadyApplied
	}

	if !discount.UsableAtCheckout() {
		return 0, domain.ErrNotUsableAtCheckout
	}

	for _, item := range order.Items {
		product, err := h.products.FindByID(ctx, item.ProductID)
		if err != nil {
			return 0, fmt.Errorf("failed to load product %d: %w", item.ProductID, err)
		}
		if !product.AllowDiscountCodes {
			return 0, domain.ErrProductDisallowsCodes
		}
	}

	if discount.UserID != nil && *discount.UserID != order.UserID {
		return 0, domain.ErrWrongUser
	}

	if discount.MinOrderCents != nil && order.Subtotal() < money.Money(*discount.MinOrderCents) {
		return 0, &domain.BelowMinimumError{Minimum: money.Money(*discount.MinOrderCents)}
	}

	// Redemption re-reads the discount under lock and recomputes the
	// amount; a concurrent checkout that drained the code since the
	// lookup above surfaces as not found.
	record, err := h.discounts.ApplyToOrder(ctx, order.ID, discount.ID, order.Subtotal())
	if err != nil {
		if errors.Is(err, domain.ErrDiscountNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("failed to apply discount %s: %w", discount.Code, err)
	}

	logger.Info(ctx).
		Str("code", discount.Code).
		Uint("order_id", order.ID).
		Str("amount", record.AmountApplied.String()).
		Msg("Discount applied at checkout")

	return record.AmountApplied, nil
}
