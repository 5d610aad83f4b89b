package query

import (
	"context"
	"fmt"

	"github.com/tair/commerce-core/internal/discount/domain"
	orderdomain "github.com/tair/commerce-core/internal/order/domain"
)

// A retention offer only makes sense for established subscribers.
const minRenewalOrders = 4

// CancellationOfferAvailableQuery asks whether the user qualifies for a
// cancellation retention offer.
type CancellationOfferAvailableQuery struct {
	UserID uint
}

// CancellationOfferAvailableHandler handles offer eligibility checks
type CancellationOfferAvailableHandler struct {
	discounts domain.DiscountRepository
	orders    orderdomain.OrderRepository
}

// NewCancellationOfferAvailableHandler creates a new eligibility handler
func NewCancellationOfferAvailableHandler(discounts domain.DiscountRepository, orders orderdomain.OrderRepository) *CancellationOfferAvailableHandler {
	return &CancellationOfferAvailableHandler{discounts: discounts, orders: orders}
}

// Handle reports eligibility: no prior cancellation offer and at least four
// subscription-cycle renewals on record.
func (h *CancellationOfferAvailableHandler) Handle(ctx context.Context, q CancellationOfferAvailableQuery) (bool, error) {
	exists, err := h.discounts.ExistsKindForUser(ctx, domain.KindCancellation, q.UserID)
	if err != nil {
		return false, fmt.Errorf("failed to check existing offers: %w", err)
	}
	if exists {
		return false, nil
	}

	renewals, err := h.orders.CountRenewalOrders(ctx, q.UserID)
	if err != nil {
		return false, fmt.Errorf("failed to count renewal orders: %w", err)
	}
	return renewals >= minRenewalOrders, nil
}
