package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/commerce-core/internal/discount/domain"
	orderdomain "github.com/tair/commerce-core/internal/order/domain"
	productdomain "github.com/tair/commerce-core/internal/product/domain"
	"github.com/tair/commerce-core/pkg/money"
)

func checkoutFixture(t *testing.T, subtotalCents int64) (*fakeDiscountRepo, *fakeOrderRepo, *fakeProductRepo, *ApplyDiscountHandler) {
	t.Helper()
	discounts := newFakeDiscountRepo()
	orders := newFakeOrderRepo()
	products := newFakeProductRepo()

	products.products[1] = &productdomain.Product{ID: 1, Name: "Widget", AllowDiscountCodes: true}
	fixtureOrder(orders, subtotalCents)

	return discounts, orders, products, NewApplyDiscountHandler(discounts, orders, products)
}

func TestApplyDiscountSuccess(t *testing.T) {
	discounts, _, _, h := checkoutFixture(t, 10000)
	discounts.add(&domain.Discount{
		Code: "QUARTER", Kind: domain.KindPromoCode,
		ValueKind: domain.ValuePercentage, ValueCents: 25,
	})

	amount, err := h.Handle(context.Background(), ApplyDiscountCommand{OrderID: 42, Code: "quarter"})
	require.NoError(t, err)
	assert.Equal(t, money.Money(2500), amount)
	assert.Len(t, discounts.applied, 1)
}

func TestApplyDiscountUnknownCode(t *testing.T) {
	_, _, _, h := checkoutFixture(t, 10000)

	_, err := h.Handle(context.Background(), ApplyDiscountCommand{OrderID: 42, Code: "NOPE"})
	assert.ErrorIs(t, err, domain.ErrDiscountNotFound)
}

func TestApplyDiscountExpiredReadsAsNotFound(t *testing.T) {
	discounts, _, _, h := checkoutFixture(t, 10000)
	d := discounts.add(&domain.Discount{
		Code: "OLD", Kind: domain.KindPromoCode,
		ValueKind: domain.ValuePercentage, ValueCents: 25,
		MaxUses: intPtr(1), TimesUsed: 1,
	})
	_ = d

	_, err := h.Handle(context.Background(), ApplyDiscountCommand{OrderID: 42, Code: "OLD"})
	assert.ErrorIs(t, err, domain.ErrDiscountNotFound)
}

func TestApplyDiscountAlreadyApplied(t *testing.T) {
	discounts, orders, _, h := checkoutFixture(t, 10000)
	d := discounts.add(&domain.Discount{
		Code: "QUARTER", Kind: domain.KindPromoCode,
		ValueKind: domain.ValuePercentage, ValueCents: 25,
	})
	orders.orders[42].Discounts = []orderdomain.OrderDiscount{
		{OrderID: 42, DiscountID: d.ID, AmountAppliedCents: 2500},
	}

	_, err := h.Handle(context.Background(), ApplyDiscountCommand{OrderID: 42, Code: "QUARTER"})
	assert.ErrorIs(t, err, domain.ErrAlreadyApplied)
}

func TestApplyDiscountManualKindRejected(t *testing.T) {
	discounts, _, _, h := checkoutFixture(t, 10000)
	discounts.add(&domain.Discount{
		Code: "STAFF-ONLY", Kind: domain.KindManual,
		ValueKind: domain.ValueFixed, ValueCents: 500,
	})

	_, err := h.Handle(context.Background(), ApplyDiscountCommand{OrderID: 42, Code: "STAFF-ONLY"})
	assert.ErrorIs(t, err, domain.ErrNotUsableAtCheckout)
}

func TestApplyDiscountProductDisallowsCodes(t *testing.T) {
	discounts, _, products, h := checkoutFixture(t, 10000)
	products.products[1].AllowDiscountCodes = false
	discounts.add(&domain.Discount{
		Code: "QUARTER", Kind: domain.KindPromoCode,
		ValueKind: domain.ValuePercentage, ValueCents: 25,
	})

	_, err := h.Handle(context.Background(), ApplyDiscountCommand{OrderID: 42, Code: "QUARTER"})
	assert.ErrorIs(t, err, domain.ErrProductDisallowsCodes)
	assert.Empty(t, discounts.applied)
}

func TestApplyDiscountWrongUser(t *testing.T) {
	discounts, _, _, h := checkoutFixture(t, 10000)
	discounts.add(&domain.Discount{
		Code: "PERSONAL", Kind: domain.KindPromoCode,
		ValueKind: domain.ValuePercentage, ValueCents: 25,
		UserID: uintPtr(999),
	})

	_, err := h.Handle(context.Background(), ApplyDiscountCommand{OrderID: 42, Code: "PERSONAL"})
	assert.ErrorIs(t, err, domain.ErrWrongUser)
}

func TestApplyDiscountBelowMinimum(t *testing.T) {
	discounts, _, _, h := checkoutFixture(t, 3000)
	discounts.add(&domain.Discount{
		Code: "BIG10", Kind: domain.KindPromoCode,
		ValueKind: domain.ValuePercentage, ValueCents: 10,
		MinOrderCents: int64Ptr(5000),
	})

	_, err := h.Handle(context.Background(), ApplyDiscountCommand{OrderID: 42, Code: "BIG10"})

	var belowMin *domain.BelowMinimumError
	require.True(t, errors.As(err, &belowMin))
	assert.Contains(t, belowMin.Error(), "50.00")
	assert.Empty(t, discounts.applied, "no state may change on a rejected apply")
}
