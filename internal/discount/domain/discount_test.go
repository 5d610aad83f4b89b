package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderdomain "github.com/tair/commerce-core/internal/order/domain"
	"github.com/tair/commerce-core/pkg/money"
)

func orderWithSubtotal(cents int64) *orderdomain.Order {
	return &orderdomain.Order{
		ID:     1,
		UserID: 7,
		Items: []orderdomain.OrderItem{
			{ProductID: 1, AmountCents: cents, Quantity: 1},
		},
	}
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func TestIsUsable(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	t.Run("expired code is unusable", func(t *testing.T) {
		d := &Discount{Kind: KindPromoCode, ExpiresAt: &past}
		assert.False(t, d.IsUsable(now))
	})

	t.Run("future expiry is usable", func(t *testing.T) {
		d := &Discount{Kind: KindPromoCode, ExpiresAt: &future}
		assert.True(t, d.IsUsable(now))
	})

	t.Run("drained gift card is unusable", func(t *testing.T) {
		d := &Discount{Kind: KindGiftCard, CurrentBalanceCents: int64Ptr(0)}
		assert.False(t, d.IsUsable(now))
	})

	t.Run("exhausted max uses is unusable", func(t *testing.T) {
		d := &Discount{Kind: KindPromoCode, MaxUses: intPtr(2), TimesUsed: 2}
		assert.False(t, d.IsUsable(now))
	})

	t.Run("remaining uses are usable", func(t *testing.T) {
		d := &Discount{Kind: KindPromoCode, MaxUses: intPtr(2), TimesUsed: 1}
		assert.True(t, d.IsUsable(now))
	})
}

func TestCalculateForPercentage(t *testing.T) {
	now := time.Now()

	d := &Discount{Kind: KindPromoCode, ValueKind: ValuePercentage, ValueCents: 25}
	assert.Equal(t, money.Money(2500), d.CalculateFor(orderWithSubtotal(10000), now))

	// 33% of 99.99 rounds half-up to 33.00, not 32.99.
	d = &Discount{Kind: KindPromoCode, ValueKind: ValuePercentage, ValueCents: 33}
	assert.Equal(t, money.Money(3300), d.CalculateFor(orderWithSubtotal(9999), now))
}

func TestCalculateForFixedCappedAtSubtotal(t *testing.T) {
	now := time.Now()

	d := &Discount{Kind: KindPromoCode, ValueKind: ValueFixed, ValueCents: 2000}
	assert.Equal(t, money.Money(1500), d.CalculateFor(orderWithSubtotal(1500), now))
	assert.Equal(t, money.Money(2000), d.CalculateFor(orderWithSubtotal(5000), now))
}

func TestCalculateForGiftCard(t *testing.T) {
	now := time.Now()

	d := &Discount{Kind: KindGiftCard, ValueKind: ValueFixed, ValueCents: 5000, CurrentBalanceCents: int64Ptr(3000)}
	assert.Equal(t, money.Money(3000), d.CalculateFor(orderWithSubtotal(10000), now))

	d.CurrentBalanceCents = int64Ptr(5000)
	assert.Equal(t, money.Money(2500), d.CalculateFor(orderWithSubtotal(2500), now))
}

func TestCalculateForMinOrder(t *testing.T) {
	now := time.Now()

	d := &Discount{
		Kind:          KindPromoCode,
		ValueKind:     ValuePercentage,
		ValueCents:    10,
		MinOrderCents: int64Ptr(5000),
	}
	assert.Equal(t, money.Money(0), d.CalculateFor(orderWithSubtotal(4999), now))
	assert.Equal(t, money.Money(500), d.CalculateFor(orderWithSubtotal(5000), now))
}

func TestCalculateForUnusable(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)

	d := &Discount{Kind: KindPromoCode, ValueKind: ValuePercentage, ValueCents: 50, ExpiresAt: &past}
	assert.Equal(t, money.Money(0), d.CalculateFor(orderWithSubtotal(10000), now))
}

func TestRedeemGiftCard(t *testing.T) {
	now := time.Now()

	d := &Discount{Kind: KindGiftCard, ValueKind: ValueFixed, ValueCents: 3000, CurrentBalanceCents: int64Ptr(3000)}

	record, err := d.Redeem(money.Money(10000), now)
	require.NoError(t, err)
	assert.Equal(t, money.Money(3000), record.AmountApplied)
	assert.Equal(t, money.Money(3000), *record.BalanceBefore)
	assert.Equal(t, money.Money(0), *record.BalanceAfter)
	assert.Equal(t, int64(0), *d.CurrentBalanceCents)
	assert.Equal(t, 0, d.TimesUsed, "gift cards spend balance, not uses")

	// The drained row rejects a second redemption even when the caller
	// still holds a snapshot that read the full balance.
	_, err = d.Redeem(money.Money(10000), now)
	assert.ErrorIs(t, err, ErrDiscountNotFound)
}

func TestRedeemRecomputesFromCurrentBalance(t *testing.T) {
	now := time.Now()

	// Balance 30.00 against 10.00 orders drains in three steps.
	d := &Discount{Kind: KindGiftCard, ValueKind: ValueFixed, ValueCents: 3000, CurrentBalanceCents: int64Ptr(3000)}

	for i := 0; i < 3; i++ {
		record, err := d.Redeem(money.Money(1000), now)
		require.NoError(t, err)
		assert.Equal(t, money.Money(1000), record.AmountApplied)
	}

	assert.Equal(t, int64(0), *d.CurrentBalanceCents)
	_, err := d.Redeem(money.Money(1000), now)
	assert.ErrorIs(t, err, ErrDiscountNotFound)
}

func TestRedeemCountsUsesForNonGiftKinds(t *testing.T) {
	now := time.Now()

	d := &Discount{Kind: KindPromoCode, ValueKind: ValuePercentage, ValueCents: 10, MaxUses: intPtr(1)}

	record, err := d.Redeem(money.Money(5000), now)
	require.NoError(t, err)
	assert.Equal(t, money.Money(500), record.AmountApplied)
	assert.Nil(t, record.BalanceBefore)
	assert.Equal(t, 1, d.TimesUsed)

	_, err = d.Redeem(money.Money(5000), now)
	assert.ErrorIs(t, err, ErrDiscountNotFound)
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "PROMO-ABC123", NormalizeCode("  promo-abc123 "))
}

func TestUsableAtCheckout(t *testing.T) {
	assert.False(t, (&Discount{Kind: KindManual}).UsableAtCheckout())
	assert.True(t, (&Discount{Kind: KindPromoCode}).UsableAtCheckout())
	assert.True(t, (&Discount{Kind: KindGiftCard}).UsableAtCheckout())
	assert.True(t, (&Discount{Kind: KindCancellation}).UsableAtCheckout())
}
