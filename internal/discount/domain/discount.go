package domain

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	orderdomain "github.com/tair/commerce-core/internal/order/domain"
	"github.com/tair/commerce-core/pkg/money"
)

// Discount kinds
const (
	KindPromoCode    = "promo_code"
	KindGiftCard     = "gift_card"
	KindManual       = "manual"
	KindCancellation = "cancellation"
)

// Value kinds
const (
	ValuePercentage = "percentage"
	ValueFixed      = "fixed"
)

// Discount represents a redeemable code: promo code, gift card, manual
// adjustment or cancellation offer. Codes are stored uppercase; lookups are
// case-insensitive. ValueCents holds cents for fixed discounts and
// percentage points for percentage ones.
type Discount struct {
	ID                  uint           `json:"id" gorm:"primaryKey"`
	Code                string         `json:"code" gorm:"uniqueIndex;not null"`
	Kind                string         `json:"kind" gorm:"not null;index"`
	ValueKind           string         `json:"value_kind" gorm:"not null"`
	ValueCents          int64          `json:"-" gorm:"column:value_cents;not null"`
	CurrentBalanceCents *int64         `json:"-" gorm:"column:current_balance_cents"`
	ProductID           *uint          `json:"product_id" gorm:"index"`
	UserID              *uint          `json:"user_id" gorm:"index"`
	RecipientEmail      string         `json:"recipient_email"`
	MaxUses             *int           `json:"max_uses"`
	TimesUsed           int            `json:"times_used" gorm:"not null;default:0"`
	MinOrderCents       *int64         `json:"-" gorm:"column:min_order_cents"`
	ExpiresAt           *time.Time     `json:"expires_at"`
	ActivatedAt         *time.Time     `json:"activated_at"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Discount) TableName() string {
	return "discounts"
}

// NormalizeCode canonicalizes a code for storage and lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Balance returns the remaining gift card balance, zero when absent.
func (d *Discount) Balance() money.Money {
	if d.CurrentBalanceCents == nil {
		return 0
	}
	return money.Money(*d.CurrentBalanceCents)
}

// IsExpired reports whether the discount has an expiry in the past.
func (d *Discount) IsExpired(now time.Time) bool {
	return d.ExpiresAt != nil && d.ExpiresAt.Before(now)
}

// IsExhausted reports whether the max-use counter has been reached.
func (d *Discount) IsExhausted() bool {
	return d.MaxUses != nil && d.TimesUsed >= *d.MaxUses
}

// IsUsable is the shared validity gate: expired codes, drained gift cards
// and exhausted max-use counters are all unusable.
func (d *Discount) IsUsable(now time.Time) bool {
	if d.IsExpired(now) {
		return false
	}
	if d.Kind == KindGiftCard && d.Balance() <= 0 {
		return false
	}
	if d.IsExhausted() {
		return false
	}
	return true
}

// CalculateFor computes the amount this discount takes off an order.
// Every discount is computed against the order's full subtotal, never the
// remainder after other discounts; stacked codes can exceed the subtotal.
func (d *Discount) CalculateFor(order *orderdomain.Order, now time.Time) money.Money {
	return d.calculate(order.Subtotal(), now)
}

func (d *Discount) calculate(subtotal money.Money, now time.Time) money.Money {
	if !d.IsUsable(now) {
		return 0
	}

	if d.MinOrderCents != nil && subtotal < money.Money(*d.MinOrderCents) {
		return 0
	}

	// Gift cards always spend remaining balance, capped at the subtotal,
	// regardless of the stored value kind.
	if d.Kind == KindGiftCard {
		return money.Min(d.Balance(), subtotal)
	}

	switch d.ValueKind {
	case ValuePercentage:
		return subtotal.Percent(d.ValueCents)
	case ValueFixed:
		return money.Min(money.Money(d.ValueCents), subtotal)
	}
	return 0
}

// UsableAtCheckout reports whether this kind may be redeemed by a customer.
// Manual adjustments are applied by staff, never at checkout.
func (d *Discount) UsableAtCheckout() bool {
	return d.Kind != KindManual
}

// ApplyRecord captures one application of a discount to an order.
type ApplyRecord struct {
	Discount      *Discount
	AmountApplied money.Money
	BalanceBefore *money.Money
	BalanceAfter  *money.Money
}

// Redeem consumes one application of this discount against the subtotal.
// It must run on a row freshly read under a write lock: the amount, the
// balance movement and the use counter are recomputed here, so a stale
// snapshot taken by a concurrent checkout cannot over-spend a gift card or
// reuse an exhausted code. A discount that no longer yields an amount reads
// as not found. Gift cards burn balance; every other kind bumps the use
// counter at apply time (not at order finalization), so an abandoned cart
// still consumes a use.
func (d *Discount) Redeem(subtotal money.Money, now time.Time) (ApplyRecord, error) {
	amount := d.calculate(subtotal, now)
	if amount == 0 {
		return ApplyRecord{}, ErrDiscountNotFound
	}

	record := ApplyRecord{
		Discount:      d,
		AmountApplied: amount,
	}

	if d.Kind == KindGiftCard {
		before := d.Balance()
		after := before - amount
		afterCents := after.Cents()
		d.CurrentBalanceCents = &afterCents
		record.BalanceBefore = &before
		record.BalanceAfter = &after
	} else {
		d.TimesUsed++
	}
	return record, nil
}

// DiscountRepository defines the contract for discount data access
type DiscountRepository interface {
	Create(ctx context.Context, discount *Discount) error
	// FindByCode performs a case-insensitive exact match.
	FindByCode(ctx context.Context, code string) (*Discount, error)
	FindByID(ctx context.Context, id uint) (*Discount, error)
	// ExistsByCode is the collision probe used by code generation.
	ExistsByCode(ctx context.Context, code string) (bool, error)
	// ExistsKindForUser reports whether the user already holds a discount
	// of the given kind.
	ExistsKindForUser(ctx context.Context, kind string, userID uint) (bool, error)
	// ApplyToOrder redeems the discount against the order in one
	// transaction: the discount row is re-read under a write lock and
	// Redeem recomputes the amount, balance movement and use counter
	// from it, so concurrent checkouts cannot double-spend a gift card.
	ApplyToOrder(ctx context.Context, orderID, discountID uint, subtotal money.Money) (*ApplyRecord, error)
	Update(ctx context.Context, discount *Discount) error
}
