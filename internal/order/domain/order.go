package domain

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tair/commerce-core/pkg/money"
)

// Order statuses
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusSucceeded  = "succeeded"
	StatusCancelled  = "cancelled"
	StatusRefunded   = "refunded"
)

// Billing reasons
const (
	BillingReasonPurchase          = "purchase"
	BillingReasonSubscriptionCycle = "subscription_cycle"
)

// Order represents a customer order
type Order struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	UserID          uint            `json:"user_id" gorm:"not null;index"`
	Status          string          `json:"status" gorm:"default:'pending';index"`
	BillingReason   string          `json:"billing_reason" gorm:"default:'purchase'"`
	AmountPaidCents *int64          `json:"-" gorm:"column:amount_paid_cents"`
	Items           []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	Discounts       []OrderDiscount `json:"discounts" gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a single line of an order
type OrderItem struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	OrderID     uint      `json:"order_id" gorm:"not null;index"`
	ProductID   uint      `json:"product_id" gorm:"not null;index"`
	AmountCents int64     `json:"-" gorm:"column:amount_cents;not null"`
	Quantity    int       `json:"quantity" gorm:"not null;default:1"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (OrderItem) TableName() string {
	return "order_items"
}

// Amount returns the unit amount as money.
func (i *OrderItem) Amount() money.Money {
	return money.Money(i.AmountCents)
}

// OrderDiscount is the pivot row between an order and an applied discount.
// Balance columns are populated for gift cards only.
type OrderDiscount struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	OrderID            uint      `json:"order_id" gorm:"not null;index:idx_order_discount,unique"`
	DiscountID         uint      `json:"discount_id" gorm:"not null;index:idx_order_discount,unique"`
	AmountAppliedCents int64     `json:"-" gorm:"column:amount_applied_cents;not null"`
	BalanceBeforeCents *int64    `json:"-" gorm:"column:balance_before_cents"`
	BalanceAfterCents  *int64    `json:"-" gorm:"column:balance_after_cents"`
	CreatedAt          time.Time `json:"created_at"`
}

// TableName specifies the table name
func (OrderDiscount) TableName() string {
	return "order_discounts"
}

// AmountApplied returns the applied amount as money.
func (d *OrderDiscount) AmountApplied() money.Money {
	return money.Money(d.AmountAppliedCents)
}

// Subtotal sums item amounts times quantities.
func (o *Order) Subtotal() money.Money {
	var total money.Money
	for _, item := range o.Items {
		total += money.Money(item.AmountCents * int64(item.Quantity))
	}
	return total
}

// Total is the subtotal minus everything applied through discounts. When the
// checkout recorded an explicit amount paid, that value wins. Stacked
// discounts can push the total below zero; callers clamp where they care.
func (o *Order) Total() money.Money {
	if o.AmountPaidCents != nil {
		return money.Money(*o.AmountPaidCents)
	}
	total := o.Subtotal()
	for _, d := range o.Discounts {
		total -= money.Money(d.AmountAppliedCents)
	}
	return total
}

// HasDiscount reports whether the discount is already attached to the order.
func (o *Order) HasDiscount(discountID uint) bool {
	for _, d := range o.Discounts {
		if d.DiscountID == discountID {
			return true
		}
	}
	return false
}

// OrderRepository defines the contract for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	// FindByID loads the order with its items and discount pivots.
	FindByID(ctx context.Context, id uint) (*Order, error)
	FindByUserID(ctx context.Context, userID uint, limit, offset int) ([]Order, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	// CountRenewalOrders counts the user's subscription-cycle orders.
	CountRenewalOrders(ctx context.Context, userID uint) (int64, error)
}
