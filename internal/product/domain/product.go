package domain

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tair/commerce-core/pkg/money"
)

// Product represents a sellable catalog entry. Pricing is stored in cents;
// Price() is the only sanctioned way to read it as money.
type Product struct {
	ID                 uint           `json:"id" gorm:"primaryKey"`
	Name               string         `json:"name" gorm:"not null"`
	Description        string         `json:"description"`
	PriceCents         int64          `json:"-" gorm:"column:price_cents;not null"`
	SKU                string         `json:"sku" gorm:"uniqueIndex"`
	AllowDiscountCodes bool           `json:"allow_discount_codes" gorm:"default:true"`
	IsActive           bool           `json:"is_active" gorm:"default:true"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// Price returns the product price as money.
func (p *Product) Price() money.Money {
	return money.Money(p.PriceCents)
}

// ProductRepository defines the contract for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id uint) (*Product, error)
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	Update(ctx context.Context, product *Product) error
}
