package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// InventoryItem tracks stock for one product. Available, reserved and
// damaged counts only move through ledger operations, never direct writes.
type InventoryItem struct {
	ID                uint           `json:"id" gorm:"primaryKey"`
	ProductID         uint           `json:"product_id" gorm:"not null;uniqueIndex"`
	QuantityAvailable int            `json:"quantity_available" gorm:"not null;default:0"`
	QuantityReserved  int            `json:"quantity_reserved" gorm:"not null;default:0"`
	QuantityDamaged   int            `json:"quantity_damaged" gorm:"not null;default:0"`
	ReorderPoint      *int           `json:"reorder_point"`
	ReorderQuantity   *int           `json:"reorder_quantity"`
	TrackInventory    bool           `json:"track_inventory" gorm:"default:true"`
	AllowBackorder    bool           `json:"allow_backorder" gorm:"default:false"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// QuantityOnHand is everything physically present: available plus reserved.
func (i *InventoryItem) QuantityOnHand() int {
	return i.QuantityAvailable + i.QuantityReserved
}

// IsLowStock reports whether available stock sits at or under the reorder point.
func (i *InventoryItem) IsLowStock() bool {
	return i.ReorderPoint != nil && i.QuantityAvailable <= *i.ReorderPoint
}

// IsOutOfStock reports whether the item cannot be sold right now.
func (i *InventoryItem) IsOutOfStock() bool {
	return i.QuantityAvailable <= 0 && !i.AllowBackorder
}

// InventoryRepository defines the contract for inventory data access.
// Methods suffixed ForUpdate take a row lock and are only valid inside
// Transact.
type InventoryRepository interface {
	CreateItem(ctx context.Context, item *InventoryItem) error
	FindItem(ctx context.Context, id uint) (*InventoryItem, error)
	FindItemByProductID(ctx context.Context, productID uint) (*InventoryItem, error)
	ListItems(ctx context.Context, limit, offset int) ([]InventoryItem, error)
	SaveItem(ctx context.Context, item *InventoryItem) error

	CreateTransaction(ctx context.Context, txn *InventoryTransaction) error
	ListTransactions(ctx context.Context, itemID uint, limit, offset int) ([]InventoryTransaction, error)

	CreateReservation(ctx context.Context, reservation *InventoryReservation) error
	SaveReservation(ctx context.Context, reservation *InventoryReservation) error
	ActiveReservationsForOrder(ctx context.Context, orderID uint) ([]InventoryReservation, error)
	ExpiredActiveReservations(ctx context.Context, now time.Time) ([]InventoryReservation, error)

	UnresolvedAlert(ctx context.Context, itemID uint, alertType string) (*InventoryAlert, error)
	CreateAlert(ctx context.Context, alert *InventoryAlert) error
	ResolveAlerts(ctx context.Context, itemID uint, alertType string, resolvedAt time.Time) error
	ListAlerts(ctx context.Context, itemID uint, includeResolved bool) ([]InventoryAlert, error)

	// Transact runs fn inside one database transaction. The repository
	// passed to fn sees uncommitted state; any error rolls everything back.
	Transact(ctx context.Context, fn func(InventoryRepository) error) error
	FindItemForUpdate(ctx context.Context, id uint) (*InventoryItem, error)
	FindItemByProductIDForUpdate(ctx context.Context, productID uint) (*InventoryItem, error)
	FindReservationForUpdate(ctx context.Context, id uint) (*InventoryReservation, error)
}
