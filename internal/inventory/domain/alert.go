package domain

import "time"

// Alert types
const (
	AlertLowStock   = "low_stock"
	AlertOutOfStock = "out_of_stock"
)

// InventoryAlert records a crossed stock threshold. Alerts are resolved in
// place when stock recovers, never deleted; at most one unresolved alert of
// a type exists per item.
type InventoryAlert struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	InventoryItemID uint       `json:"inventory_item_id" gorm:"not null;index"`
	AlertType       string     `json:"alert_type" gorm:"not null;index"`
	ThresholdValue  int        `json:"threshold_value"`
	CurrentValue    int        `json:"current_value"`
	IsResolved      bool       `json:"is_resolved" gorm:"default:false;index"`
	ResolvedAt      *time.Time `json:"resolved_at"`
	ResolvedBy      string     `json:"resolved_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName specifies the table name
func (InventoryAlert) TableName() string {
	return "inventory_alerts"
}
