package domain

import (
	"time"
)

// Reservation statuses. Active is the only non-terminal state.
const (
	ReservationActive    = "active"
	ReservationFulfilled = "fulfilled"
	ReservationCancelled = "cancelled"
	ReservationExpired   = "expired"
)

// ReservationTTL is how long a hold survives without being fulfilled.
const ReservationTTL = 24 * time.Hour

// InventoryReservation is a temporary hold on stock tied to a pending order.
type InventoryReservation struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	InventoryItemID uint       `json:"inventory_item_id" gorm:"not null;index"`
	OrderID         *uint      `json:"order_id" gorm:"index"`
	Quantity        int        `json:"quantity" gorm:"not null"`
	Status          string     `json:"status" gorm:"not null;default:'active';index"`
	ExpiresAt       time.Time  `json:"expires_at" gorm:"not null;index"`
	FulfilledAt     *time.Time `json:"fulfilled_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName specifies the table name
func (InventoryReservation) TableName() string {
	return "inventory_reservations"
}

// IsActive reports whether the reservation still holds stock.
func (r *InventoryReservation) IsActive() bool {
	return r.Status == ReservationActive
}

// IsExpired reports whether an active reservation has passed its deadline.
func (r *InventoryReservation) IsExpired(now time.Time) bool {
	return r.IsActive() && r.ExpiresAt.Before(now)
}

// Fulfill transitions Active → Fulfilled.
func (r *InventoryReservation) Fulfill(now time.Time) error {
	if !r.IsActive() {
		return ErrReservationNotActive
	}
	r.Status = ReservationFulfilled
	r.FulfilledAt = &now
	return nil
}

// Cancel transitions Active → Cancelled.
func (r *InventoryReservation) Cancel() error {
	if !r.IsActive() {
		return ErrReservationNotActive
	}
	r.Status = ReservationCancelled
	return nil
}

// Expire transitions Active → Expired.
func (r *InventoryReservation) Expire() error {
	if !r.IsActive() {
		return ErrReservationNotActive
	}
	r.Status = ReservationExpired
	return nil
}
