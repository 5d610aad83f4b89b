package domain

import "errors"

// Domain errors. Reservation and ledger operations abort whole transactions,
// so a returned error means no stock moved.
var (
	ErrItemNotFound         = errors.New("inventory item not found")
	ErrNotTracked           = errors.New("item not configured to track inventory")
	ErrInsufficientStock    = errors.New("insufficient inventory to reserve")
	ErrStockBelowZero       = errors.New("adjustment would drive stock below zero")
	ErrReservationNotActive = errors.New("reservation is not active")
)
