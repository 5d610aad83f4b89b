package domain

import (
	"context"
	"fmt"
	"time"
)

// Transaction types
const (
	TransactionRestock    = "restock"
	TransactionSale       = "sale"
	TransactionAdjustment = "adjustment"
	TransactionReserved   = "reserved"
	TransactionReleased   = "released"
	TransactionReturn     = "return"
	TransactionDamage     = "damage"
)

// Reference kinds
const (
	ReferenceOrder = "order"
)

// InventoryTransaction is an immutable audit row written on every stock
// mutation. Quantity is the signed delta; QuantityBefore/After snapshot the
// counter the operation moved (available for most types, reserved for a
// fulfillment sale).
type InventoryTransaction struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	InventoryItemID uint      `json:"inventory_item_id" gorm:"not null;index"`
	Type            string    `json:"type" gorm:"not null;index"`
	Quantity        int       `json:"quantity" gorm:"not null"`
	QuantityBefore  int       `json:"quantity_before" gorm:"not null"`
	QuantityAfter   int       `json:"quantity_after" gorm:"not null"`
	ReferenceType   string    `json:"reference_type,omitempty" gorm:"index:idx_txn_reference"`
	ReferenceID     uint      `json:"reference_id,omitempty" gorm:"index:idx_txn_reference"`
	Reason          string    `json:"reason,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// TableName specifies the table name
func (InventoryTransaction) TableName() string {
	return "inventory_transactions"
}

// Reference is a tagged link from a transaction to another record.
type Reference struct {
	Kind string `json:"kind"`
	ID   uint   `json:"id"`
}

// ReferenceResolver loads the record a reference points at.
type ReferenceResolver func(ctx context.Context, id uint) (interface{}, error)

// ReferenceRegistry resolves tagged references through per-kind lookup
// functions registered at startup, instead of any dynamic type resolution.
type ReferenceRegistry struct {
	resolvers map[string]ReferenceResolver
}

// NewReferenceRegistry creates an empty registry
func NewReferenceRegistry() *ReferenceRegistry {
	return &ReferenceRegistry{resolvers: make(map[string]ReferenceResolver)}
}

// Register installs the resolver for a reference kind.
func (r *ReferenceRegistry) Register(kind string, resolver ReferenceResolver) {
	r.resolvers[kind] = resolver
}

// Resolve looks the reference up through its registered resolver.
func (r *ReferenceRegistry) Resolve(ctx context.Context, ref Reference) (interface{}, error) {
	resolver, ok := r.resolvers[ref.Kind]
	if !ok {
		return nil, fmt.Errorf("no resolver registered for reference kind %q", ref.Kind)
	}
	return resolver(ctx, ref.ID)
}
