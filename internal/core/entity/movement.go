package entity

import (
	"time"

	"optipos/internal/core/id"
)

// MovementKind classifies a stock movement.
type MovementKind string

const (
	MovementPurchase   MovementKind = "purchase"
	MovementSale       MovementKind = "sale"
	MovementReturn     MovementKind = "return"
	MovementAdjustment MovementKind = "adjustment"
	MovementInitial    MovementKind = "initial"
	MovementDamage     MovementKind = "damage"
)

// IsValidMovementKind reports whether k is a known movement kind.
func IsValidMovementKind(k MovementKind) bool {
	switch k {
	case MovementPurchase, MovementSale, MovementReturn,
		MovementAdjustment, MovementInitial, MovementDamage:
		return true
	}
	return false
}

// StockMovement is one signed, immutable quantity delta against a product's
// stock. Movements are never updated in place; corrections and reversals are
// recorded as new movements. Current stock is always the sum of movements.
type StockMovement struct {
	// ID is unique identifier for this movement (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	// Dimensions
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`
	ProductID   id.ID `db:"product_id" json:"productId"`

	// Quantity is signed: positive = in, negative = out
	Quantity int64 `db:"quantity" json:"quantity"`

	Kind MovementKind `db:"kind" json:"kind"`

	// RefNo links the movement to the document that produced it
	// (invoice number for sale deductions and their reversals)
	RefNo string `db:"ref_no" json:"refNo,omitempty"`

	// RefVersion is the order revision that produced the movement.
	// Reversal movements carry 0 so they are never reversed themselves.
	RefVersion int `db:"ref_version" json:"refVersion,omitempty"`

	Note string `db:"note" json:"note,omitempty"`

	// CreatedAt is when the movement was recorded
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewStockMovement creates a new stock movement fact.
func NewStockMovement(productID, warehouseID id.ID, quantity int64, kind MovementKind, refNo string, refVersion int, note string) StockMovement {
	return StockMovement{
		ID:          id.New(),
		WarehouseID: warehouseID,
		ProductID:   productID,
		Quantity:    quantity,
		Kind:        kind,
		RefNo:       refNo,
		RefVersion:  refVersion,
		Note:        note,
		CreatedAt:   time.Now().UTC(),
	}
}

// Reversal returns the equal-and-opposite return movement for m.
// The reversal keeps the reference but carries RefVersion 0, so a later
// reversal pass never touches it again.
func (m *StockMovement) Reversal(note string) StockMovement {
	return NewStockMovement(m.ProductID, m.WarehouseID, -m.Quantity, MovementReturn, m.RefNo, 0, note)
}
