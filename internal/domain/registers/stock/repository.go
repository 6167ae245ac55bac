// Package stock provides the append-only stock ledger.
//
// Current stock is never a stored counter: it is always the sum of the
// product's movement quantities, recomputed on every call so the value
// always matches the audit trail.
package stock

import (
	"context"

	"optipos/internal/core/entity"
	"optipos/internal/core/id"
)

// MovementFilter narrows movement history queries.
type MovementFilter struct {
	WarehouseID *id.ID
	Kind        *entity.MovementKind
	Limit       int
	Offset      int
}

// Repository defines storage operations for the stock ledger.
type Repository interface {
	// CreateMovement appends one immutable movement fact.
	CreateMovement(ctx context.Context, m entity.StockMovement) error

	// SumByProduct returns the sum of movement quantities for the product,
	// optionally scoped to one warehouse. The aggregate is derived from the
	// movement log on every call, never cached.
	SumByProduct(ctx context.Context, productID id.ID, warehouseID *id.ID) (int64, error)

	// ListByProduct returns movement history for a product, newest first.
	ListByProduct(ctx context.Context, productID id.ID, filter MovementFilter) ([]entity.StockMovement, error)

	// ListByRef returns movements attributed to a document reference and
	// revision, oldest first.
	ListByRef(ctx context.Context, refNo string, refVersion int) ([]entity.StockMovement, error)
}
