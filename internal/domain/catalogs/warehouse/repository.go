package warehouse

import (
	"context"

	"optipos/internal/core/id"
)

// Repository defines storage operations for the Warehouse catalog.
type Repository interface {
	Create(ctx context.Context, w *Warehouse) error
	GetByID(ctx context.Context, warehouseID id.ID) (*Warehouse, error)

	// GetDefault returns the oldest configured warehouse.
	// Returns apperror CodeNoWarehouse when none exists.
	GetDefault(ctx context.Context) (*Warehouse, error)

	List(ctx context.Context) ([]*Warehouse, error)
}
