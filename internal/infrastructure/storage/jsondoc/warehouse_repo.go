package jsondoc

import (
	"context"
	"sort"

	"optipos/internal/core/apperror"
	"optipos/internal/core/id"
	"optipos/internal/domain/catalogs/warehouse"
)

// WarehouseRepository implements warehouse.Repository over the document store.
type WarehouseRepository struct {
	store *Store
}

// NewWarehouseRepository creates a new warehouse repository.
func NewWarehouseRepository(store *Store) *WarehouseRepository {
	return &WarehouseRepository{store: store}
}

var _ warehouse.Repository = (*WarehouseRepository)(nil)

func (r *WarehouseRepository) Create(ctx context.Context, w *warehouse.Warehouse) error {
	return r.store.update(ctx, func(db *database) error {
		stored := *w
		db.Warehouses[w.ID] = &stored
		return nil
	})
}

func (r *WarehouseRepository) GetByID(ctx context.Context, warehouseID id.ID) (*warehouse.Warehouse, error) {
	var out *warehouse.Warehouse
	err := r.store.view(ctx, func(db *database) error {
		stored, ok := db.Warehouses[warehouseID]
		if !ok {
			return apperror.NewNotFound("warehouse", warehouseID)
		}
		w := *stored
		out = &w
		return nil
	})
	return out, err
}

func (r *WarehouseRepository) GetDefault(ctx context.Context) (*warehouse.Warehouse, error) {
	var out *warehouse.Warehouse
	err := r.store.view(ctx, func(db *database) error {
		for _, stored := range db.Warehouses {
			if out == nil || stored.CreatedAt.Before(out.CreatedAt) {
				w := *stored
				out = &w
			}
		}
		if out == nil {
			return apperror.NewNoWarehouse()
		}
		return nil
	})
	return out, err
}

func (r *WarehouseRepository) List(ctx context.Context) ([]*warehouse.Warehouse, error) {
	var out []*warehouse.Warehouse
	err := r.store.view(ctx, func(db *database) error {
		for _, stored := range db.Warehouses {
			w := *stored
			out = append(out, &w)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
