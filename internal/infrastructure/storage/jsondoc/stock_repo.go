package jsondoc

import (
	"context"
	"sort"

	"optipos/internal/core/entity"
	"optipos/internal/core/id"
	"optipos/internal/domain/registers/stock"
)

// StockRepository implements stock.Repository over the document store.
// Movements live in one append-only slice; aggregates scan it on every
// call so stock is always derived from the full history.
type StockRepository struct {
	store *Store
}

// NewStockRepository creates a new stock ledger repository.
func NewStockRepository(store *Store) *StockRepository {
	return &StockRepository{store: store}
}

var _ stock.Repository = (*StockRepository)(nil)

func (r *StockRepository) CreateMovement(ctx context.Context, m entity.StockMovement) error {
	return r.store.update(ctx, func(db *database) error {
		db.Movements = append(db.Movements, m)
		return nil
	})
}

func (r *StockRepository) SumByProduct(ctx context.Context, productID id.ID, warehouseID *id.ID) (int64, error) {
	var sum int64
	err := r.store.view(ctx, func(db *database) error {
		for _, m := range db.Movements {
			if m.ProductID != productID {
				continue
			}
			if warehouseID != nil && m.WarehouseID != *warehouseID {
				continue
			}
			sum += m.Quantity
		}
		return nil
	})
	return sum, err
}

func (r *StockRepository) ListByProduct(ctx context.Context, productID id.ID, filter stock.MovementFilter) ([]entity.StockMovement, error) {
	var out []entity.StockMovement
	err := r.store.view(ctx, func(db *database) error {
		for _, m := range db.Movements {
			if m.ProductID != productID {
				continue
			}
			if filter.WarehouseID != nil && m.WarehouseID != *filter.WarehouseID {
				continue
			}
			if filter.Kind != nil && m.Kind != *filter.Kind {
				continue
			}
			out = append(out, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Newest first; the append order breaks creation-time ties.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *StockRepository) ListByRef(ctx context.Context, refNo string, refVersion int) ([]entity.StockMovement, error) {
	var out []entity.StockMovement
	err := r.store.view(ctx, func(db *database) error {
		for _, m := range db.Movements {
			if m.RefNo == refNo && m.RefVersion == refVersion {
				out = append(out, m)
			}
		}
		return nil
	})
	return out, err
}
