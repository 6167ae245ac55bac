package jsondoc

import (
	"context"
	"sort"
	"strings"

	"optipos/internal/core/apperror"
	"optipos/internal/core/id"
	"optipos/internal/domain/catalogs/product"
)

// ProductRepository implements product.Repository over the document store.
type ProductRepository struct {
	store *Store
}

// NewProductRepository creates a new product repository.
func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{store: store}
}

var _ product.Repository = (*ProductRepository)(nil)

func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	return r.store.update(ctx, func(db *database) error {
		for _, existing := range db.Products {
			if existing.SKU == p.SKU {
				return apperror.NewDuplicate("product", "sku", p.SKU)
			}
		}
		stored := *p
		db.Products[p.ID] = &stored
		return nil
	})
}

func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	return r.store.update(ctx, func(db *database) error {
		if _, ok := db.Products[p.ID]; !ok {
			return apperror.NewNotFound("product", p.ID)
		}
		for _, existing := range db.Products {
			if existing.SKU == p.SKU && existing.ID != p.ID {
				return apperror.NewDuplicate("product", "sku", p.SKU)
			}
		}
		stored := *p
		db.Products[p.ID] = &stored
		return nil
	})
}

func (r *ProductRepository) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	var out *product.Product
	err := r.store.view(ctx, func(db *database) error {
		stored, ok := db.Products[productID]
		if !ok {
			return apperror.NewNotFound("product", productID)
		}
		p := *stored
		out = &p
		return nil
	})
	return out, err
}

func (r *ProductRepository) GetBySKU(ctx context.Context, sku string) (*product.Product, error) {
	var out *product.Product
	err := r.store.view(ctx, func(db *database) error {
		for _, stored := range db.Products {
			if stored.SKU == sku {
				p := *stored
				out = &p
				return nil
			}
		}
		return apperror.NewNotFound("product", sku)
	})
	return out, err
}

func (r *ProductRepository) FindByNameCategory(ctx context.Context, name string, category product.Category) (*product.Product, error) {
	var out *product.Product
	err := r.store.view(ctx, func(db *database) error {
		for _, stored := range db.Products {
			if stored.Name == name && stored.Category == category {
				p := *stored
				out = &p
				return nil
			}
		}
		return apperror.NewNotFound("product", name)
	})
	return out, err
}

func (r *ProductRepository) List(ctx context.Context, filter product.ListFilter) ([]*product.Product, error) {
	var out []*product.Product
	err := r.store.view(ctx, func(db *database) error {
		query := strings.ToLower(filter.Query)
		for _, stored := range db.Products {
			if filter.Category != "" && stored.Category != filter.Category {
				continue
			}
			if query != "" &&
				!strings.Contains(strings.ToLower(stored.Name), query) &&
				!strings.Contains(strings.ToLower(stored.SKU), query) {
				continue
			}
			p := *stored
			out = append(out, &p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

func (r *ProductRepository) CountBySKUPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	err := r.store.view(ctx, func(db *database) error {
		for _, stored := range db.Products {
			if strings.HasPrefix(stored.SKU, prefix) {
				count++
			}
		}
		return nil
	})
	return count, err
}
