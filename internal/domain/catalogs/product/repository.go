package product

import (
	"context"

	"optipos/internal/core/id"
)

// ListFilter narrows product listings.
type ListFilter struct {
	// Query matches name or SKU substring (case-insensitive)
	Query string

	// Category filters by exact category when non-empty
	Category Category
}

// Repository defines storage operations for the Product catalog.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, productID id.ID) (*Product, error)
	GetBySKU(ctx context.Context, sku string) (*Product, error)

	// FindByNameCategory returns the product with the exact name and
	// category. Returns apperror CodeNotFound when absent.
	FindByNameCategory(ctx context.Context, name string, category Category) (*Product, error)

	List(ctx context.Context, filter ListFilter) ([]*Product, error)

	// CountBySKUPrefix counts products whose SKU starts with prefix.
	// Used by the SKU generator; must run inside the same transaction
	// as the insert it numbers.
	CountBySKUPrefix(ctx context.Context, prefix string) (int64, error)
}

// SKUGenerator issues category-prefixed SKUs.
// Implemented by the numerator service.
type SKUGenerator interface {
	GenerateSKU(ctx context.Context, category Category) (string, error)
}
