// Package product provides the Product catalog.
// Products are sellable/stockable items: frames, sunglasses, lenses,
// contact lenses and accessories. A product is never deleted once a sale
// references it.
package product

import (
	"context"

	"optipos/internal/core/apperror"
	"optipos/internal/core/entity"
	"optipos/internal/core/types"
)

// Category classifies a product.
type Category string

const (
	CategoryFrame       Category = "frame"
	CategorySunglasses  Category = "sunglasses"
	CategoryAccessory   Category = "accessory"
	CategoryContactLens Category = "contact_lens"
	CategoryLens        Category = "lens"
	CategoryOther       Category = "other"
)

// IsValidCategory reports whether c is a known category.
func IsValidCategory(c Category) bool {
	switch c {
	case CategoryFrame, CategorySunglasses, CategoryAccessory,
		CategoryContactLens, CategoryLens, CategoryOther:
		return true
	}
	return false
}

// SKUPrefix returns the fixed single-digit SKU prefix for the category.
func (c Category) SKUPrefix() string {
	switch c {
	case CategoryLens:
		return "1"
	case CategoryFrame:
		return "2"
	case CategorySunglasses:
		return "3"
	case CategoryAccessory:
		return "4"
	case CategoryContactLens:
		return "5"
	default:
		return "0"
	}
}

// Product represents a sellable/stockable item.
type Product struct {
	entity.BaseEntity

	// SKU is unique and category-prefixed (see Category.SKUPrefix)
	SKU string `db:"sku" json:"sku"`

	Name     string   `db:"name" json:"name"`
	Category Category `db:"category" json:"category"`

	CostPrice types.Money `db:"cost_price" json:"costPrice"`
	SalePrice types.Money `db:"sale_price" json:"salePrice"`
}

// New creates a new Product.
func New(sku, name string, category Category, costPrice, salePrice types.Money) *Product {
	return &Product{
		BaseEntity: entity.NewBaseEntity(),
		SKU:        sku,
		Name:       name,
		Category:   category,
		CostPrice:  costPrice,
		SalePrice:  salePrice,
	}
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	if p.Name == "" {
		return apperror.NewValidation("product name is required").
			WithDetail("field", "name")
	}

	if !IsValidCategory(p.Category) {
		return apperror.NewValidation("invalid product category").
			WithDetail("field", "category").
			WithDetail("value", string(p.Category))
	}

	if p.CostPrice.IsNegative() {
		return apperror.NewValidation("cost price cannot be negative").
			WithDetail("field", "costPrice")
	}

	if p.SalePrice.IsNegative() {
		return apperror.NewValidation("sale price cannot be negative").
			WithDetail("field", "salePrice")
	}

	return nil
}

var _ entity.Validatable = (*Product)(nil)
