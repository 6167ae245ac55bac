package dto

import (
	"time"

	"optipos/internal/core/id"
	"optipos/internal/core/types"
	"optipos/internal/domain/catalogs/product"
)

// --- Request DTOs ---

// CreateProductRequest is the request body for creating a product.
// SKU is optional: when empty the numerator assigns the next one for the
// category.
type CreateProductRequest struct {
	SKU       string `json:"sku"`
	Name      string `json:"name" binding:"required"`
	Category  string `json:"category" binding:"required"`
	CostPrice string `json:"costPrice"`
	SalePrice string `json:"salePrice"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateProductRequest) ToEntity() (*product.Product, error) {
	costPrice, err := moneyOrZero(r.CostPrice)
	if err != nil {
		return nil, err
	}
	salePrice, err := moneyOrZero(r.SalePrice)
	if err != nil {
		return nil, err
	}
	return product.New(r.SKU, r.Name, product.Category(r.Category), costPrice, salePrice), nil
}

// UpdateProductRequest is the request body for updating a product.
type UpdateProductRequest struct {
	Name      string `json:"name" binding:"required"`
	Category  string `json:"category" binding:"required"`
	CostPrice string `json:"costPrice"`
	SalePrice string `json:"salePrice"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) error {
	costPrice, err := moneyOrZero(r.CostPrice)
	if err != nil {
		return err
	}
	salePrice, err := moneyOrZero(r.SalePrice)
	if err != nil {
		return err
	}
	p.Name = r.Name
	p.Category = product.Category(r.Category)
	p.CostPrice = costPrice
	p.SalePrice = salePrice
	return nil
}

// ListProductsRequest carries product list filters.
type ListProductsRequest struct {
	Query    string `form:"q"`
	Category string `form:"category"`
}

// --- Response DTOs ---

// ProductResponse is the response body for a product. StockQty is derived
// from the movement ledger at response time, never stored.
type ProductResponse struct {
	ID        string    `json:"id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	CostPrice string    `json:"costPrice"`
	SalePrice string    `json:"salePrice"`
	StockQty  int64     `json:"stockQty"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromProduct creates response DTO from domain entity.
func FromProduct(p *product.Product) *ProductResponse {
	return &ProductResponse{
		ID:        p.ID.String(),
		SKU:       p.SKU,
		Name:      p.Name,
		Category:  string(p.Category),
		CostPrice: p.CostPrice.StringFixed(2),
		SalePrice: p.SalePrice.StringFixed(2),
		CreatedAt: p.CreatedAt,
	}
}

func moneyOrZero(s string) (types.Money, error) {
	if s == "" {
		return types.Zero(), nil
	}
	return types.NewMoneyFromString(s)
}

// ParseID parses a path/query id parameter.
func ParseID(s string) (id.ID, error) {
	return id.Parse(s)
}
