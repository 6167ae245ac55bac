// Package numerator derives invoice numbers and SKUs from existing records.
//
// Both operations are pure reads with no intrinsic uniqueness guarantee:
// they must execute inside the same transaction as the row they stamp, or
// two concurrent callers can be issued the same identifier.
package numerator

import (
	"context"
	"fmt"

	"optipos/internal/domain/catalogs/product"
)

// SaleCounter counts committed sales.
// Implemented by the sale repository.
type SaleCounter interface {
	Count(ctx context.Context) (int64, error)
}

// SKUCounter counts products by SKU prefix.
// Implemented by the product repository.
type SKUCounter interface {
	CountBySKUPrefix(ctx context.Context, prefix string) (int64, error)
}

// Config holds numbering configuration.
type Config struct {
	// InvoicePadWidth is the minimum invoice number width (default 6)
	InvoicePadWidth int

	// SKUPadWidth is the minimum width of the numeric SKU part (default 4)
	SKUPadWidth int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		InvoicePadWidth: 6,
		SKUPadWidth:     4,
	}
}

// Service generates sequential identifiers.
type Service struct {
	sales SaleCounter
	skus  SKUCounter
	cfg   Config
}

// NewService creates a new numerator service.
func NewService(sales SaleCounter, skus SKUCounter, cfg Config) *Service {
	if cfg.InvoicePadWidth == 0 {
		cfg.InvoicePadWidth = 6
	}
	if cfg.SKUPadWidth == 0 {
		cfg.SKUPadWidth = 4
	}
	return &Service{
		sales: sales,
		skus:  skus,
		cfg:   cfg,
	}
}

// NextInvoiceNo returns a zero-padded value one greater than the current
// sale count.
func (s *Service) NextInvoiceNo(ctx context.Context) (string, error) {
	count, err := s.sales.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("count sales: %w", err)
	}
	return fmt.Sprintf("%0*d", s.cfg.InvoicePadWidth, count+1), nil
}

// GenerateSKU returns the next category-prefixed SKU:
// <prefix><zero-padded(count of SKUs with prefix + 1)>.
func (s *Service) GenerateSKU(ctx context.Context, category product.Category) (string, error) {
	prefix := category.SKUPrefix()

	count, err := s.skus.CountBySKUPrefix(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("count skus with prefix %s: %w", prefix, err)
	}

	return fmt.Sprintf("%s%0*d", prefix, s.cfg.SKUPadWidth, count+1), nil
}

var _ product.SKUGenerator = (*Service)(nil)
