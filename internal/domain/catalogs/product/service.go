package product

import (
	"context"
	"fmt"

	"optipos/internal/core/apperror"
	"optipos/internal/core/id"
	"optipos/internal/core/tx"
	"optipos/pkg/logger"
)

// Service provides business operations for the Product catalog.
type Service struct {
	repo      Repository
	skuGen    SKUGenerator
	txManager tx.Manager
}

// NewService creates a new Product service.
func NewService(repo Repository, skuGen SKUGenerator, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		skuGen:    skuGen,
		txManager: txManager,
	}
}

// Create validates and persists a new product.
// When SKU is empty it is generated inside the same transaction as the
// insert, so sequential calls never collide.
func (s *Service) Create(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if p.SKU == "" {
			sku, err := s.skuGen.GenerateSKU(ctx, p.Category)
			if err != nil {
				return fmt.Errorf("generate sku: %w", err)
			}
			p.SKU = sku
		} else if existing, err := s.repo.GetBySKU(ctx, p.SKU); err == nil && existing.ID != p.ID {
			return apperror.NewDuplicate("product", "sku", p.SKU)
		}

		return s.repo.Create(ctx, p)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "product created", "id", p.ID, "sku", p.SKU, "name", p.Name)
	return nil
}

// Update persists changes to an existing product.
// Price edits never alter historical orders: order lines snapshot prices.
func (s *Service) Update(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, p)
	})
}

// GetByID retrieves a product.
func (s *Service) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

// GetBySKU retrieves a product by SKU.
func (s *Service) GetBySKU(ctx context.Context, sku string) (*Product, error) {
	return s.repo.GetBySKU(ctx, sku)
}

// List returns products matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Product, error) {
	return s.repo.List(ctx, filter)
}
