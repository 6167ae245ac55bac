// Package resolver centralizes find-or-create logic for auxiliary catalog
// entities implied by free-text order fields: frame products and lens-type
// labels. Every call site (order service, stock adjustments, imports)
// shares this one normalization and creation policy.
//
// All operations must run inside the caller's transaction: an auto-created
// product has to be visible to the movement insert that follows it.
package resolver

import (
	"context"
	"fmt"
	"strings"

	"optipos/internal/core/apperror"
	"optipos/internal/core/entity"
	"optipos/internal/core/id"
	"optipos/internal/core/types"
	"optipos/internal/domain/catalogs/lenstype"
	"optipos/internal/domain/catalogs/product"
	"optipos/internal/domain/registers/stock"
	"optipos/pkg/logger"
)

// ExamLensTypeSource lists the distinct lens-type names referenced by at
// least one examination row. Implemented by the sale repository.
type ExamLensTypeSource interface {
	DistinctExamLensTypeNames(ctx context.Context) ([]string, error)
}

// Service is the catalog resolver.
type Service struct {
	products  product.Repository
	lensTypes lenstype.Repository
	exams     ExamLensTypeSource
	skuGen    product.SKUGenerator
	ledger    *stock.Service
}

// NewService creates a new catalog resolver.
func NewService(
	products product.Repository,
	lensTypes lenstype.Repository,
	exams ExamLensTypeSource,
	skuGen product.SKUGenerator,
	ledger *stock.Service,
) *Service {
	return &Service{
		products:  products,
		lensTypes: lensTypes,
		exams:     exams,
		skuGen:    skuGen,
		ledger:    ledger,
	}
}

// ResolveOrCreateFrame finds the Frame product with the given name, or
// creates a zero-priced one with a fresh SKU and a zero-quantity initial
// movement. The second return value reports whether the product was created.
func (s *Service) ResolveOrCreateFrame(ctx context.Context, name string) (*product.Product, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, apperror.NewValidation("frame name is required").
			WithDetail("field", "frame")
	}

	existing, err := s.products.FindByNameCategory(ctx, name, product.CategoryFrame)
	if err == nil {
		return existing, false, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, false, fmt.Errorf("lookup frame %q: %w", name, err)
	}

	sku, err := s.skuGen.GenerateSKU(ctx, product.CategoryFrame)
	if err != nil {
		return nil, false, fmt.Errorf("generate frame sku: %w", err)
	}

	p := product.New(sku, name, product.CategoryFrame, types.Zero(), types.Zero())
	if err := s.products.Create(ctx, p); err != nil {
		return nil, false, fmt.Errorf("create frame %q: %w", name, err)
	}

	// Opening zero-quantity fact so the new product appears in the ledger.
	if _, err := s.ledger.Record(ctx, p.ID, id.Nil(), 0, entity.MovementInitial, "", "auto-created from order"); err != nil {
		return nil, false, err
	}

	logger.Info(ctx, "frame auto-created", "id", p.ID, "sku", p.SKU, "name", name)
	return p, true, nil
}

// ResolveOrCreateLensType finds the lens-type label with the given name,
// creating it when absent. Labels carry no SKU and no stock.
func (s *Service) ResolveOrCreateLensType(ctx context.Context, name string) (id.ID, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return id.Nil(), apperror.NewValidation("lens type name is required").
			WithDetail("field", "lensType")
	}

	existing, err := s.lensTypes.FindByName(ctx, name)
	if err == nil {
		return existing.ID, nil
	}
	if !apperror.IsNotFound(err) {
		return id.Nil(), fmt.Errorf("lookup lens type %q: %w", name, err)
	}

	l := lenstype.New(name)
	if err := s.lensTypes.Create(ctx, l); err != nil {
		return id.Nil(), fmt.Errorf("create lens type %q: %w", name, err)
	}

	logger.Debug(ctx, "lens type created", "id", l.ID, "name", name)
	return l.ID, nil
}

// CleanupUnusedLensTypes deletes every label referenced by zero examination
// rows. Returns the number of deleted labels. Runs on every order
// replacement; the label table stays small.
func (s *Service) CleanupUnusedLensTypes(ctx context.Context) (int64, error) {
	referenced, err := s.exams.DistinctExamLensTypeNames(ctx)
	if err != nil {
		return 0, fmt.Errorf("list referenced lens types: %w", err)
	}

	deleted, err := s.lensTypes.DeleteWhereNameNotIn(ctx, referenced)
	if err != nil {
		return 0, fmt.Errorf("delete unused lens types: %w", err)
	}

	if deleted > 0 {
		logger.Info(ctx, "unused lens types removed", "count", deleted)
	}

	return deleted, nil
}
