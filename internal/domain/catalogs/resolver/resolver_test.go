package resolver_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"optipos/internal/core/entity"
	"optipos/internal/core/id"
	"optipos/internal/domain/catalogs/lenstype"
	"optipos/internal/domain/catalogs/product"
	"optipos/internal/domain/catalogs/resolver"
	"optipos/internal/domain/catalogs/warehouse"
	"optipos/internal/domain/documents/sale"
	"optipos/internal/domain/numerator"
	"optipos/internal/domain/registers/stock"
	"optipos/internal/infrastructure/storage/jsondoc"
)

type fixture struct {
	resolver  *resolver.Service
	products  product.Repository
	lensTypes lenstype.Repository
	saleRepo  *jsondoc.SaleRepository
	ledger    *stock.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store, err := jsondoc.Open(ctx, jsondoc.Config{
		Path: filepath.Join(t.TempDir(), "optipos.json"),
	})
	require.NoError(t, err)

	products := jsondoc.NewProductRepository(store)
	warehouses := jsondoc.NewWarehouseRepository(store)
	lensTypes := jsondoc.NewLensTypeRepository(store)
	saleRepo := jsondoc.NewSaleRepository(store)

	require.NoError(t, warehouses.Create(ctx, warehouse.New("Main", "")))

	numbers := numerator.NewService(saleRepo, products, numerator.DefaultConfig())
	ledger := stock.NewService(jsondoc.NewStockRepository(store), warehouses)

	return &fixture{
		resolver:  resolver.NewService(products, lensTypes, saleRepo, numbers, ledger),
		products:  products,
		lensTypes: lensTypes,
		saleRepo:  saleRepo,
		ledger:    ledger,
	}
}

func TestResolveOrCreateFrame(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, created, err := f.resolver.ResolveOrCreateFrame(ctx, "  Titan Flex  ")
	require.NoError(t, err)
	require.True(t, created)

	require.Equal(t, "Titan Flex", p.Name, "name is trimmed before lookup")
	require.Equal(t, product.CategoryFrame, p.Category)
	require.Equal(t, "20001", p.SKU)
	require.True(t, p.CostPrice.IsZero())
	require.True(t, p.SalePrice.IsZero())

	// Catalog birth is marked by a zero-quantity initial movement.
	kind := entity.MovementInitial
	movements, err := f.ledger.MovementHistory(ctx, p.ID, stock.MovementFilter{Kind: &kind})
	require.NoError(t, err)
	require.Len(t, movements, 1)
	require.Zero(t, movements[0].Quantity)

	// Resolving the same name again returns the existing product.
	again, created, err := f.resolver.ResolveOrCreateFrame(ctx, "Titan Flex")
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, p.ID, again.ID)
}

func TestResolveOrCreateFrameEmptyName(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.resolver.ResolveOrCreateFrame(context.Background(), "   ")
	require.Error(t, err)
}

func TestResolveOrCreateLensType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.resolver.ResolveOrCreateLensType(ctx, "Blue Cut")
	require.NoError(t, err)
	require.False(t, id.IsNil(first))

	second, err := f.resolver.ResolveOrCreateLensType(ctx, "Blue Cut")
	require.NoError(t, err)
	require.Equal(t, first, second)

	labels, err := f.lensTypes.List(ctx)
	require.NoError(t, err)
	require.Len(t, labels, 1)
}

func TestCleanupUnusedLensTypes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.resolver.ResolveOrCreateLensType(ctx, "Progressive")
	require.NoError(t, err)
	_, err = f.resolver.ResolveOrCreateLensType(ctx, "Orphan")
	require.NoError(t, err)

	// Only "Progressive" is referenced by an examination row.
	saleID := id.New()
	require.NoError(t, f.saleRepo.SaveExams(ctx, saleID, []sale.Examination{
		{ID: id.New(), SaleID: saleID, ExamType: "full", LensType: "Progressive"},
	}))

	deleted, err := f.resolver.CleanupUnusedLensTypes(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, deleted)

	labels, err := f.lensTypes.List(ctx)
	require.NoError(t, err)
	require.Len(t, labels, 1)
	require.Equal(t, "Progressive", labels[0].Name)
}
