package sale_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"optipos/internal/core/apperror"
	"optipos/internal/core/entity"
	"optipos/internal/core/id"
	"optipos/internal/core/types"
	"optipos/internal/domain/catalogs/customer"
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
	sales       *sale.Service
	ledger      *stock.Service
	products    product.Repository
	customers   customer.Repository
	lensTypes   lenstype.Repository
	saleRepo    sale.Repository
	warehouseID id.ID
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
	customers := jsondoc.NewCustomerRepository(store)
	lensTypes := jsondoc.NewLensTypeRepository(store)
	saleRepo := jsondoc.NewSaleRepository(store)
	stockRepo := jsondoc.NewStockRepository(store)
	txm := jsondoc.NewTxManager(store)

	wh := warehouse.New("Main", "")
	require.NoError(t, warehouses.Create(ctx, wh))

	numbers := numerator.NewService(saleRepo, products, numerator.DefaultConfig())
	ledger := stock.NewService(stockRepo, warehouses)
	catalogs := resolver.NewService(products, lensTypes, saleRepo, numbers, ledger)

	return &fixture{
		sales:       sale.NewService(saleRepo, customers, products, ledger, catalogs, numbers, txm),
		ledger:      ledger,
		products:    products,
		customers:   customers,
		lensTypes:   lensTypes,
		saleRepo:    saleRepo,
		warehouseID: wh.ID,
	}
}

// seedProduct creates a catalog product with the given starting stock.
func (f *fixture) seedProduct(t *testing.T, name string, qty int64) *product.Product {
	t.Helper()
	ctx := context.Background()

	p := product.New("2"+name, name, product.CategoryFrame,
		types.MustMoney("10.00"), types.MustMoney("25.00"))
	require.NoError(t, f.products.Create(ctx, p))

	if qty != 0 {
		_, err := f.ledger.Record(ctx, p.ID, f.warehouseID, qty, entity.MovementPurchase, "", "")
		require.NoError(t, err)
	}
	return p
}

func (f *fixture) available(t *testing.T, productID id.ID) int64 {
	t.Helper()
	available, err := f.ledger.Available(context.Background(), productID, nil)
	require.NoError(t, err)
	return available
}

func TestCreateSaleDeductsStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Aviator", 10)

	doc, err := f.sales.Create(ctx, sale.Input{
		WarehouseID: f.warehouseID,
		Lines:       []sale.CartLine{{ProductID: p.ID, Quantity: 3}},
		Gross:       types.MustMoney("75.00"),
		Discount:    types.MustMoney("5.00"),
		AmountPaid:  types.MustMoney("50.00"),
	})
	require.NoError(t, err)

	require.Equal(t, "000001", doc.InvoiceNo)
	require.Equal(t, 1, doc.Revision)
	require.Nil(t, doc.CustomerID, "walk-in sale has no customer")
	require.Equal(t, sale.LabPending, doc.LabStatus)
	require.Equal(t, "70", doc.Net.String())
	require.Equal(t, "20", doc.Balance.String())

	require.Len(t, doc.Lines, 1)
	require.Equal(t, "25", doc.Lines[0].UnitPrice.String(), "catalog price snapshot")
	require.Equal(t, "75", doc.Lines[0].LineTotal.String())

	require.EqualValues(t, 7, f.available(t, p.ID))

	// Deductions carry the invoice and revision for later reversal.
	movements, err := f.ledger.MovementsByRef(ctx, doc.InvoiceNo, 1)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	require.Equal(t, entity.MovementSale, movements[0].Kind)
	require.EqualValues(t, -3, movements[0].Quantity)
}

func TestCreateSaleSequentialInvoices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Wayfarer", 10)

	for _, want := range []string{"000001", "000002", "000003"} {
		doc, err := f.sales.Create(ctx, sale.Input{
			WarehouseID: f.warehouseID,
			Lines:       []sale.CartLine{{ProductID: p.ID, Quantity: 1}},
		})
		require.NoError(t, err)
		require.Equal(t, want, doc.InvoiceNo)
	}
}

func TestCreateSaleInsufficientStockRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rich := f.seedProduct(t, "InStock", 10)
	poor := f.seedProduct(t, "Scarce", 1)

	_, err := f.sales.Create(ctx, sale.Input{
		WarehouseID: f.warehouseID,
		Lines: []sale.CartLine{
			{ProductID: rich.ID, Quantity: 5},
			{ProductID: poor.ID, Quantity: 2},
		},
	})
	require.Error(t, err)
	require.True(t, apperror.IsInsufficientStock(err))

	// The whole transaction rolled back: the first line's deduction is
	// gone and no sale was committed.
	require.EqualValues(t, 10, f.available(t, rich.ID))
	require.EqualValues(t, 1, f.available(t, poor.ID))

	count, err := f.saleRepo.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestCreateSaleInlineCustomer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Round", 5)

	doc, err := f.sales.Create(ctx, sale.Input{
		NewCustomer: &sale.CustomerInput{Name: "Asha Perera", Phone: "0771234567"},
		WarehouseID: f.warehouseID,
		Lines:       []sale.CartLine{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	require.NotNil(t, doc.CustomerID)

	created, err := f.customers.GetByID(ctx, *doc.CustomerID)
	require.NoError(t, err)
	require.Equal(t, "Asha Perera", created.Name)
}

func TestCreateSaleMadeToOrderFrame(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.sales.Create(ctx, sale.Input{
		WarehouseID: f.warehouseID,
		Lines:       []sale.CartLine{{ProductName: "Custom Titan", Quantity: 1, UnitPrice: moneyPtr("40.00")}},
	})
	require.NoError(t, err)

	// The frame was materialized in the catalog with a generated SKU.
	p, err := f.products.FindByNameCategory(ctx, "Custom Titan", product.CategoryFrame)
	require.NoError(t, err)
	require.Equal(t, "20001", p.SKU)

	// Paired receipt and deduction net to zero; stock never went negative.
	require.Zero(t, f.available(t, p.ID))

	movements, err := f.ledger.MovementsByRef(ctx, doc.InvoiceNo, 1)
	require.NoError(t, err)
	require.Len(t, movements, 2)
	require.Equal(t, entity.MovementInitial, movements[0].Kind)
	require.Equal(t, entity.MovementSale, movements[1].Kind)

	require.Equal(t, "40", doc.Lines[0].UnitPrice.String(), "explicit price overrides zero catalog price")
}

func TestCreateSaleExamNewFrameDeductsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Clubmaster", 5)

	// Frame in the cart AND marked "New" on the exam: one deduction only.
	_, err := f.sales.Create(ctx, sale.Input{
		WarehouseID: f.warehouseID,
		Lines:       []sale.CartLine{{ProductID: p.ID, Quantity: 1}},
		Exams: []sale.ExamInput{{
			ExamType:       "full",
			Frame:          "Clubmaster",
			FrameCondition: sale.FrameConditionNew,
			LensType:       "Progressive",
		}},
	})
	require.NoError(t, err)

	require.EqualValues(t, 4, f.available(t, p.ID))

	// The exam's lens type label was materialized.
	_, err = f.lensTypes.FindByName(ctx, "Progressive")
	require.NoError(t, err)
}

func TestCreateSaleExamOwnFrameNoDeduction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Heritage", 5)

	_, err := f.sales.Create(ctx, sale.Input{
		WarehouseID: f.warehouseID,
		Exams: []sale.ExamInput{{
			ExamType:       "recheck",
			Frame:          "Heritage",
			FrameCondition: "Old",
		}},
	})
	require.NoError(t, err)

	// Customer kept their own frame: no stock effect.
	require.EqualValues(t, 5, f.available(t, p.ID))
}

func TestUpdateSaleNetEffectIsLatestRevision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Metro", 10)

	doc, err := f.sales.Create(ctx, sale.Input{
		WarehouseID: f.warehouseID,
		Lines:       []sale.CartLine{{ProductID: p.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	require.EqualValues(t, 7, f.available(t, p.ID))

	updated, err := f.sales.Update(ctx, doc.ID, sale.Input{
		WarehouseID: f.warehouseID,
		Lines:       []sale.CartLine{{ProductID: p.ID, Quantity: 5}},
	})
	require.NoError(t, err)

	require.Equal(t, doc.InvoiceNo, updated.InvoiceNo, "invoice survives the update")
	require.Equal(t, 2, updated.Revision)

	// 10 - 3 + 3 - 5: the old deduction is reversed before the new one.
	require.EqualValues(t, 5, f.available(t, p.ID))
}

func TestUpdateSaleInsufficientStockRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Slim", 4)

	doc, err := f.sales.Create(ctx, sale.Input{
		WarehouseID: f.warehouseID,
		Lines:       []sale.CartLine{{ProductID: p.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	// 4 on hand, 3 sold; even with the reversal only 4 are available.
	_, err = f.sales.Update(ctx, doc.ID, sale.Input{
		WarehouseID: f.warehouseID,
		Lines:       []sale.CartLine{{ProductID: p.ID, Quantity: 5}},
	})
	require.Error(t, err)
	require.True(t, apperror.IsInsufficientStock(err))

	// Rolled back wholesale: the original revision still stands.
	require.EqualValues(t, 1, f.available(t, p.ID))

	current, err := f.sales.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	require.Equal(t, 1, current.Revision)
	require.Len(t, current.Lines, 1)
	require.EqualValues(t, 3, current.Lines[0].Quantity)
}

func TestUpdateSaleKeepsMadeToOrderProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.sales.Create(ctx, sale.Input{
		WarehouseID: f.warehouseID,
		Lines:       []sale.CartLine{{ProductName: "Bespoke", Quantity: 1}},
	})
	require.NoError(t, err)

	p, err := f.products.FindByNameCategory(ctx, "Bespoke", product.CategoryFrame)
	require.NoError(t, err)

	// Same made-to-order product still sold after the update.
	_, err = f.sales.Update(ctx, doc.ID, sale.Input{
		WarehouseID: f.warehouseID,
		Lines:       []sale.CartLine{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	require.Zero(t, f.available(t, p.ID))
}

func TestUpdateSaleChangesMadeToOrderQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc, err := f.sales.Create(ctx, sale.Input{
		WarehouseID: f.warehouseID,
		Lines:       []sale.CartLine{{ProductName: "Custom Cat-Eye", Quantity: 2}},
	})
	require.NoError(t, err)

	p, err := f.products.FindByNameCategory(ctx, "Custom Cat-Eye", product.CategoryFrame)
	require.NoError(t, err)
	require.Zero(t, f.available(t, p.ID))

	// Growing the quantity re-receives the product at the new amount, so
	// the strict deduction holds across revisions.
	doc, err = f.sales.Update(ctx, doc.ID, sale.Input{
		WarehouseID: f.warehouseID,
		Lines:       []sale.CartLine{{ProductID: p.ID, Quantity: 5}},
	})
	require.NoError(t, err)
	require.Equal(t, 2, doc.Revision)
	require.Zero(t, f.available(t, p.ID))

	// The new revision carries its own receipt/deduction pair.
	movements, err := f.ledger.MovementsByRef(ctx, doc.InvoiceNo, doc.Revision)
	require.NoError(t, err)
	require.Len(t, movements, 2)
	require.Equal(t, entity.MovementInitial, movements[0].Kind)
	require.EqualValues(t, 5, movements[0].Quantity)
	require.Equal(t, entity.MovementSale, movements[1].Kind)
	require.EqualValues(t, -5, movements[1].Quantity)

	// Shrinking leaves no phantom surplus either.
	doc, err = f.sales.Update(ctx, doc.ID, sale.Input{
		WarehouseID: f.warehouseID,
		Lines:       []sale.CartLine{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	require.Equal(t, 3, doc.Revision)
	require.Zero(t, f.available(t, p.ID))
}

func TestUpdateSaleDropsMadeToOrderProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	stocked := f.seedProduct(t, "Stocked", 5)

	doc, err := f.sales.Create(ctx, sale.Input{
		WarehouseID: f.warehouseID,
		Lines:       []sale.CartLine{{ProductName: "Abandoned", Quantity: 1}},
	})
	require.NoError(t, err)

	p, err := f.products.FindByNameCategory(ctx, "Abandoned", product.CategoryFrame)
	require.NoError(t, err)

	// Replace the made-to-order frame with a stocked one: its paired
	// receipt must be retired along with the deduction.
	_, err = f.sales.Update(ctx, doc.ID, sale.Input{
		WarehouseID: f.warehouseID,
		Lines:       []sale.CartLine{{ProductID: stocked.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	require.Zero(t, f.available(t, p.ID), "stale receipt reversed, no phantom stock")
	require.EqualValues(t, 4, f.available(t, stocked.ID))
}

func TestUpdateSaleCleansUnusedLensTypes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Pilot", 5)

	doc, err := f.sales.Create(ctx, sale.Input{
		WarehouseID: f.warehouseID,
		Lines:       []sale.CartLine{{ProductID: p.ID, Quantity: 1}},
		Exams:       []sale.ExamInput{{ExamType: "full", LensType: "Photochromic"}},
	})
	require.NoError(t, err)

	_, err = f.lensTypes.FindByName(ctx, "Photochromic")
	require.NoError(t, err)

	// The replacement drops the exam; the orphaned label goes with it.
	_, err = f.sales.Update(ctx, doc.ID, sale.Input{
		WarehouseID: f.warehouseID,
		Lines:       []sale.CartLine{{ProductID: p.ID, Quantity: 1}},
		Exams:       []sale.ExamInput{{ExamType: "full", LensType: "Single Vision"}},
	})
	require.NoError(t, err)

	_, err = f.lensTypes.FindByName(ctx, "Photochromic")
	require.True(t, apperror.IsNotFound(err))

	_, err = f.lensTypes.FindByName(ctx, "Single Vision")
	require.NoError(t, err)
}

func TestCreateSaleValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.sales.Create(ctx, sale.Input{WarehouseID: f.warehouseID})
	require.Error(t, err, "empty order is rejected")

	_, err = f.sales.Create(ctx, sale.Input{
		WarehouseID: f.warehouseID,
		Lines:       []sale.CartLine{{ProductName: "X", Quantity: 0}},
	})
	require.Error(t, err, "zero quantity line is rejected")

	_, err = f.sales.Create(ctx, sale.Input{
		WarehouseID: f.warehouseID,
		Lines:       []sale.CartLine{{ProductName: "X", Quantity: 1}},
		LabStatus:   sale.LabStatus("lost"),
	})
	require.Error(t, err, "unknown lab status is rejected")
}

func TestGetByInvoiceHydrates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Nova", 5)

	created, err := f.sales.Create(ctx, sale.Input{
		WarehouseID: f.warehouseID,
		Lines:       []sale.CartLine{{ProductID: p.ID, Quantity: 2}},
		Exams:       []sale.ExamInput{{ExamType: "full", IPD: "62"}},
	})
	require.NoError(t, err)

	doc, err := f.sales.GetByInvoice(ctx, created.InvoiceNo)
	require.NoError(t, err)
	require.Equal(t, created.ID, doc.ID)
	require.Len(t, doc.Lines, 1)
	require.Len(t, doc.Exams, 1)
	require.Equal(t, "62", doc.Exams[0].IPD)
}

func moneyPtr(s string) *types.Money {
	m := types.MustMoney(s)
	return &m
}
