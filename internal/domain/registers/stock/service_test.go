package stock_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"optipos/internal/core/apperror"
	"optipos/internal/core/entity"
	"optipos/internal/core/id"
	"optipos/internal/domain/catalogs/warehouse"
	"optipos/internal/domain/registers/stock"
	"optipos/internal/infrastructure/storage/jsondoc"
)

type ledgerFixture struct {
	ledger      *stock.Service
	warehouses  warehouse.Repository
	warehouseID id.ID
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	ctx := context.Background()

	store, err := jsondoc.Open(ctx, jsondoc.Config{
		Path: filepath.Join(t.TempDir(), "optipos.json"),
	})
	require.NoError(t, err)

	warehouses := jsondoc.NewWarehouseRepository(store)
	wh := warehouse.New("Main", "")
	require.NoError(t, warehouses.Create(ctx, wh))

	return &ledgerFixture{
		ledger:      stock.NewService(jsondoc.NewStockRepository(store), warehouses),
		warehouses:  warehouses,
		warehouseID: wh.ID,
	}
}

func TestAvailableIsDerivedFromMovements(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	productID := id.New()

	_, err := f.ledger.Record(ctx, productID, f.warehouseID, 10, entity.MovementPurchase, "PO-1", "")
	require.NoError(t, err)
	_, err = f.ledger.Record(ctx, productID, f.warehouseID, -3, entity.MovementDamage, "", "cracked lens")
	require.NoError(t, err)
	_, err = f.ledger.Record(ctx, productID, f.warehouseID, 5, entity.MovementPurchase, "PO-2", "")
	require.NoError(t, err)

	available, err := f.ledger.Available(ctx, productID, nil)
	require.NoError(t, err)
	require.EqualValues(t, 12, available)

	history, err := f.ledger.MovementHistory(ctx, productID, stock.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, history, 3, "every change is a movement row, never an overwrite")
}

func TestRecordZeroQuantityAllowed(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	productID := id.New()

	// Zero-quantity initial movements mark catalog birth.
	_, err := f.ledger.Record(ctx, productID, f.warehouseID, 0, entity.MovementInitial, "", "created")
	require.NoError(t, err)

	available, err := f.ledger.Available(ctx, productID, nil)
	require.NoError(t, err)
	require.Zero(t, available)
}

func TestRecordFallsBackToDefaultWarehouse(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	productID := id.New()

	_, err := f.ledger.Record(ctx, productID, id.Nil(), 4, entity.MovementPurchase, "", "")
	require.NoError(t, err)

	history, err := f.ledger.MovementHistory(ctx, productID, stock.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, f.warehouseID, history[0].WarehouseID)
}

func TestRecordNoWarehouseConfigured(t *testing.T) {
	ctx := context.Background()
	store, err := jsondoc.Open(ctx, jsondoc.Config{
		Path: filepath.Join(t.TempDir(), "optipos.json"),
	})
	require.NoError(t, err)

	ledger := stock.NewService(jsondoc.NewStockRepository(store), jsondoc.NewWarehouseRepository(store))

	_, err = ledger.Record(ctx, id.New(), id.Nil(), 1, entity.MovementPurchase, "", "")
	require.Error(t, err)
	require.True(t, apperror.IsNoWarehouse(err))
}

func TestDeductForSaleStrict(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	productID := id.New()

	_, err := f.ledger.Record(ctx, productID, f.warehouseID, 2, entity.MovementPurchase, "", "")
	require.NoError(t, err)

	err = f.ledger.DeductForSale(ctx, productID, f.warehouseID, 3, "000001", 1)
	require.Error(t, err)
	require.True(t, apperror.IsInsufficientStock(err))

	// The failed attempt must not have written anything.
	available, err := f.ledger.Available(ctx, productID, nil)
	require.NoError(t, err)
	require.EqualValues(t, 2, available)

	require.NoError(t, f.ledger.DeductForSale(ctx, productID, f.warehouseID, 2, "000001", 1))

	available, err = f.ledger.Available(ctx, productID, nil)
	require.NoError(t, err)
	require.Zero(t, available)
}

func TestReplaceRecordsDelta(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	productID := id.New()

	_, err := f.ledger.Record(ctx, productID, f.warehouseID, 10, entity.MovementPurchase, "", "")
	require.NoError(t, err)

	delta, err := f.ledger.Replace(ctx, productID, f.warehouseID, 7, "recount")
	require.NoError(t, err)
	require.EqualValues(t, -3, delta)

	available, err := f.ledger.Available(ctx, productID, nil)
	require.NoError(t, err)
	require.EqualValues(t, 7, available)

	// Replacing with the current value appends nothing.
	delta, err = f.ledger.Replace(ctx, productID, f.warehouseID, 7, "recount again")
	require.NoError(t, err)
	require.Zero(t, delta)

	kind := entity.MovementAdjustment
	adjustments, err := f.ledger.MovementHistory(ctx, productID, stock.MovementFilter{Kind: &kind})
	require.NoError(t, err)
	require.Len(t, adjustments, 1)
	require.EqualValues(t, -3, adjustments[0].Quantity)
}

func TestReverseMovements(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	productID := id.New()

	_, err := f.ledger.Record(ctx, productID, f.warehouseID, 5, entity.MovementPurchase, "", "")
	require.NoError(t, err)
	require.NoError(t, f.ledger.DeductForSale(ctx, productID, f.warehouseID, 2, "000007", 1))

	movements, err := f.ledger.MovementsByRef(ctx, "000007", 1)
	require.NoError(t, err)
	require.Len(t, movements, 1)

	require.NoError(t, f.ledger.ReverseMovements(ctx, movements, "order update"))

	available, err := f.ledger.Available(ctx, productID, nil)
	require.NoError(t, err)
	require.EqualValues(t, 5, available)

	// Reversals carry no revision so a later reversal pass never picks
	// them up again.
	reversed, err := f.ledger.MovementsByRef(ctx, "000007", 0)
	require.NoError(t, err)
	require.Len(t, reversed, 1)
	require.Equal(t, entity.MovementReturn, reversed[0].Kind)
}
