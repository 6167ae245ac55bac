package jsondoc

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"optipos/internal/core/types"
	"optipos/internal/domain/catalogs/product"
	"optipos/internal/domain/catalogs/warehouse"
)

func money(s string) types.Money {
	return types.MustMoney(s)
}

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "optipos.json")

	store, err := Open(context.Background(), Config{Path: path})
	require.NoError(t, err)
	return store, path
}

func newProduct(name string) *product.Product {
	return product.New("2"+name, name, product.CategoryFrame, money("10"), money("25"))
}

func TestStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	store, path := newTestStore(t)

	repo := NewProductRepository(store)
	p := newProduct("Aviator")
	require.NoError(t, repo.Create(ctx, p))

	reopened, err := Open(ctx, Config{Path: path})
	require.NoError(t, err)

	loaded, err := NewProductRepository(reopened).GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, p.SKU, loaded.SKU)
	require.True(t, p.SalePrice.Equal(loaded.SalePrice))
}

func TestTransactionRollbackRestoresDocument(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	repo := NewProductRepository(store)
	txm := NewTxManager(store)

	boom := errors.New("boom")
	err := txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := repo.Create(ctx, newProduct("Ghost")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	products, err := repo.List(ctx, product.ListFilter{})
	require.NoError(t, err)
	require.Empty(t, products, "rolled-back write must not survive")
}

func TestTransactionCommitPersists(t *testing.T) {
	ctx := context.Background()
	store, path := newTestStore(t)

	repo := NewProductRepository(store)
	txm := NewTxManager(store)

	p := newProduct("Kept")
	require.NoError(t, txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return repo.Create(ctx, p)
	}))

	// Committed state is on disk, not only in memory.
	reopened, err := Open(ctx, Config{Path: path})
	require.NoError(t, err)
	_, err = NewProductRepository(reopened).GetByID(ctx, p.ID)
	require.NoError(t, err)
}

func TestNestedTransactionJoinsOuter(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	repo := NewProductRepository(store)
	txm := NewTxManager(store)

	boom := errors.New("boom")
	err := txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := txm.RunInTransaction(ctx, func(ctx context.Context) error {
			return repo.Create(ctx, newProduct("Inner"))
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	products, err := repo.List(ctx, product.ListFilter{})
	require.NoError(t, err)
	require.Empty(t, products, "inner write rolls back with the outer transaction")
}

func TestOpenTakesCompressedBackup(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "optipos.json")
	backupDir := filepath.Join(dir, "backups")

	store, err := Open(ctx, Config{Path: path, BackupDir: backupDir})
	require.NoError(t, err)
	require.NoError(t, NewWarehouseRepository(store).Create(ctx, warehouse.New("Main", "")))

	// A second open backs up the populated document.
	_, err = Open(ctx, Config{Path: path, BackupDir: backupDir})
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(backupDir, "optipos-*.json.zst"))
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	info, err := os.Stat(matches[0])
	require.NoError(t, err)
	require.Positive(t, info.Size())
}
