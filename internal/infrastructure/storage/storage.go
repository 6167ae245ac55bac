// Package storage wires the repository implementations behind one facade
// so the rest of the application never knows which backend is active.
package storage

import (
	"context"
	"fmt"

	"optipos/internal/core/apperror"
	"optipos/internal/core/tx"
	"optipos/internal/domain/catalogs/customer"
	"optipos/internal/domain/catalogs/lenstype"
	"optipos/internal/domain/catalogs/product"
	"optipos/internal/domain/catalogs/warehouse"
	"optipos/internal/domain/documents/sale"
	"optipos/internal/domain/registers/stock"
	"optipos/internal/infrastructure/storage/jsondoc"
	"optipos/internal/infrastructure/storage/postgres"
	"optipos/internal/infrastructure/storage/postgres/catalog_repo"
	"optipos/internal/infrastructure/storage/postgres/document_repo"
	"optipos/internal/infrastructure/storage/postgres/register_repo"
)

// Driver selects the storage backend.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverFile     Driver = "file"
)

// Config holds backend selection and per-backend settings.
type Config struct {
	Driver Driver

	// DSN is the PostgreSQL connection string (postgres driver)
	DSN string

	// Path is the JSON document location (file driver)
	Path string

	// BackupDir receives compressed document backups (file driver)
	BackupDir string
}

// Backend bundles every repository plus the transaction manager for the
// selected driver. Both drivers satisfy the same domain contracts; the
// services cannot tell them apart.
type Backend struct {
	TxManager tx.ReadOnlyManager

	Products   product.Repository
	Warehouses warehouse.Repository
	Customers  customer.Repository
	LensTypes  lenstype.Repository
	Sales      sale.Repository
	Stock      stock.Repository

	close func()
}

// Open builds the backend for cfg.Driver.
func Open(ctx context.Context, cfg Config) (*Backend, error) {
	switch cfg.Driver {
	case DriverPostgres:
		return openPostgres(ctx, cfg)
	case DriverFile:
		return openFile(ctx, cfg)
	default:
		return nil, apperror.NewValidation("unknown storage driver").
			WithDetail("driver", string(cfg.Driver))
	}
}

// Close releases backend resources.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

func openPostgres(ctx context.Context, cfg Config) (*Backend, error) {
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DSN))
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	txm := postgres.NewTxManager(pool)
	return &Backend{
		TxManager:  txm,
		Products:   catalog_repo.NewProductRepo(txm),
		Warehouses: catalog_repo.NewWarehouseRepo(txm),
		Customers:  catalog_repo.NewCustomerRepo(txm),
		LensTypes:  catalog_repo.NewLensTypeRepo(txm),
		Sales:      document_repo.NewSaleRepo(txm),
		Stock:      register_repo.NewStockRepo(txm),
		close:      pool.Close,
	}, nil
}

func openFile(ctx context.Context, cfg Config) (*Backend, error) {
	store, err := jsondoc.Open(ctx, jsondoc.Config{
		Path:      cfg.Path,
		BackupDir: cfg.BackupDir,
	})
	if err != nil {
		return nil, fmt.Errorf("open document store: %w", err)
	}

	return &Backend{
		TxManager:  jsondoc.NewTxManager(store),
		Products:   jsondoc.NewProductRepository(store),
		Warehouses: jsondoc.NewWarehouseRepository(store),
		Customers:  jsondoc.NewCustomerRepository(store),
		LensTypes:  jsondoc.NewLensTypeRepository(store),
		Sales:      jsondoc.NewSaleRepository(store),
		Stock:      jsondoc.NewStockRepository(store),
	}, nil
}
