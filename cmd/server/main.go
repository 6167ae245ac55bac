// Package main is the entry point for the optipos API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"optipos/internal/domain/catalogs/customer"
	"optipos/internal/domain/catalogs/product"
	"optipos/internal/domain/catalogs/resolver"
	"optipos/internal/domain/catalogs/warehouse"
	"optipos/internal/domain/documents/sale"
	"optipos/internal/domain/numerator"
	"optipos/internal/domain/registers/stock"
	v1 "optipos/internal/infrastructure/http/v1"
	"optipos/internal/infrastructure/storage"
	"optipos/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)
	log.Info("starting optipos server")

	// --- Storage backend ---
	storageCfg := storage.Config{
		Driver:    storage.Driver(getEnv("STORAGE_DRIVER", string(storage.DriverFile))),
		DSN:       getEnv("DATABASE_URL", ""),
		Path:      getEnv("DATA_PATH", "data/optipos.json"),
		BackupDir: getEnv("BACKUP_DIR", "data/backups"),
	}
	backend, err := storage.Open(ctx, storageCfg)
	if err != nil {
		log.Fatalw("failed to open storage", "driver", storageCfg.Driver, "error", err)
	}
	defer backend.Close()
	log.Infow("storage ready", "driver", storageCfg.Driver)

	// --- Domain services ---
	numbers := numerator.NewService(backend.Sales, backend.Products, numerator.DefaultConfig())
	ledger := stock.NewService(backend.Stock, backend.Warehouses)

	productService := product.NewService(backend.Products, numbers, backend.TxManager)
	warehouseService := warehouse.NewService(backend.Warehouses, backend.TxManager)
	customerService := customer.NewService(backend.Customers, backend.TxManager)

	catalogResolver := resolver.NewService(backend.Products, backend.LensTypes, backend.Sales, numbers, ledger)

	saleService := sale.NewService(
		backend.Sales,
		backend.Customers,
		backend.Products,
		ledger,
		catalogResolver,
		numbers,
		backend.TxManager,
	)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Products:   productService,
		Warehouses: warehouseService,
		Customers:  customerService,
		Sales:      saleService,
		Stock:      ledger,
		Tx:         backend.TxManager,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
