// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"optipos/internal/core/tx"
	"optipos/internal/domain/catalogs/customer"
	"optipos/internal/domain/catalogs/product"
	"optipos/internal/domain/catalogs/warehouse"
	"optipos/internal/domain/documents/sale"
	"optipos/internal/domain/registers/stock"
	"optipos/internal/infrastructure/http/v1/handlers"
	"optipos/internal/infrastructure/http/v1/middleware"
)

// RouterConfig holds the services the API exposes.
type RouterConfig struct {
	Products   *product.Service
	Warehouses *warehouse.Service
	Customers  *customer.Service
	Sales      *sale.Service
	Stock      *stock.Service

	// Tx owns the transaction for manual stock entries, which have no
	// owning document to provide one.
	Tx tx.Manager

	// Ready is called on readiness probes; nil means always ready.
	Ready func(c *gin.Context) error
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Order matters: recovery outermost, then request id for log
	// correlation, then logging, then error rendering.
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Ready)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	api := router.Group("/api/v1")

	productHandler := handlers.NewProductHandler(cfg.Products, cfg.Stock)
	products := api.Group("/products")
	{
		products.POST("", productHandler.Create)
		products.GET("", productHandler.List)
		products.GET("/:id", productHandler.Get)
		products.PUT("/:id", productHandler.Update)
		products.GET("/sku/:sku", productHandler.GetBySKU)
	}

	warehouseHandler := handlers.NewWarehouseHandler(cfg.Warehouses)
	warehouses := api.Group("/warehouses")
	{
		warehouses.POST("", warehouseHandler.Create)
		warehouses.GET("", warehouseHandler.List)
		warehouses.GET("/:id", warehouseHandler.Get)
	}

	customerHandler := handlers.NewCustomerHandler(cfg.Customers)
	customers := api.Group("/customers")
	{
		customers.POST("", customerHandler.Create)
		customers.GET("", customerHandler.Search)
		customers.GET("/:id", customerHandler.Get)
	}

	stockHandler := handlers.NewStockHandler(cfg.Stock, cfg.Tx)
	stockGroup := api.Group("/stock")
	{
		stockGroup.POST("/movements", stockHandler.Record)
		stockGroup.POST("/replace", stockHandler.Replace)
		stockGroup.GET("/:id", stockHandler.Available)
		stockGroup.GET("/:id/movements", stockHandler.History)
	}

	saleHandler := handlers.NewSaleHandler(cfg.Sales)
	sales := api.Group("/sales")
	{
		sales.POST("", saleHandler.Create)
		sales.GET("", saleHandler.List)
		sales.GET("/:id", saleHandler.Get)
		sales.PUT("/:id", saleHandler.Update)
		sales.GET("/invoice/:invoiceNo", saleHandler.GetByInvoice)
	}

	return router
}
