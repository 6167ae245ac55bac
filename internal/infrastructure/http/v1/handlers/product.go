package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"optipos/internal/core/id"
	"optipos/internal/domain/catalogs/product"
	"optipos/internal/infrastructure/http/v1/dto"
)

// StockReader exposes derived availability for catalog responses.
// Implemented by the stock ledger service.
type StockReader interface {
	Available(ctx context.Context, productID id.ID, warehouseID *id.ID) (int64, error)
}

// ProductHandler serves the product catalog endpoints.
type ProductHandler struct {
	BaseHandler
	service *product.Service
	stock   StockReader
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service *product.Service, stock StockReader) *ProductHandler {
	return &ProductHandler{service: service, stock: stock}
}

// Create handles POST /api/v1/products.
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, p.ID.String())
}

// Update handles PUT /api/v1/products/:id.
func (h *ProductHandler) Update(c *gin.Context) {
	productID, ok := h.PathID(c)
	if !ok {
		return
	}

	var req dto.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if err := req.ApplyTo(p); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Update(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}

	resp, ok := h.respond(c, p)
	if !ok {
		return
	}
	h.OK(c, resp)
}

// Get handles GET /api/v1/products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	productID, ok := h.PathID(c)
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	resp, ok := h.respond(c, p)
	if !ok {
		return
	}
	h.OK(c, resp)
}

// GetBySKU handles GET /api/v1/products/sku/:sku.
func (h *ProductHandler) GetBySKU(c *gin.Context) {
	p, err := h.service.GetBySKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		h.Error(c, err)
		return
	}

	resp, ok := h.respond(c, p)
	if !ok {
		return
	}
	h.OK(c, resp)
}

// List handles GET /api/v1/products.
func (h *ProductHandler) List(c *gin.Context) {
	var req dto.ListProductsRequest
	if !h.BindQuery(c, &req) {
		return
	}

	products, err := h.service.List(c.Request.Context(), product.ListFilter{
		Query:    req.Query,
		Category: product.Category(req.Category),
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		resp, ok := h.respond(c, p)
		if !ok {
			return
		}
		items = append(items, resp)
	}
	h.OK(c, dto.NewListResponse(items, len(items)))
}

// respond builds the response DTO with the ledger-derived stock quantity.
func (h *ProductHandler) respond(c *gin.Context, p *product.Product) (*dto.ProductResponse, bool) {
	resp := dto.FromProduct(p)

	qty, err := h.stock.Available(c.Request.Context(), p.ID, nil)
	if err != nil {
		h.Error(c, err)
		return nil, false
	}
	resp.StockQty = qty

	return resp, true
}
