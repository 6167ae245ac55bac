package handlers

import (
	"github.com/gin-gonic/gin"

	"optipos/internal/core/apperror"
	"optipos/internal/core/id"
	"optipos/internal/domain/documents/sale"
	"optipos/internal/infrastructure/http/v1/dto"
)

// SaleHandler serves the order endpoints.
type SaleHandler struct {
	BaseHandler
	service *sale.Service
}

// NewSaleHandler creates a new sale handler.
func NewSaleHandler(service *sale.Service) *SaleHandler {
	return &SaleHandler{service: service}
}

// Create handles POST /api/v1/sales.
func (h *SaleHandler) Create(c *gin.Context) {
	var req dto.SaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	doc, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSale(doc))
}

// Update handles PUT /api/v1/sales/:id: a full replace of the order's
// contents under the same invoice number.
func (h *SaleHandler) Update(c *gin.Context) {
	saleID, ok := h.PathID(c)
	if !ok {
		return
	}

	var req dto.SaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	doc, err := h.service.Update(c.Request.Context(), saleID, in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSale(doc))
}

// Get handles GET /api/v1/sales/:id.
func (h *SaleHandler) Get(c *gin.Context) {
	saleID, ok := h.PathID(c)
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSale(doc))
}

// GetByInvoice handles GET /api/v1/sales/invoice/:invoiceNo.
func (h *SaleHandler) GetByInvoice(c *gin.Context) {
	doc, err := h.service.GetByInvoice(c.Request.Context(), c.Param("invoiceNo"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSale(doc))
}

// List handles GET /api/v1/sales.
func (h *SaleHandler) List(c *gin.Context) {
	var req dto.ListSalesRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter := sale.ListFilter{
		InvoiceQuery: req.Invoice,
		Limit:        req.Limit,
		Offset:       req.Offset,
	}
	if req.CustomerID != "" {
		customerID, err := id.Parse(req.CustomerID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid customer id").WithDetail("value", req.CustomerID))
			return
		}
		filter.CustomerID = &customerID
	}

	sales, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := dto.FromSales(sales)
	h.OK(c, dto.NewListResponse(items, len(items)))
}
