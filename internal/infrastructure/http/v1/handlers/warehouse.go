package handlers

import (
	"github.com/gin-gonic/gin"

	"optipos/internal/domain/catalogs/warehouse"
	"optipos/internal/infrastructure/http/v1/dto"
)

// WarehouseHandler serves the warehouse catalog endpoints.
type WarehouseHandler struct {
	BaseHandler
	service *warehouse.Service
}

// NewWarehouseHandler creates a new warehouse handler.
func NewWarehouseHandler(service *warehouse.Service) *WarehouseHandler {
	return &WarehouseHandler{service: service}
}

// Create handles POST /api/v1/warehouses.
func (h *WarehouseHandler) Create(c *gin.Context) {
	var req dto.CreateWarehouseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	w := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), w); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, w.ID.String())
}

// Get handles GET /api/v1/warehouses/:id.
func (h *WarehouseHandler) Get(c *gin.Context) {
	warehouseID, ok := h.PathID(c)
	if !ok {
		return
	}

	w, err := h.service.GetByID(c.Request.Context(), warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromWarehouse(w))
}

// List handles GET /api/v1/warehouses.
func (h *WarehouseHandler) List(c *gin.Context) {
	warehouses, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := dto.FromWarehouses(warehouses)
	h.OK(c, dto.NewListResponse(items, len(items)))
}
