package handlers

import (
	"github.com/gin-gonic/gin"

	"optipos/internal/domain/catalogs/customer"
	"optipos/internal/infrastructure/http/v1/dto"
)

// CustomerHandler serves the customer catalog endpoints.
type CustomerHandler struct {
	BaseHandler
	service *customer.Service
}

// NewCustomerHandler creates a new customer handler.
func NewCustomerHandler(service *customer.Service) *CustomerHandler {
	return &CustomerHandler{service: service}
}

// Create handles POST /api/v1/customers.
func (h *CustomerHandler) Create(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cust := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), cust); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, cust.ID.String())
}

// Get handles GET /api/v1/customers/:id.
func (h *CustomerHandler) Get(c *gin.Context) {
	customerID, ok := h.PathID(c)
	if !ok {
		return
	}

	cust, err := h.service.GetByID(c.Request.Context(), customerID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromCustomer(cust))
}

// Search handles GET /api/v1/customers.
func (h *CustomerHandler) Search(c *gin.Context) {
	customers, err := h.service.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.Error(c, err)
		return
	}

	items := dto.FromCustomers(customers)
	h.OK(c, dto.NewListResponse(items, len(items)))
}
