package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"optipos/internal/core/apperror"
	"optipos/internal/core/entity"
	"optipos/internal/core/id"
	"optipos/internal/core/tx"
	"optipos/internal/domain/registers/stock"
	"optipos/internal/infrastructure/http/v1/dto"
)

// StockHandler serves the stock ledger endpoints. The ledger service never
// opens transactions itself, so manual entries initiated here get their
// transaction from the handler: the availability read and the movement
// insert of one request always share a snapshot.
type StockHandler struct {
	BaseHandler
	ledger    *stock.Service
	txManager tx.Manager
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(ledger *stock.Service, txManager tx.Manager) *StockHandler {
	return &StockHandler{ledger: ledger, txManager: txManager}
}

// Record handles POST /api/v1/stock/movements: a manual ledger entry such
// as a purchase receipt, damage write-off or adjustment.
func (h *StockHandler) Record(c *gin.Context) {
	var req dto.RecordMovementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	productID, err := id.Parse(req.ProductID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid product id").WithDetail("value", req.ProductID))
		return
	}
	warehouseID, ok := h.optionalWarehouse(c, req.WarehouseID)
	if !ok {
		return
	}

	kind := entity.MovementKind(req.Kind)
	if !entity.IsValidMovementKind(kind) {
		h.Error(c, apperror.NewValidation("invalid movement kind").WithDetail("value", req.Kind))
		return
	}

	var movementID id.ID
	err = h.txManager.RunInTransaction(c.Request.Context(), func(ctx context.Context) error {
		movementID, err = h.ledger.Record(ctx, productID, warehouseID, req.Quantity, kind, req.RefNo, req.Note)
		return err
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, movementID.String())
}

// Replace handles POST /api/v1/stock/replace: sets the product's derived
// stock to an absolute value by appending one corrective adjustment.
func (h *StockHandler) Replace(c *gin.Context) {
	var req dto.ReplaceStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	productID, err := id.Parse(req.ProductID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid product id").WithDetail("value", req.ProductID))
		return
	}
	warehouseID, ok := h.optionalWarehouse(c, req.WarehouseID)
	if !ok {
		return
	}

	var delta int64
	err = h.txManager.RunInTransaction(c.Request.Context(), func(ctx context.Context) error {
		delta, err = h.ledger.Replace(ctx, productID, warehouseID, req.Quantity, req.Note)
		return err
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"delta": delta, "available": req.Quantity})
}

// Available handles GET /api/v1/stock/:id.
func (h *StockHandler) Available(c *gin.Context) {
	productID, ok := h.PathID(c)
	if !ok {
		return
	}

	var warehouseID *id.ID
	if raw := c.Query("warehouseId"); raw != "" {
		parsed, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid warehouse id").WithDetail("value", raw))
			return
		}
		warehouseID = &parsed
	}

	available, err := h.ledger.Available(c.Request.Context(), productID, warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.AvailableResponse{ProductID: productID.String(), Available: available})
}

// History handles GET /api/v1/stock/:id/movements.
func (h *StockHandler) History(c *gin.Context) {
	productID, ok := h.PathID(c)
	if !ok {
		return
	}

	filter := stock.MovementFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}
	if raw := c.Query("warehouseId"); raw != "" {
		parsed, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid warehouse id").WithDetail("value", raw))
			return
		}
		filter.WarehouseID = &parsed
	}
	if raw := c.Query("kind"); raw != "" {
		kind := entity.MovementKind(raw)
		if !entity.IsValidMovementKind(kind) {
			h.Error(c, apperror.NewValidation("invalid movement kind").WithDetail("value", raw))
			return
		}
		filter.Kind = &kind
	}

	movements, err := h.ledger.MovementHistory(c.Request.Context(), productID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := dto.FromMovements(movements)
	h.OK(c, dto.NewListResponse(items, len(items)))
}

func (h *StockHandler) optionalWarehouse(c *gin.Context, raw string) (id.ID, bool) {
	if raw == "" {
		return id.Nil(), true
	}
	parsed, err := id.Parse(raw)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid warehouse id").WithDetail("value", raw))
		return id.Nil(), false
	}
	return parsed, true
}
