package dto

import (
	"time"

	"optipos/internal/core/entity"
)

// RecordMovementRequest is the request body for a manual stock movement
// (purchase receipt, damage write-off, adjustment).
type RecordMovementRequest struct {
	ProductID   string `json:"productId" binding:"required"`
	WarehouseID string `json:"warehouseId"`
	Quantity    int64  `json:"quantity"`
	Kind        string `json:"kind" binding:"required"`
	RefNo       string `json:"refNo"`
	Note        string `json:"note"`
}

// ReplaceStockRequest sets a product's stock to an absolute quantity.
// The ledger records the difference as one adjustment movement.
type ReplaceStockRequest struct {
	ProductID   string `json:"productId" binding:"required"`
	WarehouseID string `json:"warehouseId"`
	Quantity    int64  `json:"quantity"`
	Note        string `json:"note"`
}

// AvailableResponse reports derived stock for a product.
type AvailableResponse struct {
	ProductID string `json:"productId"`
	Available int64  `json:"available"`
}

// MovementResponse is one ledger row.
type MovementResponse struct {
	ID          string    `json:"id"`
	WarehouseID string    `json:"warehouseId"`
	ProductID   string    `json:"productId"`
	Quantity    int64     `json:"quantity"`
	Kind        string    `json:"kind"`
	RefNo       string    `json:"refNo,omitempty"`
	RefVersion  int       `json:"refVersion,omitempty"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FromMovement creates response DTO from a ledger row.
func FromMovement(m entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:          m.ID.String(),
		WarehouseID: m.WarehouseID.String(),
		ProductID:   m.ProductID.String(),
		Quantity:    m.Quantity,
		Kind:        string(m.Kind),
		RefNo:       m.RefNo,
		RefVersion:  m.RefVersion,
		Note:        m.Note,
		CreatedAt:   m.CreatedAt,
	}
}

// FromMovements maps movements to response DTOs.
func FromMovements(movements []entity.StockMovement) []MovementResponse {
	out := make([]MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, FromMovement(m))
	}
	return out
}
