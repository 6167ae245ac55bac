package dto

import (
	"time"

	"optipos/internal/domain/catalogs/warehouse"
)

// CreateWarehouseRequest is the request body for creating a warehouse.
type CreateWarehouseRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateWarehouseRequest) ToEntity() *warehouse.Warehouse {
	return warehouse.New(r.Name, r.Location)
}

// WarehouseResponse is the response body for a warehouse.
type WarehouseResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromWarehouse creates response DTO from domain entity.
func FromWarehouse(w *warehouse.Warehouse) *WarehouseResponse {
	return &WarehouseResponse{
		ID:        w.ID.String(),
		Name:      w.Name,
		Location:  w.Location,
		CreatedAt: w.CreatedAt,
	}
}

// FromWarehouses maps a warehouse slice to response DTOs.
func FromWarehouses(warehouses []*warehouse.Warehouse) []*WarehouseResponse {
	out := make([]*WarehouseResponse, 0, len(warehouses))
	for _, w := range warehouses {
		out = append(out, FromWarehouse(w))
	}
	return out
}
