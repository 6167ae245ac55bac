// Package warehouse provides the Warehouse catalog.
// A warehouse is a stock location; at least one must exist before any
// stock movement is recorded.
package warehouse

import (
	"context"

	"optipos/internal/core/apperror"
	"optipos/internal/core/entity"
)

// Warehouse represents a stock location.
type Warehouse struct {
	entity.BaseEntity

	Name     string `db:"name" json:"name"`
	Location string `db:"location" json:"location,omitempty"`
}

// New creates a new Warehouse.
func New(name, location string) *Warehouse {
	return &Warehouse{
		BaseEntity: entity.NewBaseEntity(),
		Name:       name,
		Location:   location,
	}
}

// Validate implements entity.Validatable.
func (w *Warehouse) Validate(ctx context.Context) error {
	if w.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}

var _ entity.Validatable = (*Warehouse)(nil)
