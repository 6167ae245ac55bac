// Package lenstype provides the LensType label catalog.
// Lens types are flat free-text labels referenced by examinations.
// They carry no SKU and no stock.
package lenstype

import (
	"context"

	"optipos/internal/core/apperror"
	"optipos/internal/core/entity"
	"optipos/internal/core/id"
)

// LensType is a flat label (e.g. "Progressive", "Blue Cut").
type LensType struct {
	ID   id.ID  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// New creates a new LensType label.
func New(name string) *LensType {
	return &LensType{
		ID:   id.New(),
		Name: name,
	}
}

// Validate implements entity.Validatable.
func (l *LensType) Validate(ctx context.Context) error {
	if l.Name == "" {
		return apperror.NewValidation("lens type name is required").
			WithDetail("field", "name")
	}
	return nil
}

var _ entity.Validatable = (*LensType)(nil)
