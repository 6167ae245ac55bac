// Package customer provides the Customer catalog.
// Orders may reference a customer or be walk-in (no customer record).
package customer

import (
	"context"

	"optipos/internal/core/apperror"
	"optipos/internal/core/entity"
)

// Customer represents a shop customer.
type Customer struct {
	entity.BaseEntity

	Name    string `db:"name" json:"name"`
	Phone   string `db:"phone" json:"phone,omitempty"`
	Address string `db:"address" json:"address,omitempty"`
}

// New creates a new Customer.
func New(name, phone, address string) *Customer {
	return &Customer{
		BaseEntity: entity.NewBaseEntity(),
		Name:       name,
		Phone:      phone,
		Address:    address,
	}
}

// Validate implements entity.Validatable.
func (c *Customer) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("customer name is required").
			WithDetail("field", "name")
	}
	return nil
}

var _ entity.Validatable = (*Customer)(nil)
