package customer

import (
	"context"

	"optipos/internal/core/id"
)

// Repository defines storage operations for the Customer catalog.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, customerID id.ID) (*Customer, error)

	// Search returns customers whose name or phone contains the query
	// (case-insensitive). Empty query returns all.
	Search(ctx context.Context, query string) ([]*Customer, error)
}
