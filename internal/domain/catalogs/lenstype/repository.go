package lenstype

import (
	"context"
)

// Repository defines storage operations for the LensType catalog.
type Repository interface {
	Create(ctx context.Context, l *LensType) error

	// FindByName returns the label with the exact name.
	// Returns apperror CodeNotFound when absent.
	FindByName(ctx context.Context, name string) (*LensType, error)

	List(ctx context.Context) ([]*LensType, error)

	// DeleteWhereNameNotIn removes every label whose name is not in
	// referenced. Returns the number of deleted labels.
	DeleteWhereNameNotIn(ctx context.Context, referenced []string) (int64, error)
}
