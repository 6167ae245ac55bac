// Package id provides entity identifiers.
//
// Identifiers are UUIDv7: the leading timestamp bits make catalog rows,
// stock movements and sale documents sort by creation time, which the
// movement history ordering and the oldest-warehouse default rely on in
// both storage backends.
package id

import (
	"github.com/google/uuid"
)

// ID identifies a catalog entity, document or movement.
type ID = uuid.UUID

// New returns a fresh time-ordered identifier.
func New() ID {
	v7, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does; fall back to v4
		// rather than abort a movement insert.
		return uuid.New()
	}
	return v7
}

// Parse validates and converts an identifier from its string form.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse is Parse for fixtures; panics on malformed input.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// Nil returns the zero identifier.
func Nil() ID {
	return uuid.Nil
}

// IsNil reports whether id is the zero identifier.
func IsNil(id ID) bool {
	return id == uuid.Nil
}
