package repositories

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist, or an
	// ownership-scoped mutation matched zero rows. Callers cannot tell the
	// two cases apart.
	ErrNotFound = errors.New("record not found")
	// ErrConflict indicates the attempted write would violate a uniqueness
	// constraint.
	ErrConflict = errors.New("record conflict")
)
