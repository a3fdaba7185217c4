package repository

import "errors"

var (
	// ErrNotFound is returned when a lookup, update or delete matches no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate")
)
