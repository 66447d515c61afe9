package repository

import "errors"

var (
	// ErrDuplicate is returned when a write violates a unique constraint
	ErrDuplicate = errors.New("duplicate record")
	// ErrNotFound is returned when a scoped write matched no row
	ErrNotFound = errors.New("record not found")
)
