package storage

import "errors"

// Common storage errors.
var (
	// ErrNotFound is returned when no model is stored under a URI.
	ErrNotFound = errors.New("model not found")

	// ErrInvalidKey is returned for keys that do not decode to a URI.
	ErrInvalidKey = errors.New("invalid storage key")
)
