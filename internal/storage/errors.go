package storage

import "errors"

// Storage errors for the flat-file layer.
var (
	// ErrNotFound is returned when a requested artifact does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
