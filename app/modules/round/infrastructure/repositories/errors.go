package rounddb

import "errors"

// Sentinel errors for the repository layer.
var (
	// ErrNotFound indicates the requested round does not exist.
	ErrNotFound = errors.New("round not found")

	// ErrSubTypeNotFound indicates the round exists but has no such sub-type.
	ErrSubTypeNotFound = errors.New("round sub-type not found")
)
