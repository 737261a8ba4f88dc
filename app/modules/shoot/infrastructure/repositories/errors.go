package shootdb

import "errors"

// Sentinel errors for the repository layer.
var (
	// ErrNotFound indicates the shoot does not exist.
	ErrNotFound = errors.New("shoot not found")

	// ErrArrowNotFound indicates no arrow has the given number.
	ErrArrowNotFound = errors.New("arrow not found")

	// ErrExportNotFound indicates the export does not exist.
	ErrExportNotFound = errors.New("export not found")

	// ErrNoRowsAffected indicates an UPDATE or DELETE matched nothing.
	ErrNoRowsAffected = errors.New("no rows affected")
)
