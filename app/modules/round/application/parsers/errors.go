package parsers

import "errors"

var (
	// ErrEmptyCatalogue is returned when a document contains no rounds.
	ErrEmptyCatalogue = errors.New("catalogue contains no rounds")

	// ErrMalformedTable is returned when an HTML round table cannot be read.
	ErrMalformedTable = errors.New("malformed round table")

	// ErrUnknownFormat is returned for catalogue formats with no parser.
	ErrUnknownFormat = errors.New("unknown catalogue format")
)
