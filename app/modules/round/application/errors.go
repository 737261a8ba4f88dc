package roundservice

import "errors"

// Domain failures returned by the round service.
var (
	ErrRoundNotFound    = errors.New("round not found")
	ErrSubTypeNotFound  = errors.New("round sub-type not found")
	ErrInvalidCatalogue = errors.New("invalid round catalogue")
)
