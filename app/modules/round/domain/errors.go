package rounddomain

import "errors"

var (
	ErrLengthMismatch         = errors.New("arrow counts and distances differ in length")
	ErrMixedRounds            = errors.New("round data mixes more than one round")
	ErrMixedSubTypes          = errors.New("distances mix more than one sub-type")
	ErrMixedUnits             = errors.New("distances mix metric and imperial values")
	ErrDuplicateDistanceIndex = errors.New("duplicate distance index")
	ErrDistanceIndexMismatch  = errors.New("arrow counts and distances cover different distance indexes")
	ErrNonPositiveArrowCount  = errors.New("arrow count must be positive")
	ErrNonPositiveDistance    = errors.New("distance must be positive")
	ErrDistancesNotDescending = errors.New("distances must not increase in shooting order")
	ErrDistancesNotSorted     = errors.New("round data is not in distance index order")
	ErrInvalidRoundDefinition = errors.New("invalid round definition")
)
