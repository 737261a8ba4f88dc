package shootdomain

import "errors"

var (
	ErrInvalidArrow     = errors.New("invalid arrow")
	ErrInvalidEndSize   = errors.New("end size must be positive")
	ErrNegativeShot     = errors.New("shot count must not be negative")
	ErrUnknownGoldsType = errors.New("unknown golds type")
)
