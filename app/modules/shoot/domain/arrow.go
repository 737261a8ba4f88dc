package shootdomain

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxArrowScore is the highest value on a target face; only such an arrow can be an X.
const MaxArrowScore = 10

// Arrow is one shot. A score of zero is a miss.
type Arrow struct {
	Score int
	IsX   bool
}

// NewArrow builds a validated arrow.
func NewArrow(score int, isX bool) (Arrow, error) {
	a := Arrow{Score: score, IsX: isX}
	if err := a.Validate(); err != nil {
		return Arrow{}, err
	}
	return a, nil
}

// Validate checks the score range and that only a maximum score carries the X flag.
func (a Arrow) Validate() error {
	if a.Score < 0 || a.Score > MaxArrowScore {
		return fmt.Errorf("%w: score %d outside 0..%d", ErrInvalidArrow, a.Score, MaxArrowScore)
	}
	if a.IsX && a.Score != MaxArrowScore {
		return fmt.Errorf("%w: X flag on a score of %d", ErrInvalidArrow, a.Score)
	}
	return nil
}

func (a Arrow) IsMiss() bool { return a.Score == 0 }

func (a Arrow) IsHit() bool { return a.Score > 0 }

// ParseArrow reads the usual score-sheet notation: "X", "M" or a number 0..10.
func ParseArrow(s string) (Arrow, error) {
	token := strings.ToUpper(strings.TrimSpace(s))
	switch token {
	case "":
		return Arrow{}, fmt.Errorf("%w: empty value", ErrInvalidArrow)
	case "X":
		return Arrow{Score: MaxArrowScore, IsX: true}, nil
	case "M":
		return Arrow{}, nil
	}
	score, err := strconv.Atoi(token)
	if err != nil {
		return Arrow{}, fmt.Errorf("%w: %q", ErrInvalidArrow, s)
	}
	return NewArrow(score, false)
}

// ParseArrows reads a list of arrow values separated by whitespace or commas.
func ParseArrows(s string) ([]Arrow, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == ';'
	})
	arrows := make([]Arrow, 0, len(fields))
	for i, f := range fields {
		a, err := ParseArrow(f)
		if err != nil {
			return nil, fmt.Errorf("arrow %d: %w", i+1, err)
		}
		arrows = append(arrows, a)
	}
	return arrows, nil
}

// ValidateArrows checks every arrow and reports the 1-based position of the first bad one.
func ValidateArrows(arrows []Arrow) error {
	for i, a := range arrows {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("arrow %d: %w", i+1, err)
		}
	}
	return nil
}
