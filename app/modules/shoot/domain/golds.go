package shootdomain

import (
	"fmt"
	"strings"

	rounddomain "github.com/Black-And-White-Club/archery-scorer/app/modules/round/domain"
)

// GoldsType selects which arrows count as golds. The zero value is NinesUp.
type GoldsType int

const (
	// NinesUp counts 9 and above, used on imperial outdoor faces.
	NinesUp GoldsType = iota
	// TensOnly counts 10s, used on indoor faces.
	TensOnly
	// XOnly counts Xs, used on metric outdoor faces.
	XOnly
)

// IsGold reports whether the arrow is a gold under this policy.
func (g GoldsType) IsGold(a Arrow) bool {
	switch g {
	case TensOnly:
		return a.Score >= 10
	case XOnly:
		return a.Score >= 10 && a.IsX
	default:
		return a.Score >= 9
	}
}

func (g GoldsType) String() string {
	switch g {
	case NinesUp:
		return "nines_up"
	case TensOnly:
		return "tens_only"
	case XOnly:
		return "x_only"
	default:
		return fmt.Sprintf("golds_type(%d)", int(g))
	}
}

// ParseGoldsType accepts the String form, case-insensitively.
func ParseGoldsType(s string) (GoldsType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nines_up", "nines":
		return NinesUp, nil
	case "tens_only", "tens":
		return TensOnly, nil
	case "x_only", "xs":
		return XOnly, nil
	}
	return NinesUp, fmt.Errorf("%w: %q", ErrUnknownGoldsType, s)
}

// GoldsTypeForRound picks the policy from round metadata. Without a round the
// imperial outdoor default, NinesUp, applies.
func GoldsTypeForRound(round *rounddomain.Round) GoldsType {
	switch {
	case round == nil:
		return NinesUp
	case !round.IsOutdoor:
		return TensOnly
	case round.IsMetric:
		return XOnly
	default:
		return NinesUp
	}
}
