package shootdomain

import (
	"fmt"
	"slices"

	rounddomain "github.com/Black-And-White-Club/archery-scorer/app/modules/round/domain"
)

// EndSegment is one end of a shoot. Ends are numbered continuously from 1 across
// the whole shoot. Slots is the number of arrows the end holds once complete; only
// the final segment of a shoot can hold fewer arrows than slots.
type EndSegment struct {
	Number     int
	FirstArrow int
	Arrows     []Arrow
	Slots      int

	// Leg is the round distance the end was shot at; nil for surplus ends and
	// for shoots without a round.
	Leg *rounddomain.Leg
	// LegComplete marks the end that finishes its leg.
	LegComplete bool
	// Surplus marks ends shot after the round capacity was used up.
	Surplus bool
}

// IsPartial reports whether the end still has empty slots.
func (e EndSegment) IsPartial() bool {
	return len(e.Arrows) < e.Slots
}

// SegmentEnds splits arrows, in shot order, into ends of at most endSize arrows.
//
// With a round structure each leg is filled in order and an end never crosses a leg
// boundary: the last end of a leg is cut short when the leg's arrow count is not a
// multiple of endSize. Arrows beyond the round capacity become surplus ends of
// endSize. Without a structure, or with an empty one, the arrows are split into
// plain ends.
func SegmentEnds(arrows []Arrow, endSize int, structure *rounddomain.Structure) ([]EndSegment, error) {
	if endSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidEndSize, endSize)
	}
	if len(arrows) == 0 {
		return nil, nil
	}

	hasRound := structure != nil && !structure.IsEmpty()
	segments := make([]EndSegment, 0, len(arrows)/endSize+1)
	pos := 0

	appendEnd := func(take, slots int, leg *rounddomain.Leg, legComplete, surplus bool) {
		segments = append(segments, EndSegment{
			Number:      len(segments) + 1,
			FirstArrow:  pos + 1,
			Arrows:      slices.Clone(arrows[pos : pos+take]),
			Slots:       slots,
			Leg:         leg,
			LegComplete: legComplete,
			Surplus:     surplus,
		})
		pos += take
	}

	if hasRound {
		for i := range structure.Legs {
			if pos >= len(arrows) {
				break
			}
			leg := structure.Legs[i]
			consumed := 0
			for consumed < leg.ArrowCount && pos < len(arrows) {
				slots := min(endSize, leg.ArrowCount-consumed)
				take := min(slots, len(arrows)-pos)
				consumed += take
				appendEnd(take, slots, &leg, consumed == leg.ArrowCount, false)
			}
		}
	}

	for pos < len(arrows) {
		appendEnd(min(endSize, len(arrows)-pos), endSize, nil, false, hasRound)
	}

	return segments, nil
}
