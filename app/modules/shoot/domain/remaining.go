package shootdomain

import (
	"fmt"

	rounddomain "github.com/Black-And-White-Club/archery-scorer/app/modules/round/domain"
)

// DistanceArrows is a count of arrows still to shoot at one distance.
type DistanceArrows struct {
	Count    int
	Distance int
	Unit     rounddomain.DistanceUnit
}

// RemainingArrows tells an archer where they are in a round: arrows left at the
// current distance, and the full arrow count of every distance after it.
type RemainingArrows struct {
	Current DistanceArrows
	Later   []DistanceArrows
}

// Total is the number of arrows left in the round.
func (r *RemainingArrows) Total() int {
	if r == nil {
		return 0
	}
	total := r.Current.Count
	for _, l := range r.Later {
		total += l.Count
	}
	return total
}

// CalculateRemainingArrows validates the round data and reports the arrows left
// after shotCount arrows. It returns nil when the round is complete or has no legs.
func CalculateRemainingArrows(shotCount int, counts []rounddomain.RoundArrowCount, distances []rounddomain.RoundDistance) (*RemainingArrows, error) {
	if shotCount < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNegativeShot, shotCount)
	}
	structure, err := rounddomain.NewStructure(counts, distances)
	if err != nil {
		return nil, err
	}
	return RemainingArrowsFor(shotCount, structure)
}

// RemainingArrowsFor is CalculateRemainingArrows over an already validated structure.
func RemainingArrowsFor(shotCount int, structure rounddomain.Structure) (*RemainingArrows, error) {
	if shotCount < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNegativeShot, shotCount)
	}

	cumulative := 0
	for i, leg := range structure.Legs {
		cumulative += leg.ArrowCount
		if cumulative <= shotCount {
			continue
		}
		later := make([]DistanceArrows, 0, len(structure.Legs)-i-1)
		for _, next := range structure.Legs[i+1:] {
			later = append(later, DistanceArrows{Count: next.ArrowCount, Distance: next.Distance, Unit: next.Unit})
		}
		return &RemainingArrows{
			Current: DistanceArrows{Count: cumulative - shotCount, Distance: leg.Distance, Unit: leg.Unit},
			Later:   later,
		}, nil
	}
	return nil, nil
}
