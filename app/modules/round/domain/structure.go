package rounddomain

import (
	"cmp"
	"fmt"
	"slices"
)

// Leg is one distance of a round: how many arrows are shot there and how far away.
type Leg struct {
	DistanceIndex int
	ArrowCount    int
	Distance      int
	Unit          DistanceUnit
}

// Structure is the validated, shooting-ordered list of legs for one round sub-type.
// The zero value is an empty structure, which callers treat like having no round.
type Structure struct {
	RoundID   int64
	SubTypeID int
	Legs      []Leg
}

// NewStructure joins arrow counts with the distances of a single sub-type.
//
// Both inputs must arrive in DistanceIndex order. The call fails when they are out
// of order, differ in length, mix rounds, sub-types or units, carry duplicate or
// mismatched distance indexes, contain non-positive counts or distances, or when a
// later distance is further than an earlier one. Empty inputs give an empty structure.
func NewStructure(counts []RoundArrowCount, distances []RoundDistance) (Structure, error) {
	if len(counts) != len(distances) {
		return Structure{}, fmt.Errorf("%w: %d arrow counts, %d distances", ErrLengthMismatch, len(counts), len(distances))
	}
	if len(counts) == 0 {
		return Structure{}, nil
	}

	roundID := counts[0].RoundID
	for _, c := range counts {
		if c.RoundID != roundID {
			return Structure{}, fmt.Errorf("%w: arrow counts for rounds %d and %d", ErrMixedRounds, roundID, c.RoundID)
		}
	}
	subTypeID := distances[0].SubTypeID
	isMetric := distances[0].IsMetric
	for _, d := range distances {
		if d.RoundID != roundID {
			return Structure{}, fmt.Errorf("%w: distances for round %d, arrow counts for round %d", ErrMixedRounds, d.RoundID, roundID)
		}
		if d.SubTypeID != subTypeID {
			return Structure{}, fmt.Errorf("%w: sub-types %d and %d", ErrMixedSubTypes, subTypeID, d.SubTypeID)
		}
		if d.IsMetric != isMetric {
			return Structure{}, ErrMixedUnits
		}
	}

	for i := 1; i < len(counts); i++ {
		if counts[i].DistanceIndex < counts[i-1].DistanceIndex {
			return Structure{}, fmt.Errorf("%w: arrow count index %d follows %d", ErrDistancesNotSorted, counts[i].DistanceIndex, counts[i-1].DistanceIndex)
		}
		if distances[i].DistanceIndex < distances[i-1].DistanceIndex {
			return Structure{}, fmt.Errorf("%w: distance index %d follows %d", ErrDistancesNotSorted, distances[i].DistanceIndex, distances[i-1].DistanceIndex)
		}
	}

	unit := UnitFor(isMetric)
	legs := make([]Leg, 0, len(counts))
	for i, c := range counts {
		d := distances[i]
		if i > 0 {
			if c.DistanceIndex == counts[i-1].DistanceIndex {
				return Structure{}, fmt.Errorf("%w: %d in arrow counts", ErrDuplicateDistanceIndex, c.DistanceIndex)
			}
			if d.DistanceIndex == distances[i-1].DistanceIndex {
				return Structure{}, fmt.Errorf("%w: %d in distances", ErrDuplicateDistanceIndex, d.DistanceIndex)
			}
		}
		if c.DistanceIndex != d.DistanceIndex {
			return Structure{}, fmt.Errorf("%w: arrow count index %d, distance index %d", ErrDistanceIndexMismatch, c.DistanceIndex, d.DistanceIndex)
		}
		if c.ArrowCount <= 0 {
			return Structure{}, fmt.Errorf("%w: %d arrows at distance index %d", ErrNonPositiveArrowCount, c.ArrowCount, c.DistanceIndex)
		}
		if d.Distance <= 0 {
			return Structure{}, fmt.Errorf("%w: %d at distance index %d", ErrNonPositiveDistance, d.Distance, d.DistanceIndex)
		}
		if i > 0 && d.Distance > legs[i-1].Distance {
			return Structure{}, fmt.Errorf("%w: %d%s follows %d%s", ErrDistancesNotDescending, d.Distance, unit, legs[i-1].Distance, unit)
		}
		legs = append(legs, Leg{
			DistanceIndex: c.DistanceIndex,
			ArrowCount:    c.ArrowCount,
			Distance:      d.Distance,
			Unit:          unit,
		})
	}

	return Structure{RoundID: roundID, SubTypeID: subTypeID, Legs: legs}, nil
}

// StructureFromRows orders stored catalogue rows by DistanceIndex, then builds the
// structure with NewStructure.
func StructureFromRows(counts []RoundArrowCount, distances []RoundDistance) (Structure, error) {
	sortedCounts := slices.Clone(counts)
	slices.SortFunc(sortedCounts, func(a, b RoundArrowCount) int { return cmp.Compare(a.DistanceIndex, b.DistanceIndex) })
	sortedDistances := slices.Clone(distances)
	slices.SortFunc(sortedDistances, func(a, b RoundDistance) int { return cmp.Compare(a.DistanceIndex, b.DistanceIndex) })
	return NewStructure(sortedCounts, sortedDistances)
}

// IsEmpty reports whether the structure has no legs.
func (s Structure) IsEmpty() bool {
	return len(s.Legs) == 0
}

// TotalArrows is the round capacity: the sum of arrow counts over all legs.
func (s Structure) TotalArrows() int {
	total := 0
	for _, leg := range s.Legs {
		total += leg.ArrowCount
	}
	return total
}
