package rounddomain

import (
	"fmt"
	"strings"
)

// RoundDefinition describes a catalogue round independent of storage IDs: arrow
// counts per distance, shared by every sub-type, and each sub-type's distances.
type RoundDefinition struct {
	Name        string
	DisplayName string
	IsOutdoor   bool
	IsMetric    bool
	ArrowCounts []int
	FaceSizes   []int
	SubTypes    []SubTypeDefinition
}

// SubTypeDefinition lists the distances of one sub-type in shooting order.
type SubTypeDefinition struct {
	Name      string
	Distances []int
}

// Records expands the definition into catalogue rows for roundID. Sub-type IDs and
// distance indexes are assigned 1-based in definition order.
func (d RoundDefinition) Records(roundID int64) ([]RoundArrowCount, []SubType, []RoundDistance) {
	counts := make([]RoundArrowCount, 0, len(d.ArrowCounts))
	for i, n := range d.ArrowCounts {
		face := 0
		if i < len(d.FaceSizes) {
			face = d.FaceSizes[i]
		}
		counts = append(counts, RoundArrowCount{RoundID: roundID, DistanceIndex: i + 1, ArrowCount: n, FaceSizeCm: face})
	}

	subTypes := make([]SubType, 0, len(d.SubTypes))
	var distances []RoundDistance
	for i, st := range d.SubTypes {
		subTypeID := i + 1
		subTypes = append(subTypes, SubType{RoundID: roundID, SubTypeID: subTypeID, Name: st.Name})
		for j, dist := range st.Distances {
			distances = append(distances, RoundDistance{
				RoundID:       roundID,
				DistanceIndex: j + 1,
				SubTypeID:     subTypeID,
				Distance:      dist,
				IsMetric:      d.IsMetric,
			})
		}
	}
	return counts, subTypes, distances
}

// Validate checks the definition by building the structure of every sub-type.
func (d RoundDefinition) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRoundDefinition)
	}
	if len(d.ArrowCounts) == 0 {
		return fmt.Errorf("%w: %s has no arrow counts", ErrInvalidRoundDefinition, d.Name)
	}
	if len(d.SubTypes) == 0 {
		return fmt.Errorf("%w: %s has no sub-types", ErrInvalidRoundDefinition, d.Name)
	}

	counts, subTypes, distances := d.Records(0)
	for _, st := range subTypes {
		if _, err := NewStructure(counts, DistancesForSubType(distances, st.SubTypeID)); err != nil {
			return fmt.Errorf("%w: %s sub-type %d: %w", ErrInvalidRoundDefinition, d.Name, st.SubTypeID, err)
		}
	}
	return nil
}

// TotalArrows is the arrow capacity of the round.
func (d RoundDefinition) TotalArrows() int {
	total := 0
	for _, n := range d.ArrowCounts {
		total += n
	}
	return total
}

// DistancesForSubType filters distances down to one sub-type.
func DistancesForSubType(distances []RoundDistance, subTypeID int) []RoundDistance {
	var out []RoundDistance
	for _, d := range distances {
		if d.SubTypeID == subTypeID {
			out = append(out, d)
		}
	}
	return out
}
