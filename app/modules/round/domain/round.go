package rounddomain

// DistanceUnit is the unit label printed after a distance value.
type DistanceUnit string

const (
	Metres DistanceUnit = "m"
	Yards  DistanceUnit = "yd"
)

// UnitFor returns the unit for a metric or imperial round.
func UnitFor(isMetric bool) DistanceUnit {
	if isMetric {
		return Metres
	}
	return Yards
}

// Round is the catalogue metadata of a round. The metadata selects the golds policy
// and the distance unit; the shape of the round lives in RoundArrowCount and
// RoundDistance rows.
type Round struct {
	ID          int64
	Name        string
	DisplayName string
	IsOutdoor   bool
	IsMetric    bool
}

// Unit returns the distance unit the round is shot in.
func (r Round) Unit() DistanceUnit {
	return UnitFor(r.IsMetric)
}

// Label prefers the display name.
func (r Round) Label() string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	return r.Name
}

// SubType is a variant of a round sharing arrow counts but shot at different distances.
type SubType struct {
	RoundID   int64
	SubTypeID int
	Name      string
}

// RoundArrowCount is the number of arrows shot at the DistanceIndex-th distance.
// DistanceIndex is 1-based and follows shooting order.
type RoundArrowCount struct {
	RoundID       int64
	DistanceIndex int
	ArrowCount    int
	FaceSizeCm    int
}

// RoundDistance is the physical distance shot at DistanceIndex for one sub-type.
type RoundDistance struct {
	RoundID       int64
	DistanceIndex int
	SubTypeID     int
	Distance      int
	IsMetric      bool
}
