package shootdomain

import (
	rounddomain "github.com/Black-And-White-Club/archery-scorer/app/modules/round/domain"
)

// RowKind discriminates score pad rows.
type RowKind int

const (
	RowEnd RowKind = iota + 1
	RowDistanceTotal
	RowSurplusTotal
	RowGrandTotal
)

func (k RowKind) String() string {
	switch k {
	case RowEnd:
		return "end"
	case RowDistanceTotal:
		return "distance_total"
	case RowSurplusTotal:
		return "surplus_total"
	case RowGrandTotal:
		return "grand_total"
	default:
		return "unknown"
	}
}

// Totals aggregates a group of arrows.
type Totals struct {
	Arrows int
	Hits   int
	Score  int
	Golds  int
}

// Add folds one arrow into the totals.
func (t Totals) Add(a Arrow, golds GoldsType) Totals {
	t.Arrows++
	t.Score += a.Score
	if a.IsHit() {
		t.Hits++
	}
	if golds.IsGold(a) {
		t.Golds++
	}
	return t
}

// Plus sums two totals.
func (t Totals) Plus(o Totals) Totals {
	return Totals{
		Arrows: t.Arrows + o.Arrows,
		Hits:   t.Hits + o.Hits,
		Score:  t.Score + o.Score,
		Golds:  t.Golds + o.Golds,
	}
}

// Average is the mean score per arrow, zero when no arrows were shot.
func (t Totals) Average() float64 {
	if t.Arrows == 0 {
		return 0
	}
	return float64(t.Score) / float64(t.Arrows)
}

// TotalsOf aggregates arrows under a golds policy.
func TotalsOf(arrows []Arrow, golds GoldsType) Totals {
	var t Totals
	for _, a := range arrows {
		t = t.Add(a, golds)
	}
	return t
}

// Row is one line of a score pad. Kind decides which fields are meaningful:
// End rows use EndNumber, Arrows, Slots and RunningTotal; DistanceTotal rows use
// DistanceIndex, Distance and Unit. Every row carries Totals.
type Row struct {
	Kind   RowKind
	Totals Totals

	EndNumber    int
	Arrows       []Arrow
	Slots        int
	RunningTotal int

	DistanceIndex int
	Distance      int
	Unit          rounddomain.DistanceUnit
}

// BuildScorePad folds end segments into score pad rows.
//
// Each end row carries the running score of the whole shoot so far. A distance
// total follows the end that completes its leg and covers that leg only. Surplus
// ends are followed by one surplus total, and a grand total over every arrow
// closes the pad. No segments give no rows.
func BuildScorePad(segments []EndSegment, golds GoldsType) []Row {
	if len(segments) == 0 {
		return nil
	}

	rows := make([]Row, 0, len(segments)+4)
	var grand, leg, surplus Totals
	hasSurplus := false
	running := 0

	for _, seg := range segments {
		end := TotalsOf(seg.Arrows, golds)
		running += end.Score
		grand = grand.Plus(end)

		rows = append(rows, Row{
			Kind:         RowEnd,
			Totals:       end,
			EndNumber:    seg.Number,
			Arrows:       seg.Arrows,
			Slots:        seg.Slots,
			RunningTotal: running,
		})

		switch {
		case seg.Surplus:
			surplus = surplus.Plus(end)
			hasSurplus = true
		case seg.Leg != nil:
			leg = leg.Plus(end)
			if seg.LegComplete {
				rows = append(rows, Row{
					Kind:          RowDistanceTotal,
					Totals:        leg,
					DistanceIndex: seg.Leg.DistanceIndex,
					Distance:      seg.Leg.Distance,
					Unit:          seg.Leg.Unit,
				})
				leg = Totals{}
			}
		}
	}

	if hasSurplus {
		rows = append(rows, Row{Kind: RowSurplusTotal, Totals: surplus})
	}
	rows = append(rows, Row{Kind: RowGrandTotal, Totals: grand})
	return rows
}

// ScorePad segments arrows and builds the score pad in one call.
func ScorePad(arrows []Arrow, endSize int, structure *rounddomain.Structure, golds GoldsType) ([]Row, error) {
	segments, err := SegmentEnds(arrows, endSize, structure)
	if err != nil {
		return nil, err
	}
	return BuildScorePad(segments, golds), nil
}

// GrandTotal returns the totals of the closing row, or zero totals for an empty pad.
func GrandTotal(rows []Row) Totals {
	if len(rows) == 0 {
		return Totals{}
	}
	last := rows[len(rows)-1]
	if last.Kind != RowGrandTotal {
		return Totals{}
	}
	return last.Totals
}
