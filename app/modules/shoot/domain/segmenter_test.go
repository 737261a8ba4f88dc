package shootdomain

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rounddomain "github.com/Black-And-White-Club/archery-scorer/app/modules/round/domain"
)

type endShape struct {
	arrows  int
	slots   int
	leg     int // distance index, 0 when none
	done    bool
	surplus bool
}

func shapeOf(segments []EndSegment) []endShape {
	out := make([]endShape, 0, len(segments))
	for _, s := range segments {
		leg := 0
		if s.Leg != nil {
			leg = s.Leg.DistanceIndex
		}
		out = append(out, endShape{arrows: len(s.Arrows), slots: s.Slots, leg: leg, done: s.LegComplete, surplus: s.Surplus})
	}
	return out
}

func TestSegmentEnds(t *testing.T) {
	seven := Arrow{Score: 7}

	tests := []struct {
		name      string
		arrows    int
		endSize   int
		counts    []int
		distances []int
		want      []endShape
	}{
		{
			name:    "no round splits into plain ends",
			arrows:  14,
			endSize: 6,
			want:    []endShape{{arrows: 6, slots: 6}, {arrows: 6, slots: 6}, {arrows: 2, slots: 6}},
		},
		{
			name:      "leg divisible by end size",
			arrows:    12,
			endSize:   6,
			counts:    []int{6, 6},
			distances: []int{60, 50},
			want: []endShape{
				{arrows: 6, slots: 6, leg: 1, done: true},
				{arrows: 6, slots: 6, leg: 2, done: true},
			},
		},
		{
			name:      "end truncated at distance boundary",
			arrows:    18,
			endSize:   6,
			counts:    []int{10, 8},
			distances: []int{60, 50},
			want: []endShape{
				{arrows: 6, slots: 6, leg: 1},
				{arrows: 4, slots: 4, leg: 1, done: true},
				{arrows: 6, slots: 6, leg: 2},
				{arrows: 2, slots: 2, leg: 2, done: true},
			},
		},
		{
			name:      "partial end inside a leg",
			arrows:    8,
			endSize:   6,
			counts:    []int{10, 8},
			distances: []int{60, 50},
			want: []endShape{
				{arrows: 6, slots: 6, leg: 1},
				{arrows: 2, slots: 4, leg: 1},
			},
		},
		{
			name:      "surplus after capacity",
			arrows:    21,
			endSize:   6,
			counts:    []int{10, 8},
			distances: []int{60, 50},
			want: []endShape{
				{arrows: 6, slots: 6, leg: 1},
				{arrows: 4, slots: 4, leg: 1, done: true},
				{arrows: 6, slots: 6, leg: 2},
				{arrows: 2, slots: 2, leg: 2, done: true},
				{arrows: 3, slots: 6, surplus: true},
			},
		},
		{
			name:      "end size larger than a leg",
			arrows:    9,
			endSize:   6,
			counts:    []int{3, 3, 3},
			distances: []int{30, 20, 10},
			want: []endShape{
				{arrows: 3, slots: 3, leg: 1, done: true},
				{arrows: 3, slots: 3, leg: 2, done: true},
				{arrows: 3, slots: 3, leg: 3, done: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var structure *rounddomain.Structure
			if tt.counts != nil {
				s := mustStructure(t, false, tt.counts, tt.distances)
				structure = &s
			}
			segments, err := SegmentEnds(repeatArrow(seven, tt.arrows), tt.endSize, structure)
			require.NoError(t, err)
			assert.Equal(t, tt.want, shapeOf(segments))
			for i, s := range segments {
				assert.Equal(t, i+1, s.Number)
			}
		})
	}
}

func TestSegmentEndsRejectsNonPositiveEndSize(t *testing.T) {
	for _, size := range []int{0, -3} {
		_, err := SegmentEnds([]Arrow{{Score: 5}}, size, nil)
		assert.ErrorIs(t, err, ErrInvalidEndSize)
	}
	// Rejected even with no arrows.
	_, err := SegmentEnds(nil, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidEndSize)
}

func TestSegmentEndsEmpty(t *testing.T) {
	segments, err := SegmentEnds(nil, 6, nil)
	require.NoError(t, err)
	assert.Empty(t, segments)
}

func TestSegmentEndsEmptyStructureActsLikeNoRound(t *testing.T) {
	arrows := repeatArrow(Arrow{Score: 5}, 7)
	withEmpty, err := SegmentEnds(arrows, 3, &rounddomain.Structure{})
	require.NoError(t, err)
	without, err := SegmentEnds(arrows, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, without, withEmpty)
	for _, s := range withEmpty {
		assert.False(t, s.Surplus)
	}
}

func TestSegmentEndsDoesNotAliasInput(t *testing.T) {
	arrows := []Arrow{{Score: 9}, {Score: 8}}
	segments, err := SegmentEnds(arrows, 6, nil)
	require.NoError(t, err)
	arrows[0] = Arrow{Score: 1}
	assert.Equal(t, 9, segments[0].Arrows[0].Score)
}

func TestSegmentEndsProperties(t *testing.T) {
	faker := gofakeit.New(uint64(20240601))

	for i := 0; i < 200; i++ {
		n := faker.Number(0, 200)
		endSize := faker.Number(1, 12)
		arrows := randomArrows(faker, n)

		segments, err := SegmentEnds(arrows, endSize, nil)
		require.NoError(t, err)

		var rebuilt []Arrow
		full, partial := 0, 0
		for j, s := range segments {
			rebuilt = append(rebuilt, s.Arrows...)
			assert.Equal(t, len(rebuilt)-len(s.Arrows)+1, s.FirstArrow)
			if s.IsPartial() {
				partial++
				assert.Equal(t, len(segments)-1, j, "only the last end may be partial")
			} else {
				full++
			}
		}
		if n == 0 {
			assert.Empty(t, rebuilt)
		} else {
			assert.Equal(t, arrows, rebuilt, "n=%d endSize=%d", n, endSize)
		}
		assert.Equal(t, n/endSize, full)
		assert.Equal(t, n%endSize != 0, partial == 1)
	}
}

func TestSegmentEndsWithRoundProperties(t *testing.T) {
	faker := gofakeit.New(uint64(7))

	for i := 0; i < 200; i++ {
		legs := faker.Number(1, 4)
		counts := make([]int, legs)
		distances := make([]int, legs)
		capacity := 0
		for j := range counts {
			counts[j] = faker.Number(1, 40)
			distances[j] = 100 - j*10
			capacity += counts[j]
		}
		structure := mustStructure(t, true, counts, distances)
		n := faker.Number(0, capacity+20)
		endSize := faker.Number(1, 8)

		segments, err := SegmentEnds(randomArrows(faker, n), endSize, &structure)
		require.NoError(t, err)

		perLeg := map[int]int{}
		surplus := 0
		for _, s := range segments {
			assert.LessOrEqual(t, len(s.Arrows), s.Slots)
			assert.LessOrEqual(t, s.Slots, endSize)
			if s.Surplus {
				surplus += len(s.Arrows)
				continue
			}
			require.NotNil(t, s.Leg)
			perLeg[s.Leg.DistanceIndex] += len(s.Arrows)
			if s.LegComplete {
				assert.Equal(t, s.Leg.ArrowCount, perLeg[s.Leg.DistanceIndex])
			}
		}
		for _, leg := range structure.Legs {
			assert.LessOrEqual(t, perLeg[leg.DistanceIndex], leg.ArrowCount)
		}
		assert.Equal(t, max(0, n-capacity), surplus)
	}
}
