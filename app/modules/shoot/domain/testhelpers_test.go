package shootdomain

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"

	rounddomain "github.com/Black-And-White-Club/archery-scorer/app/modules/round/domain"
)

func repeatArrow(a Arrow, n int) []Arrow {
	out := make([]Arrow, n)
	for i := range out {
		out[i] = a
	}
	return out
}

func mustStructure(t *testing.T, metric bool, counts []int, distances []int) rounddomain.Structure {
	t.Helper()
	c := make([]rounddomain.RoundArrowCount, 0, len(counts))
	d := make([]rounddomain.RoundDistance, 0, len(distances))
	for i, n := range counts {
		c = append(c, rounddomain.RoundArrowCount{RoundID: 1, DistanceIndex: i + 1, ArrowCount: n})
	}
	for i, v := range distances {
		d = append(d, rounddomain.RoundDistance{RoundID: 1, DistanceIndex: i + 1, SubTypeID: 1, Distance: v, IsMetric: metric})
	}
	s, err := rounddomain.NewStructure(c, d)
	require.NoError(t, err)
	return s
}

func randomArrows(faker *gofakeit.Faker, n int) []Arrow {
	arrows := make([]Arrow, n)
	for i := range arrows {
		score := faker.Number(0, MaxArrowScore)
		arrows[i] = Arrow{Score: score, IsX: score == MaxArrowScore && faker.Bool()}
	}
	return arrows
}
