package shootdomain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rounddomain "github.com/Black-And-White-Club/archery-scorer/app/modules/round/domain"
)

func TestGoldsTypeIsGold(t *testing.T) {
	eight := Arrow{Score: 8}
	nine := Arrow{Score: 9}
	ten := Arrow{Score: 10}
	x := Arrow{Score: 10, IsX: true}

	tests := []struct {
		golds GoldsType
		want  map[Arrow]bool
	}{
		{golds: NinesUp, want: map[Arrow]bool{eight: false, nine: true, ten: true, x: true}},
		{golds: TensOnly, want: map[Arrow]bool{eight: false, nine: false, ten: true, x: true}},
		{golds: XOnly, want: map[Arrow]bool{eight: false, nine: false, ten: false, x: true}},
	}

	for _, tt := range tests {
		t.Run(tt.golds.String(), func(t *testing.T) {
			for arrow, want := range tt.want {
				assert.Equal(t, want, tt.golds.IsGold(arrow), "arrow %+v", arrow)
			}
		})
	}
}

func TestGoldsTypeForRound(t *testing.T) {
	assert.Equal(t, NinesUp, GoldsTypeForRound(nil))
	assert.Equal(t, NinesUp, GoldsTypeForRound(&rounddomain.Round{IsOutdoor: true}))
	assert.Equal(t, XOnly, GoldsTypeForRound(&rounddomain.Round{IsOutdoor: true, IsMetric: true}))
	assert.Equal(t, TensOnly, GoldsTypeForRound(&rounddomain.Round{IsMetric: true}))
	assert.Equal(t, TensOnly, GoldsTypeForRound(&rounddomain.Round{}))
}

func TestParseGoldsType(t *testing.T) {
	for _, g := range []GoldsType{NinesUp, TensOnly, XOnly} {
		got, err := ParseGoldsType(g.String())
		require.NoError(t, err)
		assert.Equal(t, g, got)
	}
	_, err := ParseGoldsType("eights")
	assert.ErrorIs(t, err, ErrUnknownGoldsType)
}
