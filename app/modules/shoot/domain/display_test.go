package shootdomain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	rounddomain "github.com/Black-And-White-Club/archery-scorer/app/modules/round/domain"
)

func TestFormatterEndText(t *testing.T) {
	f := DefaultFormatter()
	row := Row{
		Kind:   RowEnd,
		Arrows: []Arrow{{Score: 10, IsX: true}, {Score: 10}, {Score: 0}, {Score: 7}},
		Slots:  6,
	}
	assert.Equal(t, []string{"X", "10", "M", "7", ".", "."}, f.EndCells(row))
	assert.Equal(t, "X 10 M 7 . .", f.EndText(row))

	custom := Formatter{Miss: "-", X: "*", Placeholder: "_", Delimiter: "|"}
	assert.Equal(t, "*|10|-|7|_|_", custom.EndText(row))
}

func TestFormatterParseCell(t *testing.T) {
	custom := Formatter{Miss: "-", X: "*", Placeholder: "_", Delimiter: "|"}
	tests := []struct {
		name    string
		f       Formatter
		cell    string
		want    Arrow
		wantErr bool
	}{
		{name: "custom x", f: custom, cell: " * ", want: Arrow{Score: 10, IsX: true}},
		{name: "custom miss", f: custom, cell: "-", want: Arrow{}},
		{name: "plain score", f: custom, cell: "8", want: Arrow{Score: 8}},
		{name: "default x still parses", f: custom, cell: "x", want: Arrow{Score: 10, IsX: true}},
		{name: "default miss lower case", f: DefaultFormatter(), cell: "m", want: Arrow{}},
		{name: "unknown text", f: DefaultFormatter(), cell: "*", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.f.ParseCell(tt.cell)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidArrow)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	row := Row{Kind: RowEnd, Arrows: []Arrow{{Score: 10, IsX: true}, {Score: 0}, {Score: 6}}, Slots: 3}
	for i, cell := range custom.EndCells(row) {
		got, err := custom.ParseCell(cell)
		assert.NoError(t, err)
		assert.Equal(t, row.Arrows[i], got)
	}
}

func TestFormatterRemaining(t *testing.T) {
	f := DefaultFormatter()

	current, later := f.Remaining(&RemainingArrows{
		Current: DistanceArrows{Count: 22, Distance: 80, Unit: rounddomain.Yards},
		Later: []DistanceArrows{
			{Count: 24, Distance: 60, Unit: rounddomain.Yards},
			{Count: 12, Distance: 50, Unit: rounddomain.Yards},
		},
	})
	assert.Equal(t, "22 at 80yd", current)
	assert.Equal(t, "24 at 60yd, 12 at 50yd", later)

	current, later = f.Remaining(nil)
	assert.Empty(t, current)
	assert.Empty(t, later)
}
