package shootdomain

import (
	"strconv"
	"strings"
)

// Formatter renders engine output as text. The engine rows hold numbers only;
// everything a reader sees is produced here.
type Formatter struct {
	Miss        string
	X           string
	Placeholder string
	Delimiter   string
	// At joins a remaining count to its distance, as in "22 at 80yd".
	At string
}

// DefaultFormatter renders misses as "M", Xs as "X" and empty slots as ".".
func DefaultFormatter() Formatter {
	return Formatter{Miss: "M", X: "X", Placeholder: ".", Delimiter: " ", At: "at"}
}

// Arrow renders a single arrow.
func (f Formatter) Arrow(a Arrow) string {
	switch {
	case a.IsX:
		return f.X
	case a.IsMiss():
		return f.Miss
	default:
		return strconv.Itoa(a.Score)
	}
}

// ParseCell reads back a cell written by Arrow. The formatter's X and miss
// texts are matched case-insensitively before the plain ParseArrow forms.
func (f Formatter) ParseCell(cell string) (Arrow, error) {
	token := strings.TrimSpace(cell)
	switch {
	case f.X != "" && strings.EqualFold(token, strings.TrimSpace(f.X)):
		return Arrow{Score: MaxArrowScore, IsX: true}, nil
	case f.Miss != "" && strings.EqualFold(token, strings.TrimSpace(f.Miss)):
		return Arrow{}, nil
	}
	return ParseArrow(token)
}

// EndCells renders each slot of an end row; unshot slots use the placeholder.
func (f Formatter) EndCells(row Row) []string {
	n := max(row.Slots, len(row.Arrows))
	cells := make([]string, n)
	for i := range cells {
		if i < len(row.Arrows) {
			cells[i] = f.Arrow(row.Arrows[i])
		} else {
			cells[i] = f.Placeholder
		}
	}
	return cells
}

// EndText joins the cells of an end row with the delimiter.
func (f Formatter) EndText(row Row) string {
	return strings.Join(f.EndCells(row), f.Delimiter)
}

// Distance renders a distance with its unit, e.g. "80yd".
func (f Formatter) Distance(distance int, unit string) string {
	return strconv.Itoa(distance) + unit
}

// DistanceArrows renders "<count> at <distance><unit>".
func (f Formatter) DistanceArrows(d DistanceArrows) string {
	return strconv.Itoa(d.Count) + " " + f.At + " " + f.Distance(d.Distance, string(d.Unit))
}

// Remaining renders both halves of a remaining-arrows result. A nil result
// renders as two empty strings.
func (f Formatter) Remaining(r *RemainingArrows) (current, later string) {
	if r == nil {
		return "", ""
	}
	parts := make([]string, 0, len(r.Later))
	for _, l := range r.Later {
		parts = append(parts, f.DistanceArrows(l))
	}
	return f.DistanceArrows(r.Current), strings.Join(parts, ", ")
}
