package shootservice

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	shootdomain "github.com/Black-And-White-Club/archery-scorer/app/modules/shoot/domain"
)

// ChartPalette colours the running total chart.
type ChartPalette struct {
	Background  drawing.Color
	PrimaryLine drawing.Color
	AccentLine  drawing.Color
	TextColor   drawing.Color
}

// DefaultChartPalette is target gold on a dark field.
var DefaultChartPalette = ChartPalette{
	Background:  drawing.ColorFromHex("1b2a22"),
	PrimaryLine: drawing.ColorFromHex("e8c547"),
	AccentLine:  drawing.ColorFromHex("d64545"),
	TextColor:   drawing.ColorFromHex("f2f2f2"),
}

// renderRunningTotalChart draws the running total after each end, starting from
// zero before the first end.
func renderRunningTotalChart(title string, rows []shootdomain.Row, palette ChartPalette) ([]byte, error) {
	xValues := []float64{0}
	yValues := []float64{0}
	maxY := 0.0
	for _, row := range rows {
		if row.Kind != shootdomain.RowEnd {
			continue
		}
		xValues = append(xValues, float64(row.EndNumber))
		yValues = append(yValues, float64(row.RunningTotal))
		maxY = max(maxY, float64(row.RunningTotal))
	}
	if len(xValues) == 1 {
		return renderNoDataPlaceholder(palette, "No arrows recorded yet")
	}

	mainSeries := chart.ContinuousSeries{
		Name:    title,
		XValues: xValues,
		YValues: yValues,
		Style: chart.Style{
			StrokeColor: palette.PrimaryLine,
			StrokeWidth: 2,
			DotWidth:    4,
			DotColor:    palette.AccentLine,
		},
	}

	graph := chart.Chart{
		Title:  title,
		Width:  800,
		Height: 400,
		TitleStyle: chart.Style{
			FontColor: palette.TextColor,
		},
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{
			Name: "End",
			Style: chart.Style{
				FontColor: palette.TextColor,
			},
			Range: &chart.ContinuousRange{Min: 0, Max: xValues[len(xValues)-1]},
		},
		YAxis: chart.YAxis{
			Name: "Running total",
			Style: chart.Style{
				FontColor: palette.TextColor,
			},
			// A flat line of misses still needs a non-zero range.
			Range: &chart.ContinuousRange{Min: 0, Max: max(maxY, 10)},
		},
		Series: []chart.Series{mainSeries},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// renderNoDataPlaceholder draws msg centred on a blank canvas. It renders
// directly because chart.Chart refuses to render without a series.
func renderNoDataPlaceholder(palette ChartPalette, msg string) ([]byte, error) {
	const (
		width  = 400
		height = 200
	)

	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	r.SetFillColor(palette.Background)
	r.MoveTo(0, 0)
	r.LineTo(width, 0)
	r.LineTo(width, height)
	r.LineTo(0, height)
	r.Close()
	r.Fill()

	r.SetFont(font)
	r.SetFontColor(palette.TextColor)
	r.SetFontSize(12.0)
	tb := r.MeasureText(msg)
	r.Text(msg, (width-tb.Width())/2, (height+tb.Height())/2)

	buffer := bytes.NewBuffer([]byte{})
	if err := r.Save(buffer); err != nil {
		return nil, fmt.Errorf("failed to render placeholder: %w", err)
	}
	return buffer.Bytes(), nil
}
