package shootservice

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	shootdomain "github.com/Black-And-White-Club/archery-scorer/app/modules/shoot/domain"
	"github.com/Black-And-White-Club/archery-scorer/config"
)

// Message keys of the score pad labels.
const (
	msgEnd           = "scorepad.end"
	msgDistanceTotal = "scorepad.distance_total"
	msgSurplus       = "scorepad.surplus"
	msgGrandTotal    = "scorepad.grand_total"
	msgAt            = "scorepad.at"
	msgAverage       = "scorepad.average"
)

var supportedLocales = []language.Tag{
	language.BritishEnglish,
	language.French,
}

var localeMatcher = language.NewMatcher(supportedLocales)

func init() {
	en := language.BritishEnglish
	_ = message.SetString(en, msgEnd, "End %d")
	_ = message.SetString(en, msgDistanceTotal, "%s total")
	_ = message.SetString(en, msgSurplus, "Surplus")
	_ = message.SetString(en, msgGrandTotal, "Total")
	_ = message.SetString(en, msgAt, "at")
	_ = message.SetString(en, msgAverage, "%.2f")

	fr := language.French
	_ = message.SetString(fr, msgEnd, "Volée %d")
	_ = message.SetString(fr, msgDistanceTotal, "Total %s")
	_ = message.SetString(fr, msgSurplus, "Surplus")
	_ = message.SetString(fr, msgGrandTotal, "Total")
	_ = message.SetString(fr, msgAt, "à")
	_ = message.SetString(fr, msgAverage, "%.2f")
}

// resolveLocale returns the supported locale closest to the requested one.
// locale is a single tag or an Accept-Language list.
func resolveLocale(locale string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(tags) == 0 {
		return supportedLocales[0]
	}
	_, idx, confidence := localeMatcher.Match(tags...)
	if confidence == language.No {
		return supportedLocales[0]
	}
	return supportedLocales[idx]
}

// NewFormatter builds the arrow formatter of the default locale from configuration.
func NewFormatter(scoring config.ScoringConfig) shootdomain.Formatter {
	return formatterFor(scoring, nil)
}

// formatterFor builds the arrow formatter from configuration, keeping the
// defaults for unset values.
func formatterFor(scoring config.ScoringConfig, p *message.Printer) shootdomain.Formatter {
	f := shootdomain.DefaultFormatter()
	if scoring.MissText != "" {
		f.Miss = scoring.MissText
	}
	if scoring.XText != "" {
		f.X = scoring.XText
	}
	if scoring.Placeholder != "" {
		f.Placeholder = scoring.Placeholder
	}
	if scoring.Delimiter != "" {
		f.Delimiter = scoring.Delimiter
	}
	if p != nil {
		f.At = p.Sprintf(msgAt)
	}
	return f
}

// RenderScorePad labels engine rows for the locale closest to locale. Shoot and
// Round are left for the caller to fill.
func RenderScorePad(rows []shootdomain.Row, scoring config.ScoringConfig, locale string) ScorePadView {
	tag := resolveLocale(locale)
	p := message.NewPrinter(tag)
	f := formatterFor(scoring, p)
	totals := shootdomain.GrandTotal(rows)
	return ScorePadView{
		Locale:  tag.String(),
		Rows:    renderRows(rows, f, p),
		Totals:  totals,
		Average: p.Sprintf(msgAverage, totals.Average()),
	}
}

// renderRows labels engine rows for one locale.
func renderRows(rows []shootdomain.Row, f shootdomain.Formatter, p *message.Printer) []RowView {
	views := make([]RowView, 0, len(rows))
	for _, row := range rows {
		view := RowView{Kind: row.Kind, Totals: row.Totals}
		switch row.Kind {
		case shootdomain.RowEnd:
			view.Label = p.Sprintf(msgEnd, row.EndNumber)
			view.EndNumber = row.EndNumber
			view.Cells = f.EndCells(row)
			view.Text = f.EndText(row)
			view.RunningTotal = row.RunningTotal
		case shootdomain.RowDistanceTotal:
			view.Label = p.Sprintf(msgDistanceTotal, f.Distance(row.Distance, string(row.Unit)))
		case shootdomain.RowSurplusTotal:
			view.Label = p.Sprintf(msgSurplus)
		case shootdomain.RowGrandTotal:
			view.Label = p.Sprintf(msgGrandTotal)
		}
		views = append(views, view)
	}
	return views
}
