package parsers

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	rounddomain "github.com/Black-And-White-Club/archery-scorer/app/modules/round/domain"
)

// ParseHTML reads round tables from an HTML document. Each <table> describes one
// round:
//
//	<table data-name="york" data-outdoor="true" data-metric="false">
//	  <caption>York</caption>
//	  <tr><th>Sub-type</th><th>1</th><th>2</th><th>3</th></tr>
//	  <tr><td>Arrows</td><td>72</td><td>48</td><td>24</td></tr>
//	  <tr><td>Face</td><td>122</td><td>122</td><td>122</td></tr>
//	  <tr><td>York</td><td>100yd</td><td>80yd</td><td>60yd</td></tr>
//	</table>
//
// The "Arrows" row is required, the "Face" row optional and every other body row
// is a sub-type. Without data-name the caption is slugified.
func ParseHTML(data []byte) ([]rounddomain.RoundDefinition, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML catalogue: %w", err)
	}

	var (
		defs     []rounddomain.RoundDefinition
		parseErr error
	)
	doc.Find("table").EachWithBreak(func(i int, table *goquery.Selection) bool {
		def, err := parseRoundTable(table)
		if err != nil {
			parseErr = fmt.Errorf("table %d: %w", i+1, err)
			return false
		}
		defs = append(defs, def)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	if len(defs) == 0 {
		return nil, ErrEmptyCatalogue
	}
	return defs, nil
}

func parseRoundTable(table *goquery.Selection) (rounddomain.RoundDefinition, error) {
	caption := strings.TrimSpace(table.Find("caption").First().Text())
	name, _ := table.Attr("data-name")
	name = strings.TrimSpace(name)
	if name == "" {
		name = slugify(caption)
	}
	if name == "" {
		return rounddomain.RoundDefinition{}, fmt.Errorf("%w: no caption or data-name", ErrMalformedTable)
	}

	def := rounddomain.RoundDefinition{
		Name:        name,
		DisplayName: caption,
		IsOutdoor:   boolAttr(table, "data-outdoor"),
		IsMetric:    boolAttr(table, "data-metric"),
	}

	var rowErr error
	table.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() == 0 {
			// header row
			return true
		}

		label := strings.TrimSpace(cells.First().Text())
		values, err := cellNumbers(cells.Slice(1, goquery.ToEnd))
		if err != nil {
			rowErr = fmt.Errorf("%w: %s row %q: %w", ErrMalformedTable, name, label, err)
			return false
		}

		switch strings.ToLower(label) {
		case "arrows":
			def.ArrowCounts = values
		case "face", "face size":
			def.FaceSizes = values
		default:
			def.SubTypes = append(def.SubTypes, rounddomain.SubTypeDefinition{Name: label, Distances: values})
		}
		return true
	})
	if rowErr != nil {
		return rounddomain.RoundDefinition{}, rowErr
	}
	if len(def.ArrowCounts) == 0 {
		return rounddomain.RoundDefinition{}, fmt.Errorf("%w: %s has no Arrows row", ErrMalformedTable, name)
	}
	return def, nil
}

// cellNumbers reads the leading integer of every cell, so "100yd" and "90 m" are accepted.
func cellNumbers(cells *goquery.Selection) ([]int, error) {
	values := make([]int, 0, cells.Length())
	var err error
	cells.EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		text := strings.TrimSpace(cell.Text())
		digits := strings.TrimRightFunc(text, func(r rune) bool { return !unicode.IsDigit(r) })
		var n int
		n, err = strconv.Atoi(digits)
		if err != nil {
			err = fmt.Errorf("cell %q is not a number", text)
			return false
		}
		values = append(values, n)
		return true
	})
	return values, err
}

func boolAttr(s *goquery.Selection, name string) bool {
	v, ok := s.Attr(name)
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
