package shootservice

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	shootdomain "github.com/Black-And-White-Club/archery-scorer/app/modules/shoot/domain"
)

const (
	workbookSheet   = "Score Sheet"
	workbookEndHead = "End"
	headerRow       = 3
)

// buildWorkbook writes a score sheet: a title row, then a header row of
// End, arrow slots 1..slots, Hits, Score, Golds and R/T, then one row per score pad row.
func buildWorkbook(title string, shotAt time.Time, rows []RowView, slots int) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), workbookSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(workbookSheet, "A1", &[]any{title, shotAt.Format(time.DateOnly)}); err != nil {
		return nil, fmt.Errorf("failed to write title: %w", err)
	}

	header := make([]any, 0, slots+5)
	header = append(header, workbookEndHead)
	for i := 1; i <= slots; i++ {
		header = append(header, i)
	}
	header = append(header, "Hits", "Score", "Golds", "R/T")
	if err := writeRow(f, headerRow, header); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	rowNum := headerRow + 1
	for _, row := range rows {
		values := make([]any, slots+5)
		for i := range values {
			values[i] = ""
		}
		t := row.Totals
		values[slots+1], values[slots+2], values[slots+3] = t.Hits, t.Score, t.Golds

		if row.Kind == shootdomain.RowEnd {
			values[0] = row.EndNumber
			for i, cell := range row.Cells {
				if i < slots {
					values[i+1] = cell
				}
			}
			values[slots+4] = row.RunningTotal
		} else {
			values[0] = row.Label
		}

		if err := writeRow(f, rowNum, values); err != nil {
			return nil, err
		}
		if row.Kind != shootdomain.RowEnd {
			if err := f.SetRowStyle(workbookSheet, rowNum, rowNum, bold); err != nil {
				return nil, fmt.Errorf("failed to style row %d: %w", rowNum, err)
			}
		}
		rowNum++
	}

	if err := f.SetRowStyle(workbookSheet, headerRow, headerRow, bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(workbookSheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

// parseWorkbook reads arrows back from a score sheet. The header row is the first
// row whose first cell is "End"; its integer cells mark the arrow columns. Every
// later row whose first cell is an end number contributes its arrow cells up to
// the first blank or placeholder cell. Arrow cells are read with the formatter
// that wrote them, so custom X and miss texts round-trip. Total rows are ignored.
func parseWorkbook(data []byte, format shootdomain.Formatter) ([]shootdomain.Arrow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("XLSX file has no sheets")
	}
	sheet := sheets[0]
	for _, name := range sheets {
		if name == workbookSheet {
			sheet = name
			break
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	headerIdx, arrowCols := -1, []int(nil)
	for i, row := range rows {
		if len(row) == 0 || !strings.EqualFold(strings.TrimSpace(row[0]), workbookEndHead) {
			continue
		}
		headerIdx = i
		for col := 1; col < len(row); col++ {
			if _, err := strconv.Atoi(strings.TrimSpace(row[col])); err != nil {
				break
			}
			arrowCols = append(arrowCols, col)
		}
		break
	}
	if headerIdx < 0 {
		return nil, fmt.Errorf("no %q header row in sheet %q", workbookEndHead, sheet)
	}
	if len(arrowCols) == 0 {
		return nil, fmt.Errorf("header row has no arrow columns")
	}

	var arrows []shootdomain.Arrow
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) == 0 {
			continue
		}
		if _, err := strconv.Atoi(strings.TrimSpace(row[0])); err != nil {
			continue
		}
		for _, col := range arrowCols {
			if col >= len(row) {
				break
			}
			cell := strings.TrimSpace(row[col])
			if cell == "" || cell == strings.TrimSpace(format.Placeholder) {
				break
			}
			arrow, err := format.ParseCell(cell)
			if err != nil {
				name, _ := excelize.CoordinatesToCellName(col+1, i+1)
				return nil, fmt.Errorf("cell %s: %w", name, err)
			}
			arrows = append(arrows, arrow)
		}
	}
	return arrows, nil
}
