package excel

import (
	"fmt"

	"pricecompare/domain/pricing"

	"github.com/xuri/excelize/v2"
)

const (
	dataSheet    = "Data"
	summarySheet = "Summary"
)

// ExportResults writes the table plus the computed difference columns to an
// xlsx workbook. results may be nil when no valid selection exists.
func ExportResults(table *pricing.Table, results *pricing.Results) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), dataSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := append([]string(nil), table.Columns...)
	if results != nil {
		headers = append(headers,
			fmt.Sprintf("Difference (%s - %s)", results.Selection.A, results.Selection.B),
			"Effective quantity",
			"Total difference",
		)
	}
	for i, h := range headers {
		if err := setCell(f, dataSheet, i+1, 1, h); err != nil {
			return nil, err
		}
	}

	for i, row := range table.Rows {
		r := i + 2
		for j, column := range table.Columns {
			var value any
			switch {
			case column == table.ProductColumn:
				value = row.Name
			case column == table.QuantityColumn:
				value = numberOrBlank(row.Quantity)
			default:
				price, ok := row.Prices[column]
				if !ok {
					continue
				}
				value = numberOrBlank(price)
			}
			if err := setCell(f, dataSheet, j+1, r, value); err != nil {
				return nil, err
			}
		}

		if results != nil && i < len(results.Rows) {
			res := results.Rows[i]
			base := len(table.Columns)
			for k, v := range []float64{res.Difference, res.Quantity, res.Total} {
				if err := setCell(f, dataSheet, base+k+1, r, numberOrBlank(v)); err != nil {
					return nil, err
				}
			}
		}
	}

	if results != nil {
		if _, err := f.NewSheet(summarySheet); err != nil {
			return nil, fmt.Errorf("failed to add summary sheet: %w", err)
		}
		summary := [][]any{
			{"Dealer A", results.Selection.A},
			{"Dealer B", results.Selection.B},
			{"Grand total", results.GrandTotal},
			{"Rows without total", results.MissingRows},
		}
		for i, pair := range summary {
			for j, v := range pair {
				if err := setCell(f, summarySheet, j+1, i+1, v); err != nil {
					return nil, err
				}
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// setCell writes value at the 1-based column and row
func setCell(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("failed to address cell (%d, %d) on %s: %w", col, row, sheet, err)
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
	}
	return nil
}

// numberOrBlank keeps missing values as empty cells
func numberOrBlank(v float64) any {
	if pricing.IsMissing(v) {
		return ""
	}
	return v
}
