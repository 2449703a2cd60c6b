package comparison

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func mkXLSX(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}
	buf := bytes.NewBuffer(nil)
	_, err := f.WriteTo(buf)
	require.NoError(t, err)
	return buf.Bytes()
}

// scenarioSheet is the two product, two dealer example sheet
func scenarioSheet(t *testing.T) []byte {
	return mkXLSX(t, [][]any{
		{"产品名", "数量", "X", "Y"},
		{"A", 10, 100, 90},
		{"B", 5, 200, 210},
	})
}
