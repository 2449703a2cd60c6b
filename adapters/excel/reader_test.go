package excel

import (
	"bytes"
	"testing"

	"pricecompare/domain/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func mkXLSX(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}
	buf := bytes.NewBuffer(nil)
	_, err := f.WriteTo(buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReadDataXLSX(t *testing.T) {
	blob := mkXLSX(t, [][]any{
		{"产品名", "数量", "X", "Y"},
		{"A", 10, 100.5, 90},
		{},
		{"B", 5, 200},
	})

	data, err := NewDataReader("prices.xlsx", blob).ReadData()
	require.NoError(t, err)

	assert.Equal(t, []string{"产品名", "数量", "X", "Y"}, data.Headers)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, []string{"A", "10", "100.5", "90"}, data.Rows[0])
	assert.Equal(t, []string{"B", "5", "200", ""}, data.Rows[1])
}

func TestReadDataUsesFirstSheetOnly(t *testing.T) {
	f := excelize.NewFile()
	first := f.GetSheetName(0)
	_, err := f.NewSheet("Other")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow(first, "A1", &[]any{"产品名", "数量", "X", "Y"}))
	require.NoError(t, f.SetSheetRow("Other", "A1", &[]any{"ignored"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	data, err := NewDataReader("prices.xlsx", buf.Bytes()).ReadData()
	require.NoError(t, err)
	assert.Equal(t, []string{"产品名", "数量", "X", "Y"}, data.Headers)
}

func TestReadDataCSV(t *testing.T) {
	blob := []byte("\ufeff产品名,数量,X,Y\nA,10,100,90\n,,,\nB,5,200,210,extra\n")

	data, err := NewDataReader("prices.CSV", blob).ReadData()
	require.NoError(t, err)

	// the overlong row widens the table
	assert.Equal(t, []string{"产品名", "数量", "X", "Y", "Unnamed: 4"}, data.Headers)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, []string{"A", "10", "100", "90", ""}, data.Rows[0])
	assert.Equal(t, []string{"B", "5", "200", "210", "extra"}, data.Rows[1])
}

func TestReadDataTrailingBlankHeaders(t *testing.T) {
	t.Run("column with data is kept", func(t *testing.T) {
		data, err := NewDataReader("prices.csv", []byte(`产品名,数量,X,
A,10,100,90
B,5,200,210
`)).ReadData()
		require.NoError(t, err)
		assert.Equal(t, []string{"产品名", "数量", "X", "Unnamed: 3"}, data.Headers)
		assert.Equal(t, []string{"B", "5", "200", "210"}, data.Rows[1])
	})

	t.Run("xlsx column with data is kept", func(t *testing.T) {
		blob := mkXLSX(t, [][]any{
			{"产品名", "数量", "X"},
			{"A", 10, 100, 90},
		})
		data, err := NewDataReader("prices.xlsx", blob).ReadData()
		require.NoError(t, err)
		assert.Equal(t, []string{"产品名", "数量", "X", "Unnamed: 3"}, data.Headers)
		assert.Equal(t, []string{"A", "10", "100", "90"}, data.Rows[0])
	})

	t.Run("blank column is dropped", func(t *testing.T) {
		data, err := NewDataReader("prices.csv", []byte(`a,b,,
1,2,,
3,4, ,
`)).ReadData()
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, data.Headers)
		assert.Equal(t, []string{"3", "4"}, data.Rows[1])
	})
}

func TestReadDataHeaderNormalization(t *testing.T) {
	blob := []byte(" X ,X,,X,Y\n1,2,3,4,5\n")

	data, err := NewDataReader("prices.csv", blob).ReadData()
	require.NoError(t, err)

	assert.Equal(t, []string{"X", "X.1", "Unnamed: 2", "X.2", "Y"}, data.Headers)
	assert.Equal(t, 3, data.Column("X.2"))
	assert.Equal(t, -1, data.Column("Z"))
}

func TestReadDataRowLimit(t *testing.T) {
	blob := []byte("a,b\n1,2\n3,4\n5,6\n")

	data, err := NewDataReaderWithConfig("prices.csv", blob, ReaderConfig{MaxRows: 2}).ReadData()
	require.NoError(t, err)
	assert.Len(t, data.Rows, 2)
}

func TestReadDataErrors(t *testing.T) {
	_, err := NewDataReader("prices.xls", []byte("whatever")).ReadData()
	assert.ErrorIs(t, err, pricing.ErrUnsupportedFormat)

	_, err = NewDataReader("empty.csv", []byte("\n\n")).ReadData()
	assert.ErrorIs(t, err, pricing.ErrEmptyTable)

	_, err = NewDataReader("broken.xlsx", []byte("not a zip")).ReadData()
	assert.Error(t, err)
}

func TestFileType(t *testing.T) {
	assert.Equal(t, "xlsx", FileType("a.XLSX"))
	assert.Equal(t, "xlsx", FileType("a.xlsm"))
	assert.Equal(t, "csv", FileType("dir/a.csv"))
	assert.Equal(t, "", FileType("a.xls"))
	assert.Equal(t, "", FileType("noext"))
}
