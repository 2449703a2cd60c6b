package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"pricecompare/domain/pricing"

	"github.com/xuri/excelize/v2"
)

const utf8BOM = "\ufeff"

// DataReader reads an uploaded Excel or CSV file from memory
type DataReader struct {
	filename string
	fileType string // "xlsx" or "csv"
	content  []byte
	config   ReaderConfig
}

// NewDataReader creates a reader; the format is taken from the filename extension
func NewDataReader(filename string, content []byte) *DataReader {
	return NewDataReaderWithConfig(filename, content, DefaultReaderConfig())
}

// NewDataReaderWithConfig creates a reader with explicit limits
func NewDataReaderWithConfig(filename string, content []byte, config ReaderConfig) *DataReader {
	return &DataReader{
		filename: filename,
		fileType: FileType(filename),
		content:  content,
		config:   config,
	}
}

// FileType maps a filename to "xlsx", "csv" or "" when unsupported
func FileType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return "xlsx"
	case ".csv":
		return "csv"
	default:
		return ""
	}
}

// ReadData parses the upload into headers and rows
func (r *DataReader) ReadData() (*SheetData, error) {
	log.Printf("[DataReader] Reading %s upload %q (%d bytes)", r.fileType, r.filename, len(r.content))

	switch r.fileType {
	case "xlsx":
		return r.readExcelData()
	case "csv":
		return r.readCSVData()
	default:
		return nil, pricing.NewUnsupportedFormatError(r.filename)
	}
}

// readExcelData reads the first worksheet with raw (unformatted) cell values
func (r *DataReader) readExcelData() (*SheetData, error) {
	startTime := time.Now()
	f, err := excelize.OpenReader(bytes.NewReader(r.content))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, pricing.ErrEmptyTable
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	log.Printf("[DataReader] Sheet %q read in %.2fms (%d rows)", sheets[0], float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows)
}

// readCSVData reads CSV data, tolerating ragged rows and a UTF-8 BOM
func (r *DataReader) readCSVData() (*SheetData, error) {
	content := bytes.TrimPrefix(r.content, []byte(utf8BOM))
	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV file: %w", err)
		}
		rows = append(rows, record)
	}
	log.Printf("[DataReader] CSV read (%d rows)", len(rows))

	return r.processRows(rows)
}

// processRows turns raw rows into SheetData: unique headers, blank rows dropped
func (r *DataReader) processRows(rows [][]string) (*SheetData, error) {
	headerIdx := -1
	for i, row := range rows {
		if !isBlankRow(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, pricing.ErrEmptyTable
	}

	var kept [][]string
	for _, row := range rows[headerIdx+1:] {
		if isBlankRow(row) {
			continue
		}
		kept = append(kept, row)
		if r.config.MaxRows > 0 && len(kept) >= r.config.MaxRows {
			log.Printf("[DataReader] Row limit %d reached, ignoring the rest", r.config.MaxRows)
			break
		}
	}

	// A column counts when its header or any kept cell is non-blank
	width := usedWidth(rows[headerIdx])
	for _, row := range kept {
		width = max(width, usedWidth(row))
	}
	headers := uniqueHeaders(rows[headerIdx], width)

	dataRows := make([][]string, 0, len(kept))
	for _, row := range kept {
		cells := make([]string, width)
		for j := 0; j < width && j < len(row); j++ {
			cells[j] = strings.TrimSpace(row[j])
		}
		dataRows = append(dataRows, cells)
	}

	log.Printf("[DataReader] %s processed (%d columns, %d rows)", strings.ToUpper(r.fileType), len(headers), len(dataRows))

	return &SheetData{Headers: headers, Rows: dataRows}, nil
}

// usedWidth returns the index after the last non-blank cell
func usedWidth(row []string) int {
	last := len(row)
	for last > 0 && strings.TrimSpace(row[last-1]) == "" {
		last--
	}
	return last
}

// uniqueHeaders builds width header names: cells are trimmed, blank or
// missing ones become "Unnamed: i" and repeats get ".1", ".2", ... so every
// column stays addressable.
func uniqueHeaders(row []string, width int) []string {
	headers := make([]string, width)
	seen := make(map[string]int, width)
	for i := 0; i < width; i++ {
		var name string
		if i < len(row) {
			name = strings.TrimPrefix(strings.TrimSpace(row[i]), utf8BOM)
		}
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		base := name
		for seen[name] > 0 {
			name = base + "." + strconv.Itoa(seen[base])
			seen[base]++
		}
		seen[name]++
		headers[i] = name
	}
	return headers
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
