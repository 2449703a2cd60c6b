package excel

// SheetData is the first sheet of an upload as trimmed cell text
type SheetData struct {
	Headers []string   // Column headers, made unique
	Rows    [][]string // Data rows, padded to len(Headers)
}

// Column returns the index of header, or -1
func (d *SheetData) Column(header string) int {
	for i, h := range d.Headers {
		if h == header {
			return i
		}
	}
	return -1
}
