package pricing

import "strings"

// NewSelection validates a dealer pick against the table. Blank entries are
// ignored and repeated names count once, mirroring a multi-select control.
func NewSelection(t *Table, dealers []string) (Selection, error) {
	picked := make([]string, 0, len(dealers))
	seen := make(map[string]bool, len(dealers))
	for _, d := range dealers {
		d = strings.TrimSpace(d)
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		picked = append(picked, d)
	}

	if len(picked) != 2 {
		return Selection{}, NewSelectionCountError(len(picked))
	}
	for _, d := range picked {
		if !t.HasDealer(d) {
			return Selection{}, NewUnknownDealerError(d)
		}
	}
	return Selection{A: picked[0], B: picked[1]}, nil
}

// DefaultSelection returns the first two dealer columns
func DefaultSelection(t *Table) []string {
	if len(t.Dealers) < 2 {
		return append([]string(nil), t.Dealers...)
	}
	return []string{t.Dealers[0], t.Dealers[1]}
}
