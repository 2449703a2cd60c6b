package pricing

import "math"

// Default reserved column names. Every other column is a dealer.
const (
	DefaultProductColumn  = "产品名"
	DefaultQuantityColumn = "数量"
)

// Quantity slider bounds.
const (
	MinQuantity = 0
	MaxQuantity = 10000
)

// Missing is the value stored for a cell that could not be coerced to a number.
var Missing = math.NaN()

// IsMissing reports whether v is a missing value
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// ProductRow is one product line of the uploaded sheet. Missing numbers are
// NaN, so these types are converted before JSON encoding.
type ProductRow struct {
	Name     string
	Quantity float64            // NaN when missing
	Prices   map[string]float64 // dealer -> price, NaN when missing
	Raw      []string           // cell text in column order
}

// Price returns the row's price for dealer, or Missing if the dealer is unknown
func (r ProductRow) Price(dealer string) float64 {
	if v, ok := r.Prices[dealer]; ok {
		return v
	}
	return Missing
}

// Table is a validated price sheet.
type Table struct {
	ProductColumn  string
	QuantityColumn string
	Columns        []string // all headers, sheet order
	Dealers        []string // Columns minus the two reserved ones
	Rows           []ProductRow
}

// Products returns product names in row order
func (t *Table) Products() []string {
	names := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		names[i] = row.Name
	}
	return names
}

// HasDealer reports whether name is one of the table's dealer columns
func (t *Table) HasDealer(name string) bool {
	for _, d := range t.Dealers {
		if d == name {
			return true
		}
	}
	return false
}

// DealerPrices returns the prices of one dealer in row order
func (t *Table) DealerPrices(dealer string) []float64 {
	out := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row.Price(dealer)
	}
	return out
}

// Selection is an ordered pair of dealers. Differences are A minus B.
type Selection struct {
	A string `json:"a"`
	B string `json:"b"`
}

// Dealers returns the selection as a slice
func (s Selection) Dealers() []string {
	return []string{s.A, s.B}
}

// Swap returns the selection with A and B exchanged
func (s Selection) Swap() Selection {
	return Selection{A: s.B, B: s.A}
}

// Quantities maps product names to slider overrides.
type Quantities map[string]int

// RowResult is the outcome of the difference engine for one product.
type RowResult struct {
	Product       string
	PriceA        float64
	PriceB        float64
	Difference    float64
	Quantity      float64
	Total         float64
	MoreExpensive bool
}

// Results is the output of one difference computation.
type Results struct {
	Selection   Selection
	DealerCount int
	Rows        []RowResult
	GrandTotal  float64
	MissingRows int
}

// Differences returns per-row differences in row order
func (r *Results) Differences() []float64 {
	out := make([]float64, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = row.Difference
	}
	return out
}

// Totals returns per-row totals in row order
func (r *Results) Totals() []float64 {
	out := make([]float64, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = row.Total
	}
	return out
}
