package comparison

import (
	"pricecompare/domain/pricing"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
)

// Engine computes dealer price differences. It holds no state between calls.
type Engine struct {
	maxQuantity int
}

// NewEngine creates an engine; maxQuantity <= 0 selects pricing.MaxQuantity
func NewEngine(maxQuantity int) *Engine {
	if maxQuantity <= 0 {
		maxQuantity = pricing.MaxQuantity
	}
	return &Engine{maxQuantity: maxQuantity}
}

// MaxQuantity returns the slider upper bound
func (e *Engine) MaxQuantity() int {
	return e.maxQuantity
}

// EffectiveQuantities resolves the quantity used for every row: the override
// when one is given (clamped), otherwise the row's default quantity.
func (e *Engine) EffectiveQuantities(table *pricing.Table, overrides pricing.Quantities) []float64 {
	out := make([]float64, len(table.Rows))
	for i, row := range table.Rows {
		if q, ok := overrides[row.Name]; ok {
			out[i] = float64(ClampQuantity(q, e.maxQuantity))
			continue
		}
		out[i] = DefaultQuantity(row.Quantity, e.maxQuantity)
	}
	return out
}

// Compute returns difference = A - B per product, total = difference * quantity
// and the grand total. Missing operands give NaN rows, which the grand total
// skips.
func (e *Engine) Compute(table *pricing.Table, dealers []string, overrides pricing.Quantities) (*pricing.Results, error) {
	selection, err := pricing.NewSelection(table, dealers)
	if err != nil {
		return nil, err
	}

	n := len(table.Rows)
	priceA := table.DealerPrices(selection.A)
	priceB := table.DealerPrices(selection.B)
	quantities := e.EffectiveQuantities(table, overrides)

	differences := make([]float64, n)
	totals := make([]float64, n)
	floats.SubTo(differences, priceA, priceB)
	floats.MulTo(totals, differences, quantities)

	results := &pricing.Results{
		Selection:   selection,
		DealerCount: len(table.Dealers),
		Rows:        make([]pricing.RowResult, n),
	}

	present := make(stats.Float64Data, 0, n)
	for i, row := range table.Rows {
		results.Rows[i] = pricing.RowResult{
			Product:       row.Name,
			PriceA:        priceA[i],
			PriceB:        priceB[i],
			Difference:    differences[i],
			Quantity:      quantities[i],
			Total:         totals[i],
			MoreExpensive: differences[i] > 0,
		}
		if pricing.IsMissing(totals[i]) {
			results.MissingRows++
			continue
		}
		present = append(present, totals[i])
	}

	results.GrandTotal = GrandTotal(present)
	return results, nil
}

// GrandTotal sums the given totals; an empty set sums to zero
func GrandTotal(totals stats.Float64Data) float64 {
	if len(totals) == 0 {
		return 0
	}
	sum, err := stats.Sum(totals)
	if err != nil {
		return 0
	}
	return sum
}
