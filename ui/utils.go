package ui

import (
	"strconv"
	"strings"

	"pricecompare/domain/pricing"
)

// qtyPrefix names slider fields: qty.<row index>
const qtyPrefix = "qty."

// parseQuantities maps qty.<index> form fields back to product names.
// Unknown indices and non-integer values are ignored.
func parseQuantities(form map[string][]string, products []string) pricing.Quantities {
	out := pricing.Quantities{}
	for key, values := range form {
		if !strings.HasPrefix(key, qtyPrefix) || len(values) == 0 {
			continue
		}
		idx, err := strconv.Atoi(strings.TrimPrefix(key, qtyPrefix))
		if err != nil || idx < 0 || idx >= len(products) {
			continue
		}
		q, err := strconv.Atoi(strings.TrimSpace(values[len(values)-1]))
		if err != nil {
			continue
		}
		out[products[idx]] = q
	}
	return out
}

// dealerFields are the ordered dealer pickers: the difference is
// dealer_a - dealer_b
var dealerFields = []string{"dealer_a", "dealer_b"}

// parseDealers returns the chosen dealers in pick order and whether the
// dealer control was part of the submitted form at all. The ordered
// pickers come first, then any repeated "dealers" values.
func parseDealers(form map[string][]string) ([]string, bool) {
	_, present := form["dealers_present"]
	var dealers []string
	for _, field := range dealerFields {
		values, ok := form[field]
		if !ok {
			continue
		}
		present = true
		if len(values) > 0 {
			dealers = append(dealers, values[len(values)-1])
		}
	}
	dealers = append(dealers, form["dealers"]...)
	return dealers, present || len(dealers) > 0
}
