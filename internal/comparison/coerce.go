package comparison

import (
	"math"
	"strconv"
	"strings"

	"pricecompare/domain/pricing"
)

// ToNumber coerces a cell to float64. Anything that does not parse as a
// finite number becomes pricing.Missing; it is never treated as zero.
func ToNumber(cell string) float64 {
	s := strings.TrimSpace(cell)
	if s == "" {
		return pricing.Missing
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return pricing.Missing
	}
	return v
}

// ClampQuantity bounds a slider value to [pricing.MinQuantity, max]
func ClampQuantity(q, max int) int {
	if q < pricing.MinQuantity {
		return pricing.MinQuantity
	}
	if q > max {
		return max
	}
	return q
}

// DefaultQuantity converts a sheet quantity to the slider's starting value:
// truncated toward zero and clamped. Missing stays missing.
func DefaultQuantity(q float64, max int) float64 {
	if pricing.IsMissing(q) {
		return pricing.Missing
	}
	t := math.Trunc(q)
	if t < pricing.MinQuantity {
		return pricing.MinQuantity
	}
	if t > float64(max) {
		return float64(max)
	}
	return t
}
