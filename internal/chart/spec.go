// Package chart builds bar chart descriptions from price tables and renders
// them with go-chart.
package chart

import (
	"fmt"
	"math"

	"pricecompare/domain/pricing"

	"github.com/montanaflynn/stats"
)

// Kind identifies which dashboard chart a Spec describes
type Kind string

const (
	KindStatic  Kind = "static"
	KindDynamic Kind = "dynamic"
)

// Colors for the sign of a price difference.
const (
	ColorMoreExpensive = "#e74c3c"
	ColorNotMore       = "#2ecc71"
)

// groupWidth is the share of one x unit covered by a product's bars.
const groupWidth = 0.8

// palette is the default categorical color cycle for dealer series
var palette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Spec describes a bar chart independent of any rendering backend
type Spec struct {
	Kind       Kind     `json:"kind"`
	Title      string   `json:"title"`
	YLabel     string   `json:"y_label"`
	Categories []string `json:"categories"` // x tick labels; category i sits at x = i
	Series     []Series `json:"series"`     // legend entries, empty for no legend
	Bars       []Bar    `json:"bars"`
	Annotation []string `json:"annotation,omitempty"`
	Width      int      `json:"width"`
	Height     int      `json:"height"`
}

// Series is a legend entry
type Series struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Bar is one rectangle. Height is what gets drawn, Value the signed number
// behind it.
type Bar struct {
	Series   int     `json:"series"` // index into Spec.Series, -1 for none
	Category int     `json:"category"`
	X        float64 `json:"x"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Value    float64 `json:"value"`
	Color    string  `json:"color"`
}

// BarWidth returns the width of one dealer bar inside a product group
func BarWidth(dealerCount int) float64 {
	if dealerCount < 1 {
		dealerCount = 1
	}
	return groupWidth / float64(dealerCount)
}

// CanvasSize returns the pixel size used for n products
func CanvasSize(n int) (int, int) {
	width := 60 * n
	if width < 1200 {
		width = 1200
	}
	return width, 600
}

// DealerColor returns the palette color of the i-th dealer
func DealerColor(i int) string {
	return palette[i%len(palette)]
}

// SignColor returns the color for a difference: only strictly positive
// values count as more expensive.
func SignColor(difference float64) string {
	if difference > 0 {
		return ColorMoreExpensive
	}
	return ColorNotMore
}

// BuildStatic lays out every dealer's price for every product. Within a
// product group the bars split the group width evenly; missing prices get no bar.
func BuildStatic(table *pricing.Table) Spec {
	n := len(table.Rows)
	width, height := CanvasSize(n)
	w := BarWidth(len(table.Dealers))

	spec := Spec{
		Kind:       KindStatic,
		Title:      "Static product prices (all dealers)",
		YLabel:     "Price",
		Categories: table.Products(),
		Series:     make([]Series, len(table.Dealers)),
		Width:      width,
		Height:     height,
	}

	for j, dealer := range table.Dealers {
		color := DealerColor(j)
		spec.Series[j] = Series{Name: dealer, Color: color}
		for i, row := range table.Rows {
			price := row.Price(dealer)
			if pricing.IsMissing(price) {
				continue
			}
			spec.Bars = append(spec.Bars, Bar{
				Series:   j,
				Category: i,
				X:        float64(i) - groupWidth/2 + float64(j)*w + w/2,
				Width:    w,
				Height:   price,
				Value:    price,
				Color:    color,
			})
		}
	}
	return spec
}

// BuildDynamic draws one bar per product sized by the absolute total
// difference and colored by the sign of the unit difference. The annotation
// lists every signed total, missing ones included.
func BuildDynamic(results *pricing.Results) Spec {
	n := len(results.Rows)
	width, height := CanvasSize(n)
	w := BarWidth(results.DealerCount)

	spec := Spec{
		Kind:       KindDynamic,
		Title:      fmt.Sprintf("Dynamic total difference (sum=%s)", FormatSigned(results.GrandTotal, false)),
		YLabel:     "Total difference",
		Categories: make([]string, n),
		Annotation: make([]string, n),
		Width:      width,
		Height:     height,
	}

	for i, row := range results.Rows {
		spec.Categories[i] = row.Product
		spec.Annotation[i] = fmt.Sprintf("%s: %s", row.Product, FormatSigned(row.Total, true))
		if pricing.IsMissing(row.Total) {
			continue
		}
		spec.Bars = append(spec.Bars, Bar{
			Series:   -1,
			Category: i,
			X:        float64(i),
			Width:    w,
			Height:   math.Abs(row.Total),
			Value:    row.Total,
			Color:    SignColor(row.Difference),
		})
	}
	return spec
}

// FormatSigned prints v rounded to an integer, with an explicit sign when
// signed is set. Missing values print as "n/a".
func FormatSigned(v float64, signed bool) string {
	if pricing.IsMissing(v) {
		return "n/a"
	}
	r := math.Round(v)
	if r == 0 {
		r = 0 // drop negative zero
	}
	if signed {
		return fmt.Sprintf("%+.0f", r)
	}
	return fmt.Sprintf("%.0f", r)
}

// ValueRange returns the y extent covering every bar and zero
func (s Spec) ValueRange() (float64, float64) {
	heights := make(stats.Float64Data, len(s.Bars))
	for i, b := range s.Bars {
		heights[i] = b.Height
	}
	lo, err := stats.Min(heights)
	if err != nil {
		return 0, 0
	}
	hi, err := stats.Max(heights)
	if err != nil {
		return 0, 0
	}
	return math.Min(lo, 0), math.Max(hi, 0)
}
