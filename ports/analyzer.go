package ports

import (
	"io"

	"pricecompare/domain/pricing"
	"pricecompare/internal/chart"
)

// PriceAnalyzer is the pure core of one dashboard run
type PriceAnalyzer interface {
	LoadTable(filename string, content []byte) (*pricing.Table, error)
	RenderStatic(table *pricing.Table) chart.Spec
	ComputeDifference(table *pricing.Table, dealers []string, quantities pricing.Quantities) (*pricing.Results, error)
	RenderDynamic(results *pricing.Results) chart.Spec
}

// ChartRenderer turns chart specs into images
type ChartRenderer interface {
	Render(spec chart.Spec, format chart.Format, w io.Writer) error
}
