package dashboard

import (
	"pricecompare/domain/pricing"
	"pricecompare/internal/chart"
	"pricecompare/internal/comparison"
	"pricecompare/ports"
)

// Config holds the settings shared by every run
type Config struct {
	ProductColumn  string
	QuantityColumn string
	QuantityMax    int
	MaxRows        int
}

// Analyzer is the default ports.PriceAnalyzer backed by the comparison
// loader and engine
type Analyzer struct {
	loader *comparison.Loader
	engine *comparison.Engine
}

var _ ports.PriceAnalyzer = (*Analyzer)(nil)

// NewAnalyzer creates an analyzer for the given configuration
func NewAnalyzer(config Config) *Analyzer {
	return &Analyzer{
		loader: comparison.NewLoader(comparison.LoaderConfig{
			ProductColumn:  config.ProductColumn,
			QuantityColumn: config.QuantityColumn,
			MaxRows:        config.MaxRows,
		}),
		engine: comparison.NewEngine(config.QuantityMax),
	}
}

func (a *Analyzer) LoadTable(filename string, content []byte) (*pricing.Table, error) {
	return a.loader.Load(filename, content)
}

func (a *Analyzer) RenderStatic(table *pricing.Table) chart.Spec {
	return chart.BuildStatic(table)
}

func (a *Analyzer) ComputeDifference(table *pricing.Table, dealers []string, quantities pricing.Quantities) (*pricing.Results, error) {
	return a.engine.Compute(table, dealers, quantities)
}

func (a *Analyzer) RenderDynamic(results *pricing.Results) chart.Spec {
	return chart.BuildDynamic(results)
}
