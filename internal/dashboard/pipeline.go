// Package dashboard runs the upload, validate, chart and compare sequence
// behind every dashboard interaction.
package dashboard

import (
	"errors"
	"fmt"
	"math"

	"pricecompare/domain/pricing"
	"pricecompare/internal"
	"pricecompare/internal/chart"
	"pricecompare/internal/comparison"
	"pricecompare/ports"
)

// Stage is how far a run got
type Stage string

const (
	StageIdle              Stage = "idle"
	StageFileUploaded      Stage = "file_uploaded"
	StageRejected          Stage = "rejected"
	StageValidated         Stage = "validated"
	StageStaticChartReady  Stage = "static_chart_ready"
	StageSelectionInvalid  Stage = "selection_invalid"
	StageDynamicChartReady Stage = "dynamic_chart_ready"
)

// TotalLineFormat is the summary line shown above the dynamic chart
const TotalLineFormat = "Total difference across all products: %s"

// RunInput is the complete widget state of one run
type RunInput struct {
	Filename string
	Content  []byte
	Dealers  []string
	// DealersSet distinguishes "nothing chosen yet" (use the default pair)
	// from an explicit, possibly empty, choice.
	DealersSet bool
	Quantities pricing.Quantities
}

// Slider is the state of one quantity control
type Slider struct {
	Product string
	Index   int
	Value   int
	Missing bool // no default quantity and no override
	Max     int
}

// View is everything the dashboard displays after one run
type View struct {
	Stage           Stage
	Filename        string
	Error           string
	Warning         string
	Err             error
	Table           *pricing.Table
	StaticChart     *chart.Spec
	SelectedDealers []string
	Selection       *pricing.Selection
	Sliders         []Slider
	Results         *pricing.Results
	DynamicChart    *chart.Spec
	TotalLine       string
}

// HasTable reports whether the upload passed validation
func (v *View) HasTable() bool {
	return v.Table != nil
}

// SelectedAt returns the i-th picked dealer, or "" when fewer were picked
func (v *View) SelectedAt(i int) string {
	if i < 0 || i >= len(v.SelectedDealers) {
		return ""
	}
	return v.SelectedDealers[i]
}

// Pipeline re-executes the whole dashboard top to bottom on every call
type Pipeline struct {
	analyzer ports.PriceAnalyzer
	config   Config
	logger   *internal.Logger
}

// NewPipeline creates a pipeline over analyzer
func NewPipeline(analyzer ports.PriceAnalyzer, config Config, logger *internal.Logger) *Pipeline {
	if config.ProductColumn == "" {
		config.ProductColumn = pricing.DefaultProductColumn
	}
	if config.QuantityColumn == "" {
		config.QuantityColumn = pricing.DefaultQuantityColumn
	}
	if config.QuantityMax <= 0 {
		config.QuantityMax = pricing.MaxQuantity
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Pipeline{analyzer: analyzer, config: config, logger: logger.For("Pipeline")}
}

// New wires a pipeline to the default analyzer
func New(config Config, logger *internal.Logger) *Pipeline {
	return NewPipeline(NewAnalyzer(config), config, logger)
}

// Config returns the pipeline settings with defaults applied
func (p *Pipeline) Config() Config {
	return p.config
}

// Run executes one pass. It never returns nil.
func (p *Pipeline) Run(in RunInput) *View {
	view := &View{Stage: StageIdle, Filename: in.Filename}
	if len(in.Content) == 0 {
		return view
	}
	view.Stage = StageFileUploaded

	table, err := p.analyzer.LoadTable(in.Filename, in.Content)
	if err != nil {
		p.logger.Warn("rejected %s: %v", in.Filename, err)
		view.Stage = StageRejected
		view.Err = err
		view.Error = p.tableMessage(err)
		return view
	}
	view.Stage = StageValidated
	view.Table = table
	p.logger.Debug("validated %s: %d products, %d dealers", in.Filename, len(table.Rows), len(table.Dealers))

	static := p.analyzer.RenderStatic(table)
	view.StaticChart = &static
	view.Stage = StageStaticChartReady

	dealers := in.Dealers
	if !in.DealersSet {
		dealers = pricing.DefaultSelection(table)
	}
	view.SelectedDealers = dealers
	view.Sliders = p.sliders(table, in.Quantities)

	results, err := p.analyzer.ComputeDifference(table, dealers, in.Quantities)
	if err != nil {
		view.Err = err
		if !pricing.IsSelectionError(err) {
			p.logger.Error("difference computation failed: %v", err)
			view.Error = err.Error()
			return view
		}
		view.Stage = StageSelectionInvalid
		view.Warning = selectionMessage(err)
		return view
	}

	selection := results.Selection
	view.Selection = &selection
	view.Results = results
	dynamic := p.analyzer.RenderDynamic(results)
	view.DynamicChart = &dynamic
	view.TotalLine = fmt.Sprintf(TotalLineFormat, chart.FormatSigned(results.GrandTotal, false))
	view.Stage = StageDynamicChartReady
	return view
}

func (p *Pipeline) sliders(table *pricing.Table, overrides pricing.Quantities) []Slider {
	out := make([]Slider, len(table.Rows))
	for i, row := range table.Rows {
		s := Slider{Product: row.Name, Index: i, Max: p.config.QuantityMax}
		if q, ok := overrides[row.Name]; ok {
			s.Value = comparison.ClampQuantity(q, p.config.QuantityMax)
		} else if q := comparison.DefaultQuantity(row.Quantity, p.config.QuantityMax); !math.IsNaN(q) {
			s.Value = int(q)
		} else {
			s.Missing = true
		}
		out[i] = s
	}
	return out
}

func (p *Pipeline) tableMessage(err error) string {
	switch {
	case errors.Is(err, pricing.ErrMissingColumn):
		return fmt.Sprintf("The spreadsheet must contain the '%s' and '%s' columns", p.config.ProductColumn, p.config.QuantityColumn)
	case errors.Is(err, pricing.ErrInsufficientDealers):
		return "The spreadsheet needs at least two dealer price columns"
	case errors.Is(err, pricing.ErrUnsupportedFormat):
		return "Unsupported file type, upload an .xlsx or .csv file"
	default:
		return err.Error()
	}
}

func selectionMessage(err error) string {
	if errors.Is(err, pricing.ErrUnknownDealer) {
		return err.Error()
	}
	return "Please select exactly two dealers"
}
