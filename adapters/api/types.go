package api

import (
	"pricecompare/domain/pricing"
	"pricecompare/internal/chart"
	"pricecompare/internal/dashboard"
)

// Missing numbers are encoded as null.

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// ProductDTO is one validated sheet row
type ProductDTO struct {
	Name     string              `json:"name"`
	Quantity *float64            `json:"quantity"`
	Prices   map[string]*float64 `json:"prices"`
}

// RowDTO is one row of the difference table
type RowDTO struct {
	Product       string   `json:"product"`
	PriceA        *float64 `json:"price_a"`
	PriceB        *float64 `json:"price_b"`
	Difference    *float64 `json:"difference"`
	Quantity      *float64 `json:"quantity"`
	Total         *float64 `json:"total"`
	MoreExpensive bool     `json:"more_expensive"`
}

// SliderDTO is the resolved quantity control of one product
type SliderDTO struct {
	Product string `json:"product"`
	Value   *int   `json:"value"`
	Max     int    `json:"max"`
}

// AnalyzeResponse is the JSON form of a dashboard run
type AnalyzeResponse struct {
	Stage          string             `json:"stage"`
	Filename       string             `json:"filename"`
	Warning        string             `json:"warning,omitempty"`
	ProductColumn  string             `json:"product_column"`
	QuantityColumn string             `json:"quantity_column"`
	Dealers        []string           `json:"dealers"`
	Products       []ProductDTO       `json:"products"`
	Selected       []string           `json:"selected_dealers"`
	Selection      *pricing.Selection `json:"selection,omitempty"`
	Sliders        []SliderDTO        `json:"sliders"`
	Rows           []RowDTO           `json:"rows,omitempty"`
	GrandTotal     *float64           `json:"grand_total,omitempty"`
	MissingRows    int                `json:"missing_rows"`
	TotalLine      string             `json:"total_line,omitempty"`
	StaticChart    *chart.Spec        `json:"static_chart,omitempty"`
	DynamicChart   *chart.Spec        `json:"dynamic_chart,omitempty"`
}

func optional(v float64) *float64 {
	if pricing.IsMissing(v) {
		return nil
	}
	return &v
}

// NewAnalyzeResponse converts a validated run to its JSON form
func NewAnalyzeResponse(view *dashboard.View) *AnalyzeResponse {
	resp := &AnalyzeResponse{
		Stage:        string(view.Stage),
		Filename:     view.Filename,
		Warning:      view.Warning,
		Selected:     view.SelectedDealers,
		Selection:    view.Selection,
		StaticChart:  view.StaticChart,
		DynamicChart: view.DynamicChart,
		TotalLine:    view.TotalLine,
	}
	if resp.Selected == nil {
		resp.Selected = []string{}
	}

	if table := view.Table; table != nil {
		resp.ProductColumn = table.ProductColumn
		resp.QuantityColumn = table.QuantityColumn
		resp.Dealers = table.Dealers
		resp.Products = make([]ProductDTO, len(table.Rows))
		for i, row := range table.Rows {
			prices := make(map[string]*float64, len(row.Prices))
			for dealer, price := range row.Prices {
				prices[dealer] = optional(price)
			}
			resp.Products[i] = ProductDTO{Name: row.Name, Quantity: optional(row.Quantity), Prices: prices}
		}
	}

	resp.Sliders = make([]SliderDTO, len(view.Sliders))
	for i, s := range view.Sliders {
		dto := SliderDTO{Product: s.Product, Max: s.Max}
		if !s.Missing {
			value := s.Value
			dto.Value = &value
		}
		resp.Sliders[i] = dto
	}

	if results := view.Results; results != nil {
		resp.Rows = make([]RowDTO, len(results.Rows))
		for i, row := range results.Rows {
			resp.Rows[i] = RowDTO{
				Product:       row.Product,
				PriceA:        optional(row.PriceA),
				PriceB:        optional(row.PriceB),
				Difference:    optional(row.Difference),
				Quantity:      optional(row.Quantity),
				Total:         optional(row.Total),
				MoreExpensive: row.MoreExpensive,
			}
		}
		resp.GrandTotal = optional(results.GrandTotal)
		resp.MissingRows = results.MissingRows
	}
	return resp
}
