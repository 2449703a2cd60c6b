package testkit

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"strconv"

	"pricecompare/domain/pricing"

	"github.com/xuri/excelize/v2"
)

// PriceSheetConfig configures the price sheet generator
type PriceSheetConfig struct {
	ProductCount   int     `json:"product_count"`
	DealerCount    int     `json:"dealer_count"`
	BasePriceMin   float64 `json:"base_price_min"`
	BasePriceMax   float64 `json:"base_price_max"`
	DealerSpread   float64 `json:"dealer_spread"` // relative std dev of a dealer's price around the base
	MissingRate    float64 `json:"missing_rate"`  // share of blank price and quantity cells
	MaxQuantity    int     `json:"max_quantity"`
	ProductColumn  string  `json:"product_column"`
	QuantityColumn string  `json:"quantity_column"`
	Seed           int64   `json:"seed"`
}

// DefaultPriceSheetConfig returns a small sheet with a few gaps
func DefaultPriceSheetConfig() PriceSheetConfig {
	return PriceSheetConfig{
		ProductCount:   12,
		DealerCount:    4,
		BasePriceMin:   5,
		BasePriceMax:   500,
		DealerSpread:   0.08,
		MissingRate:    0.05,
		MaxQuantity:    200,
		ProductColumn:  pricing.DefaultProductColumn,
		QuantityColumn: pricing.DefaultQuantityColumn,
		Seed:           42,
	}
}

// SheetRow is one generated product; missing cells are NaN
type SheetRow struct {
	Product  string
	Quantity float64
	Prices   []float64 // dealer order
}

// Sheet is a generated price table
type Sheet struct {
	Header  []string
	Dealers []string
	Rows    []SheetRow
}

// PriceSheetGenerator produces deterministic dealer price sheets
type PriceSheetGenerator struct {
	config PriceSheetConfig
	rng    *rand.Rand
}

// NewPriceSheetGenerator creates a generator; equal seeds give equal sheets
func NewPriceSheetGenerator(config PriceSheetConfig) *PriceSheetGenerator {
	defaults := DefaultPriceSheetConfig()
	if config.ProductColumn == "" {
		config.ProductColumn = defaults.ProductColumn
	}
	if config.QuantityColumn == "" {
		config.QuantityColumn = defaults.QuantityColumn
	}
	if config.BasePriceMax <= config.BasePriceMin {
		config.BasePriceMin, config.BasePriceMax = defaults.BasePriceMin, defaults.BasePriceMax
	}
	if config.MaxQuantity <= 0 {
		config.MaxQuantity = defaults.MaxQuantity
	}
	return &PriceSheetGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate builds a sheet
func (g *PriceSheetGenerator) Generate() *Sheet {
	sheet := &Sheet{
		Dealers: make([]string, g.config.DealerCount),
		Rows:    make([]SheetRow, g.config.ProductCount),
	}
	for j := range sheet.Dealers {
		sheet.Dealers[j] = dealerName(j)
	}
	sheet.Header = append([]string{g.config.ProductColumn, g.config.QuantityColumn}, sheet.Dealers...)

	for i := range sheet.Rows {
		base := g.config.BasePriceMin + g.rng.Float64()*(g.config.BasePriceMax-g.config.BasePriceMin)
		row := SheetRow{
			Product:  fmt.Sprintf("Product %03d", i+1),
			Quantity: g.maybeMissing(float64(g.rng.Intn(g.config.MaxQuantity + 1))),
			Prices:   make([]float64, g.config.DealerCount),
		}
		for j := range row.Prices {
			price := base * (1 + g.rng.NormFloat64()*g.config.DealerSpread)
			row.Prices[j] = g.maybeMissing(math.Max(0.01, math.Round(price*100)/100))
		}
		sheet.Rows[i] = row
	}
	return sheet
}

func (g *PriceSheetGenerator) maybeMissing(v float64) float64 {
	if g.config.MissingRate > 0 && g.rng.Float64() < g.config.MissingRate {
		return pricing.Missing
	}
	return v
}

// dealerName returns "Dealer A" .. "Dealer Z", then "Dealer 27" onwards
func dealerName(i int) string {
	if i < 26 {
		return "Dealer " + string(rune('A'+i))
	}
	return fmt.Sprintf("Dealer %d", i+1)
}

// CSV encodes the sheet with blank cells for missing values
func (s *Sheet) CSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(s.Header); err != nil {
		return nil, err
	}
	for _, row := range s.Rows {
		record := []string{row.Product, formatCell(row.Quantity)}
		for _, p := range row.Prices {
			record = append(record, formatCell(p))
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// XLSX encodes the sheet as a workbook with numeric cells; missing values
// are left empty
func (s *Sheet) XLSX() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	name := f.GetSheetName(0)

	set := func(col, row int, v interface{}) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(name, cell, v)
	}

	for c, h := range s.Header {
		if err := set(c+1, 1, h); err != nil {
			return nil, err
		}
	}
	for r, row := range s.Rows {
		values := append([]float64{row.Quantity}, row.Prices...)
		if err := set(1, r+2, row.Product); err != nil {
			return nil, err
		}
		for c, v := range values {
			if pricing.IsMissing(v) {
				continue
			}
			if err := set(c+2, r+2, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func formatCell(v float64) string {
	if pricing.IsMissing(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
