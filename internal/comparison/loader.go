package comparison

import (
	"log"

	"pricecompare/adapters/excel"
	"pricecompare/domain/pricing"
)

// LoaderConfig names the reserved columns
type LoaderConfig struct {
	ProductColumn  string
	QuantityColumn string
	MaxRows        int
}

// DefaultLoaderConfig returns the default 产品名 / 数量 column names
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		ProductColumn:  pricing.DefaultProductColumn,
		QuantityColumn: pricing.DefaultQuantityColumn,
	}
}

// Loader parses and validates uploaded price sheets
type Loader struct {
	config LoaderConfig
}

// NewLoader creates a loader, filling blank column names with defaults
func NewLoader(config LoaderConfig) *Loader {
	defaults := DefaultLoaderConfig()
	if config.ProductColumn == "" {
		config.ProductColumn = defaults.ProductColumn
	}
	if config.QuantityColumn == "" {
		config.QuantityColumn = defaults.QuantityColumn
	}
	return &Loader{config: config}
}

// Load reads the first sheet of an upload and validates it into a Table
func (l *Loader) Load(filename string, content []byte) (*pricing.Table, error) {
	reader := excel.NewDataReaderWithConfig(filename, content, excel.ReaderConfig{MaxRows: l.config.MaxRows})
	data, err := reader.ReadData()
	if err != nil {
		return nil, err
	}
	return BuildTable(data, l.config.ProductColumn, l.config.QuantityColumn)
}

// BuildTable validates sheet data: both reserved columns must exist, at least
// two dealer columns must remain and product names must be unique. Dealer
// order follows the sheet.
func BuildTable(data *excel.SheetData, productColumn, quantityColumn string) (*pricing.Table, error) {
	productIdx := data.Column(productColumn)
	quantityIdx := data.Column(quantityColumn)

	var missing []string
	if productIdx < 0 {
		missing = append(missing, productColumn)
	}
	if quantityIdx < 0 {
		missing = append(missing, quantityColumn)
	}
	if len(missing) > 0 {
		return nil, pricing.NewMissingColumnError(missing...)
	}

	var dealers []string
	var dealerIdx []int
	for i, h := range data.Headers {
		if i == productIdx || i == quantityIdx {
			continue
		}
		dealers = append(dealers, h)
		dealerIdx = append(dealerIdx, i)
	}
	if len(dealers) < 2 {
		return nil, pricing.NewInsufficientDealersError(len(dealers))
	}

	table := &pricing.Table{
		ProductColumn:  productColumn,
		QuantityColumn: quantityColumn,
		Columns:        append([]string(nil), data.Headers...),
		Dealers:        dealers,
		Rows:           make([]pricing.ProductRow, 0, len(data.Rows)),
	}

	firstSeen := make(map[string]int, len(data.Rows))
	for i, cells := range data.Rows {
		sheetRow := i + 2 // header is row 1
		name := cells[productIdx]
		if prev, ok := firstSeen[name]; ok {
			return nil, pricing.NewDuplicateProductError(name, prev, sheetRow)
		}
		firstSeen[name] = sheetRow

		prices := make(map[string]float64, len(dealers))
		for j, dealer := range dealers {
			prices[dealer] = ToNumber(cells[dealerIdx[j]])
		}

		table.Rows = append(table.Rows, pricing.ProductRow{
			Name:     name,
			Quantity: ToNumber(cells[quantityIdx]),
			Prices:   prices,
			Raw:      append([]string(nil), cells...),
		})
	}

	log.Printf("[Loader] Table validated: %d products, dealers %v", len(table.Rows), table.Dealers)
	return table, nil
}
