package pricing

import (
	"errors"
	"fmt"
	"strings"
)

// Table validation errors. Any of these blocks the whole run.
var (
	ErrInvalidTable        = errors.New("invalid price table")
	ErrMissingColumn       = fmt.Errorf("%w: missing required column", ErrInvalidTable)
	ErrInsufficientDealers = fmt.Errorf("%w: at least two dealer price columns are required", ErrInvalidTable)
	ErrEmptyTable          = fmt.Errorf("%w: sheet has no header row", ErrInvalidTable)
	ErrDuplicateProduct    = fmt.Errorf("%w: duplicate product name", ErrInvalidTable)
	ErrUnsupportedFormat   = fmt.Errorf("%w: unsupported file format", ErrInvalidTable)
)

// Selection errors. These only block the dynamic stage.
var (
	ErrInvalidSelection = errors.New("invalid dealer selection")
	ErrSelectionCount   = fmt.Errorf("%w: select exactly two dealers", ErrInvalidSelection)
	ErrUnknownDealer    = fmt.Errorf("%w: unknown dealer", ErrInvalidSelection)
)

func NewMissingColumnError(columns ...string) error {
	return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(columns, ", "))
}

func NewInsufficientDealersError(found int) error {
	return fmt.Errorf("%w (found %d)", ErrInsufficientDealers, found)
}

func NewDuplicateProductError(name string, firstRow, row int) error {
	return fmt.Errorf("%w: %q on rows %d and %d", ErrDuplicateProduct, name, firstRow, row)
}

func NewUnsupportedFormatError(filename string) error {
	return fmt.Errorf("%w: %s (use .xlsx or .csv)", ErrUnsupportedFormat, filename)
}

func NewSelectionCountError(got int) error {
	return fmt.Errorf("%w (got %d)", ErrSelectionCount, got)
}

func NewUnknownDealerError(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownDealer, name)
}

// IsTableError reports errors that reject the uploaded table
func IsTableError(err error) bool {
	return errors.Is(err, ErrInvalidTable)
}

// IsSelectionError reports errors that only skip the difference stage
func IsSelectionError(err error) bool {
	return errors.Is(err, ErrInvalidSelection)
}
