// Package parsererror defines the typed error kinds raised while reading
// source spreadsheets. Header and column failures are fatal for the file
// being processed; individual bad cells never surface here (they are dropped
// with a warning by the readers).
package parsererror

import (
	"fmt"
	"strings"
)

// HeaderNotFoundError means no row among the scanned candidates matched any
// required logical field.
type HeaderNotFoundError struct {
	FilePath    string
	RowsScanned int
}

func (e *HeaderNotFoundError) Error() string {
	return fmt.Sprintf("no header row found in '%s' (scanned first %d rows)",
		e.FilePath, e.RowsScanned)
}

// IncompleteMappingError means a header row was found or assumed, but not
// every logical field resolved to a column.
type IncompleteMappingError struct {
	FilePath  string
	HeaderRow int // 0-based row index used as header
	Missing   []string
}

func (e *IncompleteMappingError) Error() string {
	return fmt.Sprintf("header matched at row %d in '%s' but columns incomplete, missing: %s",
		e.HeaderRow, e.FilePath, strings.Join(e.Missing, ", "))
}

// DuplicateProductError is a fatal data-integrity error: the same product
// appeared twice in the charity ledgers. Allocation assumes a 1:1
// product-to-total relationship, so processing must stop before any
// allocation happens.
type DuplicateProductError struct {
	Product string
}

func (e *DuplicateProductError) Error() string {
	return fmt.Sprintf("duplicate product in charity ledger: %s", e.Product)
}

// SheetReadError wraps a failure to open or read a workbook grid.
type SheetReadError struct {
	FilePath string
	Err      error
}

func (e *SheetReadError) Error() string {
	return fmt.Sprintf("failed to read sheet from '%s': %v", e.FilePath, e.Err)
}

func (e *SheetReadError) Unwrap() error {
	return e.Err
}
