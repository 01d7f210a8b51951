// Package xlsxreader reads charity ledger and holding roster spreadsheets
// into typed records. It loads each workbook's first sheet as a raw string
// grid (.xlsx via excelize, legacy .xls via xlsReader), lets the header
// detector resolve the schema's columns, and projects the data rows through
// the normalizer. Rows that fail a record invariant are dropped with a
// warning; header and column failures abort the file.
package xlsxreader

import (
	"path/filepath"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"

	"fjacquet/donation-docs/internal/header"
	"fjacquet/donation-docs/internal/logging"
	"fjacquet/donation-docs/internal/models"
	"fjacquet/donation-docs/internal/parsererror"
	"fjacquet/donation-docs/internal/schema"
	"fjacquet/donation-docs/internal/textutils"
)

// ReadGrid loads the first sheet of a workbook as a row-major string grid.
func ReadGrid(path string) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".xls") {
		return readXLSGrid(path)
	}
	return readXLSXGrid(path)
}

func readXLSXGrid(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &parsererror.SheetReadError{FilePath: path, Err: err}
	}
	defer func() {
		_ = f.Close()
	}()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, &parsererror.SheetReadError{FilePath: path, Err: err}
	}
	return rows, nil
}

func readXLSGrid(path string) ([][]string, error) {
	workbook, err := xls.OpenFile(path)
	if err != nil {
		return nil, &parsererror.SheetReadError{FilePath: path, Err: err}
	}

	sheet, err := workbook.GetSheet(0)
	if err != nil || sheet == nil {
		return nil, &parsererror.SheetReadError{FilePath: path, Err: err}
	}

	var rows [][]string
	for _, xlsRow := range sheet.GetRows() {
		var cells []string
		for _, col := range xlsRow.GetCols() {
			cells = append(cells, col.GetString())
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// ReadCharityRecords reads one charity ledger file. Rows with an empty
// product name or an unparseable amount are dropped with a warning.
func ReadCharityRecords(path string, sc schema.Schema, logger logging.Logger) ([]models.CharityRecord, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	grid, err := ReadGrid(path)
	if err != nil {
		return nil, err
	}
	result, err := header.Detect(path, grid, sc, logger)
	if err != nil {
		return nil, err
	}

	var records []models.CharityRecord
	for i, row := range result.DataRows {
		product := textutils.NormalizeWhitespace(cellAt(row, result.Mapping[schema.FieldProductName].Index))
		counterparty := textutils.NormalizeWhitespace(cellAt(row, result.Mapping[schema.FieldCounterparty].Index))
		amount := textutils.ParseDecimal(cellAt(row, result.Mapping[schema.FieldAmount].Index))

		if product == "" || !amount.Valid {
			logger.Warn("dropping charity ledger row",
				logging.F(logging.FieldFile, path),
				logging.F(logging.FieldRow, result.HeaderRow+1+i),
				logging.F(logging.FieldReason, "empty product or unparseable amount"))
			continue
		}
		records = append(records, models.CharityRecord{
			ProductName:  product,
			Counterparty: counterparty,
			Amount:       amount.Decimal,
		})
	}
	logger.Info("read charity ledger",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(records)))
	return records, nil
}

// ReadHoldingRecords reads one holding roster file. Rows need a product and
// a customer name; the share may be absent and the record is kept anyway.
func ReadHoldingRecords(path string, sc schema.Schema, logger logging.Logger) ([]models.HoldingRecord, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	grid, err := ReadGrid(path)
	if err != nil {
		return nil, err
	}
	result, err := header.Detect(path, grid, sc, logger)
	if err != nil {
		return nil, err
	}

	var records []models.HoldingRecord
	for i, row := range result.DataRows {
		product := textutils.NormalizeWhitespace(cellAt(row, result.Mapping[schema.FieldProductName].Index))
		customer := textutils.NormalizeWhitespace(cellAt(row, result.Mapping[schema.FieldCustomerName].Index))
		share := textutils.ParseDecimal(cellAt(row, result.Mapping[schema.FieldShare].Index))

		if product == "" || customer == "" {
			logger.Warn("dropping holding roster row",
				logging.F(logging.FieldFile, path),
				logging.F(logging.FieldRow, result.HeaderRow+1+i),
				logging.F(logging.FieldReason, "empty product or customer name"))
			continue
		}
		records = append(records, models.HoldingRecord{
			ProductName:  product,
			CustomerName: customer,
			Share:        share,
		})
	}
	logger.Info("read holding roster",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(records)))
	return records, nil
}

// cellAt guards against ragged rows: spreadsheets routinely omit trailing
// empty cells.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
