// Package detail builds the per-product allocation detail table and writes
// it out as an xlsx workbook (the deliverable the accountants expect) or a
// CSV file. The same table, with wrapped headers, is what gets inserted into
// the notice document.
package detail

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"fjacquet/donation-docs/internal/fileutils"
	"fjacquet/donation-docs/internal/models"
	"fjacquet/donation-docs/internal/textutils"
)

// totalLabel is the label of the closing sum row.
const totalLabel = "合计"

// SpreadsheetHeaders are the column headers used in xlsx/csv output.
var SpreadsheetHeaders = []string{
	"序号",
	"票据抬头（实际捐赠人姓名）",
	"票据金额（实际捐赠金额（元））",
}

// DocumentHeaders are the column headers used when the table is inserted
// into a notice document; the wrap keeps the columns narrow.
var DocumentHeaders = []string{
	"序号",
	"票据抬头\n（实际捐赠人姓名）",
	"票据金额\n（实际捐赠金额（元））",
}

// Row is one rendered line of the detail table. Amounts are already
// currency-formatted strings: the table is a presentation artifact, all
// arithmetic happened before it is built.
type Row struct {
	Seq    string `csv:"序号"`
	Payer  string `csv:"票据抬头（实际捐赠人姓名）"`
	Amount string `csv:"票据金额（实际捐赠金额（元））"`
}

// Build renders one table row per holder, in input order, followed by a
// closing 合计 row recomputed from the allocated amounts. holders and
// amounts must have the same length (the allocator guarantees it).
func Build(holders []models.HoldingRecord, amounts []decimal.Decimal) []Row {
	rows := make([]Row, 0, len(holders)+1)
	total := decimal.Zero
	for i, rec := range holders {
		total = total.Add(amounts[i])
		rows = append(rows, Row{
			Seq:    fmt.Sprintf("%d", i+1),
			Payer:  rec.CustomerName,
			Amount: textutils.FormatCurrency(amounts[i]),
		})
	}
	rows = append(rows, Row{
		Seq:    totalLabel,
		Payer:  "",
		Amount: textutils.FormatCurrency(total),
	})
	return rows
}

// Cells flattens rows into a plain string grid, for the document writer.
func Cells(rows []Row) [][]string {
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = []string{r.Seq, r.Payer, r.Amount}
	}
	return cells
}

// WriteXLSX writes the table to a single-sheet workbook.
func WriteXLSX(path string, rows []Row) error {
	if err := fileutils.EnsureDirectoryExists(filepath.Dir(path)); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()
	sheetName := f.GetSheetName(0)

	for col, h := range SpreadsheetHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("failed to write header cell: %w", err)
		}
	}
	for i, r := range rows {
		for col, val := range []string{r.Seq, r.Payer, r.Amount} {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, val); err != nil {
				return fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save detail workbook %s: %w", path, err)
	}
	return nil
}

// WriteCSV writes the table to a CSV file using the struct tags on Row.
func WriteCSV(path string, rows []Row) error {
	if err := fileutils.EnsureDirectoryExists(filepath.Dir(path)); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create detail CSV %s: %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("failed to write detail CSV %s: %w", path, err)
	}
	return nil
}
