// Package orchestrator drives the generation run: scan the source directory,
// read ledgers and rosters, render one notice per donated product, allocate
// each donated amount across the product's holders, and write the detail
// tables both as standalone files and into the notices.
package orchestrator

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/shopspring/decimal"

	"fjacquet/donation-docs/internal/allocation"
	"fjacquet/donation-docs/internal/config"
	"fjacquet/donation-docs/internal/detail"
	"fjacquet/donation-docs/internal/document"
	"fjacquet/donation-docs/internal/fileutils"
	"fjacquet/donation-docs/internal/logging"
	"fjacquet/donation-docs/internal/models"
	"fjacquet/donation-docs/internal/parsererror"
	"fjacquet/donation-docs/internal/schema"
	"fjacquet/donation-docs/internal/textutils"
	"fjacquet/donation-docs/internal/xlsxreader"
)

// ErrTemplateMissing is returned when the notice template file does not
// exist; without it no document can be generated.
var ErrTemplateMissing = errors.New("notice template file not found")

// Orchestrator runs the full generation pipeline for one configuration.
type Orchestrator struct {
	cfg           *config.Config
	logger        logging.Logger
	charitySchema schema.Schema
	holdingSchema schema.Schema
	shortNameRe   *regexp.Regexp
}

// productState carries what later stages need per product: the donated
// amount, the rendered notice path, and the short name used in file names.
type productState struct {
	amount    decimal.Decimal
	docPath   string
	shortName string
}

// New builds an Orchestrator from configuration, applying any schema synonym
// overrides and compiling the short-name pattern.
func New(cfg *config.Config, logger logging.Logger) (*Orchestrator, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}

	charitySchema, err := schema.Charity().Apply(cfg.Schemas.Charity)
	if err != nil {
		return nil, err
	}
	holdingSchema, err := schema.Holding().Apply(cfg.Schemas.Holding)
	if err != nil {
		return nil, err
	}

	var shortNameRe *regexp.Regexp
	if cfg.Naming.ShortNamePattern != "" {
		shortNameRe, err = regexp.Compile(cfg.Naming.ShortNamePattern)
		if err != nil {
			return nil, fmt.Errorf("invalid short name pattern: %w", err)
		}
	}

	return &Orchestrator{
		cfg:           cfg,
		logger:        logger,
		charitySchema: charitySchema,
		holdingSchema: holdingSchema,
		shortNameRe:   shortNameRe,
	}, nil
}

// Run executes the pipeline and returns the run statistics. Header/column
// failures and duplicate products abort the run; individual bad rows were
// already dropped by the readers.
func (o *Orchestrator) Run() (*models.RunStats, error) {
	charityFiles, holdingFiles, err := fileutils.ScanSourceFiles(
		o.cfg.Paths.Source, o.cfg.Naming.CharityMarker, o.cfg.Naming.HoldingMarker)
	if err != nil {
		return nil, err
	}
	o.logger.Info("source files discovered",
		logging.F("charity_files", len(charityFiles)),
		logging.F("holding_files", len(holdingFiles)))

	if !fileutils.FileExists(o.cfg.Paths.Template) {
		return nil, fmt.Errorf("%w: %s", ErrTemplateMissing, o.cfg.Paths.Template)
	}

	stats := &models.RunStats{
		CharityFiles: len(charityFiles),
		HoldingFiles: len(holdingFiles),
	}

	products, err := o.renderNotices(charityFiles, stats)
	if err != nil {
		return stats, err
	}
	if len(products) == 0 {
		o.logger.Warn("no product records found in any charity ledger")
	}

	if err := o.writeDetails(holdingFiles, products, stats); err != nil {
		return stats, err
	}

	return stats, nil
}

// renderNotices reads every charity ledger and renders one notice per
// record. The same product appearing twice is a fatal data-integrity error:
// allocation assumes one total per product.
func (o *Orchestrator) renderNotices(charityFiles []string, stats *models.RunStats) (map[string]*productState, error) {
	products := make(map[string]*productState)

	for _, file := range charityFiles {
		records, err := xlsxreader.ReadCharityRecords(file, o.charitySchema, o.logger)
		if err != nil {
			return nil, err
		}
		stats.CharityRows += len(records)

		for _, rec := range records {
			if _, dup := products[rec.ProductName]; dup {
				return nil, &parsererror.DuplicateProductError{Product: rec.ProductName}
			}

			shortName := textutils.ExtractShortName(rec.ProductName, o.shortNameRe)
			docPath := fileutils.BuildNonConflictPath(
				filepath.Join(o.cfg.Paths.OutputDocs, o.noticeFileName(rec.Counterparty, shortName)),
				o.cfg.Output.Overwrite)

			placeholders := map[string]string{
				document.PlaceholderProduct:      rec.ProductName,
				document.PlaceholderCounterparty: rec.Counterparty,
				document.PlaceholderAmount:       textutils.FormatCurrency(rec.Amount),
			}
			if err := document.Render(o.cfg.Paths.Template, docPath, placeholders, o.logger); err != nil {
				stats.DocsFailed++
				return nil, err
			}
			stats.DocsSuccess++

			products[rec.ProductName] = &productState{
				amount:    rec.Amount,
				docPath:   docPath,
				shortName: shortName,
			}
		}
	}
	return products, nil
}

// writeDetails reads every holding roster, allocates each product's donated
// amount across its holders, writes the detail files and attaches the table
// to the product's notice.
func (o *Orchestrator) writeDetails(holdingFiles []string, products map[string]*productState, stats *models.RunStats) error {
	for _, file := range holdingFiles {
		records, err := xlsxreader.ReadHoldingRecords(file, o.holdingSchema, o.logger)
		if err != nil {
			return err
		}
		stats.HoldingRecords += len(records)
		if len(records) == 0 {
			continue
		}

		// Group per product, keeping first-seen product order and row order
		// within each product: allocation order decides who absorbs the
		// rounding remainder.
		var order []string
		byProduct := make(map[string][]models.HoldingRecord)
		for _, rec := range records {
			if _, seen := byProduct[rec.ProductName]; !seen {
				order = append(order, rec.ProductName)
			}
			byProduct[rec.ProductName] = append(byProduct[rec.ProductName], rec)
		}

		for _, productName := range order {
			if err := o.writeProductDetail(productName, byProduct[productName], products[productName], stats); err != nil {
				return err
			}
		}
	}
	return nil
}

func (o *Orchestrator) writeProductDetail(productName string, holders []models.HoldingRecord, state *productState, stats *models.RunStats) error {
	amount := decimal.Zero
	shortName := productName
	if state != nil {
		amount = state.amount
		shortName = state.shortName
	} else {
		o.logger.Warn("product from holding roster missing in charity ledgers, allocating zero",
			logging.F(logging.FieldProduct, productName))
	}

	shares := make([]decimal.NullDecimal, len(holders))
	for i, rec := range holders {
		shares[i] = rec.Share
	}
	amounts := allocation.Proportional(amount, shares)
	rows := detail.Build(holders, amounts)

	safeShort := textutils.SanitizeFileStem(shortName)
	xlsxPath := fileutils.BuildNonConflictPath(
		filepath.Join(o.cfg.Paths.OutputDetails, "票据明细_"+safeShort+".xlsx"),
		o.cfg.Output.Overwrite)
	if err := detail.WriteXLSX(xlsxPath, rows); err != nil {
		return err
	}
	stats.DetailFiles++

	if o.cfg.Output.DetailCSV {
		csvPath := fileutils.BuildNonConflictPath(
			filepath.Join(o.cfg.Paths.OutputDetails, "票据明细_"+safeShort+".csv"),
			o.cfg.Output.Overwrite)
		if err := detail.WriteCSV(csvPath, rows); err != nil {
			return err
		}
	}

	if state == nil {
		o.logger.Warn("no notice document to attach the detail table to",
			logging.F(logging.FieldProduct, productName))
		stats.DetailAttachFailed++
		return nil
	}
	if err := document.AttachDetailTable(state.docPath, document.PlaceholderDetailTable,
		detail.DocumentHeaders, detail.Cells(rows), o.logger); err != nil {
		stats.DetailAttachFailed++
		return err
	}
	stats.DetailAttachSuccess++
	return nil
}

// noticeFileName builds the notice file name from the sanitized counterparty
// and short product name.
func (o *Orchestrator) noticeFileName(counterparty, shortName string) string {
	safeShort := textutils.SanitizeFileStem(shortName)
	if counterparty == "" {
		return "代捐说明_" + safeShort + ".txt"
	}
	return textutils.SanitizeFileStem(counterparty) + "_代捐说明_" + safeShort + ".txt"
}
