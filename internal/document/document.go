// Package document renders donation-notice documents. A notice starts from a
// plain-text template carrying #...# placeholders; the allocation detail
// table is inserted afterwards at its own placeholder, and a date signature
// line closes the document.
package document

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"fjacquet/donation-docs/internal/fileutils"
	"fjacquet/donation-docs/internal/logging"
	"fjacquet/donation-docs/internal/textutils"
)

// Placeholders used by the notice template.
const (
	PlaceholderProduct      = "#产品名称#"
	PlaceholderCounterparty = "#对手方#"
	PlaceholderAmount       = "#发生金额#"
	PlaceholderDetailTable  = "#明细表#"
)

// dateLayout renders the signature date, e.g. 2026年08月26日.
const dateLayout = "2006年01月02日"

// Render populates a notice template and writes it to outputPath. Every
// occurrence of each placeholder is replaced.
func Render(templatePath, outputPath string, placeholders map[string]string, logger logging.Logger) error {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	data, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read template %s: %w", templatePath, err)
	}

	text := string(data)
	for placeholder, value := range placeholders {
		text = strings.ReplaceAll(text, placeholder, value)
	}

	if err := fileutils.EnsureDirectoryExists(filepath.Dir(outputPath)); err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write document %s: %w", outputPath, err)
	}

	logger.Info("document generated",
		logging.F(logging.FieldOutputFile, outputPath))
	return nil
}

// AttachDetailTable inserts the detail table into an already rendered
// document at the given placeholder. When the placeholder is missing the
// table is appended to the end with a warning instead of failing: a notice
// without its table in the right spot is still more useful than no notice.
// A date signature line is appended either way.
func AttachDetailTable(docPath, placeholder string, headers []string, rows [][]string, logger logging.Logger) error {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	data, err := os.ReadFile(docPath)
	if err != nil {
		return fmt.Errorf("failed to read document %s: %w", docPath, err)
	}

	table := renderTable(headers, rows)
	text := string(data)
	if strings.Contains(text, placeholder) {
		text = strings.ReplaceAll(text, placeholder, table)
	} else {
		logger.Warn("detail table placeholder not found, appending table to end of document",
			logging.F(logging.FieldFile, docPath),
			logging.F(logging.FieldPlaceholder, placeholder))
		if !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
		text += "\n" + table
	}

	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	text += "\n" + time.Now().Format(dateLayout) + "\n"

	if err := os.WriteFile(docPath, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write document %s: %w", docPath, err)
	}

	logger.Info("detail table attached",
		logging.F(logging.FieldFile, docPath))
	return nil
}

// renderTable lays the table out in aligned columns. Embedded newlines in
// headers (used by the spreadsheet variant for cell wrapping) collapse to
// single spaces here.
func renderTable(headers []string, rows [][]string) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, strings.Join(flatten(headers), "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(flatten(row), "\t"))
	}
	_ = w.Flush()
	return buf.String()
}

func flatten(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = textutils.NormalizeWhitespace(c)
	}
	return out
}
