// Package header locates the header row of a raw sheet grid and resolves the
// columns a logical schema requires. Upstream exports are inconsistent: some
// put the header on the second row under a title banner, some prepend blank
// or preamble rows, and header spellings vary. Detection therefore runs in
// two phases: a cheap fixed-position assumption first, then a scored scan of
// the leading rows.
package header

import (
	"fjacquet/donation-docs/internal/logging"
	"fjacquet/donation-docs/internal/parsererror"
	"fjacquet/donation-docs/internal/schema"
	"fjacquet/donation-docs/internal/textutils"
)

const (
	// assumedHeaderRow is the 0-based row tried before any scanning. The
	// institutional exports put a title banner on the first row.
	assumedHeaderRow = 1

	// scanLimit bounds the fallback scan; headers never sit deeper than this
	// in the known exports.
	scanLimit = 6
)

// Column is a resolved physical column: its 0-based index and the label the
// sheet actually used.
type Column struct {
	Index int
	Label string
}

// Mapping resolves every logical field of a schema to exactly one physical
// column. It is built once per sheet and discarded after the rows are
// projected.
type Mapping map[schema.Field]Column

// Result is a successful detection: the header row that won, the resolved
// mapping, and the rows below it.
type Result struct {
	HeaderRow int // 0-based
	Mapping   Mapping
	DataRows  [][]string
}

// Detect locates the header row of the raw grid and resolves the schema's
// columns. filePath is only used for error context.
func Detect(filePath string, rows [][]string, sc schema.Schema, logger logging.Logger) (*Result, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	// Phase 1: assume the header sits on the fixed row.
	if len(rows) > assumedHeaderRow {
		if mapping, missing := buildMapping(rows[assumedHeaderRow], sc); len(missing) == 0 {
			return &Result{
				HeaderRow: assumedHeaderRow,
				Mapping:   mapping,
				DataRows:  rows[assumedHeaderRow+1:],
			}, nil
		}
	}
	logger.Debug("fixed header position did not match, scanning for header row",
		logging.F(logging.FieldFile, filePath),
		logging.F(logging.FieldSheet, sc.Name))

	// Phase 2: score the leading rows. A field contributes at most 1 to a
	// row's score no matter how many of its synonyms appear, and ties keep
	// the earliest row (strict > on update).
	limit := scanLimit
	if len(rows) < limit {
		limit = len(rows)
	}
	bestRow := -1
	bestScore := 0
	for r := 0; r < limit; r++ {
		if score := scoreRow(rows[r], sc); score > bestScore {
			bestScore = score
			bestRow = r
		}
	}
	if bestRow < 0 {
		return nil, &parsererror.HeaderNotFoundError{FilePath: filePath, RowsScanned: limit}
	}

	// Phase 3: re-project with the winning row as header.
	mapping, missing := buildMapping(rows[bestRow], sc)
	if len(missing) > 0 {
		return nil, &parsererror.IncompleteMappingError{
			FilePath:  filePath,
			HeaderRow: bestRow,
			Missing:   missing,
		}
	}
	logger.Info("header row detected",
		logging.F(logging.FieldFile, filePath),
		logging.F(logging.FieldSheet, sc.Name),
		logging.F(logging.FieldHeaderRow, bestRow))
	return &Result{
		HeaderRow: bestRow,
		Mapping:   mapping,
		DataRows:  rows[bestRow+1:],
	}, nil
}

// buildMapping resolves every schema field against the candidate header row.
// It returns the mapping and the names of any fields left unresolved. When a
// canonical label occurs in several columns, the first column wins.
func buildMapping(headerRow []string, sc schema.Schema) (Mapping, []string) {
	canonical := make(map[string]Column, len(headerRow))
	for idx, label := range headerRow {
		key := textutils.CanonicalizeHeader(label)
		if key == "" {
			continue
		}
		if _, seen := canonical[key]; !seen {
			canonical[key] = Column{Index: idx, Label: label}
		}
	}

	mapping := make(Mapping, len(sc.Fields))
	var missing []string
	for _, fs := range sc.Fields {
		col, ok := findSynonym(canonical, fs.Synonyms)
		if !ok {
			missing = append(missing, string(fs.Field))
			continue
		}
		mapping[fs.Field] = col
	}
	return mapping, missing
}

func findSynonym(canonical map[string]Column, synonyms []string) (Column, bool) {
	for _, syn := range synonyms {
		if col, ok := canonical[textutils.CanonicalizeHeader(syn)]; ok {
			return col, true
		}
	}
	return Column{}, false
}

// scoreRow counts how many schema fields have at least one synonym present
// in the row, comparing canonical forms.
func scoreRow(row []string, sc schema.Schema) int {
	canonical := make(map[string]struct{}, len(row))
	for _, cell := range row {
		if key := textutils.CanonicalizeHeader(cell); key != "" {
			canonical[key] = struct{}{}
		}
	}

	score := 0
	for _, fs := range sc.Fields {
		for _, syn := range fs.Synonyms {
			if _, ok := canonical[textutils.CanonicalizeHeader(syn)]; ok {
				score++
				break
			}
		}
	}
	return score
}
