// Package excel reads budget spreadsheets and extracts proposal fields
// from them with positional and label-driven heuristics.
package excel

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rfaguiar/propgen-go/pkg/propgen/config"
	"github.com/rfaguiar/propgen-go/pkg/propgen/models"
)

// Reader owns one open workbook. It is not safe for concurrent use;
// every operation runs to completion before returning.
type Reader struct {
	path    string
	file    *excelize.File
	sheets  []string
	current string
	rows    [][]string // snapshot of the selected sheet, values only
	maxCol  int
	cfg     *config.Config
	log     *slog.Logger
}

// Open opens a workbook for the lifetime of the Reader. The file is
// read values-only: cached computed values, no formula evaluation.
// A missing path wraps fs.ErrNotExist; a file that exists but is not
// a valid workbook wraps the underlying parse error.
func Open(path string, cfg *config.Config, logger *slog.Logger) (*Reader, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	r := &Reader{
		path:   path,
		file:   f,
		sheets: f.GetSheetList(),
		cfg:    cfg,
		log:    logger,
	}
	logger.Debug("workbook opened", "path", path, "sheets", r.sheets)
	return r, nil
}

// Close releases the workbook file handle. The Reader must not be
// used afterwards.
func (r *Reader) Close() error {
	return r.file.Close()
}

// SheetNames returns the workbook's sheet names in workbook order.
func (r *Reader) SheetNames() []string {
	return r.sheets
}

// SelectSheet activates a named sheet for subsequent reads and
// snapshots its cell values. Returns false for an unknown name,
// leaving the previous selection in place.
func (r *Reader) SelectSheet(name string) bool {
	known := false
	for _, s := range r.sheets {
		if s == name {
			known = true
			break
		}
	}
	if !known {
		r.log.Warn("sheet not found", "sheet", name)
		return false
	}

	rows, err := r.file.GetRows(name)
	if err != nil {
		// Sparse or damaged sheets degrade to an empty grid.
		r.log.Warn("reading sheet rows", "sheet", name, "error", err)
		rows = nil
	}
	r.current = name
	r.rows = rows
	r.maxCol = 0
	for _, row := range rows {
		if len(row) > r.maxCol {
			r.maxCol = len(row)
		}
	}
	return true
}

// CurrentSheet returns the active sheet name, or "" if none is
// selected yet.
func (r *Reader) CurrentSheet() string {
	return r.current
}

// CellValue returns the value at a 1-based (row, col) position on the
// active sheet. Out-of-range positions, unselected sheets and any
// read failure yield the empty value, never an error.
func (r *Reader) CellValue(row, col int) models.Value {
	if r.current == "" || row < 1 || col < 1 || row > len(r.rows) {
		return models.EmptyValue()
	}
	cells := r.rows[row-1]
	if col > len(cells) {
		return models.EmptyValue()
	}
	return parseValue(cells[col-1])
}

// FindCell scans the active sheet in row-major order (row 1..max,
// within each row col 1..max) for the first text cell matching search
// case-insensitively. partial matches substrings; exact compares after
// trimming. The scan order is the deterministic tie-break for
// ambiguous labels.
func (r *Reader) FindCell(search string, partial bool) (row, col int, ok bool) {
	if r.current == "" {
		r.log.Warn("no sheet selected")
		return 0, 0, false
	}
	lowered := strings.ToLower(search)
	trimmed := strings.TrimSpace(search)
	for i, cells := range r.rows {
		for j, text := range cells {
			v := parseValue(text)
			if v.Kind != models.Text {
				continue
			}
			if partial {
				if strings.Contains(strings.ToLower(v.Text), lowered) {
					return i + 1, j + 1, true
				}
			} else if strings.EqualFold(strings.TrimSpace(v.Text), trimmed) {
				return i + 1, j + 1, true
			}
		}
	}
	r.log.Debug("value not found on sheet", "search", search, "sheet", r.current)
	return 0, 0, false
}

// maxRow returns the number of rows in the active sheet snapshot.
func (r *Reader) maxRow() int {
	return len(r.rows)
}

// parseValue converts a raw cell string into a typed value: integers
// and decimals become numbers, anything else stays text. Locale-styled
// strings like "1.500,00" are intentionally left as text.
func parseValue(s string) models.Value {
	if s == "" {
		return models.EmptyValue()
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return models.NumberValue(float64(i))
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return models.NumberValue(f)
	}
	return models.TextValue(s)
}
