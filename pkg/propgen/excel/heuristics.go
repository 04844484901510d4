package excel

import (
	"unicode/utf8"

	"github.com/rfaguiar/propgen-go/pkg/propgen/config"
	"github.com/rfaguiar/propgen-go/pkg/propgen/models"
)

const (
	// minPlausibleCost filters incidental small numbers (item counts,
	// quantities) out of the monetary window scan.
	minPlausibleCost = 1000
	// minNameLength filters abbreviations and stray codes out of the
	// name window scan.
	minNameLength = 3
)

// ExtractProposal applies the per-field heuristics to the active sheet
// and returns a ProposalData. Fields the heuristics find nothing for
// stay at their empty default; extraction never fails on sparse or
// malformed grids. No field is ever filled from another field's data.
func (r *Reader) ExtractProposal() models.ProposalData {
	data := models.NewProposalData()
	if r.current == "" {
		r.log.Warn("no sheet selected, extraction skipped")
		return data
	}

	for _, field := range models.Fields() {
		spec, ok := r.cfg.Fields[field]
		if !ok {
			continue
		}
		v := r.extractField(field, spec)
		if v.IsEmpty() {
			r.log.Debug("field not located", "field", field, "sheet", r.current)
			continue
		}
		data[field] = v
	}

	r.log.Debug("proposal data extracted", "sheet", r.current)
	return data
}

// ExtractAllScenarios selects and extracts every sheet in workbook
// order, then restores the previous selection. Used when multiple
// budget scenarios must be compared.
func (r *Reader) ExtractAllScenarios() map[string]models.ProposalData {
	previous := r.current
	scenarios := make(map[string]models.ProposalData, len(r.sheets))
	for _, name := range r.sheets {
		if r.SelectSheet(name) {
			scenarios[name] = r.ExtractProposal()
		}
	}
	if previous != "" {
		r.SelectSheet(previous)
	}
	return scenarios
}

// extractField runs the two-stage policy: a window scan when the spec
// declares a default position, a label search otherwise.
func (r *Reader) extractField(field models.Field, spec config.FieldSpec) models.Value {
	if spec.Window != nil {
		return r.scanWindow(field, *spec.Window)
	}
	return r.searchByLabel(spec)
}

// scanWindow walks the resolved window in row-major order and returns
// the first cell passing the field's kind predicate. This is the
// documented best-effort behavior: with several qualifying cells in
// the window, the first one wins.
func (r *Reader) scanWindow(field models.Field, w config.Window) models.Value {
	rowLo, rowHi := resolveRange(w.Rows, r.maxRow())
	colLo, colHi := resolveRange(w.Cols, r.maxCol)

	for row := rowLo; row <= rowHi; row++ {
		for col := colLo; col <= colHi; col++ {
			v := r.CellValue(row, col)
			if matchesKind(field, v) {
				return v
			}
		}
	}
	return models.EmptyValue()
}

// searchByLabel tries each search term in order; the first term found
// on the sheet wins and the value is read at the label position plus
// the field's offset. An empty adjacent cell leaves the field empty
// rather than falling through to later terms.
func (r *Reader) searchByLabel(spec config.FieldSpec) models.Value {
	for _, term := range spec.SearchTerms {
		row, col, ok := r.FindCell(term, true)
		if !ok {
			continue
		}
		dr, dc := spec.Offset()
		return r.CellValue(row+dr, col+dc)
	}
	return models.EmptyValue()
}

// matchesKind is the per-kind plausibility predicate for window scans.
func matchesKind(field models.Field, v models.Value) bool {
	switch models.KindOf(field) {
	case models.KindCurrency:
		return v.Kind == models.Number && v.Number > minPlausibleCost
	default:
		return v.Kind == models.Text && utf8.RuneCountInString(v.Text) > minNameLength
	}
}

// resolveRange maps a configured [lo, hi] bound pair onto concrete
// 1-based indices. Negative bounds count back from the last index
// (-1 is the last), and the result is clamped to the grid extent.
func resolveRange(r [2]int, max int) (lo, hi int) {
	lo, hi = r[0], r[1]
	if lo < 0 {
		lo = max + 1 + lo
	}
	if hi < 0 {
		hi = max + 1 + hi
	}
	if lo < 1 {
		lo = 1
	}
	if hi > max {
		hi = max
	}
	return lo, hi
}
