// Package propgen generates filled proposal documents from budget
// spreadsheets: heuristic field extraction on the Excel side,
// placeholder substitution on the Word side, composed through a plain
// field-to-value mapping.
package propgen

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/rfaguiar/propgen-go/pkg/propgen/config"
	"github.com/rfaguiar/propgen-go/pkg/propgen/excel"
	"github.com/rfaguiar/propgen-go/pkg/propgen/models"
	"github.com/rfaguiar/propgen-go/pkg/propgen/word"
)

// ExtractProposal extracts proposal data from one sheet of a workbook.
// An empty sheet name selects the first sheet. Extraction itself never
// fails: only an unreadable workbook or an unknown sheet name is an
// error.
func ExtractProposal(path, sheet string, cfg *config.Config, logger *slog.Logger) (models.ProposalData, error) {
	r, err := excel.Open(path, cfg, logger)
	if err != nil {
		return nil, sourceError(path, err)
	}
	defer r.Close()

	if sheet == "" {
		names := r.SheetNames()
		if len(names) == 0 {
			return models.NewProposalData(), nil
		}
		sheet = names[0]
	}
	if !r.SelectSheet(sheet) {
		return nil, fmt.Errorf("%w: %q in %s", ErrSheetNotFound, sheet, path)
	}
	return r.ExtractProposal(), nil
}

// ExtractScenarios extracts every sheet of a workbook, keyed by sheet
// name, for comparing budget scenarios.
func ExtractScenarios(path string, cfg *config.Config, logger *slog.Logger) (map[string]models.ProposalData, error) {
	r, err := excel.Open(path, cfg, logger)
	if err != nil {
		return nil, sourceError(path, err)
	}
	defer r.Close()
	return r.ExtractAllScenarios(), nil
}

// Generate fills a DOCX template with data and writes the result to
// outputPath. Placeholders without data are left untouched.
func Generate(templatePath, outputPath string, data models.ProposalData, cfg *config.Config, logger *slog.Logger) error {
	w, err := word.OpenTemplate(templatePath, cfg, logger)
	if err != nil {
		return sourceError(templatePath, err)
	}
	w.Fill(data)
	if err := w.Save(outputPath); err != nil {
		return NewWriteError(outputPath, err)
	}
	return nil
}

// sourceError maps a leaf open failure onto the error taxonomy:
// missing path vs. present-but-unparseable file.
func sourceError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrSourceNotFound, path)
	}
	return fmt.Errorf("%w: %w", ErrUnreadableSource, err)
}
