package word

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rfaguiar/propgen-go/pkg/propgen/config"
	"github.com/rfaguiar/propgen-go/pkg/propgen/models"
)

// documentPart is the zip entry holding the document body.
const documentPart = "word/document.xml"

// Writer owns one in-memory template tree. The template file on disk
// is read once at construction and never mutated; Save always writes a
// new file. Not safe for concurrent use.
type Writer struct {
	templatePath string
	doc          *Document
	partNames    []string          // zip entry names in original order
	parts        map[string][]byte // untouched zip parts, copied through on save
	cfg          *config.Config
	log          *slog.Logger
}

// OpenTemplate reads a DOCX template into memory. The file handle is
// released before returning, so the template can be reopened elsewhere
// immediately. A missing path wraps fs.ErrNotExist; a file that is not
// a valid DOCX wraps the underlying parse error.
func OpenTemplate(path string, cfg *config.Config, logger *slog.Logger) (*Writer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer zr.Close()

	w := &Writer{
		templatePath: path,
		parts:        make(map[string][]byte, len(zr.File)),
		cfg:          cfg,
		log:          logger,
	}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("reading part %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading part %s: %w", f.Name, err)
		}
		w.partNames = append(w.partNames, f.Name)
		w.parts[f.Name] = data
	}

	docXML, ok := w.parts[documentPart]
	if !ok {
		return nil, fmt.Errorf("%s is not a DOCX template: missing %s", path, documentPart)
	}
	doc, err := parseDocument(docXML)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	w.doc = doc
	delete(w.parts, documentPart)

	logger.Debug("template loaded", "path", path, "paragraphs", len(doc.Body.Paragraphs()))
	return w, nil
}

// FindParagraph locates the first body paragraph matching text in
// document order, excluding paragraphs inside tables. Matching is
// case-insensitive; partial matches substrings, exact compares after
// trimming.
func (w *Writer) FindParagraph(text string, partial bool) (int, bool) {
	for i, p := range w.doc.Body.Paragraphs() {
		if matchText(p.Text(), text, partial) {
			return i, true
		}
	}
	w.log.Debug("text not found in document", "search", text)
	return 0, false
}

// ReplaceParagraphText rewrites the visible text of the body paragraph
// at index, preserving the first run's formatting and emptying the
// trailing runs. Returns false for an out-of-range index.
func (w *Writer) ReplaceParagraphText(index int, text string) bool {
	paras := w.doc.Body.Paragraphs()
	if index < 0 || index >= len(paras) {
		w.log.Warn("paragraph index out of range", "index", index)
		return false
	}
	paras[index].SetText(text)
	return true
}

// ReplaceEverywhere substitutes old with new across every body
// paragraph and every paragraph of every table cell, row-major:
// tables in document order, rows top-to-bottom, cells left-to-right.
// partial substitutes substrings inside the paragraph text; exact
// swaps the whole text on a trimmed case-insensitive match. Returns
// the number of paragraphs modified.
//
// This is the single substitution primitive: all placeholder filling
// goes through it, so body text and tables are treated uniformly.
func (w *Writer) ReplaceEverywhere(oldText, newText string, partial bool) int {
	count := 0
	for _, p := range w.doc.Body.Paragraphs() {
		if replaceInParagraph(p, oldText, newText, partial) {
			count++
		}
	}
	for _, tbl := range w.doc.Body.Tables() {
		for _, row := range tbl.Rows() {
			for _, cell := range row.Cells() {
				for _, p := range cell.Paragraphs() {
					if replaceInParagraph(p, oldText, newText, partial) {
						count++
					}
				}
			}
		}
	}
	if count > 0 {
		w.log.Debug("text replaced", "search", oldText, "paragraphs", count)
	}
	return count
}

// Fill substitutes every configured placeholder spelling of every
// field holding a non-empty value. Monetary values get the Brazilian
// separator swap and lists become bulleted lines before substitution.
// Placeholders whose field has no data are left untouched in the
// output. Returns the total number of paragraphs modified.
func (w *Writer) Fill(data models.ProposalData) int {
	total := 0
	for _, field := range models.Fields() {
		spellings, ok := w.cfg.Placeholders[field]
		if !ok {
			continue
		}
		v := data.Get(field)
		if v.IsEmpty() {
			continue
		}
		text := v.Render(field)
		for _, spelling := range spellings {
			total += w.ReplaceEverywhere(spelling, text, true)
		}
	}
	w.log.Debug("proposal filled", "paragraphs", total)
	return total
}

// AppendSection appends supplementary content: when a paragraph
// matching title already exists (partial match), body is appended as a
// plain paragraph at the document end; otherwise a Heading2 title
// paragraph is appended first. Returns true when a new heading was
// created.
func (w *Writer) AppendSection(title, body string) bool {
	_, exists := w.FindParagraph(title, true)
	if !exists {
		w.doc.Body.append(newStyledParagraph("Heading2", title))
	}
	w.doc.Body.append(newParagraph(body))
	return !exists
}

// Save serializes the current tree to a new DOCX file at path,
// creating intermediate directories as needed. The archive is built
// fully in memory first, so a marshalling failure leaves nothing on
// disk.
func (w *Writer) Save(path string) error {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range w.partNames {
		var data []byte
		if name == documentPart {
			data = w.doc.marshal()
		} else {
			data = w.parts[name]
		}
		f, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("assembling %s: %w", name, err)
		}
		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("assembling %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("assembling archive: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return err
	}
	w.log.Debug("document saved", "path", path)
	return nil
}

// replaceInParagraph applies one substitution to one paragraph,
// preserving the first run's formatting. The match is
// case-insensitive but the textual substitution itself is exact-case,
// mirroring the behavior templates in the field rely on.
func replaceInParagraph(p *Paragraph, oldText, newText string, partial bool) bool {
	text := p.Text()
	if !matchText(text, oldText, partial) {
		return false
	}
	if partial {
		p.SetText(strings.ReplaceAll(text, oldText, newText))
	} else {
		p.SetText(newText)
	}
	return true
}

// matchText implements the shared matching rule: partial is substring
// containment, exact is trimmed equality, both case-insensitive.
func matchText(text, search string, partial bool) bool {
	if partial {
		return strings.Contains(strings.ToLower(text), strings.ToLower(search))
	}
	return strings.EqualFold(strings.TrimSpace(text), strings.TrimSpace(search))
}
