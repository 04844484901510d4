// Package word fills DOCX proposal templates by replacing placeholder
// tokens inside an in-memory document tree.
//
// Only the WordprocessingML elements the filler needs are modeled
// (paragraphs, runs, text, tables); everything else is carried through
// verbatim as raw XML so formatting and document structure survive a
// parse/modify/save round trip untouched.
package word

import "encoding/xml"

// Block is a top-level element of a document body: a paragraph, a
// table, or raw passthrough XML.
type Block interface {
	isBlock()
}

// Document is the parsed word/document.xml part. The root element's
// attributes are preserved so the original namespace declarations are
// emitted unchanged on save.
type Document struct {
	rootAttrs []xml.Attr
	Body      *Body
	extra     []*rawElement // non-body children of w:document, in order
}

// Body is the ordered sequence of document blocks.
type Body struct {
	Blocks []Block
}

// Paragraphs returns the body's direct paragraphs in document order,
// excluding paragraphs nested inside tables.
func (b *Body) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, blk := range b.Blocks {
		if p, ok := blk.(*Paragraph); ok {
			out = append(out, p)
		}
	}
	return out
}

// Tables returns the body's top-level tables in document order.
func (b *Body) Tables() []*Table {
	var out []*Table
	for _, blk := range b.Blocks {
		if t, ok := blk.(*Table); ok {
			out = append(out, t)
		}
	}
	return out
}

// append inserts a block before the trailing section properties, if
// present, so appended content stays inside the final section.
func (b *Body) append(blk Block) {
	n := len(b.Blocks)
	if n > 0 {
		if r, ok := b.Blocks[n-1].(*rawElement); ok && r.name.Local == "sectPr" {
			b.Blocks = append(b.Blocks[:n-1], blk, b.Blocks[n-1])
			return
		}
	}
	b.Blocks = append(b.Blocks, blk)
}

// ParagraphChild is an in-order child of a paragraph: a run or raw
// passthrough XML (w:pPr, hyperlinks, bookmarks, ...).
type ParagraphChild interface {
	isParagraphChild()
}

// Paragraph is an ordered sequence of formatted runs plus preserved
// non-run children.
type Paragraph struct {
	attrs    []xml.Attr
	Children []ParagraphChild
}

func (*Paragraph) isBlock()          {}
func (*Paragraph) isParagraphChild() {}

// Runs returns the paragraph's direct runs in order.
func (p *Paragraph) Runs() []*Run {
	var out []*Run
	for _, c := range p.Children {
		if r, ok := c.(*Run); ok {
			out = append(out, r)
		}
	}
	return out
}

// Text returns the paragraph's visible text: the concatenated text of
// its direct runs.
func (p *Paragraph) Text() string {
	var s string
	for _, r := range p.Runs() {
		s += r.Text()
	}
	return s
}

// SetText rewrites the paragraph's visible text while preserving run
// formatting: the first run receives the whole new text and trailing
// runs are emptied, never removed. A run-less paragraph gains one
// plain run.
func (p *Paragraph) SetText(text string) {
	runs := p.Runs()
	if len(runs) == 0 {
		r := &Run{}
		r.SetText(text)
		p.Children = append(p.Children, r)
		return
	}
	runs[0].SetText(text)
	for _, r := range runs[1:] {
		r.SetText("")
	}
}

// RunChild is an in-order child of a run: text, a break, a tab, or
// raw passthrough XML (w:rPr, drawings, ...).
type RunChild interface {
	isRunChild()
}

// Run is a contiguous span of text sharing one set of formatting
// properties.
type Run struct {
	attrs    []xml.Attr
	Children []RunChild
}

func (*Run) isParagraphChild() {}

// Text returns the run's visible text, rendering breaks as newlines
// and tabs as tab characters.
func (r *Run) Text() string {
	var s string
	for _, c := range r.Children {
		switch t := c.(type) {
		case *Text:
			s += t.Value
		case *Break:
			s += "\n"
		case *Tab:
			s += "\t"
		}
	}
	return s
}

// SetText replaces the run's content with text, keeping the run's
// w:rPr formatting element in place. Newlines and tabs in text become
// break and tab elements.
func (r *Run) SetText(text string) {
	var kept []RunChild
	for _, c := range r.Children {
		if raw, ok := c.(*rawElement); ok && raw.name.Local == "rPr" {
			kept = append(kept, raw)
		}
	}
	r.Children = appendTextChildren(kept, text)
}

// appendTextChildren splits text on newlines and tabs into Text,
// Break and Tab children.
func appendTextChildren(children []RunChild, text string) []RunChild {
	segment := ""
	flush := func() {
		children = append(children, &Text{Value: segment})
		segment = ""
	}
	for _, ch := range text {
		switch ch {
		case '\n':
			flush()
			children = append(children, &Break{})
		case '\t':
			flush()
			children = append(children, &Tab{})
		default:
			segment += string(ch)
		}
	}
	flush()
	return children
}

// Text is literal run text.
type Text struct {
	Value string
}

func (*Text) isRunChild() {}

// Break is a line break inside a run.
type Break struct{}

func (*Break) isRunChild() {}

// Tab is a tab character inside a run.
type Tab struct{}

func (*Tab) isRunChild() {}

// TableChild is an in-order child of a table: a row or raw passthrough
// XML (w:tblPr, w:tblGrid).
type TableChild interface {
	isTableChild()
}

// Table is a grid of rows of cells.
type Table struct {
	attrs    []xml.Attr
	Children []TableChild
}

func (*Table) isBlock() {}

// Rows returns the table's rows top-to-bottom.
func (t *Table) Rows() []*TableRow {
	var out []*TableRow
	for _, c := range t.Children {
		if r, ok := c.(*TableRow); ok {
			out = append(out, r)
		}
	}
	return out
}

// RowChild is an in-order child of a table row.
type RowChild interface {
	isRowChild()
}

// TableRow is one row of table cells.
type TableRow struct {
	attrs    []xml.Attr
	Children []RowChild
}

func (*TableRow) isTableChild() {}

// Cells returns the row's cells left-to-right.
func (r *TableRow) Cells() []*TableCell {
	var out []*TableCell
	for _, c := range r.Children {
		if cell, ok := c.(*TableCell); ok {
			out = append(out, cell)
		}
	}
	return out
}

// TableCell holds block content; each cell contains at least one
// paragraph in a well-formed document.
type TableCell struct {
	attrs  []xml.Attr
	Blocks []Block
}

func (*TableCell) isRowChild() {}

// Paragraphs returns the cell's direct paragraphs in order.
func (c *TableCell) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, blk := range c.Blocks {
		if p, ok := blk.(*Paragraph); ok {
			out = append(out, p)
		}
	}
	return out
}

// rawElement is any XML element the filler does not interpret. Its
// start-tag attributes and inner XML are kept verbatim and re-emitted
// on save.
type rawElement struct {
	name  xml.Name
	attrs []xml.Attr
	inner []byte
}

func (*rawElement) isBlock()          {}
func (*rawElement) isParagraphChild() {}
func (*rawElement) isRunChild()       {}
func (*rawElement) isTableChild()     {}
func (*rawElement) isRowChild()       {}

// newParagraph builds a plain paragraph holding text.
func newParagraph(text string) *Paragraph {
	p := &Paragraph{}
	p.SetText(text)
	return p
}

// newStyledParagraph builds a paragraph carrying a named paragraph
// style, e.g. "Heading2".
func newStyledParagraph(style, text string) *Paragraph {
	p := &Paragraph{
		Children: []ParagraphChild{
			&rawElement{
				name:  xml.Name{Space: nsW, Local: "pPr"},
				inner: []byte(`<w:pStyle w:val="` + style + `"/>`),
			},
		},
	}
	p.SetText(text)
	return p
}
