package word

import (
	"bytes"
	"encoding/xml"
	"strings"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// nsPrefixes maps namespace URLs back to the conventional OOXML
// prefixes for re-emitting element and attribute names. Names in
// namespaces outside this table fall back to their local name; their
// content is still carried inside raw innerxml, which keeps its
// original prefixes untouched.
var nsPrefixes = map[string]string{
	nsW: "w",
	"http://schemas.openxmlformats.org/officeDocument/2006/relationships":    "r",
	"http://schemas.openxmlformats.org/markup-compatibility/2006":            "mc",
	"http://schemas.openxmlformats.org/drawingml/2006/main":                  "a",
	"http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing": "wp",
	"http://schemas.microsoft.com/office/word/2010/wordml":                   "w14",
	"http://schemas.microsoft.com/office/word/2012/wordml":                   "w15",
	"http://schemas.microsoft.com/office/word/2018/wordml":                   "w16",
	"http://www.w3.org/XML/1998/namespace":                                   "xml",
	"urn:schemas-microsoft-com:vml":                                          "v",
	"urn:schemas-microsoft-com:office:office":                                "o",
}

// marshal serializes the document tree back to document.xml bytes.
func (doc *Document) marshal() []byte {
	var b bytes.Buffer
	b.WriteString(xmlHeader)
	writeStartTag(&b, xml.Name{Space: nsW, Local: "document"}, doc.rootAttrs, false)
	b.WriteString("<w:body>")
	for _, blk := range doc.Body.Blocks {
		writeBlock(&b, blk)
	}
	b.WriteString("</w:body>")
	for _, raw := range doc.extra {
		writeRaw(&b, raw)
	}
	b.WriteString("</w:document>")
	return b.Bytes()
}

func writeBlock(b *bytes.Buffer, blk Block) {
	switch t := blk.(type) {
	case *Paragraph:
		writeParagraph(b, t)
	case *Table:
		writeTable(b, t)
	case *rawElement:
		writeRaw(b, t)
	}
}

func writeParagraph(b *bytes.Buffer, p *Paragraph) {
	writeStartTag(b, xml.Name{Space: nsW, Local: "p"}, p.attrs, false)
	for _, c := range p.Children {
		switch t := c.(type) {
		case *Run:
			writeRun(b, t)
		case *rawElement:
			writeRaw(b, t)
		}
	}
	b.WriteString("</w:p>")
}

func writeRun(b *bytes.Buffer, r *Run) {
	writeStartTag(b, xml.Name{Space: nsW, Local: "r"}, r.attrs, false)
	for _, c := range r.Children {
		switch t := c.(type) {
		case *Text:
			writeText(b, t)
		case *Break:
			b.WriteString("<w:br/>")
		case *Tab:
			b.WriteString("<w:tab/>")
		case *rawElement:
			writeRaw(b, t)
		}
	}
	b.WriteString("</w:r>")
}

func writeText(b *bytes.Buffer, t *Text) {
	// Leading or trailing whitespace would be dropped by consumers
	// without the explicit preserve hint.
	if t.Value != strings.TrimSpace(t.Value) {
		b.WriteString(`<w:t xml:space="preserve">`)
	} else {
		b.WriteString("<w:t>")
	}
	xml.EscapeText(b, []byte(t.Value))
	b.WriteString("</w:t>")
}

func writeTable(b *bytes.Buffer, tbl *Table) {
	writeStartTag(b, xml.Name{Space: nsW, Local: "tbl"}, tbl.attrs, false)
	for _, c := range tbl.Children {
		switch t := c.(type) {
		case *TableRow:
			writeTableRow(b, t)
		case *rawElement:
			writeRaw(b, t)
		}
	}
	b.WriteString("</w:tbl>")
}

func writeTableRow(b *bytes.Buffer, row *TableRow) {
	writeStartTag(b, xml.Name{Space: nsW, Local: "tr"}, row.attrs, false)
	for _, c := range row.Children {
		switch t := c.(type) {
		case *TableCell:
			writeTableCell(b, t)
		case *rawElement:
			writeRaw(b, t)
		}
	}
	b.WriteString("</w:tr>")
}

func writeTableCell(b *bytes.Buffer, cell *TableCell) {
	writeStartTag(b, xml.Name{Space: nsW, Local: "tc"}, cell.attrs, false)
	for _, blk := range cell.Blocks {
		writeBlock(b, blk)
	}
	b.WriteString("</w:tc>")
}

func writeRaw(b *bytes.Buffer, raw *rawElement) {
	if len(raw.inner) == 0 {
		writeStartTag(b, raw.name, raw.attrs, true)
		return
	}
	writeStartTag(b, raw.name, raw.attrs, false)
	b.Write(raw.inner)
	b.WriteString("</" + prefixedName(raw.name) + ">")
}

func writeStartTag(b *bytes.Buffer, name xml.Name, attrs []xml.Attr, selfClose bool) {
	b.WriteString("<" + prefixedName(name))
	for _, attr := range attrs {
		b.WriteString(" " + prefixedName(attr.Name) + `="`)
		xml.EscapeText(b, []byte(attr.Value))
		b.WriteString(`"`)
	}
	if selfClose {
		b.WriteString("/>")
		return
	}
	b.WriteString(">")
}

// prefixedName renders an xml.Name back into prefixed form. The
// decoder reports namespace declarations with the literal space
// "xmlns", which round-trips here unchanged.
func prefixedName(name xml.Name) string {
	switch {
	case name.Space == "":
		return name.Local
	case name.Space == "xmlns":
		return "xmlns:" + name.Local
	default:
		if p, ok := nsPrefixes[name.Space]; ok {
			return p + ":" + name.Local
		}
		return name.Local
	}
}
