package word

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// nsW is the main WordprocessingML namespace.
const nsW = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// parseDocument decodes a word/document.xml part into a Document tree.
// Elements outside the modeled subset are captured verbatim.
func parseDocument(data []byte) (*Document, error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	doc := &Document{}
	seenRoot := false

	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing document xml: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch {
		case !seenRoot && start.Name.Local == "document":
			seenRoot = true
			doc.rootAttrs = copyAttrs(start.Attr)
		case doc.Body == nil && start.Name.Local == "body":
			body, err := parseBody(d)
			if err != nil {
				return nil, err
			}
			doc.Body = body
		default:
			raw, err := parseRaw(d, start)
			if err != nil {
				return nil, err
			}
			doc.extra = append(doc.extra, raw)
		}
	}

	if doc.Body == nil {
		return nil, errors.New("document has no body element")
	}
	return doc, nil
}

func parseBody(d *xml.Decoder) (*Body, error) {
	body := &Body{}
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing body: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			blk, err := parseBlock(d, t)
			if err != nil {
				return nil, err
			}
			body.Blocks = append(body.Blocks, blk)
		case xml.EndElement:
			if t.Name.Local == "body" {
				return body, nil
			}
		}
	}
}

// parseBlock dispatches one body- or cell-level element.
func parseBlock(d *xml.Decoder, start xml.StartElement) (Block, error) {
	switch start.Name.Local {
	case "p":
		return parseParagraph(d, start)
	case "tbl":
		return parseTable(d, start)
	default:
		return parseRaw(d, start)
	}
}

func parseParagraph(d *xml.Decoder, start xml.StartElement) (*Paragraph, error) {
	p := &Paragraph{attrs: copyAttrs(start.Attr)}
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing paragraph: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "r" {
				run, err := parseRun(d, t)
				if err != nil {
					return nil, err
				}
				p.Children = append(p.Children, run)
				continue
			}
			raw, err := parseRaw(d, t)
			if err != nil {
				return nil, err
			}
			p.Children = append(p.Children, raw)
		case xml.EndElement:
			if t.Name.Local == "p" {
				return p, nil
			}
		}
	}
}

func parseRun(d *xml.Decoder, start xml.StartElement) (*Run, error) {
	r := &Run{attrs: copyAttrs(start.Attr)}
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing run: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := parseRunChild(d, t)
			if err != nil {
				return nil, err
			}
			r.Children = append(r.Children, child)
		case xml.EndElement:
			if t.Name.Local == "r" {
				return r, nil
			}
		}
	}
}

func parseRunChild(d *xml.Decoder, start xml.StartElement) (RunChild, error) {
	switch start.Name.Local {
	case "t":
		var tx struct {
			Value string `xml:",chardata"`
		}
		if err := d.DecodeElement(&tx, &start); err != nil {
			return nil, fmt.Errorf("parsing run text: %w", err)
		}
		return &Text{Value: tx.Value}, nil
	case "br", "cr":
		if err := d.Skip(); err != nil {
			return nil, err
		}
		return &Break{}, nil
	case "tab":
		if err := d.Skip(); err != nil {
			return nil, err
		}
		return &Tab{}, nil
	default:
		return parseRaw(d, start)
	}
}

func parseTable(d *xml.Decoder, start xml.StartElement) (*Table, error) {
	tbl := &Table{attrs: copyAttrs(start.Attr)}
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing table: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "tr" {
				row, err := parseTableRow(d, t)
				if err != nil {
					return nil, err
				}
				tbl.Children = append(tbl.Children, row)
				continue
			}
			raw, err := parseRaw(d, t)
			if err != nil {
				return nil, err
			}
			tbl.Children = append(tbl.Children, raw)
		case xml.EndElement:
			if t.Name.Local == "tbl" {
				return tbl, nil
			}
		}
	}
}

func parseTableRow(d *xml.Decoder, start xml.StartElement) (*TableRow, error) {
	row := &TableRow{attrs: copyAttrs(start.Attr)}
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing table row: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "tc" {
				cell, err := parseTableCell(d, t)
				if err != nil {
					return nil, err
				}
				row.Children = append(row.Children, cell)
				continue
			}
			raw, err := parseRaw(d, t)
			if err != nil {
				return nil, err
			}
			row.Children = append(row.Children, raw)
		case xml.EndElement:
			if t.Name.Local == "tr" {
				return row, nil
			}
		}
	}
}

func parseTableCell(d *xml.Decoder, start xml.StartElement) (*TableCell, error) {
	cell := &TableCell{attrs: copyAttrs(start.Attr)}
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing table cell: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			blk, err := parseBlock(d, t)
			if err != nil {
				return nil, err
			}
			cell.Blocks = append(cell.Blocks, blk)
		case xml.EndElement:
			if t.Name.Local == "tc" {
				return cell, nil
			}
		}
	}
}

// parseRaw consumes an uninterpreted element, keeping its start-tag
// attributes and inner XML verbatim.
func parseRaw(d *xml.Decoder, start xml.StartElement) (*rawElement, error) {
	var rx struct {
		Inner []byte `xml:",innerxml"`
	}
	if err := d.DecodeElement(&rx, &start); err != nil {
		return nil, fmt.Errorf("parsing %s element: %w", start.Name.Local, err)
	}
	return &rawElement{
		name:  start.Name,
		attrs: copyAttrs(start.Attr),
		inner: rx.Inner,
	}, nil
}

func copyAttrs(attrs []xml.Attr) []xml.Attr {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]xml.Attr, len(attrs))
	copy(out, attrs)
	return out
}
