package word

import (
	"archive/zip"
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfaguiar/propgen-go/pkg/propgen/config"
	"github.com/rfaguiar/propgen-go/pkg/propgen/models"
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

// buildTemplate writes a minimal DOCX holding body as the document
// body XML and returns its path.
func buildTemplate(t *testing.T, body string) string {
	t.Helper()

	documentXML := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body + `</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"[Content_Types].xml": contentTypesXML,
		"_rels/.rels":         relsXML,
		"word/document.xml":   documentXML,
	} {
		f, err := zw.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "template.docx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func openTemplate(t *testing.T, body string) *Writer {
	t.Helper()
	w, err := OpenTemplate(buildTemplate(t, body), config.Default(), slog.Default())
	require.NoError(t, err)
	return w
}

func paragraphTexts(w *Writer) []string {
	var out []string
	for _, p := range w.doc.Body.Paragraphs() {
		out = append(out, p.Text())
	}
	return out
}

func TestFindParagraph(t *testing.T) {
	w := openTemplate(t,
		`<w:p><w:r><w:t>Proposta Comercial</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>Cliente: {{CLIENTE}}</w:t></w:r></w:p>`)

	i, ok := w.FindParagraph("{{CLIENTE}}", true)
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	i, ok = w.FindParagraph("proposta comercial", false)
	assert.True(t, ok)
	assert.Equal(t, 0, i)

	_, ok = w.FindParagraph("{{CLIENTE}}", false)
	assert.False(t, ok, "exact match must not match a substring")

	_, ok = w.FindParagraph("inexistente", true)
	assert.False(t, ok)
}

func TestReplaceParagraphText(t *testing.T) {
	w := openTemplate(t, `<w:p><w:r><w:t>antes</w:t></w:r></w:p>`)

	assert.True(t, w.ReplaceParagraphText(0, "depois"))
	assert.Equal(t, "depois", w.doc.Body.Paragraphs()[0].Text())

	assert.False(t, w.ReplaceParagraphText(-1, "x"))
	assert.False(t, w.ReplaceParagraphText(5, "x"))
}

func TestReplaceKeepsFirstRunFormatting(t *testing.T) {
	w := openTemplate(t,
		`<w:p><w:r><w:rPr><w:b/></w:rPr><w:t>{{CLIENTE}}</w:t></w:r>`+
			`<w:r><w:t xml:space="preserve"> (confidencial)</w:t></w:r></w:p>`)

	count := w.ReplaceEverywhere("{{CLIENTE}}", "Acme", true)
	assert.Equal(t, 1, count)

	p := w.doc.Body.Paragraphs()[0]
	runs := p.Runs()
	require.Len(t, runs, 2, "trailing runs are emptied, never deleted")
	assert.Equal(t, "Acme (confidencial)", runs[0].Text())
	assert.Empty(t, runs[1].Text())

	// The first run's rPr survived the rewrite.
	var hasProps bool
	for _, c := range runs[0].Children {
		if raw, ok := c.(*rawElement); ok && raw.name.Local == "rPr" {
			hasProps = true
			assert.Contains(t, string(raw.inner), "<w:b/>")
		}
	}
	assert.True(t, hasProps)
}

func TestReplaceEverywhereInTables(t *testing.T) {
	w := openTemplate(t,
		`<w:p><w:r><w:t>{{CUSTO}}</w:t></w:r></w:p>`+
			`<w:tbl><w:tblPr><w:tblW w:w="0" w:type="auto"/></w:tblPr>`+
			`<w:tr><w:tc><w:tcPr><w:tcW w:w="0" w:type="auto"/></w:tcPr><w:p><w:r><w:t>Total: {{CUSTO}}</w:t></w:r></w:p></w:tc>`+
			`<w:tc><w:p><w:r><w:t>sem marcador</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`)

	count := w.ReplaceEverywhere("{{CUSTO}}", "R$ 50.000,00", true)
	assert.Equal(t, 2, count)

	cell := w.doc.Body.Tables()[0].Rows()[0].Cells()[0]
	assert.Equal(t, "Total: R$ 50.000,00", cell.Paragraphs()[0].Text())
	assert.Equal(t, "R$ 50.000,00", w.doc.Body.Paragraphs()[0].Text())
}

func TestReplaceEverywhereExact(t *testing.T) {
	w := openTemplate(t,
		`<w:p><w:r><w:t>PRAZO</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>PRAZO DE ENTREGA</w:t></w:r></w:p>`)

	count := w.ReplaceEverywhere("prazo", "90 dias", false)
	assert.Equal(t, 1, count)
	assert.Equal(t, []string{"90 dias", "PRAZO DE ENTREGA"}, paragraphTexts(w))
}

func TestFillRoundTrip(t *testing.T) {
	w := openTemplate(t,
		`<w:p><w:r><w:t>{{CLIENTE}}</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>Seguro: {{SEGURO}}</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>Intocado</w:t></w:r></w:p>`)

	data := models.NewProposalData()
	data[models.FieldNomeCliente] = models.TextValue("Acme")
	data[models.FieldSeguro] = models.TextValue("Incluído")

	assert.Equal(t, 2, w.Fill(data))

	out := filepath.Join(t.TempDir(), "out", "proposta.docx")
	require.NoError(t, w.Save(out))

	// Reopen the saved file and verify the substitutions survived the
	// zip round trip with no other paragraph altered.
	reopened, err := OpenTemplate(out, config.Default(), slog.Default())
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme", "Seguro: Incluído", "Intocado"}, paragraphTexts(reopened))
}

func TestFillLeavesUnmappedTokens(t *testing.T) {
	w := openTemplate(t,
		`<w:p><w:r><w:t>{{CLIENTE}}</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>{{PRAZO}}</w:t></w:r></w:p>`)

	data := models.NewProposalData()
	data[models.FieldNomeCliente] = models.TextValue("Acme")

	w.Fill(data)
	assert.Equal(t, []string{"Acme", "{{PRAZO}}"}, paragraphTexts(w))
}

func TestFillCurrencyAndSpellings(t *testing.T) {
	// Both accepted spellings of the cost placeholder get the same
	// formatted value.
	w := openTemplate(t,
		`<w:p><w:r><w:t>{{CUSTO}}</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>{{VALOR}}</w:t></w:r></w:p>`)

	data := models.NewProposalData()
	data[models.FieldCusto] = models.NumberValue(50000)

	w.Fill(data)
	assert.Equal(t, []string{"R$ 50.000,00", "R$ 50.000,00"}, paragraphTexts(w))
}

func TestFillListAsBullets(t *testing.T) {
	w := openTemplate(t, `<w:p><w:r><w:t>{{NAO_INCLUSOS}}</w:t></w:r></w:p>`)

	data := models.NewProposalData()
	data[models.FieldNaoInclusos] = models.ListValue([]string{"Item 1", "Item 2"})

	w.Fill(data)

	out := filepath.Join(t.TempDir(), "bullets.docx")
	require.NoError(t, w.Save(out))

	reopened, err := OpenTemplate(out, config.Default(), slog.Default())
	require.NoError(t, err)
	assert.Equal(t, "\n• Item 1\n• Item 2", reopened.doc.Body.Paragraphs()[0].Text())
}

func TestAppendSection(t *testing.T) {
	w := openTemplate(t, `<w:p><w:r><w:t>Corpo</w:t></w:r></w:p>`)

	assert.True(t, w.AppendSection("Observações", "Primeira observação"))
	assert.False(t, w.AppendSection("Observações", "Segunda observação"),
		"an existing heading must not be duplicated")

	texts := paragraphTexts(w)
	assert.Equal(t, []string{"Corpo", "Observações", "Primeira observação", "Segunda observação"}, texts)
}

func TestAppendSectionBeforeSectPr(t *testing.T) {
	w := openTemplate(t,
		`<w:p><w:r><w:t>Corpo</w:t></w:r></w:p>`+
			`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/></w:sectPr>`)

	w.AppendSection("Anexos", "Lista de anexos")

	last := w.doc.Body.Blocks[len(w.doc.Body.Blocks)-1]
	raw, ok := last.(*rawElement)
	require.True(t, ok, "section properties must stay the final block")
	assert.Equal(t, "sectPr", raw.name.Local)
}

func TestSaveCreatesDirectories(t *testing.T) {
	w := openTemplate(t, `<w:p><w:r><w:t>x</w:t></w:r></w:p>`)

	out := filepath.Join(t.TempDir(), "a", "b", "c", "saida.docx")
	require.NoError(t, w.Save(out))

	_, err := os.Stat(out)
	assert.NoError(t, err)
}

func TestOpenTemplateErrors(t *testing.T) {
	_, err := OpenTemplate(filepath.Join(t.TempDir(), "nope.docx"), nil, nil)
	assert.Error(t, err)

	// A zip without word/document.xml is not a template.
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("mimetype")
	require.NoError(t, err)
	_, err = f.Write([]byte("text/plain"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "not-a-doc.docx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	_, err = OpenTemplate(path, nil, nil)
	assert.ErrorContains(t, err, "missing word/document.xml")
}

func TestRawPartsSurviveSave(t *testing.T) {
	w := openTemplate(t, `<w:p><w:r><w:t>x</w:t></w:r></w:p>`)

	out := filepath.Join(t.TempDir(), "saida.docx")
	require.NoError(t, w.Save(out))

	zr, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer zr.Close()

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	assert.True(t, names["[Content_Types].xml"])
	assert.True(t, names["_rels/.rels"])
	assert.True(t, names["word/document.xml"])
}
