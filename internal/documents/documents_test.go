// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package documents

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const sampleBody = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
	`<w:p><w:pPr><w:pStyle w:val="Nadpis"/></w:pPr><w:r><w:t>Smlouva</w:t></w:r></w:p>` +
	`<w:tbl><w:tblPr/><w:tr><w:tc><w:p><w:r><w:t>E-mail: a@b.cz</w:t></w:r></w:p></w:tc></w:tr></w:tbl>` +
	`<w:p><w:r><w:rPr><w:b/></w:rPr><w:t xml:space="preserve">Pavel </w:t></w:r><w:r><w:t>Zíka &amp; syn</w:t></w:r><w:r><w:tab/></w:r></w:p>` +
	`<w:p/>` +
	`</w:body></w:document>`

func writeDocx(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "smlouva.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	for name, content := range map[string]string{
		"[Content_Types].xml": `<Types/>`,
		documentPart:          body,
		"word/styles.xml":     `<w:styles/>`,
	} {
		part, err := w.Create(name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
	return path
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.docx"))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = Open("obrazek.png")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	bad := filepath.Join(t.TempDir(), "bad.docx")
	require.NoError(t, os.WriteFile(bad, []byte("not a zip"), 0600))
	_, err = Open(bad)
	assert.ErrorIs(t, err, ErrInvalidDocument)

	badPDF := filepath.Join(t.TempDir(), "bad.pdf")
	require.NoError(t, os.WriteFile(badPDF, []byte("%PDF-1.4 broken"), 0600))
	_, err = Open(badPDF)
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("a.DOCX"))
	assert.True(t, Supported("a.txt"))
	assert.True(t, Supported("a.pdf"))
	assert.False(t, Supported("a.doc"))
	assert.Equal(t, []string{".docx", ".pdf", ".txt"}, Extensions())
}

func TestDocx_UnitsBodyThenTables(t *testing.T) {
	doc, err := Open(writeDocx(t, sampleBody))
	require.NoError(t, err)
	assert.Equal(t, "docx", doc.Format())
	assert.Equal(t, []string{"Smlouva", "Pavel Zíka & syn", "E-mail: a@b.cz"}, doc.Units())
}

func TestDocx_SaveRoundTrip(t *testing.T) {
	src := writeDocx(t, sampleBody)
	doc, err := Open(src)
	require.NoError(t, err)

	require.NoError(t, doc.SetText(1, "[[PERSON_1]] & syn"))
	require.NoError(t, doc.SetText(2, "E-mail: [[EMAIL_1]]"))
	assert.Error(t, doc.SetText(3, "x"))

	out := filepath.Join(t.TempDir(), "smlouva_anon.docx")
	require.NoError(t, doc.Save(out))

	again, err := Open(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"Smlouva", "[[PERSON_1]] & syn", "E-mail: [[EMAIL_1]]"}, again.Units())

	reader, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer reader.Close()
	names := make([]string, 0, len(reader.File))
	for _, f := range reader.File {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"[Content_Types].xml", documentPart, "word/styles.xml"}, names)

	d := again.(*DocxDocument)
	assert.Contains(t, d.xml, `<w:rPr><w:b/></w:rPr><w:t xml:space="preserve">[[PERSON_1]] &amp; syn</w:t>`, "first run keeps its formatting")
	assert.Contains(t, d.xml, `<w:pStyle w:val="Nadpis"/></w:pPr><w:r><w:t>Smlouva</w:t>`, "untouched paragraphs are byte-identical")
	assert.NotContains(t, d.xml, "Zíka")
}

func TestText_LinesAndEndings(t *testing.T) {
	doc, err := ParseText([]byte("Pavel Zíka\r\n\r\ntel. 777 123 456\r\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Pavel Zíka", "", "tel. 777 123 456"}, doc.Units())

	require.NoError(t, doc.SetText(0, "[[PERSON_1]]"))
	assert.Equal(t, "[[PERSON_1]]\r\n\r\ntel. 777 123 456\r\n", doc.String())
}

func TestText_Windows1250(t *testing.T) {
	encoded, err := charmap.Windows1250.NewEncoder().String("Jiří Řehoř")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "dopis.txt")
	require.NoError(t, os.WriteFile(path, []byte(encoded), 0600))

	doc, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Jiří Řehoř"}, doc.Units())

	out := filepath.Join(t.TempDir(), "dopis_anon.txt")
	require.NoError(t, doc.Save(out))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "Jiří Řehoř", string(data))
	assert.Equal(t, ".txt", doc.OutputExt())
}
