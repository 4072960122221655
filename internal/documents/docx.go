// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package documents

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
)

const documentPart = "word/document.xml"

// wordToken matches the WordprocessingML tags the rewriter cares about:
// paragraphs, tables and text runs, opening, closing or empty
var wordToken = regexp.MustCompile(`<(/?)w:(p|tbl|t)\b([^>]*?)(/?)>`)

// run is the content span of one <w:t> element
type run struct {
	tagStart  int
	textStart int
	textEnd   int
}

type paragraph struct {
	runs    []run
	inTable bool
	text    string
	dirty   bool
}

// DocxDocument is a Word document. Units are the body paragraphs followed by
// the paragraphs inside tables. A rewritten paragraph keeps its first run's
// formatting and carries the whole text there; the other runs are emptied.
type DocxDocument struct {
	path  string
	xml   string
	units []*paragraph
}

func openDocx(path string) (Document, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a zip archive: %v", ErrInvalidDocument, path, err)
	}
	defer reader.Close()

	var part *zip.File
	for _, f := range reader.File {
		if f.Name == documentPart {
			part = f
			break
		}
	}
	if part == nil {
		return nil, fmt.Errorf("%w: %s not found in the archive", ErrInvalidDocument, documentPart)
	}
	data, err := readPart(part)
	if err != nil {
		return nil, err
	}
	return parseDocx(path, string(data))
}

func readPart(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("%w: %s expands beyond %d bytes", ErrTooLarge, f.Name, MaxFileSize)
	}
	return data, nil
}

func parseDocx(path, content string) (*DocxDocument, error) {
	var (
		all     []*paragraph
		stack   []*paragraph
		tables  int
		openRun = -1
	)
	for _, loc := range wordToken.FindAllStringSubmatchIndex(content, -1) {
		closing := loc[3] > loc[2]
		name := content[loc[4]:loc[5]]
		empty := loc[9] > loc[8]

		switch name {
		case "tbl":
			if closing {
				tables--
			} else if !empty {
				tables++
			}
		case "p":
			switch {
			case closing:
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
			case !empty:
				p := &paragraph{inTable: tables > 0}
				all = append(all, p)
				stack = append(stack, p)
			}
		case "t":
			switch {
			case closing:
				if openRun >= 0 && len(stack) > 0 {
					p := stack[len(stack)-1]
					p.runs = append(p.runs, run{tagStart: openRun, textStart: contentStart(content, openRun), textEnd: loc[0]})
				}
				openRun = -1
			case !empty:
				openRun = loc[0]
			}
		}
	}

	doc := &DocxDocument{path: path, xml: content}
	for _, inTable := range []bool{false, true} {
		for _, p := range all {
			if p.inTable != inTable || len(p.runs) == 0 {
				continue
			}
			var b strings.Builder
			for _, r := range p.runs {
				text, err := unescapeXML(content[r.textStart:r.textEnd])
				if err != nil {
					return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
				}
				b.WriteString(text)
			}
			p.text = b.String()
			doc.units = append(doc.units, p)
		}
	}
	return doc, nil
}

// contentStart returns the offset just past the opening tag at tagStart
func contentStart(content string, tagStart int) int {
	return tagStart + strings.IndexByte(content[tagStart:], '>') + 1
}

func unescapeXML(s string) (string, error) {
	if !strings.ContainsRune(s, '&') {
		return s, nil
	}
	dec := xml.NewDecoder(strings.NewReader("<t>" + s + "</t>"))
	var b strings.Builder
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return b.String(), nil
		}
		if err != nil {
			return "", err
		}
		if cd, ok := tok.(xml.CharData); ok {
			b.Write(cd)
		}
	}
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func (d *DocxDocument) Units() []string {
	out := make([]string, len(d.units))
	for i, p := range d.units {
		out[i] = p.text
	}
	return out
}

func (d *DocxDocument) SetText(i int, text string) error {
	if err := checkIndex(i, len(d.units)); err != nil {
		return err
	}
	p := d.units[i]
	if p.text != text {
		p.text = text
		p.dirty = true
	}
	return nil
}

type edit struct {
	start, end int
	text       string
}

// render splices changed paragraphs into the original XML
func (d *DocxDocument) render() string {
	var edits []edit
	for _, p := range d.units {
		if !p.dirty {
			continue
		}
		first := p.runs[0]
		edits = append(edits, edit{first.tagStart, first.textEnd, `<w:t xml:space="preserve">` + escapeXML(p.text)})
		for _, r := range p.runs[1:] {
			edits = append(edits, edit{r.textStart, r.textEnd, ""})
		}
	}
	if len(edits) == 0 {
		return d.xml
	}
	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	var b strings.Builder
	b.Grow(len(d.xml))
	pos := 0
	for _, e := range edits {
		b.WriteString(d.xml[pos:e.start])
		b.WriteString(e.text)
		pos = e.end
	}
	b.WriteString(d.xml[pos:])
	return b.String()
}

// Save copies every archive entry unchanged except the document part
func (d *DocxDocument) Save(path string) (err error) {
	reader, err := zip.OpenReader(d.path)
	if err != nil {
		return fmt.Errorf("failed to reopen %s: %w", d.path, err)
	}
	defer reader.Close()

	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	w := zip.NewWriter(out)
	for _, f := range reader.File {
		if f.Name != documentPart {
			if err := w.Copy(f); err != nil {
				return fmt.Errorf("failed to copy %s: %w", f.Name, err)
			}
			continue
		}
		part, err := w.CreateHeader(&zip.FileHeader{Name: f.Name, Method: zip.Deflate, Modified: f.Modified})
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", f.Name, err)
		}
		if _, err := io.WriteString(part, d.render()); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish %s: %w", path, err)
	}
	return nil
}

func (d *DocxDocument) OutputExt() string { return ".docx" }

func (d *DocxDocument) Format() string { return "docx" }
