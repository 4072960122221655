// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package documents

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// MaxPDFPages limits text extraction on very large PDFs
const MaxPDFPages = 500

// openPDF validates the file with pdfcpu and extracts its text rows with
// ledongthuc/pdf. Layout cannot be rewritten in place, so the result is a
// text document with one unit per row and an empty unit between pages.
func openPDF(path string) (Document, error) {
	if err := api.ValidateFile(path, model.NewDefaultConfiguration()); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, path, err)
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: error opening PDF: %v", ErrInvalidDocument, err)
	}
	defer f.Close()

	pages := r.NumPage()
	if pages > MaxPDFPages {
		pages = MaxPDFPages
	}
	doc := &TextDocument{format: "pdf", trailing: true}
	for i := 1; i <= pages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		rows, err := pageRows(p)
		if err != nil {
			continue
		}
		if len(doc.lines) > 0 {
			doc.lines = append(doc.lines, "")
		}
		doc.lines = append(doc.lines, rows...)
	}
	if len(doc.lines) == 0 {
		doc.lines = []string{""}
	}
	return doc, nil
}

// pageRows returns the page's text rows from top to bottom
func pageRows(p pdf.Page) ([]string, error) {
	rows, err := p.GetTextByRow()
	if err != nil {
		plain, perr := p.GetPlainText(nil)
		if perr != nil {
			return nil, perr
		}
		return strings.Split(strings.TrimRight(plain, "\n"), "\n"), nil
	}

	kept := make([]*pdf.Row, 0, len(rows))
	for _, row := range rows {
		if row != nil && len(row.Content) > 0 {
			kept = append(kept, row)
		}
	}
	// PDF y grows upwards
	sort.SliceStable(kept, func(i, j int) bool {
		return averageY(kept[i].Content) > averageY(kept[j].Content)
	})

	out := make([]string, 0, len(kept))
	for _, row := range kept {
		if line := rowText(row.Content); strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out, nil
}

func averageY(texts []pdf.Text) float64 {
	var total float64
	for _, t := range texts {
		total += t.Y
	}
	return total / float64(len(texts))
}

// rowText joins glyph runs left to right, inserting a space where the gap
// exceeds a fifth of the font size
func rowText(texts []pdf.Text) string {
	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var b strings.Builder
	for i, t := range sorted {
		b.WriteString(t.S)
		if i == len(sorted)-1 {
			break
		}
		size := t.FontSize
		if size <= 0 {
			size = 12
		}
		if gap := sorted[i+1].X - (t.X + t.W); gap > size*0.2 {
			b.WriteString(" ")
		}
	}
	return b.String()
}
