// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package documents

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// TextDocument is a plain text file, one unit per line. Files that are not
// valid UTF-8 are read as Windows-1250, the usual legacy Czech encoding;
// output is always UTF-8.
type TextDocument struct {
	lines    []string
	crlf     bool
	trailing bool
	format   string
}

func openText(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ParseText(data)
}

// ParseText splits text content into line units
func ParseText(data []byte) (*TextDocument, error) {
	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1250.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("%w: undecodable text: %v", ErrInvalidDocument, err)
		}
		data = decoded
	}
	s := strings.TrimPrefix(string(data), "\ufeff")
	doc := &TextDocument{format: "txt", crlf: strings.Contains(s, "\r\n")}
	if doc.crlf {
		s = strings.ReplaceAll(s, "\r\n", "\n")
	}
	if strings.HasSuffix(s, "\n") {
		doc.trailing = true
		s = strings.TrimSuffix(s, "\n")
	}
	doc.lines = strings.Split(s, "\n")
	return doc, nil
}

func (d *TextDocument) Units() []string {
	out := make([]string, len(d.lines))
	copy(out, d.lines)
	return out
}

func (d *TextDocument) SetText(i int, text string) error {
	if err := checkIndex(i, len(d.lines)); err != nil {
		return err
	}
	d.lines[i] = text
	return nil
}

// String renders the document with its original line endings
func (d *TextDocument) String() string {
	nl := "\n"
	if d.crlf {
		nl = "\r\n"
	}
	s := strings.Join(d.lines, nl)
	if d.trailing {
		s += nl
	}
	return s
}

func (d *TextDocument) Save(path string) error {
	if err := os.WriteFile(path, []byte(d.String()), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (d *TextDocument) OutputExt() string { return ".txt" }

func (d *TextDocument) Format() string { return d.format }
