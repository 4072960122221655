// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package documents reads text units out of host documents and writes the
// anonymized units back into the same structure.
package documents

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MaxFileSize bounds the documents we are willing to load into memory
const MaxFileSize = 100 * 1024 * 1024

var (
	// ErrUnsupportedFormat is returned for extensions no reader handles
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrNotFound is returned when the input path does not exist
	ErrNotFound = errors.New("document not found")
	// ErrTooLarge is returned for files above MaxFileSize
	ErrTooLarge = errors.New("document too large")
	// ErrInvalidDocument is returned when a file cannot be parsed as its format
	ErrInvalidDocument = errors.New("invalid document")
)

// Document is an opened host document. Units are paragraphs, table cells or
// lines; their order is stable between Units and SetText.
type Document interface {
	// Units returns the text of every unit in processing order
	Units() []string
	// SetText replaces the text of unit i
	SetText(i int, text string) error
	// Save writes the document with its current unit texts
	Save(path string) error
	// OutputExt is the extension of the saved file, with the dot
	OutputExt() string
	// Format names the reader that opened the document
	Format() string
}

type opener func(path string) (Document, error)

var openers = map[string]opener{
	".docx": openDocx,
	".txt":  openText,
	".pdf":  openPDF,
}

// Extensions lists the supported file extensions, sorted
func Extensions() []string {
	out := make([]string, 0, len(openers))
	for ext := range openers {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Supported reports whether path has a supported extension
func Supported(path string) bool {
	_, ok := openers[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Open dispatches on the file extension
func Open(path string) (Document, error) {
	open, ok := openers[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("%w: %s (supported: %s)", ErrUnsupportedFormat, filepath.Ext(path), strings.Join(Extensions(), ", "))
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotFound, path)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("%w: %s is %d bytes (limit %d)", ErrTooLarge, path, info.Size(), MaxFileSize)
	}
	return open(path)
}

func checkIndex(i, n int) error {
	if i < 0 || i >= n {
		return fmt.Errorf("unit index %d out of range [0,%d)", i, n)
	}
	return nil
}
