// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package json

import (
	"encoding/json"
	"fmt"

	"skryi/internal/formatters"
	"skryi/internal/formatters/shared"
)

// Formatter implements JSON map output
type Formatter struct{}

// NewFormatter creates a new JSON formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "json"
}

func (f *Formatter) Description() string {
	return "Structured JSON replacement map for programmatic consumption"
}

func (f *Formatter) FileExtension() string {
	return ".json"
}

func (f *Formatter) Format(m *formatters.Map, options formatters.FormatterOptions) (string, error) {
	if m == nil {
		return "", fmt.Errorf("json formatter: nil map")
	}
	doc := shared.ConvertMap(m, options)

	var data []byte
	var err error
	if options.Compact {
		data, err = json.Marshal(doc)
	} else {
		data, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		return "", fmt.Errorf("formatting JSON: %w", err)
	}
	return string(data), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
