// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package yaml

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"skryi/internal/formatters"
	"skryi/internal/formatters/shared"
)

// Formatter implements YAML map output
type Formatter struct{}

// NewFormatter creates a new YAML formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "yaml"
}

func (f *Formatter) Description() string {
	return "YAML replacement map, same structure as JSON"
}

func (f *Formatter) FileExtension() string {
	return ".yaml"
}

func (f *Formatter) Format(m *formatters.Map, options formatters.FormatterOptions) (string, error) {
	if m == nil {
		return "", fmt.Errorf("yaml formatter: nil map")
	}
	// same conversion as the JSON formatter
	data, err := yaml.Marshal(shared.ConvertMap(m, options))
	if err != nil {
		return "", fmt.Errorf("formatting YAML: %w", err)
	}
	return string(data), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
