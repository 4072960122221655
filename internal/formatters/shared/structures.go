// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package shared

import (
	"time"

	"skryi/internal/formatters"
)

// MapDocument is the top-level structure for JSON/YAML map output
type MapDocument struct {
	Version     string     `json:"version" yaml:"version"`
	GeneratedAt string     `json:"generated_at" yaml:"generated_at"`
	RunID       string     `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	SourceFile  string     `json:"source_file" yaml:"source_file"`
	Entities    []MapEntry `json:"entities" yaml:"entities"`
}

// MapEntry is one observed surface form and the label that replaced it
type MapEntry struct {
	Type        string `json:"type" yaml:"type"`
	Label       string `json:"label" yaml:"label"`
	Original    string `json:"original" yaml:"original"`
	Canonical   string `json:"canonical,omitempty" yaml:"canonical,omitempty"`
	Occurrences int    `json:"occurrences" yaml:"occurrences"`
}

// ConvertMap converts a replacement map to the JSON/YAML structure
func ConvertMap(m *formatters.Map, options formatters.FormatterOptions) MapDocument {
	doc := MapDocument{
		Version:    formatters.MapVersion,
		RunID:      m.RunID,
		SourceFile: m.SourceFile,
		Entities:   make([]MapEntry, 0, len(m.Rows)),
	}
	if !m.GeneratedAt.IsZero() {
		doc.GeneratedAt = m.GeneratedAt.UTC().Format(time.RFC3339)
	}
	for _, row := range formatters.VisibleRows(m.Rows, options) {
		doc.Entities = append(doc.Entities, MapEntry{
			Type:        row.Type,
			Label:       row.Label,
			Original:    row.Original,
			Canonical:   row.Canonical,
			Occurrences: row.Occurrences,
		})
	}
	return doc
}
