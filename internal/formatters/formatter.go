// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"skryi/internal/registry"
)

// MapVersion is the version of the replacement map layout
const MapVersion = "1.0"

// Redacted replaces sensitive originals when redaction is on
const Redacted = "***REDACTED***"

// Map is the replacement map of one anonymized document. Rows come in map
// order: persons first, then the other kinds in first-seen order.
type Map struct {
	GeneratedAt time.Time
	RunID       string
	SourceFile  string
	Rows        []registry.Row
}

// FormatterOptions defines configuration options for formatters
type FormatterOptions struct {
	Redact  bool // Replace sensitive originals with Redacted
	NoColor bool // Whether to disable colored output
	Compact bool // Single-line output where the format allows it
}

// Formatter interface defines methods that all map formatters must implement
type Formatter interface {
	// Format renders the replacement map in the formatter's output format
	Format(m *Map, options FormatterOptions) (string, error)

	// Name returns the name of the formatter (e.g., "json", "txt", "yaml")
	Name() string

	// Description returns a brief description of what this formatter outputs
	Description() string

	// FileExtension returns the recommended file extension for this format (e.g., ".json")
	FileExtension() string
}

// VisibleRows returns the rows as they may be written: sensitive originals
// and canonicals are redacted when options ask for it
func VisibleRows(rows []registry.Row, options FormatterOptions) []registry.Row {
	out := make([]registry.Row, len(rows))
	copy(out, rows)
	if !options.Redact {
		return out
	}
	for i := range out {
		if !out[i].Sensitive {
			continue
		}
		out[i].Original = Redacted
		if out[i].Canonical != "" {
			out[i].Canonical = Redacted
		}
	}
	return out
}

// Registry holds all registered formatters
type Registry struct {
	formatters map[string]Formatter
}

// NewRegistry creates a new formatter registry
func NewRegistry() *Registry {
	return &Registry{
		formatters: make(map[string]Formatter),
	}
}

// Register adds a formatter to the registry
func (r *Registry) Register(formatter Formatter) {
	r.formatters[formatter.Name()] = formatter
}

// Get retrieves a formatter by name
func (r *Registry) Get(name string) (Formatter, bool) {
	formatter, exists := r.formatters[name]
	return formatter, exists
}

// List returns all registered formatter names, sorted
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FormatInfo provides metadata about a formatter
type FormatInfo struct {
	Name        string
	Description string
	Extension   string
	MimeType    string
}

// DefaultRegistry is the global formatter registry
var DefaultRegistry = NewRegistry()

// Register is a convenience function to register a formatter with the default registry
func Register(formatter Formatter) {
	DefaultRegistry.Register(formatter)
}

// Get is a convenience function to get a formatter from the default registry
func Get(name string) (Formatter, bool) {
	return DefaultRegistry.Get(name)
}

// List is a convenience function to list all formatters in the default registry
func List() []string {
	return DefaultRegistry.List()
}

// Export renders m with the named formatter
func Export(format string, m *Map, options FormatterOptions) (string, error) {
	formatter, exists := Get(format)
	if !exists {
		return "", fmt.Errorf("unsupported format '%s'. Available formats: %s", format, strings.Join(List(), ", "))
	}
	return formatter.Format(m, options)
}

// GetFormatInfo returns metadata about a specific formatter
func GetFormatInfo(name string) FormatInfo {
	formatter, exists := Get(name)
	if !exists {
		return FormatInfo{}
	}
	info := FormatInfo{
		Name:        formatter.Name(),
		Description: formatter.Description(),
		Extension:   formatter.FileExtension(),
	}
	switch name {
	case "json":
		info.MimeType = "application/json"
	case "yaml":
		info.MimeType = "application/x-yaml"
	case "txt":
		info.MimeType = "text/plain; charset=utf-8"
	default:
		info.MimeType = "application/octet-stream"
	}
	return info
}

// GetSupportedFormats returns information about all available formatters
func GetSupportedFormats() []FormatInfo {
	var formats []FormatInfo
	for _, name := range List() {
		formats = append(formats, GetFormatInfo(name))
	}
	return formats
}
