// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"skryi/internal/formatters"
	"skryi/internal/identity"
	"skryi/internal/registry"
)

// PersonsHeading titles the person section of the text map
const PersonsHeading = "OSOBY"

// Formatter implements the human-readable text map
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"cyan":    color.New(color.FgCyan),
			"magenta": color.New(color.FgMagenta),
			"white":   color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "txt"
}

func (f *Formatter) Description() string {
	return "Human-readable replacement map grouped by entity kind"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

// group is one label with its canonical value and surface forms
type group struct {
	label     string
	canonical string
	variants  []string
}

// section is one entity kind in map order
type section struct {
	kind   string
	groups []*group
}

func (f *Formatter) Format(m *formatters.Map, options formatters.FormatterOptions) (string, error) {
	if m == nil {
		return "", fmt.Errorf("txt formatter: nil map")
	}
	sections := groupRows(formatters.VisibleRows(m.Rows, options))

	var b strings.Builder
	for _, s := range sections {
		heading := s.kind
		if s.kind == identity.Kind {
			heading = PersonsHeading
		}
		f.paint(&b, "white", options, "%s\n%s\n", heading, strings.Repeat("-", len([]rune(heading))))
		for _, g := range s.groups {
			f.paint(&b, "magenta", options, "%s", g.label)
			fmt.Fprintf(&b, ": %s\n", g.canonical)
			if s.kind != identity.Kind {
				continue
			}
			for _, v := range g.variants {
				if strings.EqualFold(v, g.canonical) {
					continue
				}
				f.paint(&b, "cyan", options, "  - %s\n", v)
			}
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

func (f *Formatter) paint(b *strings.Builder, name string, options formatters.FormatterOptions, format string, args ...interface{}) {
	if options.NoColor {
		fmt.Fprintf(b, format, args...)
		return
	}
	f.colors[name].Fprintf(b, format, args...)
}

// groupRows folds rows into kinds and labels, keeping first-seen order
func groupRows(rows []registry.Row) []*section {
	var sections []*section
	byKind := make(map[string]*section)
	byLabel := make(map[string]*group)
	for _, row := range rows {
		s, ok := byKind[row.Type]
		if !ok {
			s = &section{kind: row.Type}
			byKind[row.Type] = s
			sections = append(sections, s)
		}
		g, ok := byLabel[row.Label]
		if !ok {
			g = &group{label: row.Label, canonical: row.Original}
			byLabel[row.Label] = g
			s.groups = append(s.groups, g)
		}
		if row.Canonical != "" {
			g.canonical = row.Canonical
		}
		g.variants = append(g.variants, row.Original)
	}
	return sections
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
