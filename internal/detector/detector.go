// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package detector holds the match and span types shared by the rule table,
// the recognizer stages and the document boundary.
package detector

import (
	"sort"
)

// ContextInfo stores contextual information about a match
type ContextInfo struct {
	// Text before and after the match within the same unit
	BeforeText string
	AfterText  string

	// Context keywords found in BeforeText
	PositiveKeywords []string
}

// Span is a half-open byte range [Start, End) inside one text unit
type Span struct {
	Start int
	End  int
}

// Overlaps reports whether two spans share at least one byte
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Len returns the span length in bytes
func (s Span) Len() int {
	return s.End - s.Start
}

// Match represents a recognized PII span and the label that replaces it
type Match struct {
	Span
	Text        string
	Kind        string
	Rule        string
	Sensitive   bool
	Replacement string

	Context ContextInfo
}

// Clear wipes the matched value and its context
func (m *Match) Clear() {
	m.Text = ""
	m.Context.BeforeText = ""
	m.Context.AfterText = ""
}

// OverlapsAny reports whether s overlaps one of spans
func OverlapsAny(s Span, spans []Span) bool {
	for _, o := range spans {
		if s.Overlaps(o) {
			return true
		}
	}
	return false
}

// Rewrite replaces every match span with its Replacement. Matches must not
// overlap; a match overlapping an earlier (leftmost) one is dropped.
func Rewrite(text string, matches []Match) string {
	if len(matches) == 0 {
		return text
	}
	ordered := make([]Match, len(matches))
	copy(ordered, matches)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Start < ordered[j].Start })

	out := make([]byte, 0, len(text))
	cursor := 0
	for _, m := range ordered {
		if m.Start < cursor || m.Start > m.End || m.End > len(text) {
			continue
		}
		out = append(out, text[cursor:m.Start]...)
		out = append(out, m.Replacement...)
		cursor = m.End
	}
	out = append(out, text[cursor:]...)
	return string(out)
}
