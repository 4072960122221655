// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"strings"
	"unicode/utf8"
)

// ContextExtractor extracts the text around a match inside one unit
type ContextExtractor struct {
	// Number of characters before and after the match to consider
	ContextChars int
}

// NewContextExtractor creates a new context extractor with default settings
func NewContextExtractor() *ContextExtractor {
	return &ContextExtractor{
		ContextChars: 40,
	}
}

// WithContextChars sets the number of context characters
func (ce *ContextExtractor) WithContextChars(chars int) *ContextExtractor {
	ce.ContextChars = chars
	return ce
}

// ExtractContext returns up to ContextChars runes on each side of the span
// and the keywords (case-insensitive) found before it.
func (ce *ContextExtractor) ExtractContext(text string, span Span, keywords []string) ContextInfo {
	if span.Start < 0 || span.End > len(text) || span.Start > span.End {
		return ContextInfo{}
	}
	info := ContextInfo{
		BeforeText: lastRunes(text[:span.Start], ce.ContextChars),
		AfterText:  firstRunes(text[span.End:], ce.ContextChars),
	}
	before := strings.ToLower(info.BeforeText)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(before, strings.ToLower(kw)) {
			info.PositiveKeywords = append(info.PositiveKeywords, kw)
		}
	}
	return info
}

func lastRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := len(s)
	for count := 0; i > 0 && count < n; count++ {
		_, size := utf8.DecodeLastRuneInString(s[:i])
		i -= size
	}
	return s[i:]
}

func firstRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for count := 0; i < len(s) && count < n; count++ {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return s[:i]
}
