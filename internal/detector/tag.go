// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"fmt"
	"regexp"
	"strconv"
)

// TagPattern matches a placeholder label such as [[PERSON_3]]
var TagPattern = regexp.MustCompile(`\[\[([A-Z][A-Z0-9_]*?)_(\d+)\]\]`)

// FormatTag renders the label for the n-th entity of a kind
func FormatTag(kind string, n int) string {
	return fmt.Sprintf("[[%s_%d]]", kind, n)
}

// ParseTag splits a label into kind and index. ok is false when s is not
// exactly one label.
func ParseTag(s string) (kind string, n int, ok bool) {
	m := TagPattern.FindStringSubmatchIndex(s)
	if m == nil || m[0] != 0 || m[1] != len(s) {
		return "", 0, false
	}
	n, err := strconv.Atoi(s[m[4]:m[5]])
	if err != nil {
		return "", 0, false
	}
	return s[m[2]:m[3]], n, true
}

// TagSpans returns the spans of all labels already present in text
func TagSpans(text string) []Span {
	locs := TagPattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	spans := make([]Span, len(locs))
	for i, l := range locs {
		spans[i] = Span{Start: l[0], End: l[1]}
	}
	return spans
}
