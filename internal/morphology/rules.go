// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package morphology

import "strings"

// form is the input of a suffix rule: the lowercased observation and the
// stem left after removing the rule's suffix.
type form struct {
	e    *Engine
	lo   string
	stem string
}

// suffixRule is one entry of an inference table
type suffixRule struct {
	name   string
	suffix string
	minLen int
	when   func(f form) bool
	then   func(f form) (string, bool)
}

// dispatch runs the table in order and returns the first rewrite that
// applies, together with the rule name.
func (e *Engine) dispatch(table []suffixRule, lo string) (string, string, bool) {
	n := runeLen(lo)
	for _, r := range table {
		if !strings.HasSuffix(lo, r.suffix) || n < r.minLen {
			continue
		}
		f := form{e: e, lo: lo, stem: strings.TrimSuffix(lo, r.suffix)}
		if r.when != nil && !r.when(f) {
			continue
		}
		if out, ok := r.then(f); ok && out != "" {
			return out, r.name, true
		}
	}
	return "", "", false
}

// Rewrites shared by the tables.

func keep(f form) (string, bool) { return f.lo, true }

func stemOnly(f form) (string, bool) { return f.stem, f.stem != "" }

func appendTo(suffix string) func(form) (string, bool) {
	return func(f form) (string, bool) { return f.stem + suffix, true }
}

// appendKnown appends the first suffix that yields a dictionary name
func appendKnown(suffixes ...string) func(form) (string, bool) {
	return func(f form) (string, bool) {
		for _, suf := range suffixes {
			if f.e.known(f.stem + suf) {
				return f.stem + suf, true
			}
		}
		return "", false
	}
}

// Predicates shared by the tables.

func observedKnown(f form) bool { return f.e.known(f.lo) }

func stemKnown(f form) bool { return f.e.known(f.stem) }

func not(pred func(form) bool) func(form) bool {
	return func(f form) bool { return !pred(f) }
}

func obsEndsWith(suffixes ...string) func(form) bool {
	return func(f form) bool { return hasAnySuffix(f.lo, suffixes...) }
}

func stemConsonant(f form) bool { return endsWithConsonant(f.stem) }
