// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package identity

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"

	"skryi/internal/detector"
	"skryi/internal/morphology"
)

// KnownMatch is a mention of an already registered person
type KnownMatch struct {
	detector.Span
	Surface  string
	Identity *Identity
	// Folded marks an upper-case mention written without diacritics
	Folded bool
}

type knownPattern struct {
	identity *Identity
	folded   bool
}

// knownMatcher scans text for every pre-generated form of every full
// identity in one pass
type knownMatcher struct {
	ac       ahocorasick.AhoCorasick
	patterns []knownPattern
	empty    bool
}

func (r *Registry) buildMatcher() *knownMatcher {
	forms := make([]string, 0, len(r.forms))
	for f := range r.forms {
		forms = append(forms, f)
	}
	// map iteration order must not leak into pattern priority
	sort.Strings(forms)

	var texts []string
	var pats []knownPattern
	seen := make(map[string]bool, len(forms)*2)
	for _, f := range forms {
		p := r.forms[f]
		if !seen[f] {
			seen[f] = true
			texts = append(texts, f)
			pats = append(pats, knownPattern{identity: p})
		}
		if folded := morphology.FoldDiacritics(f); folded != f && !seen[folded] {
			seen[folded] = true
			texts = append(texts, folded)
			pats = append(pats, knownPattern{identity: p, folded: true})
		}
	}
	m := &knownMatcher{patterns: pats, empty: len(texts) == 0}
	if !m.empty {
		builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
			AsciiCaseInsensitive: false,
			MatchOnlyWholeWords:  false,
			MatchKind:            ahocorasick.LeftMostLongestMatch,
			DFA:                  true,
		})
		m.ac = builder.Build(texts)
	}
	return m
}

// FindKnown returns mentions of registered people in text, longest form
// first at each position. Mentions must start each word with an upper-case
// letter; diacritic-free forms only count when written in capitals.
func (r *Registry) FindKnown(text string) []KnownMatch {
	if len(r.forms) == 0 {
		return nil
	}
	if r.matcher == nil {
		r.matcher = r.buildMatcher()
	}
	if r.matcher.empty {
		return nil
	}
	lowered := lowerSameWidth(text)
	var out []KnownMatch
	for _, m := range r.matcher.ac.FindAll(lowered) {
		start, end := m.Start(), m.End()
		if !wordBoundary(text, start, end) {
			continue
		}
		pat := r.matcher.patterns[m.Pattern()]
		surface := text[start:end]
		if pat.folded {
			if !allUpper(surface) {
				continue
			}
		} else if !wordsCapitalized(surface) {
			continue
		}
		out = append(out, KnownMatch{
			Span:     detector.Span{Start: start, End: end},
			Surface:  surface,
			Identity: pat.identity,
			Folded:   pat.folded,
		})
	}
	return out
}

func wordBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func wordsCapitalized(s string) bool {
	for _, w := range strings.Fields(s) {
		r, _ := utf8.DecodeRuneInString(w)
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func allUpper(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) && !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}
