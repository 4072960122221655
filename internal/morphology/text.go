// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package morphology

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	czechVowels     = "aeiouyáéíóúůýě"
	czechConsonants = "bcčdďfghjklmnňpqrřsštťvwxzž"
)

// slovakFolds unifies Slovak spellings with their Czech counterparts.
var slovakFolds = map[string]string{
	"alica": "alice",
	"lucia": "lucie",
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return cases.Title(language.Czech).String(strings.ToLower(s))
}

// FoldDiacritics removes combining marks: "Řehoř" becomes "Rehor".
func FoldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// NormalizeKey reduces a name to the identity comparison key: diacritics
// folded, letters only, lower case, Slovak spellings unified.
func NormalizeKey(s string) string {
	folded := strings.ToLower(FoldDiacritics(s))
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	key := b.String()
	if fold, ok := slovakFolds[key]; ok {
		return fold
	}
	return key
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// dropRunes removes n runes from the end of s
func dropRunes(s string, n int) string {
	for i := 0; i < n && s != ""; i++ {
		_, size := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-size]
	}
	return s
}

func lastRune(s string) rune {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}

// runeFromEnd returns the rune i positions from the end (0 is the last one)
func runeFromEnd(s string, i int) rune {
	rs := []rune(s)
	if i >= len(rs) {
		return 0
	}
	return rs[len(rs)-1-i]
}

func isVowel(r rune) bool {
	return strings.ContainsRune(czechVowels, r)
}

func isConsonant(r rune) bool {
	return strings.ContainsRune(czechConsonants, r)
}

func endsWithConsonant(s string) bool {
	return s != "" && isConsonant(lastRune(s))
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

// insertE turns a stem like "pavl" into "pavel"
func insertE(stem string) string {
	if runeLen(stem) < 2 {
		return stem
	}
	last := lastRune(stem)
	return dropRunes(stem, 1) + "e" + string(last)
}

// hardenSoft maps ň, ď, ť to their hard counterparts before the "ěk" suffix
func hardenSoft(stem string) string {
	switch lastRune(stem) {
	case 'ň':
		return dropRunes(stem, 1) + "n"
	case 'ď':
		return dropRunes(stem, 1) + "d"
	case 'ť':
		return dropRunes(stem, 1) + "t"
	}
	return stem
}

type set map[string]struct{}

func newSet(items ...string) set {
	s := make(set, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

func (s set) has(item string) bool {
	_, ok := s[item]
	return ok
}
