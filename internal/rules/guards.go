// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"skryi/internal/detector"
)

// Guard is a named predicate over a candidate match. It replaces the
// lookaround assertions RE2 does not support. whole is the full regexp match,
// capture the primary captured value. A guard returns false to reject.
type Guard func(text string, whole, capture detector.Span) bool

var guardRegistry = map[string]Guard{
	"not_in_tag":               notInTag,
	"not_after_reference":      notAfterReference,
	"no_adjacent_digits":       noAdjacentDigits,
	"not_followed_by_currency": notFollowedByCurrency,
	"not_all_digits":           notAllDigits,
	"not_eu_prefix":            notEUPrefix,
	"not_after_year_word":      notAfterYearWord,
	"letters_not_before":       lettersNotBefore,
	"no_dotted_neighbours":     noDottedNeighbours,
	"no_cz_prefix":             noCZPrefix,
	"no_slash":                 noSlash,
	"not_birth_number":         notBirthNumber,
	"address_end":              addressEnd,
	"word_start":               wordStart,
	"word_end":                 wordEnd,
	"not_followed_by_name":     notFollowedByName,
	"not_followed_by_company":  notFollowedByCompany,
	"no_word_before":           noWordBefore,
}

// GuardNames lists the registered guards in alphabetical order
func GuardNames() []string {
	names := make([]string, 0, len(guardRegistry))
	for n := range guardRegistry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LookupGuard returns the guard registered under name
func LookupGuard(name string) (Guard, bool) {
	g, ok := guardRegistry[name]
	return g, ok
}

func before(text string, pos, n int) string {
	start := pos
	for i := 0; i < n && start > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:start])
		start -= size
	}
	return text[start:pos]
}

func prevRune(text string, pos int) rune {
	if pos <= 0 {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeLastRuneInString(text[:pos])
	return r
}

func nextRune(text string, pos int) rune {
	if pos >= len(text) {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(text[pos:])
	return r
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func notInTag(text string, whole, capture detector.Span) bool {
	for _, tag := range detector.TagSpans(text) {
		if tag.Overlaps(capture) {
			return false
		}
	}
	return true
}

var referencePrefixes = []string{"fú-", "ks-", "vs-", "čj-"}

func notAfterReference(text string, whole, capture detector.Span) bool {
	lead := strings.ToLower(before(text, whole.Start, 3))
	for _, p := range referencePrefixes {
		if strings.HasSuffix(lead, p) {
			return false
		}
	}
	return true
}

func noAdjacentDigits(text string, whole, capture detector.Span) bool {
	return !isDigit(prevRune(text, capture.Start)) && !isDigit(nextRune(text, capture.End))
}

var currencyAfter = regexp.MustCompile(`^\s*(?:Kč|EUR|USD|CZK)(?:[^\p{L}\p{N}]|$)`)

func notFollowedByCurrency(text string, whole, capture detector.Span) bool {
	return !currencyAfter.MatchString(text[capture.End:])
}

func notAllDigits(text string, whole, capture detector.Span) bool {
	for _, r := range text[capture.Start:capture.End] {
		if !isDigit(r) && !unicode.IsSpace(r) {
			return true
		}
	}
	return false
}

func notEUPrefix(text string, whole, capture detector.Span) bool {
	return !strings.HasPrefix(strings.ToUpper(text[capture.Start:capture.End]), "EU ")
}

var yearWords = []string{"od ", "z ", "do ", "roku "}

func notAfterYearWord(text string, whole, capture detector.Span) bool {
	lead := strings.ToLower(before(text, whole.Start, 10))
	for _, w := range yearWords {
		if strings.Contains(lead, w) {
			return false
		}
	}
	return true
}

// lettersNotBefore rejects values glued to a preceding word or URL path,
// such as the numeric part of a hostname.
func lettersNotBefore(text string, whole, capture detector.Span) bool {
	r := prevRune(text, capture.Start)
	if unicode.IsLetter(r) || r == '/' || r == '-' || r == '_' {
		return false
	}
	if r == '.' {
		return !unicode.IsLetter(prevRune(text, capture.Start-1))
	}
	return true
}

func noDottedNeighbours(text string, whole, capture detector.Span) bool {
	if capture.Start >= 2 && text[capture.Start-1] == '.' && isDigit(rune(text[capture.Start-2])) {
		return false
	}
	if capture.End+1 < len(text) && text[capture.End] == '.' && isDigit(rune(text[capture.End+1])) {
		return false
	}
	return noAdjacentDigits(text, whole, capture)
}

func noCZPrefix(text string, whole, capture detector.Span) bool {
	if strings.Contains(strings.ToUpper(text[whole.Start:whole.End]), "CZ") {
		return false
	}
	return !strings.HasSuffix(strings.ToUpper(before(text, capture.Start, 2)), "CZ")
}

func noSlash(text string, whole, capture detector.Span) bool {
	if strings.Contains(text[whole.Start:whole.End], "/") {
		return false
	}
	return prevRune(text, capture.Start) != '/' && nextRune(text, capture.End) != '/'
}

// notBirthNumber rejects a digits/digits value whose first six digits form a
// plausible Czech birth number date (YYMMDD, month +50 for women, +20 for
// numbers issued after 2004).
func notBirthNumber(text string, whole, capture detector.Span) bool {
	return !LooksLikeBirthNumber(text[capture.Start:capture.End])
}

// LooksLikeBirthNumber reports whether v has the YYMMDD/XXX(X) shape of a
// Czech birth number with a valid date part. The check digit is not verified;
// anonymized sample documents rarely carry a correct one.
func LooksLikeBirthNumber(v string) bool {
	digits := make([]int, 0, 10)
	slash := -1
	for i, r := range v {
		switch {
		case isDigit(r):
			digits = append(digits, int(r-'0'))
		case r == '/' && slash < 0:
			slash = i
		default:
			return false
		}
	}
	if len(digits) != 9 && len(digits) != 10 {
		return false
	}
	if slash >= 0 && slash != 6 {
		return false
	}
	month := digits[2]*10 + digits[3]
	day := digits[4]*10 + digits[5]
	switch {
	case month >= 71 && month <= 82:
		month -= 70
	case month >= 51 && month <= 62:
		month -= 50
	case month >= 21 && month <= 32:
		month -= 20
	}
	return month >= 1 && month <= 12 && day >= 1 && day <= 31
}

var addressTerminators = []string{"rodné", "ičo", "dič", "tel", "e-mail", "kontakt", "op", "datum", "narozen"}

func addressEnd(text string, whole, capture detector.Span) bool {
	if whole.End >= len(text) {
		return true
	}
	r := nextRune(text, whole.End)
	if unicode.IsSpace(r) || strings.ContainsRune(",.;:", r) {
		return true
	}
	rest := strings.ToLower(text[whole.End:])
	for _, t := range addressTerminators {
		if strings.HasPrefix(rest, t) {
			return true
		}
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func wordStart(text string, whole, capture detector.Span) bool {
	return !isWordRune(prevRune(text, whole.Start))
}

func wordEnd(text string, whole, capture detector.Span) bool {
	return !isWordRune(nextRune(text, whole.End))
}

func noWordBefore(text string, whole, capture detector.Span) bool {
	return !isWordRune(prevRune(text, capture.Start))
}

var capitalizedNext = regexp.MustCompile(`^\s+\p{Lu}\p{Ll}`)

// notFollowedByName rejects a single name when another capitalized word
// follows, leaving the pair to the full-name rules.
func notFollowedByName(text string, whole, capture detector.Span) bool {
	return !capitalizedNext.MatchString(text[capture.End:])
}

var companySuffix = regexp.MustCompile(`(?i)^\s*,?\s*(?:s\.\s?r\.\s?o\.|a\.\s?s\.|spol\.|k\.\s?s\.|v\.\s?o\.\s?s\.|ltd\.?|inc\.?)`)

func notFollowedByCompany(text string, whole, capture detector.Span) bool {
	return !companySuffix.MatchString(text[whole.End:])
}
