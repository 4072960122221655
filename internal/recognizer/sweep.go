// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package recognizer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"skryi/internal/detector"
)

// bankFragment finds an account number whose middle was already claimed as
// a birth number
var bankFragment = regexp.MustCompile(`(?i)(?:číslo\s+účtu|účet|účtu|platba\s+na\s+účet|bankovní\s+účet)\s*:?\s*(\d{0,10})(\[\[BIRTH_ID_\d+\]\])(\d{0,10})`)

// cardRun is a payment-card-like digit run with optional single separators
var cardRun = regexp.MustCompile(`\d(?:[ \-]?\d){12,18}`)

var postalCode = regexp.MustCompile(`,?\s*\d{3}\s?\d{2}\s*`)

const minKnownAddress = 15

// sweep is the validation pass over already tagged text
func (r *Recognizer) sweep(text string) string {
	done := r.tracer.StartStep(component, "sweep", "")
	before := r.total()

	text = r.retagBankFragments(text)
	text = r.luhnSweep(text)
	text = r.applyKnownAddresses(text)
	for _, rule := range r.table.Sweep() {
		text = r.applyRule(rule, text)
	}
	text = r.applyKnownPeople(text, true)
	text = r.applyKnownPeople(text, false)

	done(true, "")
	if n := r.total() - before; n > 0 {
		r.tracer.LogMetric(component, "sweep", n)
	}
	return text
}

// retagBankFragments turns "účet: 19[[BIRTH_ID_1]]" back into one account
func (r *Recognizer) retagBankFragments(text string) string {
	locs := bankFragment.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return text
	}
	var matches []detector.Match
	for _, loc := range locs {
		birthTag := text[loc[4]:loc[5]]
		e, ok := r.entities.ByLabel(birthTag)
		if !ok {
			continue
		}
		value := text[loc[2]:loc[3]] + e.Canonical + text[loc[6]:loc[7]]
		label := r.entities.Label("BANK", value, false)
		if r.entities.Withdraw(birthTag) && r.counts["BIRTH_ID"] > 0 {
			r.counts["BIRTH_ID"]--
		}
		matches = append(matches, detector.Match{
			Span:        detector.Span{Start: loc[2], End: loc[7]},
			Kind:        "BANK",
			Rule:        "bank_fragment",
			Replacement: label,
		})
		r.counts["BANK"]++
	}
	return detector.Rewrite(text, matches)
}

// luhnSweep tags 13 to 19 digit runs that pass the Luhn check and were not
// claimed by any rule
func (r *Recognizer) luhnSweep(text string) string {
	locs := cardRun.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return text
	}
	tags := detector.TagSpans(text)
	var matches []detector.Match
	for _, loc := range locs {
		span := detector.Span{Start: loc[0], End: loc[1]}
		if detector.OverlapsAny(span, tags) || !isolated(text, span) {
			continue
		}
		raw := text[span.Start:span.End]
		if !luhnValid(digitsOf(raw)) {
			continue
		}
		matches = append(matches, detector.Match{
			Span:        span,
			Kind:        "CARD",
			Rule:        "luhn",
			Replacement: r.entities.Label("CARD", raw, false),
		})
		r.counts["CARD"]++
	}
	return detector.Rewrite(text, matches)
}

// isolated reports whether the run is not glued to letters, digits or
// underscores on either side
func isolated(text string, s detector.Span) bool {
	if s.Start > 0 {
		c, _ := utf8.DecodeLastRuneInString(text[:s.Start])
		if isWord(c) {
			return false
		}
	}
	if s.End < len(text) {
		c, _ := utf8.DecodeRuneInString(text[s.End:])
		if isWord(c) {
			return false
		}
	}
	return true
}

func isWord(c rune) bool {
	return c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c)
}

func digitsOf(s string) string {
	return strings.Map(func(c rune) rune {
		if c >= '0' && c <= '9' {
			return c
		}
		return -1
	}, s)
}

// luhnValid checks a card number of 13 to 19 digits
func luhnValid(number string) bool {
	if len(number) < 13 || len(number) > 19 {
		return false
	}
	sum := 0
	isDouble := false
	for i := len(number) - 1; i >= 0; i-- {
		digit := int(number[i] - '0')
		if isDouble {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		isDouble = !isDouble
	}
	return sum%10 == 0
}

// applyKnownAddresses replaces further occurrences of recognized addresses,
// including the same address written without its postal code
func (r *Recognizer) applyKnownAddresses(text string) string {
	const kind = "ADDRESS"
	for _, e := range r.entities.Entities(kind) {
		forms := []string{e.Canonical}
		if short := strings.Trim(postalCode.ReplaceAllString(e.Canonical, ", "), ", "); short != e.Canonical {
			if r.entities.Alias(kind, short, e.Canonical) {
				forms = append(forms, short)
			}
		}
		for _, form := range forms {
			if utf8.RuneCountInString(form) <= minKnownAddress {
				continue
			}
			text = r.replaceLiteral(text, form, kind, e.Sensitive)
		}
	}
	return text
}

func (r *Recognizer) replaceLiteral(text, form, kind string, sensitive bool) string {
	tags := detector.TagSpans(text)
	var matches []detector.Match
	for from := 0; from < len(text); {
		i := strings.Index(text[from:], form)
		if i < 0 {
			break
		}
		span := detector.Span{Start: from + i, End: from + i + len(form)}
		from = span.End
		if detector.OverlapsAny(span, tags) || !isolated(text, span) {
			continue
		}
		matches = append(matches, detector.Match{
			Span:        span,
			Kind:        kind,
			Rule:        "known_address",
			Replacement: r.entities.Label(kind, form, sensitive),
		})
		r.counts[kind]++
	}
	return detector.Rewrite(text, matches)
}
