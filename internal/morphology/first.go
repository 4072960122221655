// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package morphology

import (
	"strings"

	"skryi/internal/names"
)

// firstNameRules is consulted in order once the exception tables miss
var firstNameRules = []suffixRule{
	{name: "ie-nominative", suffix: "ie", minLen: 3, then: keep},
	{name: "always-feminine", when: inAlwaysFeminine, then: keep},
	{name: "dictionary-feminine", when: dictionaryFeminine, then: keep},
	{name: "known-masculine-base", suffix: "a", minLen: 3, when: observedKnown, then: knownMasculineBase},
	{name: "known-masculine-base", suffix: "u", minLen: 3, when: observedKnown, then: knownMasculineBase},
	{name: "dictionary", when: observedKnown, then: keep},
	{name: "instrumental-ou", suffix: "ou", minLen: 4, then: feminineFromOu},
	{name: "masculine-genitive", suffix: "a", minLen: 3, then: masculineFromA},
	{name: "masculine-dative-u", suffix: "u", minLen: 3, when: stemKnown, then: stemOnly},
	{name: "foreign-vocative", suffix: "o", minLen: 3, then: foreignO},
	{name: "truncated", minLen: 3, when: func(f form) bool { return endsWithConsonant(f.lo) }, then: truncated},
	{name: "ice-ika", suffix: "ice", minLen: 4, then: appendKnown("ika")},
	{name: "re-ra", suffix: "ře", minLen: 3, then: appendKnown("ra")},
	{name: "ie-oblique", suffix: "ii", minLen: 4, then: ieFromOblique},
	{name: "ie-oblique", suffix: "ií", minLen: 4, then: ieFromOblique},
	{name: "feminine-genitive-y", suffix: "y", minLen: 3, then: feminineFromY},
	{name: "oblique-e", suffix: "ě", minLen: 3, then: fromE},
	{name: "oblique-e", suffix: "e", minLen: 3, then: fromE},
	{name: "feminine-vocative", suffix: "o", minLen: 3, then: feminineFromOU},
	{name: "feminine-accusative", suffix: "u", minLen: 3, then: feminineFromOU},
	{name: "dative-i", suffix: "i", minLen: 3, when: not(obsEndsWith("ovi")), then: fromI},
	{name: "masculine-oblique", minLen: 3, when: not(inAlwaysFeminine), then: masculineOblique},
	{name: "possessive-in", suffix: "in", minLen: 4, then: appendKnown("a")},
}

// NominativeOfFirst returns the nominative of an observed first name
func (e *Engine) NominativeOfFirst(observed string) string {
	nom, _ := e.ExplainFirst(observed)
	return nom
}

// ExplainFirst is NominativeOfFirst that also names the rule that decided
func (e *Engine) ExplainFirst(observed string) (string, string) {
	obs := strings.TrimSpace(observed)
	if obs == "" {
		return "", ""
	}
	lo := strings.ToLower(obs)
	if v, ok := irregularFirst[lo]; ok {
		return Capitalize(v), "irregular"
	}
	if v, ok := dativeFirst[lo]; ok {
		return Capitalize(v), "irregular-dative"
	}
	if out, rule, ok := e.dispatch(firstNameRules, lo); ok {
		return Capitalize(out), rule
	}
	return Capitalize(obs), "fallback"
}

// MasculineReadingOfFirst reads an observed first name as an oblique case of
// a masculine name, ignoring the feminine preference. It is used when a
// declined masculine surname accompanies the first name.
func (e *Engine) MasculineReadingOfFirst(observed string) (string, bool) {
	lo := strings.ToLower(strings.TrimSpace(observed))
	if lo == "" {
		return "", false
	}
	if v, ok := irregularFirst[lo]; ok && e.genderOf(v) != names.GenderFemale {
		return Capitalize(v), true
	}
	if strings.HasSuffix(lo, "a") && runeLen(lo) >= 3 {
		if out, ok := masculineFromA(form{e: e, lo: lo, stem: strings.TrimSuffix(lo, "a")}); ok {
			return Capitalize(out), true
		}
	}
	if out, ok := masculineOblique(form{e: e, lo: lo, stem: lo}); ok {
		return Capitalize(out), true
	}
	return "", false
}

// FeminineReadingOfFirst reads an observed first name as a feminine one. It
// is used when the accompanying surname is feminine.
func (e *Engine) FeminineReadingOfFirst(observed string) string {
	lo := strings.ToLower(strings.TrimSpace(observed))
	if lo == "" {
		return ""
	}
	if v, ok := dativeFirst[lo]; ok {
		return Capitalize(v)
	}
	if e.genderOf(lo) == names.GenderFemale || alwaysFeminine.has(lo) {
		return Capitalize(lo)
	}
	if strings.HasSuffix(lo, "ie") {
		return Capitalize(lo)
	}
	for _, suf := range []string{"ou", "y", "ě", "e", "u", "o", "i"} {
		if !strings.HasSuffix(lo, suf) || runeLen(lo) <= runeLen(suf)+1 {
			continue
		}
		stem := strings.TrimSuffix(lo, suf)
		if suf == "e" || suf == "i" {
			if e.known(stem + "e") {
				return Capitalize(stem + "e")
			}
			if out, ok := e.knownUnsoftened(stem); ok {
				return Capitalize(out)
			}
		}
		if e.known(stem+"a") || endsWithConsonant(stem) {
			return Capitalize(stem + "a")
		}
	}
	nom := e.NominativeOfFirst(lo)
	if e.GenderOfFirst(nom) == names.GenderFemale {
		return nom
	}
	return e.FeminineFirst(nom)
}

// FeminineFirst derives the feminine counterpart of a masculine nominative:
// Stanislav becomes Stanislava, Radek becomes Radka.
func (e *Engine) FeminineFirst(nominative string) string {
	lo := strings.ToLower(strings.TrimSpace(nominative))
	if lo == "" || hasAnySuffix(lo, "a", "e", "ie") {
		return Capitalize(lo)
	}
	if hasAnySuffix(lo, "ek", "el", "ec") && runeLen(lo) >= 4 && isConsonant(runeFromEnd(lo, 2)) {
		cand := dropRunes(lo, 2) + string(lastRune(lo)) + "a"
		if e.known(cand) || !e.known(lo+"a") {
			return Capitalize(cand)
		}
	}
	if strings.HasSuffix(lo, "ěk") {
		return Capitalize(softenBefore(dropRunes(lo, 2)) + "ka")
	}
	if endsWithConsonant(lo) {
		return Capitalize(lo + "a")
	}
	return Capitalize(lo)
}

func (e *Engine) genderOf(lo string) names.Gender {
	return e.dict.Gender(lo)
}

func inAlwaysFeminine(f form) bool { return alwaysFeminine.has(f.lo) }

func dictionaryFeminine(f form) bool {
	return f.e.genderOf(f.lo) == names.GenderFemale
}

// knownMasculineBase prefers Petr over Petra when both are names and the
// observation is not recorded as feminine
func knownMasculineBase(f form) (string, bool) {
	if f.e.known(f.stem) && (!strings.HasSuffix(f.stem, "a") || maleFirstWithA.has(f.stem)) {
		if commonMale.has(f.stem) || f.e.genderOf(f.stem) == names.GenderMale {
			return f.stem, true
		}
	}
	return "", false
}

func feminineFromOu(f form) (string, bool) {
	cand := f.stem + "a"
	if f.e.known(cand) || hasAnySuffix(cand, femaleFirstPatterns...) {
		return cand, true
	}
	if runeLen(f.stem) <= f.e.policy.FemaleOuStemMax {
		return cand, true
	}
	return "", false
}

// masculineFromA reads "Davida" as David and "Hynka" as Hynek
func masculineFromA(f form) (string, bool) {
	base := f.stem
	if v, ok := truncatedFirst[base]; ok {
		return v, true
	}
	if f.e.known(base) {
		return base, true
	}
	if v, ok := explicitO[base]; ok {
		return v, true
	}
	if f.e.known(base + "o") {
		return base + "o", true
	}
	if strings.HasSuffix(base, "k") || strings.HasSuffix(base, "l") {
		if cand := restoreE(base); f.e.known(cand) {
			return cand, true
		}
	}
	if hasAnySuffix(f.lo, femaleFirstPatterns...) {
		return "", false
	}
	if runeLen(base) >= 3 && hasAnySuffix(base, maleStemEndings...) {
		return base, true
	}
	return "", false
}

func foreignO(f form) (string, bool) {
	if v, ok := explicitO[f.stem]; ok {
		return v, true
	}
	if hasAnySuffix(f.lo, "co", "go", "io", "eo") {
		return f.lo, true
	}
	return "", false
}

func truncated(f form) (string, bool) {
	if v, ok := truncatedFirst[f.lo]; ok {
		return v, true
	}
	if cand := restoreE(f.lo); cand != f.lo && f.e.known(cand) {
		return cand, true
	}
	return "", false
}

func ieFromOblique(f form) (string, bool) {
	if f.e.known(f.stem + "ie") {
		return f.stem + "ie", true
	}
	if f.e.known(f.stem + "ia") {
		return f.stem + "ia", true
	}
	return f.stem + "ie", true
}

func feminineFromY(f form) (string, bool) {
	cand := f.stem + "a"
	if f.e.known(cand) {
		return cand, true
	}
	if endsWithConsonant(f.stem) {
		return cand, true
	}
	return "", false
}

// fromE handles genitive/vocative of masculine names (Tomáše) and the
// dative/locative of feminine ones (Evě, Zuzaně, Lence)
func fromE(f form) (string, bool) {
	e := f.e
	if out, ok := e.knownUnsoftened(f.stem); ok {
		return out, true
	}
	baseKnown, femKnown := e.known(f.stem), e.known(f.stem+"a")
	switch {
	case baseKnown && femKnown:
		if runeLen(f.stem) >= 4 && hasAnySuffix(f.stem, maleStemEndings...) {
			return f.stem, true
		}
		return f.stem + "a", true
	case baseKnown:
		return f.stem, true
	case femKnown:
		return f.stem + "a", true
	}
	if runeLen(f.stem) >= 3 && hasAnySuffix(f.stem, maleStemEndings...) {
		return f.stem, true
	}
	if hasAnySuffix(f.stem+"a", femaleFirstPatterns...) {
		return f.stem + "a", true
	}
	return "", false
}

func feminineFromOU(f form) (string, bool) {
	cand := f.stem + "a"
	if f.e.known(cand) || hasAnySuffix(cand, femaleFirstPatterns...) {
		return cand, true
	}
	return "", false
}

// fromI covers Tomáši, Alici and Saši
func fromI(f form) (string, bool) {
	switch {
	case f.e.known(f.stem):
		return f.stem, true
	case f.e.known(f.stem + "e"):
		return f.stem + "e", true
	case f.e.known(f.stem + "a"):
		return f.stem + "a", true
	}
	return "", false
}

// masculineOblique strips dative, instrumental and genitive endings of
// masculine names: Petrovi, Tomášem, Marka, Hynku.
func masculineOblique(f form) (string, bool) {
	e, lo := f.e, f.lo
	var fallback string

	switch {
	case strings.HasSuffix(lo, "ovi") && runeLen(lo) > 4:
		stem := strings.TrimSuffix(lo, "ovi")
		if v, ok := explicitO[stem]; ok {
			return v, true
		}
		if e.known(stem) {
			return stem, true
		}
		if hasAnySuffix(stem, "l", "n", "t", "r", "k") {
			if cand := restoreE(stem); e.known(cand) {
				return cand, true
			}
		}
		if n := runeLen(stem); n >= 2 && n <= 4 && maleFirstWithA.has(stem+"a") {
			return stem + "a", true
		}
		fallback = stem

	case strings.HasSuffix(lo, "em") && runeLen(lo) > 3:
		stem := strings.TrimSuffix(lo, "em")
		if v, ok := explicitO[stem]; ok {
			return v, true
		}
		if e.known(stem) {
			return stem, true
		}
		if v, ok := emVlozneE[stem]; ok {
			return v, true
		}
		if cand := restoreE(stem); e.known(cand) {
			return cand, true
		}
		if runeLen(lo) >= e.policy.MaleFallbackMin && hasAnySuffix(stem, maleStemEndings...) {
			fallback = stem
		}

	case hasAnySuffix(lo, "ka", "la", "ce"):
		stem := dropRunes(lo, 2)
		cand := stem + map[string]string{"ka": "ek", "la": "el", "ce": "ec"}[lo[len(stem):]]
		if e.known(cand) {
			return cand, true
		}
		if n := runeLen(lo); n >= e.policy.MaleFallbackMin && n <= e.policy.MaleFallbackMin+1 {
			fallback = cand
		}

	case strings.HasSuffix(lo, "i"):
		stem := strings.TrimSuffix(lo, "i")
		if e.known(stem) {
			return stem, true
		}
		if runeLen(stem) >= 3 && hasAnySuffix(stem, "ž", "š", "č", "ř", "c", "j", "ď", "ť", "ň") {
			fallback = stem
		}

	case strings.HasSuffix(lo, "ou"):
		return "", false

	case strings.HasSuffix(lo, "u"):
		stem := strings.TrimSuffix(lo, "u")
		if e.known(stem) {
			return stem, true
		}
		if hasAnySuffix(stem, "k", "l", "n", "t", "r") {
			if cand := restoreE(stem); e.known(cand) {
				return cand, true
			}
		}

	case strings.HasSuffix(lo, "a"):
		stem := strings.TrimSuffix(lo, "a")
		if e.known(stem) {
			return stem, true
		}
		if hasAnySuffix(stem, maleStemEndings...) {
			fallback = stem
		}
	}

	if fallback != "" {
		return fallback, true
	}
	return "", false
}

// restoreE re-inserts the vowel dropped in oblique cases: pavl -> pavel,
// zdeňk -> zdeněk
func restoreE(stem string) string {
	if runeLen(stem) < 3 || !isConsonant(runeFromEnd(stem, 1)) {
		return stem
	}
	last := string(lastRune(stem))
	head := dropRunes(stem, 1)
	switch lastRune(head) {
	case 'ň', 'ď', 'ť':
		return hardenSoft(head) + "ě" + last
	}
	return head + "e" + last
}

// softenBefore turns the hard consonant before a dropped -ěk into its soft
// spelling: zdeněk -> zdeňka
func softenBefore(stem string) string {
	switch lastRune(stem) {
	case 'n':
		return dropRunes(stem, 1) + "ň"
	case 'd':
		return dropRunes(stem, 1) + "ď"
	case 't':
		return dropRunes(stem, 1) + "ť"
	}
	return stem
}

// unsoften reverses the consonant change of the feminine dative:
// lenc -> lenk, petř -> petr, olz -> olh or olg
func unsoften(stem string) []string {
	switch {
	case strings.HasSuffix(stem, "c"):
		return []string{strings.TrimSuffix(stem, "c") + "k"}
	case strings.HasSuffix(stem, "ř"):
		return []string{strings.TrimSuffix(stem, "ř") + "r"}
	case strings.HasSuffix(stem, "z"):
		base := strings.TrimSuffix(stem, "z")
		return []string{base + "h", base + "g"}
	case strings.HasSuffix(stem, "š"):
		return []string{strings.TrimSuffix(stem, "š") + "ch"}
	}
	return nil
}

// knownUnsoftened returns the first unsoftened stem+a that is a known name
func (e *Engine) knownUnsoftened(stem string) (string, bool) {
	for _, cand := range unsoften(stem) {
		if e.known(cand + "a") {
			return cand + "a", true
		}
	}
	return "", false
}
