// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package morphology

import (
	"strings"

	"skryi/internal/names"
)

var (
	maleWithE     = newSet("rene", "rené", "pierre", "andre", "antoine", "mike", "steve", "george")
	femaleOddName = newSet(
		"ruth", "esther", "carmen", "mercedes", "dagmar", "ingrid", "margit",
		"alice", "beatrice", "rose", "marie", "sophie", "chloe", "irene",
		"elvira", "elena", "nadia",
	)
	maleWithAForeign = newSet("joshua", "luca", "nicola", "andrea")
)

// GenderOfFirst returns the gender of a nominative first name. The
// dictionary decides when it knows the name; otherwise the ending does.
func (e *Engine) GenderOfFirst(name string) names.Gender {
	lo := strings.ToLower(strings.TrimSpace(name))
	if lo == "" {
		return names.GenderUnknown
	}
	if g := e.dict.Gender(lo); g != names.GenderUnknown {
		return g
	}
	switch {
	case maleWithE.has(lo), maleFirstWithA.has(lo):
		return names.GenderMale
	case femaleOddName.has(lo):
		return names.GenderFemale
	case strings.HasSuffix(lo, "a"):
		if maleWithAForeign.has(lo) {
			return names.GenderMale
		}
		return names.GenderFemale
	case hasAnySuffix(lo, "ie", "y"):
		return names.GenderFemale
	}
	return names.GenderMale
}

// IsFeminineSurname reports whether a nominative surname has a feminine
// form (Nováková, Černá, Horská)
func IsFeminineSurname(nominative string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(nominative)), "á")
}

// FeminineSurname derives the feminine form of a masculine surname:
// Novák -> Nováková, Černý -> Černá, Hájek -> Hájková, Svoboda -> Svobodová.
func FeminineSurname(nominative string) string {
	lo := strings.ToLower(strings.TrimSpace(nominative))
	switch {
	case lo == "" || strings.HasSuffix(lo, "á") || strings.HasSuffix(lo, "í"):
		return Capitalize(lo)
	case strings.HasSuffix(lo, "ý"):
		return Capitalize(strings.TrimSuffix(lo, "ý") + "á")
	case strings.HasSuffix(lo, "a"), strings.HasSuffix(lo, "o"):
		return Capitalize(dropRunes(lo, 1) + "ová")
	case endsWithConsonant(lo):
		return Capitalize(surnameObliqueStem(lo) + "ová")
	}
	return Capitalize(lo)
}

// MasculineSurname derives the masculine form of a feminine surname:
// Nováková -> Novák, Černá -> Černý, Hájková -> Hájek, Svobodová -> Svoboda.
func MasculineSurname(nominative string) string {
	lo := strings.ToLower(strings.TrimSpace(nominative))
	switch {
	case strings.HasSuffix(lo, "ová"):
		stem := strings.TrimSuffix(lo, "ová")
		if maleSurnamesWithA.has(stem + "a") {
			return Capitalize(stem + "a")
		}
		if runeLen(stem) >= 3 && isConsonant(runeFromEnd(stem, 1)) {
			switch lastRune(stem) {
			case 'k', 'c':
				return Capitalize(restoreE(stem))
			case 'l':
				if surnameVlozneE.has(stem) {
					return Capitalize(restoreE(stem))
				}
			}
		}
		return Capitalize(stem)
	case strings.HasSuffix(lo, "á"):
		return Capitalize(strings.TrimSuffix(lo, "á") + "ý")
	}
	return Capitalize(lo)
}

// IsValidSurnameVariant reports whether observed is a case form of the
// nominative surname that agrees with the bearer's gender.
func (e *Engine) IsValidSurnameVariant(observed, nominative string, gender names.Gender) bool {
	obs := strings.TrimSpace(observed)
	if obs == "" || nominative == "" {
		return false
	}
	inferred := e.NominativeOfSurname(obs)
	switch gender {
	case names.GenderFemale:
		if !IsFeminineSurname(inferred) && IsFeminineSurname(nominative) {
			return false
		}
	case names.GenderMale:
		if IsFeminineSurname(inferred) && !IsFeminineSurname(nominative) {
			return false
		}
	}
	if NormalizeKey(inferred) == NormalizeKey(nominative) {
		return true
	}
	for _, form := range e.InflectionsOfSurname(nominative) {
		if strings.EqualFold(form, obs) {
			return true
		}
	}
	return false
}

// ResolvePair normalizes an observed (first, last) pair. When a surname is
// present its gender is used as evidence for ambiguous first names: a
// feminine surname forces the feminine reading, a declined masculine
// surname forces the masculine one (Pavla Zíky -> Pavel Zíka).
func (e *Engine) ResolvePair(first, last string) (string, string) {
	firstNom := e.NominativeOfFirst(first)
	lastNom := e.NominativeOfSurname(last)
	if firstNom == "" || lastNom == "" {
		return firstNom, lastNom
	}

	switch {
	case IsFeminineSurname(lastNom):
		if e.GenderOfFirst(firstNom) != names.GenderFemale {
			firstNom = e.FeminineReadingOfFirst(first)
		}
	case e.GenderOfFirst(firstNom) == names.GenderFemale && NormalizeKey(last) != NormalizeKey(lastNom):
		if m, ok := e.MasculineReadingOfFirst(first); ok {
			firstNom = m
		}
	}
	return firstNom, lastNom
}
