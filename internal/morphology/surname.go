// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package morphology

import "strings"

// surnameRules is the ordered suffix table for surnames. Exception tables
// come first; endings that carry an inserted vowel are stripped before the
// plain case endings they share letters with.
var surnameRules = []suffixRule{
	{name: "male-a-surname", when: inSet(maleSurnamesWithA), then: keep},
	{name: "animal-plant", when: inSet(animalPlantSurnames), then: keep},

	{name: "adjectival-feminine", suffix: "é", minLen: 4, then: appendTo("á")},
	{name: "adjectival-instrumental-ou", suffix: "ou", minLen: 4, then: surnameFromOu},
	{name: "adjectival-genitive", suffix: "ého", minLen: 5, then: appendTo("ý")},
	{name: "adjectival-dative", suffix: "ému", minLen: 5, then: appendTo("ý")},
	{name: "adjectival-instrumental", suffix: "ým", minLen: 4, then: appendTo("ý")},
	{name: "adjectival-locative", suffix: "ém", minLen: 4, then: appendTo("ý")},
	{name: "soft-adjectival", suffix: "ího", minLen: 5, then: appendTo("í")},
	{name: "soft-adjectival", suffix: "ímu", minLen: 5, then: appendTo("í")},
	{name: "soft-adjectival", suffix: "ím", minLen: 4, then: appendTo("í")},

	{name: "inserted-e", suffix: "ovi", minLen: 6, when: stemIn(surnameVlozneE), then: restoreSurnameE},
	{name: "inserted-e", suffix: "em", minLen: 5, when: stemIn(surnameVlozneE), then: restoreSurnameE},
	{name: "inserted-e", suffix: "a", minLen: 4, when: stemIn(surnameVlozneE), then: restoreSurnameE},
	{name: "inserted-e", suffix: "u", minLen: 4, when: stemIn(surnameVlozneE), then: restoreSurnameE},

	{name: "ec-oblique", suffix: "covi", minLen: 6, then: restoreEc},
	{name: "ec-oblique", suffix: "cem", minLen: 5, then: restoreEc},
	{name: "ec-oblique", suffix: "ci", minLen: 4, then: restoreEc},
	{name: "ec-oblique", suffix: "cu", minLen: 4, then: restoreEc},
	{name: "ec-genitive", suffix: "ce", minLen: 4, then: fromCe},

	{name: "ek-oblique", suffix: "kovi", minLen: 6, when: stemConsonant, then: restoreEk},
	{name: "ek-oblique", suffix: "kem", minLen: 5, when: stemConsonant, then: restoreEk},
	{name: "ek-oblique", suffix: "ku", minLen: 4, when: stemConsonant, then: restoreEk},
	{name: "ek-genitive", suffix: "ka", minLen: 4, when: shortKaStem, then: restoreEk},

	{name: "dative", suffix: "ovi", minLen: 5, then: maleAOrStem},
	{name: "instrumental", suffix: "em", minLen: 5, when: stemConsonant, then: stemOnly},
	{name: "dative-u", suffix: "u", minLen: 4, when: stemConsonant, then: maleAOrStem},
	{name: "a-stem-instrumental", suffix: "ou", minLen: 4, when: stemConsonant, then: appendTo("a")},
	{name: "soft-genitive", suffix: "ě", minLen: 4, then: fromSoftE},
	{name: "soft-genitive", suffix: "e", minLen: 4, then: fromSoftE},
	{name: "genitive-a", suffix: "a", minLen: 4, when: stemConsonant, then: fromGenitiveA},
	{name: "genitive-y", suffix: "y", minLen: 4, when: stemConsonant, then: fromGenitiveY},
	{name: "truncated-a", minLen: 3, when: func(f form) bool {
		return endsWithConsonant(f.lo) && !consonantSurnames.has(f.lo) && maleSurnamesWithA.has(f.lo+"a")
	}, then: func(f form) (string, bool) { return f.lo + "a", true }},
}

// NominativeOfSurname returns the nominative of an observed surname.
// Double-barrelled surnames are inferred part by part.
func (e *Engine) NominativeOfSurname(observed string) string {
	nom, _ := e.ExplainSurname(observed)
	return nom
}

// ExplainSurname is NominativeOfSurname that also names the deciding rule
func (e *Engine) ExplainSurname(observed string) (string, string) {
	obs := strings.TrimSpace(observed)
	if obs == "" {
		return "", ""
	}
	if strings.Contains(obs, "-") {
		parts := strings.Split(obs, "-")
		for i, p := range parts {
			parts[i], _ = e.ExplainSurname(p)
		}
		return strings.Join(parts, "-"), "double-barrelled"
	}
	lo := strings.ToLower(obs)
	if out, rule, ok := e.dispatch(surnameRules, lo); ok {
		return Capitalize(out), rule
	}
	return Capitalize(obs), "fallback"
}

func inSet(s set) func(form) bool {
	return func(f form) bool { return s.has(f.lo) }
}

func stemIn(s set) func(form) bool {
	return func(f form) bool { return s.has(f.stem) }
}

// surnameFromOu handles Novákovou, Malou and Zíkou
func surnameFromOu(f form) (string, bool) {
	if maleSurnamesWithA.has(f.stem + "a") {
		return f.stem + "a", true
	}
	if hasAnySuffix(f.stem, "ov", "sk", "ck", "n", "l", "r", "h", "d", "t") {
		return f.stem + "á", true
	}
	return "", false
}

func restoreSurnameE(f form) (string, bool) {
	return insertE(f.stem), true
}

// restoreEc turns Němc- into Němec and Šve- into Švec
func restoreEc(f form) (string, bool) {
	if endsWithConsonant(f.stem) && runeLen(f.stem) >= 2 {
		if maleSurnamesWithA.has(f.stem + "ca") {
			return f.stem + "ca", true
		}
		return f.stem + "ec", true
	}
	return f.stem + "c", true
}

// fromCe resolves -ce as the genitive of -ec (Němce) or the dative of an
// -ka surname (Zíce)
func fromCe(f form) (string, bool) {
	if maleSurnamesWithA.has(f.stem + "ka") {
		return f.stem + "ka", true
	}
	return restoreEc(f)
}

func shortKaStem(f form) bool {
	if !endsWithConsonant(f.stem) {
		return false
	}
	return hasAnySuffix(f.stem, kaInsertE...) || runeLen(f.stem) <= f.e.policy.ShortStemMax
}

// restoreEk turns Hájk- into Hájek and Vaňk- into Vaněk unless the -ka
// reading is a known surname
func restoreEk(f form) (string, bool) {
	if maleSurnamesWithA.has(f.stem + "ka") {
		return f.stem + "ka", true
	}
	switch lastRune(f.stem) {
	case 'ň', 'ď', 'ť':
		return hardenSoft(f.stem) + "ěk", true
	}
	return f.stem + "ek", true
}

func maleAOrStem(f form) (string, bool) {
	if maleSurnamesWithA.has(f.stem + "a") {
		return f.stem + "a", true
	}
	if !endsWithConsonant(f.stem) {
		return "", false
	}
	return f.stem, true
}

// fromSoftE handles Řehoře, Beneše and the dative of -a surnames (Kučeře,
// Svobodě)
func fromSoftE(f form) (string, bool) {
	for _, cand := range append(unsoften(f.stem), f.stem) {
		if maleSurnamesWithA.has(cand + "a") {
			return cand + "a", true
		}
	}
	if !endsWithConsonant(f.stem) {
		return "", false
	}
	if strings.HasSuffix(f.lo, "ě") {
		return f.stem + "a", true
	}
	return f.stem, true
}

// fromGenitiveA strips the genitive -a of hard masculine surnames (Nováka,
// Dvořáka, Kratochvíla) and keeps typical nominatives in -a (Procházka)
func fromGenitiveA(f form) (string, bool) {
	if hasAnySuffix(f.lo, "áka", "íka", "ýka", "ala", "íla", "ara", "ána", "ína") {
		return f.stem, true
	}
	if hasAnySuffix(f.lo, typicalSurnameA...) {
		return f.lo, true
	}
	return f.stem, true
}

// fromGenitiveY reads Svobody as Svoboda and Zíky as Zíka
func fromGenitiveY(f form) (string, bool) {
	cand := f.stem + "a"
	if maleSurnamesWithA.has(cand) || hasAnySuffix(cand, typicalSurnameA...) {
		return cand, true
	}
	return f.stem, true
}
