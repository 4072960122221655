// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package morphology

import (
	"sort"
	"strings"

	"skryi/internal/names"
)

var (
	hardMasculineEndings = []string{"a", "u", "ovi", "em", "e"}
	softMasculineEndings = []string{"e", "i", "ovi", "em"}
	possessiveEndings    = []string{"ův", "ova", "ovo", "ovu", "ovy", "ových", "ovým"}
	aStemMasculine       = []string{"a", "y", "ovi", "u", "o", "ou"}
	aStemFeminine        = []string{"a", "y", "u", "o", "ou", "in", "ina", "iny", "inu"}
	softConsonants       = []string{"ž", "š", "č", "ř", "c", "j", "ď", "ť", "ň"}
)

// InflectionsOfFirst expands a nominative first name into the surface forms
// it takes across the grammatical cases, the nominative included.
func (e *Engine) InflectionsOfFirst(nominative string) []string {
	lo := strings.ToLower(strings.TrimSpace(nominative))
	if lo == "" {
		return nil
	}
	out := newSet(lo)
	if e.GenderOfFirst(lo) == names.GenderFemale {
		feminineFirstForms(lo, out)
	} else {
		masculineFirstForms(lo, out)
	}
	return capitalizedList(out)
}

// InflectionsOfSurname expands a nominative surname into its case forms
func (e *Engine) InflectionsOfSurname(nominative string) []string {
	lo := strings.ToLower(strings.TrimSpace(nominative))
	if lo == "" {
		return nil
	}
	out := newSet(lo)
	surnameForms(lo, out)
	return capitalizedList(out)
}

func feminineFirstForms(lo string, out set) {
	switch {
	case strings.HasSuffix(lo, "ie"):
		addEndings(out, strings.TrimSuffix(lo, "ie"), "ie", "ii", "ií")
	case strings.HasSuffix(lo, "e"):
		addEndings(out, strings.TrimSuffix(lo, "e"), "e", "i", "í")
	case strings.HasSuffix(lo, "a"):
		stem := strings.TrimSuffix(lo, "a")
		feminineAStem(stem, out)
	case endsWithConsonant(lo):
		feminineAStem(lo, out)
	}
}

func feminineAStem(stem string, out set) {
	if hasAnySuffix(stem, softConsonants...) {
		addEndings(out, stem, "a", "e", "i", "u", "o", "ou")
	} else {
		addEndings(out, stem, aStemFeminine...)
	}
	out[softDative(stem)] = struct{}{}
}

// softDative builds the dative/locative of a feminine a-stem: Lenka -> Lence,
// Petra -> Petře, Eva -> Evě, Olga -> Olze
func softDative(stem string) string {
	switch {
	case strings.HasSuffix(stem, "ch"):
		return strings.TrimSuffix(stem, "ch") + "še"
	case strings.HasSuffix(stem, "k"):
		return strings.TrimSuffix(stem, "k") + "ce"
	case strings.HasSuffix(stem, "g"), strings.HasSuffix(stem, "h"):
		return dropRunes(stem, 1) + "ze"
	case strings.HasSuffix(stem, "r"):
		return dropRunes(stem, 1) + "ře"
	case strings.HasSuffix(stem, "ň"):
		return dropRunes(stem, 1) + "ně"
	case hasAnySuffix(stem, "d", "t", "n", "m", "b", "p", "v", "f"):
		return stem + "ě"
	}
	return stem + "e"
}

func masculineFirstForms(lo string, out set) {
	switch {
	case strings.HasSuffix(lo, "í"):
		addEndings(out, strings.TrimSuffix(lo, "í"), "í", "ího", "ímu", "ím")
	case hasAnySuffix(lo, "é", "e"):
		addEndings(out, lo, "ho", "mu", "m")
	case strings.HasSuffix(lo, "o"):
		stem := strings.TrimSuffix(lo, "o")
		addEndings(out, stem, "o", "a", "ovi", "u", "em")
		addEndings(out, stem, possessiveEndings...)
	case strings.HasSuffix(lo, "a"):
		stem := strings.TrimSuffix(lo, "a")
		addEndings(out, stem, aStemMasculine...)
		addEndings(out, stem, possessiveEndings...)
	default:
		masculineConsonantForms(firstObliqueStem(lo), out)
	}
}

// firstObliqueStem drops the inserted vowel: Pavel -> Pavl, Radek -> Radk,
// Zdeněk -> Zdeňk
func firstObliqueStem(lo string) string {
	if strings.HasSuffix(lo, "ěk") && runeLen(lo) >= 4 {
		return softenBefore(dropRunes(lo, 2)) + "k"
	}
	if hasAnySuffix(lo, "ek", "ec") && runeLen(lo) >= 4 && isConsonant(runeFromEnd(lo, 2)) {
		return dropRunes(lo, 2) + string(lastRune(lo))
	}
	for stem, nom := range emVlozneE {
		if nom == lo {
			return stem
		}
	}
	return lo
}

func masculineConsonantForms(stem string, out set) {
	if hasAnySuffix(stem, softConsonants...) {
		addEndings(out, stem, softMasculineEndings...)
	} else {
		addEndings(out, stem, hardMasculineEndings...)
		if strings.HasSuffix(stem, "r") {
			out[dropRunes(stem, 1)+"ře"] = struct{}{}
		}
	}
	addEndings(out, stem, possessiveEndings...)
}

func surnameForms(lo string, out set) {
	switch {
	case strings.HasSuffix(lo, "á"):
		addEndings(out, strings.TrimSuffix(lo, "á"), "á", "é", "ou")
	case strings.HasSuffix(lo, "ý"):
		addEndings(out, strings.TrimSuffix(lo, "ý"), "ý", "ého", "ému", "ým", "ém", "í")
	case strings.HasSuffix(lo, "í"):
		addEndings(out, strings.TrimSuffix(lo, "í"), "í", "ího", "ímu", "ím")
	case strings.HasSuffix(lo, "a"):
		stem := strings.TrimSuffix(lo, "a")
		addEndings(out, stem, aStemMasculine...)
		addEndings(out, stem, possessiveEndings...)
	case strings.HasSuffix(lo, "o"):
		addEndings(out, strings.TrimSuffix(lo, "o"), "a", "ovi", "em")
	case endsWithConsonant(lo):
		masculineConsonantForms(surnameObliqueStem(lo), out)
	}
}

// surnameObliqueStem drops the inserted vowel of Hájek, Němec, Havel and
// Vaněk; Švec keeps it because the remaining stem is too short
func surnameObliqueStem(lo string) string {
	if strings.HasSuffix(lo, "ěk") && runeLen(lo) >= 4 {
		return softenBefore(dropRunes(lo, 2)) + "k"
	}
	if hasAnySuffix(lo, "ek", "ec") && runeLen(lo) >= 5 && isConsonant(runeFromEnd(lo, 2)) {
		return dropRunes(lo, 2) + string(lastRune(lo))
	}
	if strings.HasSuffix(lo, "el") {
		stem := dropRunes(lo, 2) + "l"
		if surnameVlozneE.has(stem) {
			return stem
		}
	}
	return lo
}

func addEndings(out set, stem string, endings ...string) {
	for _, end := range endings {
		out[stem+end] = struct{}{}
	}
}

func capitalizedList(s set) []string {
	list := make([]string, 0, len(s))
	for form := range s {
		if runeLen(form) >= 2 {
			list = append(list, Capitalize(form))
		}
	}
	sort.Strings(list)
	return list
}
