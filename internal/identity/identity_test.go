// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skryi/internal/morphology"
	"skryi/internal/names"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	dict, err := names.Load("")
	require.NoError(t, err)
	return New(morphology.New(dict))
}

func TestEnsure_InflectedFormsShareTag(t *testing.T) {
	r := newTestRegistry(t)

	tag, canonical := r.Ensure("Pavel", "Zíka")
	assert.Equal(t, "[[PERSON_1]]", tag)
	assert.Equal(t, "Pavel Zíka", canonical)

	for _, pair := range [][2]string{{"Pavla", "Zíky"}, {"Pavlovi", "Zíkovi"}, {"Pavlem", "Zíkou"}} {
		got, canon := r.Ensure(pair[0], pair[1])
		assert.Equal(t, tag, got, "%s %s", pair[0], pair[1])
		assert.Equal(t, "Pavel Zíka", canon)
	}
	assert.Equal(t, 1, r.Len())

	p, ok := r.ByTag(tag)
	require.True(t, ok)
	assert.Equal(t, 4, p.Occurrences())
	assert.Equal(t, names.GenderMale, p.Gender)
}

func TestEnsure_GenitiveMergesWithNominative(t *testing.T) {
	r := newTestRegistry(t)
	a, _ := r.Ensure("Karel", "Řehoř")
	b, canonical := r.Ensure("Karla", "Řehoře")
	assert.Equal(t, a, b)
	assert.Equal(t, "Karel Řehoř", canonical)

	res := r.Finalize("Karel Řehoř podepsal. Podpis Karla Řehoře.")
	require.Len(t, res.Identities, 1)
	assert.Equal(t, "Karel Řehoř", res.Identities[0].Canonical())
	assert.Empty(t, res.Relabel)
}

func TestEnsure_GenitiveFirstSeen(t *testing.T) {
	r := newTestRegistry(t)
	a, canonical := r.Ensure("Karla", "Řehoře")
	assert.Equal(t, "Karel Řehoř", canonical)
	b, _ := r.Ensure("Karel", "Řehoř")
	assert.Equal(t, a, b)
}

func TestEnsure_FeminineSurnameDrivesFirstName(t *testing.T) {
	r := newTestRegistry(t)
	_, canonical := r.Ensure("Jany", "Novákové")
	assert.Equal(t, "Jana Nováková", canonical)

	male, _ := r.Ensure("Jan", "Novák")
	female, _ := r.Ensure("Jana", "Nováková")
	assert.NotEqual(t, male, female)
}

func TestEnsure_PartialMentions(t *testing.T) {
	r := newTestRegistry(t)
	full, _ := r.Ensure("Jan", "Novák")

	tag, canonical := r.Ensure("", "Nováka")
	assert.Equal(t, full, tag)
	assert.Equal(t, "Jan Novák", canonical)

	tag, canonical = r.Ensure("", "Dvořák")
	assert.Equal(t, "[[PERSON_2]]", tag)
	assert.Equal(t, "Dvořák", canonical)

	tag, _ = r.Ensure("", "")
	assert.Empty(t, tag)
}

func TestEnsure_PartialMergedAtFinalize(t *testing.T) {
	r := newTestRegistry(t)
	partial, _ := r.Ensure("", "Dvořáka")
	full, _ := r.Ensure("Petr", "Dvořák")
	assert.NotEqual(t, partial, full)

	res := r.Finalize("Smlouvu s panem Dvořáka a Petr Dvořák podepsal.")
	require.Len(t, res.Identities, 1)
	assert.Equal(t, "Petr Dvořák", res.Identities[0].Canonical())
	assert.Equal(t, "[[PERSON_1]]", res.Identities[0].Tag)
	assert.Equal(t, map[string]string{"[[PERSON_2]]": "[[PERSON_1]]"}, res.Relabel)
	assert.Equal(t, 1, res.Merged)
	assert.Equal(t, "[[PERSON_1]] a [[PERSON_1]]", res.Apply("[[PERSON_1]] a [[PERSON_2]]"))
}

func TestFinalize_PrunesUnsupportedIdentities(t *testing.T) {
	r := newTestRegistry(t)
	r.Ensure("Eva", "Veselá")
	ghost := r.create("Alfa", "Beta")
	ghost.observe("Alfa Beta")
	r.Ensure("Petr", "Zeman")

	res := r.Finalize("Eva Veselá a Petr Zeman.")
	require.Len(t, res.Identities, 2)
	assert.Equal(t, 1, res.Pruned)
	assert.Equal(t, "Alfa Beta", res.Relabel["[[PERSON_2]]"])
	assert.Equal(t, "[[PERSON_2]]", res.Relabel["[[PERSON_3]]"])
	assert.Equal(t, "[[PERSON_1]], Alfa Beta, [[PERSON_2]]", res.Apply("[[PERSON_1]], [[PERSON_2]], [[PERSON_3]]"))

	for i, p := range res.Identities {
		assert.Equal(t, i+1, p.index)
	}
}

func TestFinalize_NoDuplicateKeys(t *testing.T) {
	r := newTestRegistry(t)
	a := r.create("Tomáš", "Hájek")
	a.observe("Tomáš Hájek")
	b := r.create("Tomáše", "Hájka")
	b.observe("Tomáše Hájka")

	res := r.Finalize("Tomáš Hájek a Tomáše Hájka")
	seen := make(map[personKey]bool)
	for _, p := range res.Identities {
		assert.False(t, seen[p.key()], p.Tag)
		seen[p.key()] = true
	}
	require.Len(t, res.Identities, 1)
	assert.Equal(t, "Tomáš Hájek", res.Identities[0].Canonical())
}

func TestFinalize_CanonicalPresenceRepair(t *testing.T) {
	r := newTestRegistry(t)
	p := r.create("Pavel", "Zíkův")
	p.observe("Pavla Zíky")
	p.observe("Pavla Zíky")

	res := r.Finalize("Bez Pavla Zíky to nepůjde, řekl jsem Pavla Zíky.")
	require.Len(t, res.Identities, 1)
	assert.Equal(t, "Pavel Zíka", res.Identities[0].Canonical())
	assert.Equal(t, 1, res.Repaired)
}

func TestFinalize_GenderRepair(t *testing.T) {
	r := newTestRegistry(t)
	p := r.create("Stanislav", "Horáková")
	p.observe("Stanislav Horáková")
	p.observe("Stanislava Horáková")

	res := r.Finalize("Stanislav Horáková, správně Stanislava Horáková")
	require.Len(t, res.Identities, 1)
	assert.Equal(t, "Stanislava Horáková", res.Identities[0].Canonical())
	assert.Equal(t, names.GenderFemale, res.Identities[0].Gender)
	assert.Equal(t, 1, res.GenderRepaired)
	assert.Equal(t, PassGender, res.Events[0].Pass)
}

func TestFinalize_RunsOnce(t *testing.T) {
	r := newTestRegistry(t)
	r.Ensure("Eva", "Veselá")
	first := r.Finalize("Eva Veselá")
	second := r.Finalize("")
	assert.Same(t, first, second)
}

func TestFindKnown(t *testing.T) {
	r := newTestRegistry(t)
	p := r.EnsureIdentity("Pavel", "Zíka")

	text := "Dopis pro Pavla Zíku. PAVEL ZIKA. pavel zíka. Pavla Zíkové. XPavla Zíky"
	got := r.FindKnown(text)
	require.Len(t, got, 2)
	assert.Equal(t, "Pavla Zíku", got[0].Surface)
	assert.Same(t, p, got[0].Identity)
	assert.False(t, got[0].Folded)
	assert.Equal(t, "PAVEL ZIKA", got[1].Surface)
	assert.True(t, got[1].Folded)
	assert.Equal(t, "PAVEL ZIKA", text[got[1].Start:got[1].End])

	assert.Empty(t, New(nil).FindKnown(text))
}

func TestRows(t *testing.T) {
	r := newTestRegistry(t)
	r.Ensure("Pavel", "Zíka")
	r.Ensure("Pavla", "Zíky")
	r.Ensure("Pavel", "Zíka")

	p, _ := r.ByTag("[[PERSON_1]]")
	rows := p.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "Pavel Zíka", rows[0].Original)
	assert.Equal(t, 2, rows[0].Occurrences)
	assert.Empty(t, rows[0].Canonical)
	assert.Equal(t, "Pavla Zíky", rows[1].Original)
	assert.Equal(t, "Pavel Zíka", rows[1].Canonical)
}

func TestSurnameStem(t *testing.T) {
	tests := map[string]string{
		"Procházková": "procházk",
		"Procházka":   "procházk",
		"Hájek":       "hájk",
		"Hruška":      "hrušk",
		"Havel":       "havl",
		"Němec":       "němc",
		"Malá":        "mal",
		"Novák":       "novák",
	}
	for in, want := range tests {
		assert.Equal(t, want, surnameStem(in), in)
	}
}
