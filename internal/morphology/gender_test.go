// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package morphology

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"skryi/internal/names"
)

func TestGenderOfFirst(t *testing.T) {
	e := newTestEngine(t)
	tests := []struct {
		name string
		want names.Gender
	}{
		{"Pavel", names.GenderMale},
		{"Pavla", names.GenderFemale},
		{"Kuba", names.GenderMale},
		{"Lucie", names.GenderFemale},
		{"Nadia", names.GenderFemale},
		{"Joshua", names.GenderMale},
		{"Pierre", names.GenderMale},
		{"Kristy", names.GenderFemale},
		{"Xaver", names.GenderMale},
		{"", names.GenderUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, e.GenderOfFirst(tt.name), tt.name)
	}
}

func TestSurnameGenderConversion(t *testing.T) {
	pairs := []struct{ masculine, feminine string }{
		{"Novák", "Nováková"},
		{"Černý", "Černá"},
		{"Hájek", "Hájková"},
		{"Němec", "Němcová"},
		{"Svoboda", "Svobodová"},
		{"Havel", "Havlová"},
		{"Vaněk", "Vaňková"},
		{"Fiala", "Fialová"},
		{"Říha", "Říhová"},
		{"Kratochvíl", "Kratochvílová"},
	}
	for _, p := range pairs {
		assert.Equal(t, p.feminine, FeminineSurname(p.masculine), p.masculine)
		assert.Equal(t, p.masculine, MasculineSurname(p.feminine), p.feminine)
	}
	assert.True(t, IsFeminineSurname("Horáková"))
	assert.False(t, IsFeminineSurname("Zíka"))
	assert.Equal(t, "Krejčí", FeminineSurname("Krejčí"))
}

func TestFeminineFirst(t *testing.T) {
	e := newTestEngine(t)
	assert.Equal(t, "Stanislava", e.FeminineFirst("Stanislav"))
	assert.Equal(t, "Radka", e.FeminineFirst("Radek"))
	assert.Equal(t, "Zdeňka", e.FeminineFirst("Zdeněk"))
	assert.Equal(t, "Jana", e.FeminineFirst("Jana"))
}

func TestIsValidSurnameVariant(t *testing.T) {
	e := newTestEngine(t)
	assert.True(t, e.IsValidSurnameVariant("Zíkovi", "Zíka", names.GenderMale))
	assert.True(t, e.IsValidSurnameVariant("Novákové", "Nováková", names.GenderFemale))
	assert.False(t, e.IsValidSurnameVariant("Nováková", "Novák", names.GenderMale))
	assert.False(t, e.IsValidSurnameVariant("Svobodovi", "Novák", names.GenderMale))
	assert.False(t, e.IsValidSurnameVariant("", "Novák", names.GenderMale))
}

func TestResolvePair(t *testing.T) {
	e := newTestEngine(t)
	tests := []struct {
		first, last         string
		wantFirst, wantLast string
	}{
		{"Pavel", "Zíka", "Pavel", "Zíka"},
		{"Pavla", "Zíky", "Pavel", "Zíka"},
		{"Pavlovi", "Zíkovi", "Pavel", "Zíka"},
		{"Karla", "Řehoře", "Karel", "Řehoř"},
		{"Petra", "Nováka", "Petr", "Novák"},
		{"Petra", "Nováková", "Petra", "Nováková"},
		{"Petry", "Novákové", "Petra", "Nováková"},
		{"Stanislav", "Horáková", "Stanislava", "Horáková"},
		{"Stanislavu", "Horákové", "Stanislava", "Horáková"},
		{"Jana", "Novák", "Jana", "Novák"},
		{"", "Novák", "", "Novák"},
	}
	for _, tt := range tests {
		f, l := e.ResolvePair(tt.first, tt.last)
		assert.Equal(t, tt.wantFirst, f, "%s %s", tt.first, tt.last)
		assert.Equal(t, tt.wantLast, l, "%s %s", tt.first, tt.last)
	}
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "rehor", NormalizeKey("Řehoř"))
	assert.Equal(t, "novakova", NormalizeKey(" Nováková "))
	assert.Equal(t, "alice", NormalizeKey("Alica"))
	assert.Equal(t, "lucie", NormalizeKey("LUCIA"))
	assert.Equal(t, "Rehor", FoldDiacritics("Řehoř"))
}
