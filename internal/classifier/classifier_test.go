// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package classifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skryi/internal/names"
)

func fixtureDict() *names.Dictionary {
	return names.New(
		names.Record{Name: "pavel", Gender: names.GenderMale},
		names.Record{Name: "karel", Gender: names.GenderMale},
		names.Record{Name: "eva", Gender: names.GenderFemale},
		names.Record{Name: "jakub", Gender: names.GenderMale},
		names.Record{Name: "praha", Gender: names.GenderUnknown},
	)
}

func TestClassifyPair(t *testing.T) {
	c := New(fixtureDict(), nil)

	tests := []struct {
		first, last, after string
		person             bool
		reason             string
	}{
		{"Pavel", "Zíka", " podepsal", true, "accepted"},
		{"Eva", "Veselá", "", true, "accepted"},
		{"Komerční", "Banka", "", false, "stopword"},
		{"Microsoft", "Office", "", false, "critical_word"},
		{"Alfa", "Beta", " s.r.o.", false, "company_suffix"},
		{"Alfa", "Beta", ", a. s.", false, "company_suffix"},
		{"Svatého", "Víta", "", false, "non_person_word"},
		{"Ředitel", "Novák", "", false, "critical_word"},
		{"Karel", "Hub", "", false, "stopword"},
		{"Karel", "Lab", "", false, "product_word"},
		{"Jev", "Zíková", "", false, "first_name_shape"},
		{"Elišk", "Zíkové", "", false, "first_name_shape"},
		{"Ivo", "Zíka", "", true, "accepted"},
		{"Jan", "Zíka", "", true, "accepted"},
	}
	for _, tt := range tests {
		t.Run(tt.first+" "+tt.last, func(t *testing.T) {
			d := c.ClassifyPair(tt.first, tt.last, tt.after)
			assert.Equal(t, tt.person, d.Person)
			assert.Equal(t, tt.reason, d.Reason)
		})
	}
}

func TestClassifyPair_RejectsShiftedPair(t *testing.T) {
	nominative := func(w string) string {
		if strings.EqualFold(w, "Karla") {
			return "Karel"
		}
		return w
	}
	c := New(fixtureDict(), nil, WithNominative(nominative))

	assert.Equal(t, reject("shifted_pair"), c.ClassifyPair("Odstavec", "Pavel", ""))
	assert.Equal(t, reject("shifted_pair"), c.ClassifyPair("Odstavec", "Karla", ""))
	assert.Equal(t, reject("role_word"), c.ClassifyPair("Kupující", "Pavel", ""))
	assert.Equal(t, reject("role_word"), c.ClassifyPair("Podpis", "Karla", ""))
	assert.True(t, c.ClassifyPair("Karla", "Zíky", "").Person)
	assert.True(t, c.ClassifyPair("Pavel", "Karel", "").Person)
}

func TestClassifyTitled_IgnoresSurnameShape(t *testing.T) {
	c := New(fixtureDict(), nil)
	assert.True(t, c.ClassifyTitled("Karel", "Lab", "").Person)
	assert.True(t, c.ClassifyTitled("Eva", "Malá", "").Person)
	assert.False(t, c.ClassifyPair("Eva", "Malá", "").Person)
	assert.False(t, c.ClassifyTitled("Karel", "Centrum", "").Person)
	assert.False(t, c.ClassifyTitled("Karel", "Novák", " s.r.o.").Person)
}

func TestClassifySurname(t *testing.T) {
	c := New(fixtureDict(), nil)
	assert.True(t, c.ClassifySurname("Novák", " uvedl").Person)
	assert.False(t, c.ClassifySurname("Ředitel", "").Person)
	assert.False(t, c.ClassifySurname("Novák", " s.r.o.").Person)
	assert.False(t, c.ClassifySurname("Ek", "").Person)
}

func TestClassifyStandaloneFirst(t *testing.T) {
	c := New(fixtureDict(), nil)
	assert.True(t, c.ClassifyStandaloneFirst("Jakub").Person)
	assert.False(t, c.ClassifyStandaloneFirst("Praha").Person)
	assert.False(t, c.ClassifyStandaloneFirst("Smlouva").Person)
}

func TestOptions(t *testing.T) {
	c := New(fixtureDict(), nil, WithStopwords("Zíka"), WithCompanyMarkers("z. s."))
	assert.Equal(t, "stopword", c.ClassifyPair("Pavel", "Zíka", "").Reason)
	assert.True(t, c.FollowedByCompany(" z.s. Praha"))
	assert.False(t, c.FollowedByCompany(" a pak"))
}

func TestCustomGazetteer(t *testing.T) {
	c := New(fixtureDict(), &Gazetteer{RoleWords: []string{"Notář"}})
	assert.Equal(t, "role_word", c.ClassifyPair("Notář", "Dvořák", "").Reason)
	assert.True(t, c.ClassifyPair("Eva", "Malá", "").Person)
	assert.False(t, c.FollowedByCompany(" s.r.o."))
}

func TestGazetteer(t *testing.T) {
	g := DefaultGazetteer()
	assert.Contains(t, g.CompanyMarkers, "s.r.o.")
	assert.Contains(t, g.RoleWords, "jednatel")

	_, err := ParseGazetteer([]byte("stopwords: {"))
	require.Error(t, err)

	_, err = LoadGazetteer(t.TempDir() + "/missing.yaml")
	require.Error(t, err)
}
