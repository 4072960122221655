// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package recognizer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skryi/internal/classifier"
	"skryi/internal/identity"
	"skryi/internal/morphology"
	"skryi/internal/names"
	"skryi/internal/observability"
	"skryi/internal/registry"
	"skryi/internal/rules"
)

type fixture struct {
	rec      *Recognizer
	table    *rules.Table
	entities *registry.EntityRegistry
	people   *identity.Registry
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	table, err := rules.Default()
	require.NoError(t, err)
	dict, err := names.Load("")
	require.NoError(t, err)

	morph := morphology.New(dict)
	f := &fixture{
		table:    table,
		entities: registry.New(),
		people:   identity.New(morph),
	}
	cls := classifier.New(dict, nil, classifier.WithNominative(morph.NominativeOfFirst))
	f.rec = New(table, f.entities, f.people, cls, opts...)
	return f
}

func TestRecognize_RepeatedEmailSharesLabel(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		assert.Equal(t, "Kontakt: [[EMAIL_1]]", f.rec.Recognize("Kontakt: test@example.com"))
	}
	e, ok := f.entities.Lookup("EMAIL", "test@example.com")
	require.True(t, ok)
	assert.Equal(t, "[[EMAIL_1]]", e.Label())
	assert.Equal(t, 3, e.Occurrences())
	assert.Equal(t, 3, f.rec.Counts()["EMAIL"])
}

func TestRecognize_Idempotent(t *testing.T) {
	f := newFixture(t)
	text := "Pavel Zíka, e-mail: test@example.com, tel. +420 777 123 456, RČ: 850101/1234. CVV: 123"

	once := f.rec.Recognize(text)
	assert.Equal(t, "[[PERSON_1]], e-mail: [[EMAIL_1]], tel. [[PHONE_1]], RČ: [[BIRTH_ID_1]]. CVV: ***", once)

	entities, people := f.entities.Len(), f.people.Len()
	assert.Equal(t, once, f.rec.Recognize(once))
	assert.Equal(t, entities, f.entities.Len())
	assert.Equal(t, people, f.people.Len())
}

func TestRecognize_BirthNumberBeatsBareAccount(t *testing.T) {
	f := newFixture(t)
	got := f.rec.Recognize("Rodné číslo: 850101/1234, číslo účtu: 1234567890/0100.")
	assert.Equal(t, "Rodné číslo: [[BIRTH_ID_1]], číslo účtu: [[BANK_1]].", got)

	e, ok := f.entities.ByLabel("[[BANK_1]]")
	require.True(t, ok)
	assert.Equal(t, "1234567890/0100", e.Canonical)
}

func TestRecognize_LuhnSweepCatchesMissedCard(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.table.Disable("card"))

	assert.Equal(t, "Číslo karty: [[CARD_1]]", f.rec.Recognize("Číslo karty: 4111 1111 1111 1111"))
	assert.Equal(t, "Číslo karty: 4111 1111 1111 1112", f.rec.Recognize("Číslo karty: 4111 1111 1111 1112"))
}

func TestRecognize_LuhnSweepIgnoresSurroundingWords(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.table.Disable("card"))

	assert.Equal(t, "Reference: [[CARD_1]]", f.rec.Recognize("Reference: 4111 1111 1111 1111"))
	assert.Equal(t, 1, f.rec.Counts()["CARD"])
}

func TestRecognize_MasksDoNotReachRegistry(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "CVV: ***, Exp: **/**", f.rec.Recognize("CVV: 123, Exp: 12/27"))
	assert.Zero(t, f.entities.Len())
	assert.Equal(t, 2, f.rec.Counts()["MASK"])
}

func TestRecognize_RejectedPairRetriesFromSecondWord(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "Smlouva [[PERSON_1]] podepsal.", f.rec.Recognize("Smlouva Pavel Zíka podepsal."))

	p, ok := f.people.ByTag("[[PERSON_1]]")
	require.True(t, ok)
	assert.Equal(t, "Pavel Zíka", p.Canonical())
}

func TestRecognize_PersonRules(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "Ing. [[PERSON_1]] podepsala.", f.rec.Recognize("Ing. Jana Nováková podepsala."))
	assert.Equal(t, "Jednal pan [[PERSON_2]].", f.rec.Recognize("Jednal pan Dvořák."))
	assert.Equal(t, "Alfa Beta s.r.o. dodala zboží.", f.rec.Recognize("Alfa Beta s.r.o. dodala zboží."))

	p, ok := f.people.ByTag("[[PERSON_1]]")
	require.True(t, ok)
	assert.Equal(t, "Jana Nováková", p.Canonical())
	assert.Equal(t, names.GenderFemale, p.Gender)
}

func TestRecognize_RoleWordBeforeName(t *testing.T) {
	tests := map[string]struct {
		text, want, canonical string
	}{
		"role":      {"Kupující Jan Novák souhlasí.", "Kupující [[PERSON_1]] souhlasí.", "Jan Novák"},
		"signature": {"Podpis Jiřího Fialy je dole.", "Podpis [[PERSON_1]] je dole.", "Jiří Fiala"},
		"tenant":    {"Nájemce Karel Hrubý souhlasí.", "Nájemce [[PERSON_1]] souhlasí.", "Karel Hrubý"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			assert.Equal(t, tt.want, f.rec.Recognize(tt.text))
			require.Equal(t, 1, f.people.Len())
			p, ok := f.people.ByTag("[[PERSON_1]]")
			require.True(t, ok)
			assert.Equal(t, tt.canonical, p.Canonical())
		})
	}
}

func TestRecognize_TitledFeminineAdjectivalSurname(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "Ing. [[PERSON_1]] souhlasí.", f.rec.Recognize("Ing. Jana Malá souhlasí."))
	p, ok := f.people.ByTag("[[PERSON_1]]")
	require.True(t, ok)
	assert.Equal(t, "Jana Malá", p.Canonical())
}

func TestRecognize_KnownPeopleAcrossUnits(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "[[PERSON_1]] přišel.", f.rec.Recognize("Pavel Zíka přišel."))
	assert.Equal(t, "Dopis pro [[PERSON_1]].", f.rec.Recognize("Dopis pro Pavla Zíku."))
	assert.Equal(t, "Podpis: [[PERSON_1]]", f.rec.Recognize("Podpis: PAVEL ZIKA"))

	p, _ := f.people.ByTag("[[PERSON_1]]")
	assert.Equal(t, 3, p.Occurrences())
	assert.Equal(t, 1, f.people.Len())
}

func TestRecognize_KnownAddressWithoutPostalCode(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "Bydliště: [[ADDRESS_1]].", f.rec.Recognize("Bydliště: Dlouhá 12, 110 00 Praha 1."))
	assert.Equal(t, "Doručit na [[ADDRESS_1]] do pátku.", f.rec.Recognize("Doručit na Dlouhá 12, Praha 1 do pátku."))

	list := f.entities.Entities("ADDRESS")
	require.Len(t, list, 1)
	assert.Equal(t, "Dlouhá 12, 110 00 Praha 1", list[0].Canonical)
	assert.Equal(t, 2, list[0].Occurrences())
}

func TestRetagBankFragments(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "[[BIRTH_ID_1]]", f.entities.Label("BIRTH_ID", "850101/1234", false))

	assert.Equal(t, "účet: [[BANK_1]]", f.rec.retagBankFragments("účet: 19[[BIRTH_ID_1]]"))
	e, ok := f.entities.ByLabel("[[BANK_1]]")
	require.True(t, ok)
	assert.Equal(t, "19850101/1234", e.Canonical)

	_, ok = f.entities.ByLabel("[[BIRTH_ID_1]]")
	assert.False(t, ok, "the swallowed birth number leaves the map")
	for _, row := range f.entities.Rows() {
		assert.NotEqual(t, "BIRTH_ID", row.Type)
	}
	assert.Equal(t, 1, f.entities.Len())

	assert.Equal(t, "RČ: [[BIRTH_ID_1]]", f.rec.retagBankFragments("RČ: [[BIRTH_ID_1]]"))
}

func TestRetagBankFragments_KeepsBirthNumberSeenElsewhere(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "RČ: [[BIRTH_ID_1]]", f.rec.Recognize("RČ: 850101/1234"))
	f.entities.Label("BIRTH_ID", "850101/1234", false)

	assert.Equal(t, "účet: [[BANK_1]]", f.rec.retagBankFragments("účet: 19[[BIRTH_ID_1]]"))
	e, ok := f.entities.ByLabel("[[BIRTH_ID_1]]")
	require.True(t, ok)
	assert.Equal(t, 1, e.Occurrences())
}

func TestLuhnValid(t *testing.T) {
	tests := map[string]bool{
		"4111111111111111":     true,
		"5555555555554444":     true,
		"378282246310005":      true,
		"4111111111111112":     false,
		"411111111111":         false,
		"41111111111111111111": false,
	}
	for number, want := range tests {
		assert.Equal(t, want, luhnValid(number), number)
	}
}

func TestRecognize_TracesCountsOnly(t *testing.T) {
	var buf bytes.Buffer
	obs := observability.NewDebugObserver(&buf)
	f := newFixture(t, WithTracer(obs.Tracer()))

	f.rec.Recognize("Kontakt: test@example.com")
	assert.Contains(t, buf.String(), "sweep")
	assert.Contains(t, buf.String(), "contacts")
	assert.NotContains(t, buf.String(), "test@example.com")
}

func TestRecognize_EmptyText(t *testing.T) {
	f := newFixture(t)
	assert.Empty(t, f.rec.Recognize(""))
	assert.Zero(t, f.entities.Len())
}
