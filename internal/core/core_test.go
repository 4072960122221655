// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skryi/internal/config"
	"skryi/internal/detector"
	"skryi/internal/documents"
	"skryi/internal/formatters/shared"
	"skryi/internal/metrics"
	"skryi/internal/observability"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := BuildEngine(nil, nil)
	require.NoError(t, err)
	return engine
}

func TestBuildEngine_RuleSwitches(t *testing.T) {
	cfg := config.Default()
	cfg.Rules.Disabled = []string{"card"}
	cfg.Rules.Enabled = []string{"date_words"}
	engine, err := BuildEngine(cfg, nil)
	require.NoError(t, err)

	card, ok := engine.Rules.Get("card")
	require.True(t, ok)
	assert.False(t, card.IsEnabled())
	words, ok := engine.Rules.Get("date_words")
	require.True(t, ok)
	assert.True(t, words.IsEnabled())

	cfg.Rules.Disabled = []string{"no_such_rule"}
	_, err = BuildEngine(cfg, nil)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestBuildEngine_MissingNamesDegrades(t *testing.T) {
	var buf bytes.Buffer
	obs := observability.NewStandardObserver(observability.ObservabilityMetrics, &buf)
	cfg := config.Default()
	cfg.Defaults.NamesFile = filepath.Join(t.TempDir(), "missing.json")

	engine, err := BuildEngine(cfg, obs)
	require.NoError(t, err)
	assert.Zero(t, engine.Names.Len())
	assert.Contains(t, buf.String(), "names dictionary unavailable")

	s := NewSession(engine)
	assert.Equal(t, "Kontakt: [[EMAIL_1]]", s.RecognizeAndTag("Kontakt: test@example.com"))
}

func TestSession_InflectedMentionsShareOneTag(t *testing.T) {
	s := NewSession(testEngine(t))
	units := []string{
		"Pavel Zíka podepsal smlouvu.",
		"Smlouva platí bez Pavla Zíky.",
		"Dopis k Pavlovi Zíkovi.",
	}
	tagged := make([]string, len(units))
	for i, u := range units {
		tagged[i] = s.RecognizeAndTag(u)
	}
	final := s.Finalize(strings.Join(units, "\n"))

	require.Equal(t, 1, final.PersonsFound())
	assert.Equal(t, "Pavel Zíka", final.Identities[0].Canonical())
	for _, text := range tagged {
		out := final.Apply(text)
		assert.Contains(t, out, "[[PERSON_1]]")
		assert.NotContains(t, out, "Zík")
	}
}

func TestSession_EnsureIdentityStable(t *testing.T) {
	s := NewSession(testEngine(t))
	a, canonical := s.EnsureIdentity("Karel", "Řehoř")
	b, _ := s.EnsureIdentity("Karla", "Řehoře")
	assert.Equal(t, a, b)
	assert.Equal(t, "Karel Řehoř", canonical)
}

func TestSession_FinalizeOnce(t *testing.T) {
	s := NewSession(testEngine(t))
	s.RecognizeAndTag("Kontakt: test@example.com, test@example.com")
	first := s.Finalize("Kontakt: test@example.com, test@example.com")
	assert.Same(t, first, s.Finalize("anything else"))

	rows := first.Entries()
	require.Len(t, rows, 1)
	assert.Equal(t, "[[EMAIL_1]]", rows[0].Label)
	assert.Equal(t, 2, rows[0].Occurrences)
	assert.Equal(t, 1, first.EntitiesTotal())
}

func TestSession_EntriesPersonsFirst(t *testing.T) {
	s := NewSession(testEngine(t))
	text := "E-mail: test@example.com. Smlouvu podepsal Pavel Zíka."
	s.RecognizeAndTag(text)
	rows := s.Finalize(text).Entries()
	require.Len(t, rows, 2)
	assert.Equal(t, "PERSON", rows[0].Type)
	assert.Equal(t, "EMAIL", rows[1].Type)
}

func TestAnonymizeFile_Text(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "dopis.txt")
	content := "Vážený pane,\nPavel Zíka, e-mail: test@example.com\nČíslo karty: 4111 1111 1111 1111\nKontakt: test@example.com\n"
	require.NoError(t, os.WriteFile(src, []byte(content), 0600))

	m := metrics.New()
	out := filepath.Join(dir, "out")
	res, err := AnonymizeFile(context.Background(), AnonymizeConfig{
		FilePath:   src,
		OutputDir:  out,
		MapFormats: []string{"json", "txt", "yaml"},
		Engine:     testEngine(t),
		Metrics:    m,
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(out, "dopis_anon.txt"), res.Output)
	anon, err := os.ReadFile(res.Output)
	require.NoError(t, err)
	assert.Equal(t, "Vážený pane,\n[[PERSON_1]], e-mail: [[EMAIL_1]]\nČíslo karty: [[CARD_1]]\nKontakt: [[EMAIL_1]]\n", string(anon))

	data, err := os.ReadFile(res.MapPath("json"))
	require.NoError(t, err)
	var doc shared.MapDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "dopis.txt", doc.SourceFile)
	require.NotEmpty(t, doc.Entities)
	assert.Equal(t, "PERSON", doc.Entities[0].Type)

	txt, err := os.ReadFile(res.MapPath("txt"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(txt), "OSOBY\n-----\n[[PERSON_1]]: Pavel Zíka\n"))
	assert.FileExists(t, filepath.Join(out, "dopis_map.yaml"))

	assert.Equal(t, 1, res.PersonsFound)
	assert.Equal(t, 3, res.EntitiesTotal)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Documents.WithLabelValues(metrics.StatusOK)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Entities.WithLabelValues("EMAIL")))
}

func TestAnonymizeFile_MapLabelsMatchOutput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "smlouva.txt")
	content := strings.Join([]string{
		"Kupující Jan Novák souhlasí.",
		"Pavel Zíka, e-mail: test@example.com, tel. +420 777 123 456, RČ: 850101/1234. CVV: 123",
		"Rodné číslo: 850101/1234, číslo účtu: 1234567890/0100.",
		"Bydliště: Dlouhá 12, 110 00 Praha 1.",
		"Podpis Jiřího Fialy je dole.",
		"Ing. Jana Malá souhlasí.",
	}, "\n") + "\n"
	require.NoError(t, os.WriteFile(src, []byte(content), 0600))

	res, err := AnonymizeFile(context.Background(), AnonymizeConfig{
		FilePath:   src,
		MapFormats: []string{"json"},
		Engine:     testEngine(t),
	})
	require.NoError(t, err)

	anon, err := os.ReadFile(res.Output)
	require.NoError(t, err)
	data, err := os.ReadFile(res.MapPath("json"))
	require.NoError(t, err)
	var doc shared.MapDocument
	require.NoError(t, json.Unmarshal(data, &doc))

	mapped := make(map[string]bool)
	for _, e := range doc.Entities {
		mapped[e.Label] = true
		assert.Contains(t, string(anon), e.Label, "map label missing from output")
	}
	for _, span := range detector.TagSpans(string(anon)) {
		tag := string(anon)[span.Start:span.End]
		assert.True(t, mapped[tag], "%s in output but not in map", tag)
	}
	assert.NotContains(t, string(anon), "Novák")
	assert.NotContains(t, string(anon), "Fial")
	assert.NotContains(t, string(anon), "Malá")
}

func TestAnonymizeFile_RedactedMap(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "pristup.txt")
	require.NoError(t, os.WriteFile(src, []byte("Heslo: Tajne123!\n"), 0600))

	res, err := AnonymizeFile(context.Background(), AnonymizeConfig{
		FilePath:   src,
		MapFormats: []string{"json"},
		Redact:     true,
		Engine:     testEngine(t),
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pristup_anon.txt"), res.Output)

	data, err := os.ReadFile(res.MapPath("json"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Tajne123!")
	assert.Contains(t, string(data), "***REDACTED***")
}

func TestAnonymizeFile_Errors(t *testing.T) {
	m := metrics.New()
	_, err := AnonymizeFile(context.Background(), AnonymizeConfig{
		FilePath: filepath.Join(t.TempDir(), "missing.txt"),
		Engine:   testEngine(t),
		Metrics:  m,
	})
	assert.ErrorIs(t, err, documents.ErrNotFound)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Documents.WithLabelValues(metrics.StatusFailed)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = AnonymizeFile(ctx, AnonymizeConfig{FilePath: "x.txt", Engine: testEngine(t)})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = AnonymizeFile(context.Background(), AnonymizeConfig{FilePath: "x.txt"})
	assert.Error(t, err)
}
