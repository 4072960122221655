// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package morphology converts inflected Czech first names and surnames to
// their nominative form and expands a nominative into the surface forms it
// takes across the seven grammatical cases.
//
// Inference is driven by ordered suffix tables. Each table entry names a
// suffix, an applicability predicate and a rewrite; a single dispatch loop
// returns the first entry that produces a result. Curated exception tables
// are consulted before any table runs. No function in this package fails:
// when nothing applies the observed form is returned capitalized.
package morphology

import (
	"strings"

	"skryi/internal/names"
)

// Policy holds the tie-break thresholds used where the rules have to guess.
// The defaults were tuned against a small declension corpus; they are policy,
// not linguistics.
type Policy struct {
	// ShortStemMax is the longest surname stem that restores -ek from -ka/-ovi
	ShortStemMax int `yaml:"short_stem_max"`
	// FemaleOuStemMax is the longest first-name stem read as feminine from -ou
	FemaleOuStemMax int `yaml:"female_ou_stem_max"`
	// MaleFallbackMin is the shortest observation accepted as a masculine
	// -ka/-la/-ce oblique form without a dictionary hit
	MaleFallbackMin int `yaml:"male_fallback_min"`
}

// DefaultPolicy returns the thresholds used when no configuration is given
func DefaultPolicy() Policy {
	return Policy{
		ShortStemMax:    3,
		FemaleOuStemMax: 6,
		MaleFallbackMin: 5,
	}
}

func (p Policy) withDefaults() Policy {
	def := DefaultPolicy()
	if p.ShortStemMax <= 0 {
		p.ShortStemMax = def.ShortStemMax
	}
	if p.FemaleOuStemMax <= 0 {
		p.FemaleOuStemMax = def.FemaleOuStemMax
	}
	if p.MaleFallbackMin <= 0 {
		p.MaleFallbackMin = def.MaleFallbackMin
	}
	return p
}

// Engine performs name inference against one names dictionary. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	dict   names.Lookup
	policy Policy
}

// Option configures an Engine
type Option func(*Engine)

// WithPolicy overrides the tie-break thresholds
func WithPolicy(p Policy) Option {
	return func(e *Engine) {
		e.policy = p.withDefaults()
	}
}

// New creates an engine. A nil dictionary behaves as an empty one.
func New(dict names.Lookup, opts ...Option) *Engine {
	if dict == nil {
		dict = names.Empty()
	}
	e := &Engine{dict: dict, policy: DefaultPolicy()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns the thresholds in effect
func (e *Engine) Policy() Policy {
	return e.policy
}

// Known reports whether the dictionary holds the name
func (e *Engine) Known(name string) bool {
	return e.dict.Contains(strings.ToLower(name))
}

func (e *Engine) known(lo string) bool {
	return e.dict.Contains(lo)
}
