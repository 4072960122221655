// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package recognizer runs the rule table over one text unit in precedence
// order and replaces every accepted capture with its label.
package recognizer

import (
	"skryi/internal/classifier"
	"skryi/internal/detector"
	"skryi/internal/identity"
	"skryi/internal/observability"
	"skryi/internal/registry"
	"skryi/internal/rules"
)

const component = "recognizer"

// Recognizer tags PII in text units. It shares the registries of one
// document run and is not safe for concurrent use.
type Recognizer struct {
	table      *rules.Table
	entities   *registry.EntityRegistry
	people     *identity.Registry
	classifier *classifier.Classifier
	context    *detector.ContextExtractor
	tracer     observability.Tracer

	counts map[string]int
}

// Option configures a Recognizer
type Option func(*Recognizer)

// WithTracer attaches a step tracer. Only kinds and counts are traced.
func WithTracer(t observability.Tracer) Option {
	return func(r *Recognizer) {
		if t != nil {
			r.tracer = t
		}
	}
}

// WithContextChars sets how much trailing text the person classifier sees
func WithContextChars(n int) Option {
	return func(r *Recognizer) {
		r.context.WithContextChars(n)
	}
}

// New creates a recognizer over a compiled table and the run's registries.
// A nil classifier uses the default gazetteer with an empty dictionary.
func New(table *rules.Table, entities *registry.EntityRegistry, people *identity.Registry, c *classifier.Classifier, opts ...Option) *Recognizer {
	if c == nil {
		c = classifier.New(nil, nil)
	}
	r := &Recognizer{
		table:      table,
		entities:   entities,
		people:     people,
		classifier: c,
		context:    detector.NewContextExtractor(),
		tracer:     observability.NopTracer(),
		counts:     make(map[string]int),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Counts returns how many spans were tagged per kind so far. Masked spans
// count under MASK.
func (r *Recognizer) Counts() map[string]int {
	out := make(map[string]int, len(r.counts))
	for k, v := range r.counts {
		out[k] = v
	}
	return out
}

// Recognize returns text with every recognized span replaced by its label.
// Spans already inside a label are never touched, so running it on its own
// output changes nothing.
func (r *Recognizer) Recognize(text string) string {
	if text == "" {
		return text
	}
	for _, stage := range rules.Stages {
		if stage == rules.StageSweep {
			break
		}
		before := r.total()
		if stage == rules.StagePersons {
			text = r.applyKnownPeople(text, false)
			for _, rule := range r.table.Stage(stage) {
				text = r.applyPersonRule(rule, text)
			}
		} else {
			for _, rule := range r.table.Stage(stage) {
				text = r.applyRule(rule, text)
			}
		}
		if n := r.total() - before; n > 0 {
			r.tracer.LogMetric(component, string(stage), n)
		}
	}
	return r.sweep(text)
}

func (r *Recognizer) total() int {
	n := 0
	for _, v := range r.counts {
		n += v
	}
	return n
}

// applyRule tags every hit of a non-person rule. Captures are replaced,
// the surrounding keywords stay in the text.
func (r *Recognizer) applyRule(rule *rules.Rule, text string) string {
	hits := rule.FindAll(text)
	if len(hits) == 0 {
		return text
	}
	var matches []detector.Match
	for _, h := range hits {
		for _, c := range h.Captures {
			m := detector.Match{
				Span:      c.Span,
				Kind:      c.Kind,
				Rule:      rule.Name,
				Sensitive: c.Sensitive,
			}
			if rule.IsMask() {
				m.Replacement = rule.Mask
				r.counts["MASK"]++
			} else {
				m.Replacement = r.entities.Label(c.Kind, c.Value, c.Sensitive)
				if m.Replacement == "" {
					continue
				}
				r.counts[c.Kind]++
			}
			matches = append(matches, m)
		}
	}
	return detector.Rewrite(text, matches)
}
