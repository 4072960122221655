// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"skryi/internal/identity"
	"skryi/internal/observability"
	"skryi/internal/recognizer"
	"skryi/internal/registry"
)

// Session is one document run. It owns the entity and identity registries
// for that document and must not be shared between goroutines.
type Session struct {
	entities   *registry.EntityRegistry
	people     *identity.Registry
	recognizer *recognizer.Recognizer
	final      *FinalRegistry
}

// SessionOption configures a Session
type SessionOption func(*sessionOptions)

type sessionOptions struct {
	tracer       observability.Tracer
	contextChars int
}

// WithTracer sends per-stage counts to t
func WithTracer(t observability.Tracer) SessionOption {
	return func(o *sessionOptions) { o.tracer = t }
}

// WithContextChars sets how much trailing text the person classifier sees
func WithContextChars(n int) SessionOption {
	return func(o *sessionOptions) { o.contextChars = n }
}

// NewSession starts a document run on the shared engine
func NewSession(engine *Engine, opts ...SessionOption) *Session {
	var o sessionOptions
	for _, opt := range opts {
		opt(&o)
	}
	var recOpts []recognizer.Option
	if o.tracer != nil {
		recOpts = append(recOpts, recognizer.WithTracer(o.tracer))
	}
	if o.contextChars > 0 {
		recOpts = append(recOpts, recognizer.WithContextChars(o.contextChars))
	}

	s := &Session{
		entities: registry.New(),
		people:   identity.New(engine.Morphology),
	}
	s.recognizer = recognizer.New(engine.Rules, s.entities, s.people, engine.Classifier, recOpts...)
	return s
}

// RecognizeAndTag replaces every recognized entity in one text unit with its
// label. Tagged text passes through unchanged.
func (s *Session) RecognizeAndTag(text string) string {
	return s.recognizer.Recognize(text)
}

// EnsureIdentity returns the person tag and canonical name for an observed
// first and last name, creating the identity on first sight
func (s *Session) EnsureIdentity(first, last string) (tag, canonical string) {
	return s.people.Ensure(first, last)
}

// Counts returns replacements made so far by kind
func (s *Session) Counts() map[string]int {
	return s.recognizer.Counts()
}

// Finalize runs the validation and merge pass against the full source text
// of the document. Later calls return the first result.
func (s *Session) Finalize(source string) *FinalRegistry {
	if s.final == nil {
		s.final = &FinalRegistry{
			Result:   s.people.Finalize(source),
			entities: s.entities,
		}
	}
	return s.final
}

// FinalRegistry is the settled state of a document run
type FinalRegistry struct {
	*identity.Result
	entities *registry.EntityRegistry
}

// Entries lists the replacement map rows: persons first, then every other
// kind in first-seen order
func (f *FinalRegistry) Entries() []registry.Row {
	var rows []registry.Row
	for _, p := range f.Identities {
		rows = append(rows, p.Rows()...)
	}
	return append(rows, f.entities.Rows()...)
}

// PersonsFound is the number of distinct people after merging
func (f *FinalRegistry) PersonsFound() int {
	return len(f.Identities)
}

// EntitiesTotal counts every distinct label in the map, persons included
func (f *FinalRegistry) EntitiesTotal() int {
	return len(f.Identities) + f.entities.Len()
}
