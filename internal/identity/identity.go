// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package identity resolves observed person names to canonical identities.
// Every surface form of one person, in any grammatical case, maps to the
// same [[PERSON_N]] tag for the lifetime of a document run.
package identity

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"skryi/internal/detector"
	"skryi/internal/morphology"
	"skryi/internal/names"
	"skryi/internal/registry"
)

// Kind is the entity kind of person tags
const Kind = "PERSON"

// Identity is one canonical person
type Identity struct {
	Tag    string
	First  string
	Last   string
	Gender names.Gender

	variants []*registry.Variant
	index    int
}

// Canonical returns "First Last", or the single known part
func (p *Identity) Canonical() string {
	return strings.TrimSpace(p.First + " " + p.Last)
}

// Partial reports whether only a first name or only a surname is known
func (p *Identity) Partial() bool {
	return p.First == "" || p.Last == ""
}

// Variants returns the observed surface forms in first-seen order
func (p *Identity) Variants() []registry.Variant {
	out := make([]registry.Variant, len(p.variants))
	for i, v := range p.variants {
		out[i] = *v
	}
	return out
}

// Occurrences returns the number of observed mentions
func (p *Identity) Occurrences() int {
	n := 0
	for _, v := range p.variants {
		n += v.Count
	}
	return n
}

// Rows lists one replacement-map row per observed surface form
func (p *Identity) Rows() []registry.Row {
	canonical := p.Canonical()
	if len(p.variants) == 0 {
		return []registry.Row{{Type: Kind, Label: p.Tag, Original: canonical}}
	}
	out := make([]registry.Row, 0, len(p.variants))
	for _, v := range p.variants {
		row := registry.Row{Type: Kind, Label: p.Tag, Original: v.Text, Occurrences: v.Count}
		if v.Text != canonical {
			row.Canonical = canonical
		}
		out = append(out, row)
	}
	return out
}

func (p *Identity) observe(surface string) {
	surface = collapseSpaces(surface)
	if surface == "" {
		return
	}
	for _, v := range p.variants {
		if v.Text == surface {
			v.Count++
			return
		}
	}
	p.variants = append(p.variants, &registry.Variant{Text: surface, Count: 1})
}

func (p *Identity) absorb(other *Identity) {
	for _, ov := range other.variants {
		merged := false
		for _, v := range p.variants {
			if v.Text == ov.Text {
				v.Count += ov.Count
				merged = true
				break
			}
		}
		if !merged {
			p.variants = append(p.variants, &registry.Variant{Text: ov.Text, Count: ov.Count})
		}
	}
	if p.First == "" {
		p.First = other.First
	}
	if p.Last == "" {
		p.Last = other.Last
	}
	if p.Gender == names.GenderUnknown {
		p.Gender = other.Gender
	}
}

// byFrequency returns the variants ordered by count, first-seen breaking ties
func (p *Identity) byFrequency() []*registry.Variant {
	out := make([]*registry.Variant, len(p.variants))
	copy(out, p.variants)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

type personKey struct {
	first string
	last  string
}

func keyOf(first, last string) personKey {
	return personKey{first: morphology.NormalizeKey(first), last: morphology.NormalizeKey(last)}
}

func (p *Identity) key() personKey { return keyOf(p.First, p.Last) }

// Registry owns the identities of one document run. It is not safe for
// concurrent use.
type Registry struct {
	engine *morphology.Engine
	people []*Identity
	byKey  map[personKey]*Identity
	// lowercased full surface form -> identity, pre-generated from the
	// inflections of each full identity
	forms map[string]*Identity

	matcher *knownMatcher
	result  *Result
}

// New creates an empty registry backed by a morphology engine
func New(engine *morphology.Engine) *Registry {
	if engine == nil {
		engine = morphology.New(nil)
	}
	return &Registry{
		engine: engine,
		byKey:  make(map[personKey]*Identity),
		forms:  make(map[string]*Identity),
	}
}

// Ensure resolves an observed name to its tag and canonical form. Either
// part may be empty for partial mentions. Both empty yields empty results.
func (r *Registry) Ensure(first, last string) (tag, canonical string) {
	p := r.EnsureIdentity(first, last)
	if p == nil {
		return "", ""
	}
	return p.Tag, p.Canonical()
}

// EnsureIdentity is Ensure returning the identity itself
func (r *Registry) EnsureIdentity(first, last string) *Identity {
	first, last = strings.TrimSpace(first), strings.TrimSpace(last)
	if first == "" && last == "" {
		return nil
	}
	surface := collapseSpaces(first + " " + last)

	if first != "" && last != "" {
		if p, ok := r.forms[lowerSameWidth(surface)]; ok {
			p.observe(surface)
			return p
		}
	}

	firstNom, lastNom := r.normalize(first, last)
	k := keyOf(firstNom, lastNom)
	if p, ok := r.byKey[k]; ok {
		p.observe(surface)
		return p
	}
	if p := r.fullIdentityFor(k); p != nil {
		p.observe(surface)
		return p
	}
	p := r.create(firstNom, lastNom)
	p.observe(surface)
	return p
}

// Observe records a surface form for an existing identity
func (r *Registry) Observe(p *Identity, surface string) {
	if p != nil {
		p.observe(surface)
	}
}

func (r *Registry) normalize(first, last string) (string, string) {
	e := r.engine
	switch {
	case first != "" && last != "":
		firstNom, lastNom := e.ResolvePair(first, last)
		if reused := r.reuseSurname(lastNom); reused != lastNom {
			lastNom = reused
			if morphology.IsFeminineSurname(lastNom) && e.GenderOfFirst(firstNom) != names.GenderFemale {
				firstNom = e.FeminineReadingOfFirst(first)
			}
		}
		return firstNom, lastNom
	case last != "":
		return "", r.reuseSurname(e.NominativeOfSurname(last))
	}
	return e.NominativeOfFirst(first), ""
}

// reuseSurname returns an existing same-gender surname that shares the
// stem of nominative, so Hruška and an inferred Hrušek collapse.
func (r *Registry) reuseSurname(nominative string) string {
	feminine := morphology.IsFeminineSurname(nominative)
	stem := surnameStem(nominative)
	for _, p := range r.people {
		if p.Last == "" || morphology.IsFeminineSurname(p.Last) != feminine {
			continue
		}
		if surnameStem(p.Last) == stem {
			return p.Last
		}
	}
	return nominative
}

func surnameStem(surname string) string {
	s := strings.ToLower(surname)
	switch {
	case strings.HasSuffix(s, "ová"):
		return strings.TrimSuffix(s, "ová")
	case strings.HasSuffix(s, "ěk"):
		return strings.TrimSuffix(s, "ěk") + "k"
	case strings.HasSuffix(s, "ek"):
		return strings.TrimSuffix(s, "ek") + "k"
	case strings.HasSuffix(s, "ka"):
		return strings.TrimSuffix(s, "ka") + "k"
	case strings.HasSuffix(s, "el"):
		return strings.TrimSuffix(s, "el") + "l"
	case strings.HasSuffix(s, "ec"):
		return strings.TrimSuffix(s, "ec") + "c"
	case strings.HasSuffix(s, "a"):
		return strings.TrimSuffix(s, "a")
	case strings.HasSuffix(s, "á"):
		return strings.TrimSuffix(s, "á")
	}
	return s
}

// fullIdentityFor finds the single full identity a partial key belongs to.
// Ambiguous partial keys resolve to nothing.
func (r *Registry) fullIdentityFor(k personKey) *Identity {
	if k.first != "" && k.last != "" {
		return nil
	}
	var found *Identity
	for _, p := range r.people {
		if p.Partial() {
			continue
		}
		pk := p.key()
		if (k.first == "" && pk.last == k.last) || (k.last == "" && pk.first == k.first) {
			if found != nil {
				return nil
			}
			found = p
		}
	}
	return found
}

func (r *Registry) create(first, last string) *Identity {
	p := &Identity{
		First: first,
		Last:  last,
		index: len(r.people) + 1,
	}
	p.Tag = detector.FormatTag(Kind, p.index)
	p.Gender = r.genderOf(first, last)
	r.people = append(r.people, p)
	r.byKey[p.key()] = p
	r.registerForms(p)
	return p
}

func (r *Registry) genderOf(first, last string) names.Gender {
	switch {
	case last != "" && morphology.IsFeminineSurname(last):
		return names.GenderFemale
	case first != "":
		return r.engine.GenderOfFirst(first)
	case strings.HasSuffix(strings.ToLower(last), "í"):
		return names.GenderUnknown
	}
	return names.GenderMale
}

// registerForms pre-generates every "first last" case combination so later
// mentions resolve without inference
func (r *Registry) registerForms(p *Identity) {
	if p.Partial() {
		return
	}
	surnames := r.engine.InflectionsOfSurname(p.Last)
	for _, f := range r.engine.InflectionsOfFirst(p.First) {
		if truncatedFirst(f) {
			continue
		}
		for _, l := range surnames {
			form := lowerSameWidth(f + " " + l)
			if _, taken := r.forms[form]; !taken {
				r.forms[form] = p
			}
		}
	}
	r.matcher = nil
}

// truncatedFirst reports a generated first-name form that looks like a cut
// genitive (Han, Radk) and would match inside other words
func truncatedFirst(f string) bool {
	lo := strings.ToLower(f)
	n := utf8.RuneCountInString(lo)
	last, _ := utf8.DecodeLastRuneInString(lo)
	if n >= 3 && n <= 5 && last == 'k' {
		return true
	}
	return n == 3 && !strings.ContainsRune("aeiouyáéíóúůýnlr", last)
}

// Identities returns the identities in creation order
func (r *Registry) Identities() []*Identity {
	out := make([]*Identity, len(r.people))
	copy(out, r.people)
	return out
}

// ByTag returns the identity holding a tag
func (r *Registry) ByTag(tag string) (*Identity, bool) {
	for _, p := range r.people {
		if p.Tag == tag {
			return p, true
		}
	}
	return nil, false
}

// Len returns the number of identities
func (r *Registry) Len() int { return len(r.people) }

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// lowerSameWidth lowercases runes whose lowercase form has the same UTF-8
// width, keeping byte offsets valid between the original and the result
func lowerSameWidth(s string) string {
	return strings.Map(func(r rune) rune {
		l := unicode.ToLower(r)
		if utf8.RuneLen(l) != utf8.RuneLen(r) {
			return r
		}
		return l
	}, s)
}
