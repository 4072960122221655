// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package registry keeps the per-document map from recognized values to
// their placeholder labels.
package registry

import (
	"regexp"
	"strings"

	"skryi/internal/detector"
)

// Variant is one literal spelling of an entity as it appeared in the text
type Variant struct {
	Text  string
	Count int
}

// Entity is one logical value with a stable label
type Entity struct {
	Kind      string
	Index     int
	Canonical string
	Sensitive bool
	Variants  []*Variant

	// withdrawn entities lost every occurrence to a later rewrite
	withdrawn bool
}

// Label returns the placeholder for the entity
func (e *Entity) Label() string {
	return detector.FormatTag(e.Kind, e.Index)
}

// Occurrences returns how many times any variant was seen
func (e *Entity) Occurrences() int {
	n := 0
	for _, v := range e.Variants {
		n += v.Count
	}
	return n
}

func (e *Entity) observe(surface string) {
	e.withdrawn = false
	for _, v := range e.Variants {
		if v.Text == surface {
			v.Count++
			return
		}
	}
	e.Variants = append(e.Variants, &Variant{Text: surface, Count: 1})
}

// EntityRegistry maps values to labels for one document run. Indices are
// dense and start at 1 per kind. It is owned by a single goroutine.
type EntityRegistry struct {
	kinds    []string
	entities map[string][]*Entity
	// kind -> canonical value -> entity
	index map[string]map[string]*Entity
	// kind -> surface form -> canonical value
	reverse map[string]map[string]string
}

// New creates an empty registry
func New() *EntityRegistry {
	return &EntityRegistry{
		entities: make(map[string][]*Entity),
		index:    make(map[string]map[string]*Entity),
		reverse:  make(map[string]map[string]string),
	}
}

var addressPrefix = regexp.MustCompile(`(?i)^(?:sídlo|trvalé\s+bydliště|trvalý\s+pobyt|bydliště|adresa|místo\s+podnikání|se\s+sídlem|bytem)\s*:?\s*`)

// Normalize trims a recognized value and, for addresses, drops a leading
// residence label such as "Trvalé bydliště:".
func Normalize(kind, value string) string {
	v := strings.TrimSpace(value)
	if kind == "ADDRESS" {
		v = addressPrefix.ReplaceAllString(v, "")
	}
	return v
}

// Label returns the existing label for value or allocates the next one, and
// records the surface form as an occurrence.
func (r *EntityRegistry) Label(kind, value string, sensitive bool) string {
	e := r.Ensure(kind, value, sensitive)
	if e == nil {
		return ""
	}
	e.observe(Normalize(kind, value))
	return e.Label()
}

// Ensure returns the entity for value, creating it without recording an
// occurrence. Empty values yield nil.
func (r *EntityRegistry) Ensure(kind, value string, sensitive bool) *Entity {
	v := Normalize(kind, value)
	if v == "" {
		return nil
	}
	if e, ok := r.Lookup(kind, v); ok {
		e.Sensitive = e.Sensitive || sensitive
		return e
	}
	if _, seen := r.index[kind]; !seen {
		r.kinds = append(r.kinds, kind)
		r.index[kind] = make(map[string]*Entity)
		r.reverse[kind] = make(map[string]string)
	}
	e := &Entity{
		Kind:      kind,
		Index:     len(r.entities[kind]) + 1,
		Canonical: v,
		Sensitive: sensitive,
	}
	r.entities[kind] = append(r.entities[kind], e)
	r.index[kind][v] = e
	r.reverse[kind][v] = v
	return e
}

// Lookup finds the entity a surface form resolves to
func (r *EntityRegistry) Lookup(kind, value string) (*Entity, bool) {
	rev, ok := r.reverse[kind]
	if !ok {
		return nil, false
	}
	canonical, ok := rev[Normalize(kind, value)]
	if !ok {
		return nil, false
	}
	e, ok := r.index[kind][canonical]
	return e, ok
}

// Alias makes surface resolve to an existing canonical value. It reports
// false when the canonical value is unknown or surface already belongs to a
// different entity.
func (r *EntityRegistry) Alias(kind, surface, canonical string) bool {
	e, ok := r.Lookup(kind, canonical)
	if !ok {
		return false
	}
	s := Normalize(kind, surface)
	if prev, taken := r.reverse[kind][s]; taken {
		return prev == e.Canonical
	}
	r.reverse[kind][s] = e.Canonical
	return true
}

// ByLabel returns the entity behind a label
func (r *EntityRegistry) ByLabel(label string) (*Entity, bool) {
	kind, n, ok := detector.ParseTag(label)
	if !ok {
		return nil, false
	}
	list := r.entities[kind]
	if n < 1 || n > len(list) {
		return nil, false
	}
	return list[n-1], true
}

// Withdraw takes back one occurrence of the entity behind label, for a span
// that a later pass folded into a different entity. An entity left with no
// occurrences disappears from the map; when it is the newest of its kind its
// index is released, otherwise the index stays reserved so later labels keep
// their numbers.
func (r *EntityRegistry) Withdraw(label string) bool {
	e, ok := r.ByLabel(label)
	if !ok || e.withdrawn {
		return false
	}
	for i := len(e.Variants) - 1; i >= 0; i-- {
		if v := e.Variants[i]; v.Count > 0 {
			v.Count--
			if v.Count == 0 {
				e.Variants = append(e.Variants[:i], e.Variants[i+1:]...)
			}
			break
		}
	}
	if e.Occurrences() > 0 {
		return true
	}

	list := r.entities[e.Kind]
	if e.Index != len(list) {
		e.withdrawn = true
		return true
	}
	r.entities[e.Kind] = list[:len(list)-1]
	for surface, canonical := range r.reverse[e.Kind] {
		if canonical == e.Canonical {
			delete(r.reverse[e.Kind], surface)
		}
	}
	delete(r.index[e.Kind], e.Canonical)
	if len(r.entities[e.Kind]) == 0 {
		r.dropKind(e.Kind)
	}
	return true
}

func (r *EntityRegistry) dropKind(kind string) {
	delete(r.entities, kind)
	delete(r.index, kind)
	delete(r.reverse, kind)
	for i, k := range r.kinds {
		if k == kind {
			r.kinds = append(r.kinds[:i], r.kinds[i+1:]...)
			return
		}
	}
}

// Kinds returns the kinds in first-seen order
func (r *EntityRegistry) Kinds() []string {
	out := make([]string, len(r.kinds))
	copy(out, r.kinds)
	return out
}

// Entities returns the entities of one kind in index order
func (r *EntityRegistry) Entities(kind string) []*Entity {
	list := r.entities[kind]
	out := make([]*Entity, len(list))
	copy(out, list)
	return out
}

// Len returns the total number of entities still in the map
func (r *EntityRegistry) Len() int {
	n := 0
	for _, list := range r.entities {
		for _, e := range list {
			if !e.withdrawn {
				n++
			}
		}
	}
	return n
}

// Row is one line of the replacement map: a surface form and the label that
// replaced it.
type Row struct {
	Type        string `json:"type" yaml:"type"`
	Label       string `json:"label" yaml:"label"`
	Canonical   string `json:"canonical,omitempty" yaml:"canonical,omitempty"`
	Original    string `json:"original" yaml:"original"`
	Occurrences int    `json:"occurrences" yaml:"occurrences"`
	Sensitive   bool   `json:"sensitive,omitempty" yaml:"sensitive,omitempty"`
}

// Rows lists one row per observed surface form, kinds in first-seen order.
// Entities that were created but never observed get a single row for their
// canonical value.
func (r *EntityRegistry) Rows() []Row {
	var out []Row
	for _, kind := range r.kinds {
		for _, e := range r.entities[kind] {
			if e.withdrawn {
				continue
			}
			out = append(out, e.Rows()...)
		}
	}
	return out
}

// Rows lists the entity's surface forms
func (e *Entity) Rows() []Row {
	if len(e.Variants) == 0 {
		return []Row{{
			Type:      e.Kind,
			Label:     e.Label(),
			Original:  e.Canonical,
			Sensitive: e.Sensitive,
		}}
	}
	out := make([]Row, 0, len(e.Variants))
	for _, v := range e.Variants {
		row := Row{
			Type:        e.Kind,
			Label:       e.Label(),
			Original:    v.Text,
			Occurrences: v.Count,
			Sensitive:   e.Sensitive,
		}
		if v.Text != e.Canonical {
			row.Canonical = e.Canonical
		}
		out = append(out, row)
	}
	return out
}
