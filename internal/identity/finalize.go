// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package identity

import (
	"sort"
	"strings"

	"skryi/internal/detector"
	"skryi/internal/morphology"
	"skryi/internal/names"
)

// Pass names reported in events
const (
	PassCanonical = "canonical_presence"
	PassGender    = "gender_repair"
	PassMerge     = "duplicate_merge"
	PassPrune     = "evidence_prune"
)

// Event records one change made during Finalize. It carries tags only,
// never names.
type Event struct {
	Pass string
	Tag  string
	Into string
}

// Result is the outcome of the validation and merge pass
type Result struct {
	Identities []*Identity
	// Relabel maps tags issued during recognition to their final text: the
	// surviving dense tag, or the restored surface form of a pruned identity.
	// Unchanged tags are absent.
	Relabel map[string]string

	Repaired       int
	GenderRepaired int
	Merged         int
	Pruned         int
	Events         []Event
}

// Apply rewrites every issued tag in text to its final form in one pass
func (res *Result) Apply(text string) string {
	if res == nil || len(res.Relabel) == 0 {
		return text
	}
	return detector.TagPattern.ReplaceAllStringFunc(text, func(tag string) string {
		if v, ok := res.Relabel[tag]; ok {
			return v
		}
		return tag
	})
}

// Finalize runs the validation and merge pass over the whole registry.
// source is the full original text of the document. The pass runs once;
// later calls return the first result.
func (r *Registry) Finalize(source string) *Result {
	if r.result != nil {
		return r.result
	}
	ev := newEvidence(source)
	res := &Result{Relabel: make(map[string]string)}

	r.repairCanonical(ev, res)
	r.repairGender(res)
	owner := r.mergeDuplicates(res)
	pruned := r.prune(ev, res)
	r.relabel(owner, pruned, res)

	res.Identities = r.Identities()
	r.result = res
	return res
}

func (r *Registry) reinfer(p *Identity, surface string) (string, string) {
	words := strings.Fields(surface)
	if len(words) == 0 {
		return p.First, p.Last
	}
	e := r.engine
	switch {
	case p.First != "" && p.Last != "":
		if len(words) < 2 {
			return p.First, p.Last
		}
		return e.ResolvePair(words[0], words[len(words)-1])
	case p.Last != "":
		return "", e.NominativeOfSurname(words[len(words)-1])
	}
	return e.NominativeOfFirst(words[0]), ""
}

// repairCanonical replaces a canonical form that never occurs in the
// source with the nominative of the most frequent variant that does
func (r *Registry) repairCanonical(ev evidence, res *Result) {
	for _, p := range r.people {
		if ev.has(p.Canonical()) {
			continue
		}
		for _, v := range p.byFrequency() {
			if allUpper(v.Text) || !ev.has(v.Text) {
				continue
			}
			first, last := r.reinfer(p, v.Text)
			if (p.First != "") != (first != "") || (p.Last != "") != (last != "") {
				break
			}
			if first != p.First || last != p.Last {
				p.First, p.Last = first, last
				p.Gender = r.genderOf(first, last)
				res.Repaired++
				res.Events = append(res.Events, Event{Pass: PassCanonical, Tag: p.Tag})
			}
			break
		}
	}
}

func (r *Registry) genderConsistent(first, last string) bool {
	g := r.engine.GenderOfFirst(first)
	lo := strings.ToLower(last)
	switch {
	case morphology.IsFeminineSurname(last):
		return g == names.GenderFemale
	case strings.HasSuffix(lo, "í"), strings.HasSuffix(lo, "ý"):
		return true
	}
	return g != names.GenderFemale
}

// repairGender switches a first name that disagrees with the surname's
// gender to an observed variant whose first name agrees
func (r *Registry) repairGender(res *Result) {
	for _, p := range r.people {
		if p.Partial() || r.genderConsistent(p.First, p.Last) {
			continue
		}
		for _, v := range p.byFrequency() {
			words := strings.Fields(v.Text)
			if len(words) < 2 || allUpper(v.Text) {
				continue
			}
			cand := r.engine.NominativeOfFirst(words[0])
			if cand == "" || morphology.NormalizeKey(cand) == morphology.NormalizeKey(p.First) {
				continue
			}
			if r.genderConsistent(cand, p.Last) {
				p.First = cand
				p.Gender = r.genderOf(p.First, p.Last)
				res.GenderRepaired++
				res.Events = append(res.Events, Event{Pass: PassGender, Tag: p.Tag})
				break
			}
		}
	}
}

// mergeDuplicates unions identities that share a key, a variant or a
// re-inferred nominative, and folds partial identities into the single full
// identity they name. It returns the surviving identity for every tag.
func (r *Registry) mergeDuplicates(res *Result) map[string]*Identity {
	n := len(r.people)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra == rb {
			return
		}
		if rb < ra {
			ra, rb = rb, ra
		}
		parent[rb] = ra
	}

	keys := make([]map[personKey]bool, n)
	surfaces := make([]map[string]bool, n)
	for i, p := range r.people {
		keys[i] = map[personKey]bool{p.key(): true}
		surfaces[i] = make(map[string]bool)
		for _, v := range p.variants {
			surfaces[i][strings.ToLower(v.Text)] = true
			if allUpper(v.Text) {
				continue
			}
			f, l := r.reinfer(p, v.Text)
			keys[i][keyOf(f, l)] = true
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if r.people[i].key() == r.people[j].key() || intersects(keys[i], keys[j]) || intersects(surfaces[i], surfaces[j]) {
				union(i, j)
			}
		}
	}

	for i, p := range r.people {
		if !p.Partial() {
			continue
		}
		k := p.key()
		match := -1
		for j, q := range r.people {
			if q.Partial() {
				continue
			}
			qk := q.key()
			if (k.first == "" && qk.last == k.last) || (k.last == "" && qk.first == k.first) {
				if match >= 0 && find(match) != find(j) {
					match = -2
					break
				}
				match = j
			}
		}
		if match >= 0 {
			union(i, match)
		}
	}

	groups := make(map[int][]int)
	for i := range r.people {
		root := find(i)
		groups[root] = append(groups[root], i)
	}

	owner := make(map[string]*Identity, n)
	var survivors []*Identity
	for i := range r.people {
		members := groups[find(i)]
		if members[0] != i {
			continue
		}
		keep := members[0]
		for _, m := range members {
			if !r.people[m].Partial() {
				keep = m
				break
			}
		}
		s := r.people[keep]
		for _, m := range members {
			if m == keep {
				continue
			}
			q := r.people[m]
			s.absorb(q)
			owner[q.Tag] = s
			res.Merged++
			res.Events = append(res.Events, Event{Pass: PassMerge, Tag: q.Tag, Into: s.Tag})
		}
		owner[s.Tag] = s
		survivors = append(survivors, s)
	}
	sort.SliceStable(survivors, func(a, b int) bool { return survivors[a].index < survivors[b].index })
	r.people = survivors
	return owner
}

// prune deletes identities with no evidence in the source and returns the
// text each pruned tag reverts to
func (r *Registry) prune(ev evidence, res *Result) map[*Identity]string {
	pruned := make(map[*Identity]string)
	kept := r.people[:0]
	for _, p := range r.people {
		if ev.has(p.Canonical()) || p.anyVariantIn(ev) {
			kept = append(kept, p)
			continue
		}
		restore := p.Canonical()
		if vs := p.byFrequency(); len(vs) > 0 {
			restore = vs[0].Text
		}
		pruned[p] = restore
		res.Pruned++
		res.Events = append(res.Events, Event{Pass: PassPrune, Tag: p.Tag})
	}
	r.people = kept
	return pruned
}

func (p *Identity) anyVariantIn(ev evidence) bool {
	for _, v := range p.variants {
		if ev.has(v.Text) {
			return true
		}
	}
	return false
}

// relabel renumbers the survivors densely and records the final text of
// every tag issued during recognition
func (r *Registry) relabel(owner map[string]*Identity, pruned map[*Identity]string, res *Result) {
	issued := make([]string, 0, len(owner))
	for tag := range owner {
		issued = append(issued, tag)
	}

	final := make(map[*Identity]string, len(r.people))
	r.byKey = make(map[personKey]*Identity, len(r.people))
	for i, p := range r.people {
		p.index = i + 1
		final[p] = detector.FormatTag(Kind, p.index)
		r.byKey[p.key()] = p
	}

	for _, tag := range issued {
		p := owner[tag]
		var to string
		if restore, gone := pruned[p]; gone {
			to = restore
		} else {
			to = final[p]
		}
		if to != tag {
			res.Relabel[tag] = to
		}
	}
	for _, p := range r.people {
		p.Tag = final[p]
	}
	r.matcher = nil
}

func intersects[K comparable](a, b map[K]bool) bool {
	if len(b) < len(a) {
		a, b = b, a
	}
	for k := range a {
		if b[k] {
			return true
		}
	}
	return false
}

// evidence answers whole-word, case-insensitive presence questions about
// the source text
type evidence struct {
	text string
}

func newEvidence(source string) evidence {
	return evidence{text: lowerSameWidth(collapseSpaces(source))}
}

func (ev evidence) has(s string) bool {
	needle := lowerSameWidth(collapseSpaces(s))
	if needle == "" {
		return false
	}
	from := 0
	for {
		i := strings.Index(ev.text[from:], needle)
		if i < 0 {
			return false
		}
		start := from + i
		if wordBoundary(ev.text, start, start+len(needle)) {
			return true
		}
		from = start + 1
	}
}
