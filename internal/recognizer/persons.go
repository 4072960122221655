// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package recognizer

import (
	"skryi/internal/classifier"
	"skryi/internal/detector"
	"skryi/internal/identity"
	"skryi/internal/rules"
)

// applyKnownPeople replaces mentions of already registered people before
// any new-person rule runs. folded selects the diacritic-free capitals pass.
func (r *Recognizer) applyKnownPeople(text string, folded bool) string {
	known := r.people.FindKnown(text)
	if len(known) == 0 {
		return text
	}
	tags := detector.TagSpans(text)
	var matches []detector.Match
	for _, k := range known {
		if k.Folded != folded || detector.OverlapsAny(k.Span, tags) {
			continue
		}
		r.people.Observe(k.Identity, k.Surface)
		matches = append(matches, detector.Match{
			Span:        k.Span,
			Kind:        identity.Kind,
			Rule:        "known_person",
			Replacement: k.Identity.Tag,
		})
		r.counts[identity.Kind]++
	}
	return detector.Rewrite(text, matches)
}

// applyPersonRule resolves hits of a person rule through the classifier and
// the identity registry. A rejected pair is retried from its second word so
// "Smlouva Pavel Zíka" still yields "Pavel Zíka".
func (r *Recognizer) applyPersonRule(rule *rules.Rule, text string) string {
	var matches []detector.Match
	for from := 0; from <= len(text); {
		h, next, ok := rule.Find(text, from)
		if !ok {
			break
		}
		first, hasFirst := h.ByRole(rules.RoleFirst)
		last, hasLast := h.ByRole(rules.RoleLast)
		after := r.context.ExtractContext(text, h.Whole, nil).AfterText

		var d classifier.Decision
		switch {
		case hasFirst && hasLast && rule.Name == "person":
			d = r.classifier.ClassifyPair(first.Value, last.Value, after)
		case hasFirst && hasLast:
			d = r.classifier.ClassifyTitled(first.Value, last.Value, after)
		case hasLast:
			d = r.classifier.ClassifySurname(last.Value, after)
		case hasFirst:
			d = r.classifier.ClassifyStandaloneFirst(first.Value)
		}
		if !d.Person {
			if hasFirst && hasLast && last.Start > h.Whole.Start {
				next = last.Start
			}
			from = next
			continue
		}

		tag, _ := r.people.Ensure(first.Value, last.Value)
		if tag == "" {
			from = next
			continue
		}
		span := detector.Span{Start: first.Start, End: first.End}
		switch {
		case hasFirst && hasLast:
			span = detector.Span{Start: first.Start, End: last.End}
		case hasLast:
			span = last.Span
		}
		matches = append(matches, detector.Match{
			Span:        span,
			Kind:        identity.Kind,
			Rule:        rule.Name,
			Replacement: tag,
		})
		r.counts[identity.Kind]++
		from = next
	}
	return detector.Rewrite(text, matches)
}
