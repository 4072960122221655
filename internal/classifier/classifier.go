// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package classifier decides whether capitalized words name a person or
// something else: a company, an institution, a product, a role or a place.
// Grammar is not its concern; the word lists live in an embedded gazetteer.
package classifier

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"skryi/internal/names"
)

//go:embed gazetteer.yaml
var defaultGazetteer []byte

// Gazetteer is the word-list resource behind a Classifier
type Gazetteer struct {
	CriticalSubstrings []string `yaml:"critical_substrings"`
	Stopwords          []string `yaml:"stopwords"`
	NonPersonWords     []string `yaml:"non_person_words"`
	RoleWords          []string `yaml:"role_words"`
	StandaloneIgnore   []string `yaml:"standalone_ignore"`
	CommonFirstNames   []string `yaml:"common_first_names"`
	SurnameSuffixes    []string `yaml:"surname_suffixes"`
	ProductWords       []string `yaml:"product_words"`
	CompanyMarkers     []string `yaml:"company_markers"`
}

// ParseGazetteer decodes a YAML gazetteer
func ParseGazetteer(data []byte) (*Gazetteer, error) {
	var g Gazetteer
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to parse gazetteer: %w", err)
	}
	return &g, nil
}

// LoadGazetteer reads a YAML gazetteer file
func LoadGazetteer(path string) (*Gazetteer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read gazetteer %s: %w", path, err)
	}
	return ParseGazetteer(data)
}

// DefaultGazetteer returns the embedded gazetteer
func DefaultGazetteer() *Gazetteer {
	g, err := ParseGazetteer(defaultGazetteer)
	if err != nil {
		panic(err)
	}
	return g
}

// Decision is the outcome of a classification with the reason behind it
type Decision struct {
	Person bool
	Reason string
}

func reject(reason string) Decision { return Decision{Reason: reason} }

var accept = Decision{Person: true, Reason: "accepted"}

// Classifier is safe for concurrent use once built
type Classifier struct {
	dict       names.Lookup
	critical   []string
	stop       map[string]bool
	nonPerson  map[string]bool
	roles      map[string]bool
	standalone map[string]bool
	common     map[string]bool
	suffixes   []string
	products   map[string]bool
	markers    []string
	nominative func(string) string
}

// Option configures a Classifier
type Option func(*Classifier)

// WithStopwords adds words that disqualify a name pair
func WithStopwords(words ...string) Option {
	return func(c *Classifier) {
		for _, w := range words {
			c.stop[strings.ToLower(strings.TrimSpace(w))] = true
		}
	}
}

// WithCompanyMarkers adds legal-form suffixes that turn a preceding pair
// into a company name
func WithCompanyMarkers(markers ...string) Option {
	return func(c *Classifier) {
		for _, m := range markers {
			if m = compact(m); m != "" {
				c.markers = append(c.markers, m)
			}
		}
	}
}

// WithNominative sets the function that maps an inflected first name to its
// nominative, so "Jiřího" is recognised as a first name
func WithNominative(fn func(string) string) Option {
	return func(c *Classifier) {
		c.nominative = fn
	}
}

// New builds a classifier from a gazetteer. A nil gazetteer selects the
// embedded one and a nil dictionary an empty one.
func New(dict names.Lookup, g *Gazetteer, opts ...Option) *Classifier {
	if g == nil {
		g = DefaultGazetteer()
	}
	if dict == nil {
		dict = names.Empty()
	}
	c := &Classifier{
		dict:       dict,
		critical:   lowerAll(g.CriticalSubstrings),
		stop:       toSet(g.Stopwords),
		nonPerson:  toSet(g.NonPersonWords),
		roles:      toSet(g.RoleWords),
		standalone: toSet(g.StandaloneIgnore),
		common:     toSet(g.CommonFirstNames),
		suffixes:   lowerAll(g.SurnameSuffixes),
		products:   toSet(g.ProductWords),
	}
	for _, m := range g.CompanyMarkers {
		if m = compact(m); m != "" {
			c.markers = append(c.markers, m)
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClassifyPair decides whether an untitled "First Last" pair is a person.
// after is the text that follows the pair.
func (c *Classifier) ClassifyPair(first, last, after string) Decision {
	if d := c.screen(first, last, after); !d.Person {
		return d
	}
	lastLo := strings.ToLower(last)
	if !c.hasSurnameSuffix(lastLo) && (utf8.RuneCountInString(last) <= 3 || c.products[lastLo]) {
		return reject("product_word")
	}
	if !c.knownFirst(first) && c.knownFirst(last) {
		return reject("shifted_pair")
	}
	if !c.plausibleFirst(first) {
		return reject("first_name_shape")
	}
	return accept
}

// ClassifyTitled decides whether a pair preceded by an academic title is a
// person. The title is evidence enough for the surname: only legal forms
// and institution words disqualify it, so "Ing. Jana Malá" is a person.
func (c *Classifier) ClassifyTitled(first, last, after string) Decision {
	combined := strings.ToLower(first + " " + last)
	if c.containsCritical(combined) {
		return reject("critical_word")
	}
	if c.followedByCompany(after) {
		return reject("company_suffix")
	}
	firstLo := strings.ToLower(first)
	if c.stop[firstLo] || c.nonPerson[firstLo] {
		return reject("stopword")
	}
	if c.roles[firstLo] {
		return reject("role_word")
	}
	if !c.plausibleFirst(first) {
		return reject("first_name_shape")
	}
	return accept
}

// ClassifySurname decides whether a lone word after an honorific such as
// "pan" or "paní" is a surname.
func (c *Classifier) ClassifySurname(last, after string) Decision {
	lo := strings.ToLower(last)
	if c.stop[lo] || c.nonPerson[lo] || c.roles[lo] || c.standalone[lo] {
		return reject("stopword")
	}
	if c.containsCritical(lo) {
		return reject("critical_word")
	}
	if c.followedByCompany(after) {
		return reject("company_suffix")
	}
	if utf8.RuneCountInString(last) < 3 {
		return reject("too_short")
	}
	return accept
}

// ClassifyStandaloneFirst decides whether a lone capitalized word in subject
// position is a first name. Only dictionary names qualify.
func (c *Classifier) ClassifyStandaloneFirst(name string) Decision {
	lo := strings.ToLower(name)
	if !c.dict.Contains(lo) {
		return reject("not_in_dictionary")
	}
	if c.standalone[lo] || c.stop[lo] {
		return reject("place_word")
	}
	return accept
}

// FollowedByCompany reports whether after starts with a legal-form suffix
func (c *Classifier) FollowedByCompany(after string) bool {
	return c.followedByCompany(after)
}

func (c *Classifier) screen(first, last, after string) Decision {
	combined := strings.ToLower(first + " " + last)
	if c.containsCritical(combined) {
		return reject("critical_word")
	}
	firstLo, lastLo := strings.ToLower(first), strings.ToLower(last)
	if c.stop[firstLo] || c.stop[lastLo] {
		return reject("stopword")
	}
	for _, w := range strings.FieldsFunc(combined, notLetter) {
		if c.nonPerson[w] {
			return reject("non_person_word")
		}
	}
	if c.followedByCompany(after) {
		return reject("company_suffix")
	}
	if c.roles[firstLo] {
		return reject("role_word")
	}
	return accept
}

func (c *Classifier) containsCritical(s string) bool {
	for _, w := range c.critical {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func (c *Classifier) hasSurnameSuffix(lo string) bool {
	for _, s := range c.suffixes {
		if strings.HasSuffix(lo, s) {
			return true
		}
	}
	return false
}

// knownFirst reports whether a word is a dictionary first name, directly or
// through its nominative
func (c *Classifier) knownFirst(word string) bool {
	lo := strings.ToLower(word)
	if c.dict.Contains(lo) || c.common[lo] {
		return true
	}
	if c.nominative == nil {
		return false
	}
	nom := strings.ToLower(c.nominative(word))
	return nom != lo && (c.dict.Contains(nom) || c.common[nom])
}

// plausibleFirst rejects truncated genitive stems such as "Han" or "Elišk"
// for names the dictionary does not know.
func (c *Classifier) plausibleFirst(first string) bool {
	lo := strings.ToLower(first)
	if c.dict.Contains(lo) || c.common[lo] {
		return true
	}
	n := utf8.RuneCountInString(lo)
	last, _ := utf8.DecodeLastRuneInString(lo)
	switch {
	case n < 3:
		return false
	case n == 3:
		return strings.ContainsRune("aeiouyáéíóúůýnlr", last)
	case n <= 5:
		return last != 'k' && strings.ContainsRune("aeiouyáéíóúůýnlršm", last)
	}
	return true
}

func (c *Classifier) followedByCompany(after string) bool {
	rest := compact(firstRunes(after, 20))
	rest = strings.TrimLeft(rest, ",")
	for _, m := range c.markers {
		if strings.HasPrefix(rest, m) {
			return true
		}
	}
	return false
}

func firstRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func compact(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

func notLetter(r rune) bool { return !unicode.IsLetter(r) }

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func toSet(in []string) map[string]bool {
	out := make(map[string]bool, len(in))
	for _, s := range lowerAll(in) {
		out[s] = true
	}
	return out
}
