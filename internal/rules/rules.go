// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package rules is the declarative rule table: an ordered list of RE2
// patterns with capture strategy, entity kind, sensitivity and named guards.
package rules

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"skryi/internal/detector"
)

//go:embed rules.yaml
var defaultRules []byte

// ErrInvalidRule is returned when a rule table cannot be compiled
var ErrInvalidRule = errors.New("invalid rule")

// Stage groups rules that share one precedence level
type Stage string

const (
	StageCredentials Stage = "credentials"
	StageFinancial   Stage = "financial"
	StageIdentity    Stage = "identity_documents"
	StageDates       Stage = "strong_dates"
	StageNumericIDs  Stage = "weak_ids"
	StageAddresses   Stage = "addresses"
	StageContacts    Stage = "contacts"
	StagePersons     Stage = "persons"
	StageTechnical   Stage = "technical"
	StageAmounts     Stage = "amounts"
	StageSweep       Stage = "sweep"
)

// Stages is the fixed precedence order. Categories overlap syntactically, so
// earlier stages claim their spans before later ones see the text.
var Stages = []Stage{
	StageCredentials,
	StageFinancial,
	StageIdentity,
	StageDates,
	StageNumericIDs,
	StageAddresses,
	StageContacts,
	StagePersons,
	StageTechnical,
	StageAmounts,
	StageSweep,
}

func stageIndex(s Stage) int {
	for i, st := range Stages {
		if st == s {
			return i
		}
	}
	return -1
}

// Capture modes
const (
	CaptureWhole      = "whole"
	CaptureFirstGroup = "first_group"
	captureGroup      = "group:"
)

// Person name roles
const (
	RoleFirst = "first"
	RoleLast  = "last"
	RoleTitle = "title"
)

// Target maps one capture group to the entity it produces
type Target struct {
	Group     int    `yaml:"group"`
	Kind      string `yaml:"kind,omitempty"`
	Role      string `yaml:"role,omitempty"`
	Sensitive bool   `yaml:"sensitive,omitempty"`
}

// Rule is one entry of the rule table
type Rule struct {
	Name        string   `yaml:"name"`
	Kind        string   `yaml:"kind"`
	Stage       Stage    `yaml:"stage"`
	Pattern     string   `yaml:"pattern"`
	Capture     string   `yaml:"capture,omitempty"`
	Groups      []Target `yaml:"groups,omitempty"`
	Sensitive   bool     `yaml:"sensitive,omitempty"`
	Guards      []string `yaml:"guards,omitempty"`
	Context     []string `yaml:"context,omitempty"`
	Veto        []string `yaml:"veto,omitempty"`
	FollowedBy  []string `yaml:"followed_by,omitempty"`
	Mask        string   `yaml:"mask,omitempty"`
	Normalize   string   `yaml:"normalize,omitempty"`
	Sweep       bool     `yaml:"sweep,omitempty"`
	Enabled     *bool    `yaml:"enabled,omitempty"`
	Description string   `yaml:"description,omitempty"`

	re      *regexp.Regexp
	guards  []Guard
	enabled bool
}

// ruleFile is the top-level YAML structure
type ruleFile struct {
	ContextWindow int    `yaml:"context_window"`
	Rules         []Rule `yaml:"rules"`
}

// Capture is one extracted value of a hit
type Capture struct {
	detector.Span
	Value     string
	Kind      string
	Role      string
	Sensitive bool
}

// Hit is an accepted match of a rule
type Hit struct {
	Rule     *Rule
	Whole    detector.Span
	Captures []Capture
}

// Primary returns the first capture of the hit
func (h Hit) Primary() Capture {
	if len(h.Captures) == 0 {
		return Capture{}
	}
	return h.Captures[0]
}

// ByRole returns the capture with the given person role
func (h Hit) ByRole(role string) (Capture, bool) {
	for _, c := range h.Captures {
		if c.Role == role {
			return c, true
		}
	}
	return Capture{}, false
}

// IsEnabled reports whether the rule runs
func (r *Rule) IsEnabled() bool { return r.enabled }

// IsMask reports whether the rule masks its capture instead of tagging it
func (r *Rule) IsMask() bool { return r.Mask != "" }

// Regexp returns the compiled pattern
func (r *Rule) Regexp() *regexp.Regexp { return r.re }

func (r *Rule) compile(window int) error {
	if r.Name == "" {
		return fmt.Errorf("%w: rule without name", ErrInvalidRule)
	}
	if stageIndex(r.Stage) < 0 {
		return fmt.Errorf("%w: %s: unknown stage %q", ErrInvalidRule, r.Name, r.Stage)
	}
	re, err := regexp.Compile(r.Pattern)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidRule, r.Name, err)
	}
	r.re = re

	if len(r.Groups) == 0 {
		t, err := r.defaultTarget()
		if err != nil {
			return err
		}
		r.Groups = []Target{t}
	}
	for i := range r.Groups {
		g := &r.Groups[i]
		if g.Group < -1 || g.Group > re.NumSubexp() {
			return fmt.Errorf("%w: %s: group %d out of range", ErrInvalidRule, r.Name, g.Group)
		}
		if g.Kind == "" {
			g.Kind = r.Kind
		}
		if !r.IsMask() && !validKind(g.Kind) {
			return fmt.Errorf("%w: %s: bad kind %q", ErrInvalidRule, r.Name, g.Kind)
		}
		g.Sensitive = g.Sensitive || r.Sensitive
	}

	r.guards = []Guard{notInTag}
	for _, name := range r.Guards {
		g, ok := LookupGuard(name)
		if !ok {
			return fmt.Errorf("%w: %s: unknown guard %q", ErrInvalidRule, r.Name, name)
		}
		r.guards = append(r.guards, g)
	}
	if len(r.Context) > 0 {
		r.guards = append(r.guards, contextGuard(r.Context, window, true))
	}
	if len(r.Veto) > 0 {
		r.guards = append(r.guards, contextGuard(r.Veto, window, false))
	}
	if len(r.FollowedBy) > 0 {
		r.guards = append(r.guards, followedByGuard(r.FollowedBy))
	}
	switch r.Normalize {
	case "", normalizeSpaces, normalizeAddress:
	default:
		return fmt.Errorf("%w: %s: unknown normalize %q", ErrInvalidRule, r.Name, r.Normalize)
	}
	r.enabled = r.Enabled == nil || *r.Enabled
	return nil
}

// defaultTarget resolves the capture field. group:0 and whole are the same
// span; first_group is encoded as group -1 and resolved per match.
func (r *Rule) defaultTarget() (Target, error) {
	t := Target{Kind: r.Kind, Sensitive: r.Sensitive}
	switch c := r.Capture; {
	case c == "" && r.re.NumSubexp() == 0, c == CaptureWhole:
		t.Group = 0
	case c == "", c == CaptureFirstGroup:
		t.Group = -1
	case strings.HasPrefix(c, captureGroup):
		n, err := strconv.Atoi(strings.TrimPrefix(c, captureGroup))
		if err != nil {
			return t, fmt.Errorf("%w: %s: bad capture %q", ErrInvalidRule, r.Name, c)
		}
		t.Group = n
	default:
		return t, fmt.Errorf("%w: %s: bad capture %q", ErrInvalidRule, r.Name, c)
	}
	return t, nil
}

const (
	normalizeSpaces  = "strip_spaces"
	normalizeAddress = "address"
)

var addressIntro = regexp.MustCompile(`(?i)^.*(?:^|\s)(?:trvale\s+)?(?:bytem|v\s+ulic[ií]|na\s+adrese|na\s+ulici|v\s+dom[eě])\s+`)

// addressLead returns the length of a residence phrase swallowed by the
// street part, so "Novák bytem Dlouhá 5, ..." starts at "Dlouhá".
func addressLead(v string) int {
	loc := addressIntro.FindStringIndex(v)
	if loc == nil || loc[1] >= len(v) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(v[loc[1]:])
	if !unicode.IsUpper(r) {
		return 0
	}
	return loc[1]
}

var kindPattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

func validKind(k string) bool { return kindPattern.MatchString(k) }

func contextGuard(words []string, window int, want bool) Guard {
	lowered := make([]string, len(words))
	for i, w := range words {
		lowered[i] = strings.ToLower(w)
	}
	return func(text string, whole, capture detector.Span) bool {
		lead := strings.ToLower(before(text, whole.Start, window))
		for _, w := range lowered {
			if strings.Contains(lead, w) {
				return want
			}
		}
		return !want
	}
}

func followedByGuard(words []string) Guard {
	alts := make([]string, len(words))
	for i, w := range words {
		alts[i] = regexp.QuoteMeta(w)
	}
	re := regexp.MustCompile(`(?i)^\s*(?:` + strings.Join(alts, "|") + `)`)
	return func(text string, whole, capture detector.Span) bool {
		return re.MatchString(text[whole.End:])
	}
}

// Find returns the first accepted hit at or after from. next is where the
// following search should start: the end of an accepted hit, or one rune past
// the start of the last rejected candidate.
func (r *Rule) Find(text string, from int) (hit Hit, next int, ok bool) {
	for from <= len(text) {
		loc := r.re.FindStringSubmatchIndex(text[from:])
		if loc == nil {
			return Hit{}, len(text), false
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += from
			}
		}
		whole := detector.Span{Start: loc[0], End: loc[1]}
		if h, accepted := r.accept(text, loc); accepted {
			next = whole.End
			if whole.Len() == 0 {
				next = advance(text, whole.Start)
			}
			return h, next, true
		}
		from = advance(text, whole.Start)
	}
	return Hit{}, len(text), false
}

func advance(text string, pos int) int {
	if pos >= len(text) {
		return len(text) + 1
	}
	_, size := utf8.DecodeRuneInString(text[pos:])
	return pos + size
}

// FindAll returns every accepted, non-overlapping hit in text
func (r *Rule) FindAll(text string) []Hit {
	var hits []Hit
	for from := 0; from <= len(text); {
		h, next, ok := r.Find(text, from)
		if !ok {
			break
		}
		hits = append(hits, h)
		from = next
	}
	return hits
}

func (r *Rule) accept(text string, loc []int) (Hit, bool) {
	whole := detector.Span{Start: loc[0], End: loc[1]}
	h := Hit{Rule: r, Whole: whole}
	for _, t := range r.Groups {
		g := t.Group
		if g < 0 {
			g = firstGroup(loc)
			if g < 0 {
				return Hit{}, false
			}
		}
		s, e := loc[2*g], loc[2*g+1]
		if s < 0 {
			if t.Role != "" && t.Role != RoleTitle {
				return Hit{}, false
			}
			continue
		}
		if r.Normalize == normalizeAddress {
			s += addressLead(text[s:e])
		}
		value := text[s:e]
		if r.Normalize == normalizeSpaces {
			value = strings.Join(strings.Fields(value), "")
		}
		if strings.TrimSpace(value) == "" {
			continue
		}
		h.Captures = append(h.Captures, Capture{
			Span:      detector.Span{Start: s, End: e},
			Value:     value,
			Kind:      t.Kind,
			Role:      t.Role,
			Sensitive: t.Sensitive,
		})
	}
	if len(h.Captures) == 0 {
		return Hit{}, false
	}
	primary := h.Captures[0].Span
	for _, g := range r.guards {
		if !g(text, whole, primary) {
			return Hit{}, false
		}
	}
	for _, c := range h.Captures[1:] {
		if !notInTag(text, whole, c.Span) {
			return Hit{}, false
		}
	}
	return h, true
}

func firstGroup(loc []int) int {
	for g := 1; 2*g < len(loc); g++ {
		if loc[2*g] >= 0 {
			return g
		}
	}
	return -1
}

// Table is the ordered rule table
type Table struct {
	rules  []*Rule
	byName map[string]*Rule
}

// Default compiles the embedded rule table
func Default() (*Table, error) {
	return Parse(defaultRules)
}

// DefaultSource returns the embedded rule table YAML
func DefaultSource() []byte {
	out := make([]byte, len(defaultRules))
	copy(out, defaultRules)
	return out
}

// LoadFile reads and compiles a rule table from disk
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse compiles a rule table from YAML bytes. Unknown guards, stages or
// kinds fail the whole table.
func Parse(data []byte) (*Table, error) {
	var rf ruleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing rule YAML: %w", err)
	}
	window := rf.ContextWindow
	if window <= 0 {
		window = 40
	}
	t := &Table{byName: make(map[string]*Rule, len(rf.Rules))}
	for i := range rf.Rules {
		r := &rf.Rules[i]
		if err := r.compile(window); err != nil {
			return nil, err
		}
		if _, dup := t.byName[r.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate rule %q", ErrInvalidRule, r.Name)
		}
		t.byName[r.Name] = r
		t.rules = append(t.rules, r)
	}
	sort.SliceStable(t.rules, func(i, j int) bool {
		return stageIndex(t.rules[i].Stage) < stageIndex(t.rules[j].Stage)
	})
	return t, nil
}

// All returns every rule, enabled or not, in precedence order
func (t *Table) All() []*Rule {
	out := make([]*Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Stage returns the enabled rules of one stage in table order
func (t *Table) Stage(s Stage) []*Rule {
	var out []*Rule
	for _, r := range t.rules {
		if r.Stage == s && r.enabled {
			out = append(out, r)
		}
	}
	return out
}

// Sweep returns the enabled rules that run again in the validation sweep,
// followed by the sweep-only rules.
func (t *Table) Sweep() []*Rule {
	var again, own []*Rule
	for _, r := range t.rules {
		if !r.enabled {
			continue
		}
		switch {
		case r.Stage == StageSweep:
			own = append(own, r)
		case r.Sweep:
			again = append(again, r)
		}
	}
	return append(again, own...)
}

// Get returns a rule by name
func (t *Table) Get(name string) (*Rule, bool) {
	r, ok := t.byName[name]
	return r, ok
}

// Disable turns rules off by name
func (t *Table) Disable(names ...string) error {
	return t.setEnabled(false, names)
}

// Enable turns rules on by name
func (t *Table) Enable(names ...string) error {
	return t.setEnabled(true, names)
}

func (t *Table) setEnabled(on bool, names []string) error {
	var unknown []string
	for _, n := range names {
		r, ok := t.byName[n]
		if !ok {
			unknown = append(unknown, n)
			continue
		}
		r.enabled = on
	}
	if len(unknown) > 0 {
		return fmt.Errorf("%w: unknown rule(s) %s", ErrInvalidRule, strings.Join(unknown, ", "))
	}
	return nil
}

// Kinds returns the distinct entity kinds produced by enabled rules
func (t *Table) Kinds() []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range t.rules {
		if !r.enabled || r.IsMask() {
			continue
		}
		for _, g := range r.Groups {
			if !seen[g.Kind] {
				seen[g.Kind] = true
				out = append(out, g.Kind)
			}
		}
	}
	return out
}
