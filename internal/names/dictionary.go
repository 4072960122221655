// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package names provides the first-name dictionary used by the name
// morphology engine and the person recognizers. The dictionary is a
// read-only lookup service: once loaded it is safe for concurrent use.
package names

import (
	"bytes"
	"compress/gzip"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"
)

// Embedded default dictionary in the cz_names.v1 layout
//
//go:embed data/cz_names.v1.json.gz
var defaultDictionaryGZ []byte

// ErrDictionaryLoad is returned when a dictionary file cannot be read or parsed.
var ErrDictionaryLoad = errors.New("names dictionary load failed")

// Gender of a first name as recorded in the dictionary.
type Gender int

const (
	GenderUnknown Gender = iota
	GenderMale
	GenderFemale
)

func (g Gender) String() string {
	switch g {
	case GenderMale:
		return "M"
	case GenderFemale:
		return "F"
	default:
		return "U"
	}
}

// ParseGender maps the dictionary keys M, F and U to a Gender.
func ParseGender(s string) Gender {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "M", "MALE":
		return GenderMale
	case "F", "FEMALE":
		return GenderFemale
	default:
		return GenderUnknown
	}
}

// Lookup is the read-only view of a names dictionary
type Lookup interface {
	Contains(name string) bool
	Gender(name string) Gender
	Len() int
}

// Dictionary holds lowercased first names and their recorded gender
type Dictionary struct {
	genders map[string]Gender
}

// Record is a single dictionary entry
type Record struct {
	Name   string
	Gender Gender
}

// New builds a dictionary from records. The first record for a name wins.
func New(records ...Record) *Dictionary {
	d := &Dictionary{genders: make(map[string]Gender, len(records))}
	for _, r := range records {
		d.add(r.Name, r.Gender)
	}
	return d
}

// Empty returns a dictionary with no names
func Empty() *Dictionary {
	return New()
}

func (d *Dictionary) add(name string, g Gender) {
	key := strings.ToLower(strings.TrimSpace(name))
	if !isValidName(key) {
		return
	}
	if _, exists := d.genders[key]; exists {
		return
	}
	d.genders[key] = g
}

// Contains reports whether the name (any case) is in the dictionary
func (d *Dictionary) Contains(name string) bool {
	if d == nil {
		return false
	}
	_, ok := d.genders[strings.ToLower(name)]
	return ok
}

// Gender returns the recorded gender, or GenderUnknown for missing names
func (d *Dictionary) Gender(name string) Gender {
	if d == nil {
		return GenderUnknown
	}
	return d.genders[strings.ToLower(name)]
}

// Len returns the number of names
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.genders)
}

// fileLayout covers the current {"firstnames":{...}} layout and the older
// {"male":[...],"female":[...]} one.
type fileLayout struct {
	FirstNames map[string][]string `json:"firstnames"`
	Male       []string            `json:"male"`
	Female     []string            `json:"female"`
}

// Parse decodes a dictionary document. A bare JSON array of names is
// accepted as well and yields names of unknown gender.
func Parse(data []byte) (*Dictionary, error) {
	trimmed := bytes.TrimSpace(data)
	d := Empty()
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDictionaryLoad, err)
		}
		for _, n := range list {
			d.add(n, GenderUnknown)
		}
		return d, nil
	}

	var layout fileLayout
	if err := json.Unmarshal(trimmed, &layout); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDictionaryLoad, err)
	}
	if layout.FirstNames != nil {
		for _, key := range []string{"M", "F", "U"} {
			g := ParseGender(key)
			for _, n := range layout.FirstNames[key] {
				d.add(n, g)
			}
		}
		return d, nil
	}
	for _, n := range layout.Male {
		d.add(n, GenderMale)
	}
	for _, n := range layout.Female {
		d.add(n, GenderFemale)
	}
	return d, nil
}

// LoadFile reads a dictionary file; .gz files are decompressed first.
func LoadFile(path string) (*Dictionary, error) {
	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDictionaryLoad, err)
	}
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		raw, err = gunzip(raw)
		if err != nil {
			return nil, err
		}
	}
	return Parse(raw)
}

var (
	defaultDictionary *Dictionary
	defaultOnce       sync.Once
	defaultErr        error
)

// Default returns the embedded dictionary, decoded once per process
func Default() (*Dictionary, error) {
	defaultOnce.Do(func() {
		var raw []byte
		raw, defaultErr = gunzip(defaultDictionaryGZ)
		if defaultErr != nil {
			return
		}
		defaultDictionary, defaultErr = Parse(raw)
	})
	return defaultDictionary, defaultErr
}

// Load returns the dictionary at path, or the embedded one when path is
// empty. It never returns nil: on failure the result is an empty dictionary
// together with the error, so recognition keeps running with lower recall.
func Load(path string) (*Dictionary, error) {
	var (
		d   *Dictionary
		err error
	)
	if path == "" {
		d, err = Default()
	} else {
		d, err = LoadFile(path)
	}
	if err != nil || d == nil {
		return Empty(), err
	}
	return d, nil
}

func gunzip(compressed []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create gzip reader: %v", ErrDictionaryLoad, err)
	}
	defer reader.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, fmt.Errorf("%w: failed to decompress data: %v", ErrDictionaryLoad, err)
	}
	return buf.Bytes(), nil
}

// isValidName performs basic validation on name data
func isValidName(name string) bool {
	if len([]rune(name)) < 2 || len(name) > 60 {
		return false
	}
	for _, r := range name {
		if r == '-' || r == '\'' || r == ' ' || r == '.' {
			continue
		}
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
