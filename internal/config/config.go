// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"skryi/internal/morphology"
	"skryi/internal/paths"
)

// ErrInvalid is returned when a configuration fails validation
var ErrInvalid = errors.New("invalid configuration")

// Sensitive value handling in replacement maps
const (
	SensitiveAudit  = "audit"
	SensitiveRedact = "redact"
)

// Config represents the application configuration
type Config struct {
	// Default settings
	Defaults Defaults `yaml:"defaults"`

	Rules      RulesConfig       `yaml:"rules"`
	Morphology morphology.Policy `yaml:"morphology"`
	Classifier ClassifierConfig  `yaml:"classifier"`
	Metrics    MetricsConfig     `yaml:"metrics"`

	// Profiles for different anonymization scenarios
	Profiles map[string]Profile `yaml:"profiles"`
}

// Defaults holds the settings used when no flag or profile overrides them
type Defaults struct {
	OutputDir  string   `yaml:"output_dir"`
	NamesFile  string   `yaml:"names_file"`
	LogLevel   string   `yaml:"log_level"`
	NoColor    bool     `yaml:"no_color"`
	Workers    int      `yaml:"workers"`
	MapFormats []string `yaml:"map_formats"`
}

// RulesConfig selects the rule table and switches rules on or off by name
type RulesConfig struct {
	File          string   `yaml:"file"`
	Disabled      []string `yaml:"disabled"`
	Enabled       []string `yaml:"enabled"`
	SensitiveMode string   `yaml:"sensitive_mode"`
}

// ClassifierConfig extends the person classifier's word lists
type ClassifierConfig struct {
	Gazetteer           string   `yaml:"gazetteer"`
	ExtraStopwords      []string `yaml:"extra_stopwords"`
	ExtraCompanyMarkers []string `yaml:"extra_company_markers"`
}

// MetricsConfig controls the prometheus textfile export
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// Profile represents a named set of overrides
type Profile struct {
	Description   string   `yaml:"description"`
	OutputDir     string   `yaml:"output_dir"`
	LogLevel      string   `yaml:"log_level"`
	NoColor       *bool    `yaml:"no_color"`
	Workers       int      `yaml:"workers"`
	MapFormats    []string `yaml:"map_formats"`
	SensitiveMode string   `yaml:"sensitive_mode"`
	DisabledRules []string `yaml:"disabled_rules"`
	EnabledRules  []string `yaml:"enabled_rules"`
}

var validLogLevels = map[string]bool{"off": true, "metrics": true, "debug": true}

var validMapFormats = map[string]bool{"json": true, "txt": true, "yaml": true}

// Default returns the built-in configuration
func Default() *Config {
	cfg := &Config{
		Morphology: morphology.DefaultPolicy(),
		Profiles:   make(map[string]Profile),
	}
	cfg.Defaults.LogLevel = "metrics"
	cfg.Defaults.Workers = 4
	cfg.Defaults.MapFormats = []string{"json", "txt"}
	cfg.Rules.SensitiveMode = SensitiveAudit

	noColor := true
	cfg.Profiles["strict"] = Profile{
		Description:   "Redact credentials in the maps and tag dates written with month names",
		SensitiveMode: SensitiveRedact,
		EnabledRules:  []string{"date_words"},
		NoColor:       &noColor,
	}
	return cfg
}

// LoadConfig loads configuration from the specified file path. An empty
// path returns the defaults. Environment overrides are applied last.
func LoadConfig(configPath string) (*Config, error) {
	config := Default()

	if configPath != "" {
		data, err := os.ReadFile(filepath.Clean(configPath))
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := decodeConfig(data, config); err != nil {
			return nil, err
		}
		if config.Profiles == nil {
			config.Profiles = make(map[string]Profile)
		}
	}

	if err := ApplyEnv(config); err != nil {
		return nil, err
	}
	normalizePaths(config)

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// decodeConfig parses a YAML document over config. An empty file keeps the
// defaults; any other top-level node must be a mapping.
func decodeConfig(data []byte, config *Config) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: error parsing config file: %v", ErrInvalid, err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil
	}
	if root := doc.Content[0]; root.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: config file must be a YAML mapping (line %d)", ErrInvalid, root.Line)
	}
	if err := doc.Decode(config); err != nil {
		return fmt.Errorf("%w: error parsing config file: %v", ErrInvalid, err)
	}
	return nil
}

// LoadDotEnv reads .env files into the process environment. Missing files
// are ignored; variables already set are kept.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if !fileExists(f) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv applies SKRYI_* environment overrides
func ApplyEnv(config *Config) error {
	if v := os.Getenv("SKRYI_NAMES_FILE"); v != "" {
		config.Defaults.NamesFile = v
	}
	if v := os.Getenv("SKRYI_OUTPUT_DIR"); v != "" {
		config.Defaults.OutputDir = v
	}
	if v := os.Getenv("SKRYI_LOG_LEVEL"); v != "" {
		config.Defaults.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("SKRYI_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: SKRYI_WORKERS=%q is not a number", ErrInvalid, v)
		}
		config.Defaults.Workers = n
	}
	return nil
}

func normalizePaths(config *Config) {
	config.Defaults.OutputDir = paths.NormalizePath(config.Defaults.OutputDir)
	config.Defaults.NamesFile = paths.NormalizePath(config.Defaults.NamesFile)
	config.Rules.File = paths.NormalizePath(config.Rules.File)
	config.Classifier.Gazetteer = paths.NormalizePath(config.Classifier.Gazetteer)
	config.Metrics.Textfile = paths.NormalizePath(config.Metrics.Textfile)
	for name, p := range config.Profiles {
		p.OutputDir = paths.NormalizePath(p.OutputDir)
		config.Profiles[name] = p
	}
}

// FindConfigFile looks for a configuration file in the working directory,
// then in the user configuration directory
func FindConfigFile() string {
	for _, name := range []string{"skryi.yaml", "skryi.yml", ".skryi.yaml", ".skryi.yml"} {
		if fileExists(name) {
			return name
		}
	}
	if standard := paths.GetConfigFile(); fileExists(standard) {
		return standard
	}
	return ""
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ValidateConfig checks values that would otherwise fail late
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("%w: configuration cannot be nil", ErrInvalid)
	}
	d := config.Defaults
	if !validLogLevels[d.LogLevel] {
		return fmt.Errorf("%w: log_level %q (want off, metrics or debug)", ErrInvalid, d.LogLevel)
	}
	if d.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalid)
	}
	if err := validateFormats(d.MapFormats); err != nil {
		return err
	}
	if err := validateSensitiveMode(config.Rules.SensitiveMode); err != nil {
		return err
	}
	p := config.Morphology
	if p.ShortStemMax < 0 || p.FemaleOuStemMax < 0 || p.MaleFallbackMin < 0 {
		return fmt.Errorf("%w: morphology thresholds must not be negative", ErrInvalid)
	}
	for _, path := range []string{d.OutputDir, d.NamesFile, config.Rules.File, config.Classifier.Gazetteer, config.Metrics.Textfile} {
		if err := paths.ValidatePath(path); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	}
	for name, prof := range config.Profiles {
		if prof.LogLevel != "" && !validLogLevels[prof.LogLevel] {
			return fmt.Errorf("%w: profile %q: log_level %q", ErrInvalid, name, prof.LogLevel)
		}
		if err := validateFormats(prof.MapFormats); err != nil {
			return fmt.Errorf("profile %q: %w", name, err)
		}
		if prof.SensitiveMode != "" {
			if err := validateSensitiveMode(prof.SensitiveMode); err != nil {
				return fmt.Errorf("profile %q: %w", name, err)
			}
		}
		if err := paths.ValidatePath(prof.OutputDir); err != nil {
			return fmt.Errorf("%w: profile %q: %v", ErrInvalid, name, err)
		}
	}
	return nil
}

func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validMapFormats[f] {
			return fmt.Errorf("%w: map format %q (want json, txt or yaml)", ErrInvalid, f)
		}
	}
	return nil
}

func validateSensitiveMode(mode string) error {
	if mode != SensitiveAudit && mode != SensitiveRedact {
		return fmt.Errorf("%w: sensitive_mode %q (want audit or redact)", ErrInvalid, mode)
	}
	return nil
}

// ListProfiles returns the profile names in sorted order
func (c *Config) ListProfiles() []string {
	profiles := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		profiles = append(profiles, name)
	}
	sort.Strings(profiles)
	return profiles
}

// GetProfile returns a profile by name, or nil if not found
func (c *Config) GetProfile(name string) *Profile {
	if profile, exists := c.Profiles[name]; exists {
		return &profile
	}
	return nil
}

// ApplyProfile copies the profile's non-empty settings over the defaults
func (c *Config) ApplyProfile(name string) error {
	p := c.GetProfile(name)
	if p == nil {
		return fmt.Errorf("%w: unknown profile %q", ErrInvalid, name)
	}
	if p.OutputDir != "" {
		c.Defaults.OutputDir = p.OutputDir
	}
	if p.LogLevel != "" {
		c.Defaults.LogLevel = p.LogLevel
	}
	if p.NoColor != nil {
		c.Defaults.NoColor = *p.NoColor
	}
	if p.Workers > 0 {
		c.Defaults.Workers = p.Workers
	}
	if len(p.MapFormats) > 0 {
		c.Defaults.MapFormats = append([]string(nil), p.MapFormats...)
	}
	if p.SensitiveMode != "" {
		c.Rules.SensitiveMode = p.SensitiveMode
	}
	c.Rules.Disabled = append(c.Rules.Disabled, p.DisabledRules...)
	c.Rules.Enabled = append(c.Rules.Enabled, p.EnabledRules...)
	return nil
}

// LoadConfigOrDefault loads configuration from configFile (or searches
// standard locations when configFile is empty). If loading fails, it
// returns the default configuration and the error for the caller to log.
func LoadConfigOrDefault(configFile string) (*Config, error) {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return Default(), err
	}
	return cfg, nil
}
