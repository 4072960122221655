// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const appName = "skryi"

// Output name suffixes
const (
	AnonSuffix = "_anon"
	MapSuffix  = "_map"
)

// GetConfigDir returns the skryi configuration directory.
// SKRYI_CONFIG_DIR wins on every platform, then APPDATA on Windows or
// XDG_CONFIG_HOME elsewhere, then a dot directory in the home directory.
func GetConfigDir() string {
	if dir := os.Getenv("SKRYI_CONFIG_DIR"); dir != "" {
		return dir
	}
	if IsWindows() {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appName)
		}
	} else if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + appName
	}
	return filepath.Join(home, "."+appName)
}

// GetConfigFile returns the path to the main config file
func GetConfigFile() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// IsWindows returns true if running on Windows
func IsWindows() bool {
	return runtime.GOOS == "windows"
}

// NormalizePath cleans a path and expands a leading ~
func NormalizePath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return filepath.Clean(path)
}

// ValidatePath validates a path for the current platform
func ValidatePath(path string) error {
	if path == "" {
		return nil
	}
	if IsWindows() {
		return validateWindowsPath(path)
	}
	return validateUnixPath(path)
}

func validateWindowsPath(path string) error {
	invalidChars := []rune{'<', '>', ':', '"', '|', '?', '*'}
	for i, char := range path {
		for _, invalid := range invalidChars {
			if char != invalid {
				continue
			}
			// drive letter
			if char == ':' && i == 1 {
				continue
			}
			return &PathValidationError{
				Path:   path,
				Reason: "contains invalid character: " + string(char),
			}
		}
	}
	if len(path) > 32767 {
		return &PathValidationError{
			Path:   path,
			Reason: "path exceeds maximum length of 32,767 characters",
		}
	}
	return nil
}

func validateUnixPath(path string) error {
	if strings.ContainsRune(path, 0) {
		return &PathValidationError{Path: path, Reason: "contains null byte"}
	}
	return nil
}

// PathValidationError represents a path validation error
type PathValidationError struct {
	Path   string
	Reason string
}

func (e *PathValidationError) Error() string {
	return "invalid path '" + e.Path + "': " + e.Reason
}

// Base returns the file name without directory and extension
func Base(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// AnonPath returns <dir>/<base>_anon<ext>. An empty dir keeps the
// document's own directory.
func AnonPath(dir, source, ext string) string {
	if dir == "" {
		dir = filepath.Dir(source)
	}
	return filepath.Join(dir, Base(source)+AnonSuffix+ext)
}

// MapPath returns <dir>/<base>_map.<format>
func MapPath(dir, source, format string) string {
	if dir == "" {
		dir = filepath.Dir(source)
	}
	return filepath.Join(dir, Base(source)+MapSuffix+"."+format)
}

// IsOutputOrTemp reports whether a file name is one of our own outputs (an
// anonymized document or a map) or an editor lock file. Batch runs skip them.
func IsOutputOrTemp(path string) bool {
	name := filepath.Base(path)
	return strings.HasPrefix(name, "~") || strings.Contains(name, AnonSuffix) || strings.HasSuffix(Base(name), MapSuffix)
}
