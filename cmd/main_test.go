// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skryi/internal/config"
	"skryi/internal/documents"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("SKRYI_CONFIG_DIR", t.TempDir())
	var stdout, stderr bytes.Buffer
	root := newRootCmd(&stdout, &stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"processing", errors.New("boom"), exitFailure},
		{"config", fmt.Errorf("load: %w", config.ErrInvalid), exitUsage},
		{"missing file", fmt.Errorf("open: %w", documents.ErrNotFound), exitUsage},
		{"format", documents.ErrUnsupportedFormat, exitUsage},
		{"explicit", &exitError{code: exitFailure, err: config.ErrInvalid}, exitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCodeFor(tt.err))
		})
	}
}

func TestUsageErrors(t *testing.T) {
	_, _, err := runCLI(t, "anonymize")
	assert.Equal(t, exitUsage, exitCodeFor(err))

	_, _, err = runCLI(t, "anonymize", "--bogus", "a.txt")
	assert.Equal(t, exitUsage, exitCodeFor(err))

	_, _, err = runCLI(t, "anonymize", "--config", "/nonexistent/skryi.yaml", "a.txt")
	assert.Equal(t, exitUsage, exitCodeFor(err))

	_, _, err = runCLI(t, "anonymize", "--map-format", "csv", "a.txt")
	assert.Equal(t, exitUsage, exitCodeFor(err))
}

func TestAnonymizeJSONResult(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "dopis.txt")
	require.NoError(t, os.WriteFile(src, []byte("Kontakt: test@example.com\n"), 0600))
	out := filepath.Join(dir, "out")

	stdout, _, err := runCLI(t, "anonymize", "--no-color", "--json-result", "--output", out, src)
	require.NoError(t, err)

	var res fileResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	assert.True(t, res.Success)
	assert.Equal(t, filepath.Join(out, "dopis_anon.txt"), res.Output)
	assert.Equal(t, filepath.Join(out, "dopis_map.json"), res.MapJSON)
	assert.Equal(t, filepath.Join(out, "dopis_map.txt"), res.MapTXT)
	assert.Empty(t, res.MapYAML)
	assert.Equal(t, 1, res.EntitiesTotal)

	data, err := os.ReadFile(res.Output)
	require.NoError(t, err)
	assert.Equal(t, "Kontakt: [[EMAIL_1]]\n", string(data))
}

func TestAnonymizeMissingFile(t *testing.T) {
	stdout, _, err := runCLI(t, "anonymize", "--json-result", filepath.Join(t.TempDir(), "none.txt"))
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCodeFor(err))

	var res fileResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
}

func TestBatchReportsFailures(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("test@example.com\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.docx"), []byte("not a zip"), 0600))

	stdout, _, err := runCLI(t, "batch", "--no-color", "--workers", "2", "--output", filepath.Join(dir, "out"), dir)
	require.Error(t, err)
	assert.Equal(t, exitFailure, exitCodeFor(err))
	assert.Contains(t, stdout, "OK   "+filepath.Join(dir, "a.txt"))
	assert.Contains(t, stdout, "FAIL "+filepath.Join(dir, "b.docx"))
	assert.Contains(t, stdout, "1 processed, 1 failed, 2 workers")
}

func TestRulesCommand(t *testing.T) {
	stdout, _, err := runCLI(t, "rules")
	require.NoError(t, err)
	assert.Contains(t, stdout, "STAGE")
	assert.Contains(t, stdout, "EMAIL")

	stdout, _, err = runCLI(t, "rules", "--guards")
	require.NoError(t, err)
	assert.Contains(t, stdout, "not_in_tag")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "skryi")

	stdout, _, err = runCLI(t, "version", "--json")
	require.NoError(t, err)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.NotEmpty(t, info["version"])
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"json", "yaml"}, splitList(" JSON, ,yaml"))
	assert.Nil(t, splitList(""))
}
