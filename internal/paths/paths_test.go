// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetConfigDir_Override(t *testing.T) {
	t.Setenv("SKRYI_CONFIG_DIR", "/tmp/skryi-test")
	assert.Equal(t, "/tmp/skryi-test", GetConfigDir())
	assert.Equal(t, filepath.Join("/tmp/skryi-test", "config.yaml"), GetConfigFile())
}

func TestOutputNames(t *testing.T) {
	src := filepath.Join("docs", "smlouva.docx")
	assert.Equal(t, filepath.Join("docs", "smlouva_anon.docx"), AnonPath("", src, ".docx"))
	assert.Equal(t, filepath.Join("out", "smlouva_anon.txt"), AnonPath("out", src, ".txt"))
	assert.Equal(t, filepath.Join("out", "smlouva_map.json"), MapPath("out", src, "json"))
	assert.Equal(t, "smlouva", Base(src))
}

func TestIsOutputOrTemp(t *testing.T) {
	assert.True(t, IsOutputOrTemp("~$smlouva.docx"))
	assert.True(t, IsOutputOrTemp(filepath.Join("a", "smlouva_anon.docx")))
	assert.True(t, IsOutputOrTemp("smlouva_map.txt"))
	assert.False(t, IsOutputOrTemp("smlouva.docx"))
	assert.False(t, IsOutputOrTemp("mapa.txt"))
}

func TestValidatePath(t *testing.T) {
	assert.NoError(t, ValidatePath(""))
	assert.NoError(t, ValidatePath("out/dir"))
	if !IsWindows() {
		err := ValidatePath("bad\x00path")
		var pve *PathValidationError
		assert.ErrorAs(t, err, &pve)
	}
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "", NormalizePath(""))
	assert.Equal(t, filepath.Clean("a/b"), NormalizePath("a//b/"))
}
