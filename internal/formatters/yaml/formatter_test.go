// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package yaml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"skryi/internal/formatters"
	"skryi/internal/formatters/shared"
	"skryi/internal/registry"
)

func TestFormat(t *testing.T) {
	m := &formatters.Map{
		SourceFile: "dopis.txt",
		Rows: []registry.Row{
			{Type: "PHONE", Label: "[[PHONE_1]]", Original: "+420 777 123 456", Occurrences: 2},
			{Type: "PASSWORD", Label: "[[PASSWORD_1]]", Original: "Heslo123", Occurrences: 1, Sensitive: true},
		},
	}
	out, err := NewFormatter().Format(m, formatters.FormatterOptions{Redact: true})
	require.NoError(t, err)

	var doc shared.MapDocument
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "1.0", doc.Version)
	assert.Empty(t, doc.GeneratedAt)
	require.Len(t, doc.Entities, 2)
	assert.Equal(t, 2, doc.Entities[0].Occurrences)
	assert.Equal(t, formatters.Redacted, doc.Entities[1].Original)
}

func TestFormat_NilMap(t *testing.T) {
	_, err := NewFormatter().Format(nil, formatters.FormatterOptions{})
	assert.Error(t, err)
}
