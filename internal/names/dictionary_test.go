// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package names

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_FirstNamesLayout(t *testing.T) {
	d, err := Parse([]byte(`{"firstnames":{"M":["Petr","Jan"],"F":["Jana","Petra"],"U":["Saša"]}}`))
	require.NoError(t, err)

	assert.Equal(t, 5, d.Len())
	assert.True(t, d.Contains("PETR"))
	assert.Equal(t, GenderMale, d.Gender("petr"))
	assert.Equal(t, GenderFemale, d.Gender("Petra"))
	assert.Equal(t, GenderUnknown, d.Gender("saša"))
	assert.False(t, d.Contains("Pavel"))
}

func TestParse_LegacyLayoutAndList(t *testing.T) {
	d, err := Parse([]byte(`{"male":["Karel"],"female":["Eva"]}`))
	require.NoError(t, err)
	assert.Equal(t, GenderMale, d.Gender("karel"))
	assert.Equal(t, GenderFemale, d.Gender("eva"))

	d, err = Parse([]byte(`["Zdeněk", "x", "Anna"]`))
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len(), "single letter entries are rejected")
	assert.True(t, d.Contains("zdeněk"))
}

func TestParse_FirstRecordWins(t *testing.T) {
	d := New(Record{Name: "Nikola", Gender: GenderFemale}, Record{Name: "nikola", Gender: GenderMale})
	assert.Equal(t, GenderFemale, d.Gender("Nikola"))
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte(`{not json`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDictionaryLoad)
}

func TestLoad_MissingFileDegradesToEmpty(t *testing.T) {
	d, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	require.NotNil(t, d)
	assert.Equal(t, 0, d.Len())
	assert.False(t, d.Contains("jan"))
}

func TestLoad_GzipFile(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(`{"firstnames":{"M":["Radek"]}}`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "names.json.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, GenderMale, d.Gender("Radek"))
}

func TestDefault_Embedded(t *testing.T) {
	d, err := Load("")
	require.NoError(t, err)
	assert.Greater(t, d.Len(), 100)
	assert.Equal(t, GenderMale, d.Gender("Pavel"))
	assert.Equal(t, GenderFemale, d.Gender("Zuzana"))
}

func TestNilDictionary(t *testing.T) {
	var d *Dictionary
	assert.False(t, d.Contains("jan"))
	assert.Equal(t, GenderUnknown, d.Gender("jan"))
	assert.Equal(t, 0, d.Len())
}
