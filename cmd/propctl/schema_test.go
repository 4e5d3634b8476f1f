// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/propcore/internal/definition"
)

func TestSchemaCmd_Stdout(t *testing.T) {
	output, err := execute(t, "schema")
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &schema))
	assert.Equal(t, definition.SchemaID, schema["$id"])
}

func TestSchemaCmd_OutFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "collection.schema.json")

	output, err := execute(t, "schema", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, output, "Generated "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want, err := definition.GenerateSchema()
	require.NoError(t, err)
	assert.Equal(t, want, data)
}

func TestSchemaCmd_RejectsArgs(t *testing.T) {
	_, err := execute(t, "schema", "extra")
	assert.Error(t, err)
}
