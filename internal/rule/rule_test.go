// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package rule_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/propcore/internal/collection"
	"github.com/holomush/propcore/internal/property"
	"github.com/holomush/propcore/internal/rule"
	"github.com/holomush/propcore/pkg/errutil"
)

func intProp(t *testing.T, name string, def, lo, hi int, opts ...property.Option) *property.Int {
	t.Helper()
	p, err := property.NewInt(name, def, lo, hi, opts...)
	require.NoError(t, err)
	return p
}

func build(t *testing.T, props []property.Property, rules []collection.Rule, opts ...collection.Option) *collection.Collection {
	t.Helper()
	c, err := collection.New(props, rules, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func get[P property.Property](t *testing.T, c *collection.Collection, name string) P {
	t.Helper()
	p, err := collection.As[P](c, name)
	require.NoError(t, err)
	return p
}

func TestReadOnlyBoundToBoolean(t *testing.T) {
	tests := []struct {
		name       string
		inverse    bool
		initial    bool
		wantAtInit bool
	}{
		{name: "direct false", inverse: false, initial: false, wantAtInit: false},
		{name: "direct true", inverse: false, initial: true, wantAtInit: true},
		{name: "inverse false", inverse: true, initial: false, wantAtInit: true},
		{name: "inverse true", inverse: true, initial: true, wantAtInit: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := build(t,
				[]property.Property{property.NewBool("Locked", tt.initial), intProp(t, "Speed", 1, 0, 10)},
				[]collection.Rule{rule.NewReadOnlyBoundToBoolean("Speed", "Locked", tt.inverse)},
			)
			locked := get[*property.Bool](t, c, "Locked")
			speed := get[*property.Int](t, c, "Speed")

			assert.Equal(t, tt.wantAtInit, speed.ReadOnly())

			require.NoError(t, locked.Set(!tt.initial))
			assert.Equal(t, !tt.wantAtInit, speed.ReadOnly())
		})
	}
}

func TestReadOnlyBoundToBoolean_BlocksWrites(t *testing.T) {
	c := build(t,
		[]property.Property{property.NewBool("Locked", false), intProp(t, "Speed", 1, 0, 10)},
		[]collection.Rule{rule.NewReadOnlyBoundToBoolean("Speed", "Locked", false)},
	)
	require.NoError(t, get[*property.Bool](t, c, "Locked").Set(true))

	err := get[*property.Int](t, c, "Speed").Set(4)
	errutil.AssertErrorCode(t, err, property.CodeReadOnly)
}

func TestReadOnlyBoundToBoolean_InitializationErrors(t *testing.T) {
	tests := []struct {
		name string
		rule collection.Rule
		code string
	}{
		{name: "same property", rule: rule.NewReadOnlyBoundToBoolean("Locked", "Locked", false), code: collection.CodeSameProperty},
		{name: "missing source", rule: rule.NewReadOnlyBoundToBoolean("Speed", "Nope", false), code: collection.CodePropertyNotFound},
		{name: "source not boolean", rule: rule.NewReadOnlyBoundToBoolean("Locked", "Speed", false), code: collection.CodePropertyNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := collection.New(
				[]property.Property{property.NewBool("Locked", false), intProp(t, "Speed", 1, 0, 10)},
				[]collection.Rule{tt.rule},
			)
			errutil.AssertErrorCode(t, err, tt.code)
		})
	}
}

func TestReadOnlyBoundToValue(t *testing.T) {
	mode, err := property.NewChoice("Mode", []string{"auto", "manual", "off"}, 0)
	require.NoError(t, err)

	c := build(t,
		[]property.Property{mode, intProp(t, "Speed", 1, 0, 10)},
		[]collection.Rule{rule.NewReadOnlyBoundToValue("Speed", "Mode", []string{"auto", "off"}, false)},
	)
	m := get[*property.Choice[string]](t, c, "Mode")
	speed := get[*property.Int](t, c, "Speed")

	assert.True(t, speed.ReadOnly())
	require.NoError(t, m.Set("manual"))
	assert.False(t, speed.ReadOnly())
	require.NoError(t, m.Set("off"))
	assert.True(t, speed.ReadOnly())
}

func TestReadOnlyBoundToValue_Inverse(t *testing.T) {
	c := build(t,
		[]property.Property{intProp(t, "Level", 0, 0, 5), intProp(t, "Speed", 1, 0, 10)},
		[]collection.Rule{rule.NewReadOnlyBoundToValue("Speed", "Level", []int{3}, true)},
	)
	level := get[*property.Int](t, c, "Level")
	speed := get[*property.Int](t, c, "Speed")

	assert.True(t, speed.ReadOnly())
	require.NoError(t, level.Set(3))
	assert.False(t, speed.ReadOnly())
}

func TestReadOnlyBoundToValue_ValuesSurviveClone(t *testing.T) {
	r := rule.NewReadOnlyBoundToValue("Speed", "Level", []int{1, 2}, false)
	clone, ok := r.Clone().(*rule.ReadOnlyBoundToValue[int])
	require.True(t, ok)
	assert.ElementsMatch(t, []int{1, 2}, clone.ValuesForReadOnly())
}

func TestRule_AlreadyInitialized(t *testing.T) {
	c := build(t,
		[]property.Property{property.NewBool("Locked", false), intProp(t, "Speed", 1, 0, 10)},
		[]collection.Rule{rule.NewReadOnlyBoundToBoolean("Speed", "Locked", false)},
	)

	owned := c.Rules()[0]
	err := owned.Initialize(c)
	errutil.AssertErrorCode(t, err, collection.CodeAlreadyInitialized)
}

func TestRule_TemplatesStayDetached(t *testing.T) {
	template := rule.NewReadOnlyBoundToBoolean("Speed", "Locked", false)
	build(t,
		[]property.Property{property.NewBool("Locked", false), intProp(t, "Speed", 1, 0, 10)},
		[]collection.Rule{template},
	)

	assert.False(t, template.Initialized())
	assert.Nil(t, template.Owner())
}

func TestRuleSync_LogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c := build(t,
		[]property.Property{property.NewBool("Locked", false), intProp(t, "Speed", 1, 0, 10)},
		[]collection.Rule{rule.NewReadOnlyBoundToBoolean("Speed", "Locked", false)},
		collection.WithLogger(logger),
	)
	buf.Reset()

	require.NoError(t, get[*property.Bool](t, c, "Locked").Set(true))

	out := buf.String()
	assert.Contains(t, out, `"msg":"rule sync"`)
	assert.Contains(t, out, `"rule":"read_only_bound_to_boolean"`)
	assert.Contains(t, out, `"property":"Speed"`)
	assert.Contains(t, out, `"read_only":true`)
	assert.Contains(t, out, `"collection_id":"`+c.ID().String()+`"`)
}
