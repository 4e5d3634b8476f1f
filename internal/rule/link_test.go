// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package rule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/propcore/internal/collection"
	"github.com/holomush/propcore/internal/property"
	"github.com/holomush/propcore/internal/rule"
	"github.com/holomush/propcore/pkg/errutil"
)

func gatedPair(t *testing.T, gate bool, inverse bool) *collection.Collection {
	t.Helper()
	return build(t,
		[]property.Property{
			property.NewBool("Gate", gate),
			intProp(t, "A", 1, 0, 10),
			intProp(t, "B", 1, 0, 10),
		},
		[]collection.Rule{rule.NewLinkValuesBasedOnBoolean[int]([]string{"A", "B"}, "Gate", inverse)},
	)
}

func TestLinkValues_PropagatesWhileGateOpen(t *testing.T) {
	c := gatedPair(t, false, false)
	gate := get[*property.Bool](t, c, "Gate")
	a := get[*property.Int](t, c, "A")
	b := get[*property.Int](t, c, "B")

	require.NoError(t, gate.Set(true))
	require.NoError(t, a.Set(5))
	assert.Equal(t, 5, b.Get())

	require.NoError(t, gate.Set(false))
	require.NoError(t, a.Set(9))
	assert.Equal(t, 5, b.Get())
	assert.Equal(t, 9, a.Get())
}

func TestLinkValues_Inverse(t *testing.T) {
	c := gatedPair(t, false, true)
	a := get[*property.Int](t, c, "A")
	b := get[*property.Int](t, c, "B")

	require.NoError(t, b.Set(7))
	assert.Equal(t, 7, a.Get())
	assert.Equal(t, "A", c.Rules()[0].(*rule.LinkValuesBasedOnBoolean[int]).LastChanged())
}

func TestLinkValues_OpeningGateSyncsLastChanged(t *testing.T) {
	c := gatedPair(t, false, false)
	gate := get[*property.Bool](t, c, "Gate")
	a := get[*property.Int](t, c, "A")
	b := get[*property.Int](t, c, "B")

	require.NoError(t, b.Set(4))
	assert.Equal(t, 1, a.Get())

	require.NoError(t, gate.Set(true))
	assert.Equal(t, 4, a.Get())
}

func TestLinkValues_WritesThroughReadOnlyTargets(t *testing.T) {
	c := build(t,
		[]property.Property{
			property.NewBool("Gate", true),
			intProp(t, "A", 1, 0, 10),
			intProp(t, "B", 1, 0, 10, property.ReadOnly(true)),
		},
		[]collection.Rule{rule.NewLinkValuesBasedOnBoolean[int]([]string{"A", "B"}, "Gate", false)},
	)
	a := get[*property.Int](t, c, "A")
	b := get[*property.Int](t, c, "B")

	require.NoError(t, a.Set(6))
	assert.Equal(t, 6, b.Get())
	assert.True(t, b.ReadOnly())
}

func TestLinkValues_DoubleTargets(t *testing.T) {
	x, err := property.NewDouble("X", 0.5, 0, 1)
	require.NoError(t, err)
	y, err := property.NewDouble("Y", 0.5, 0, 1)
	require.NoError(t, err)
	z, err := property.NewDouble("Z", 0.5, 0, 1)
	require.NoError(t, err)

	c := build(t,
		[]property.Property{property.NewBool("Gate", true), x, y, z},
		[]collection.Rule{rule.NewLinkValuesBasedOnBoolean[float64]([]string{"X", "Y", "Z"}, "Gate", false)},
	)

	require.NoError(t, get[*property.Double](t, c, "Y").Set(0.25))
	assert.InDelta(t, 0.25, get[*property.Double](t, c, "X").Get(), 1e-9)
	assert.InDelta(t, 0.25, get[*property.Double](t, c, "Z").Get(), 1e-9)
}

func TestLinkValues_InitializationErrors(t *testing.T) {
	props := func(t *testing.T) []property.Property {
		return []property.Property{
			property.NewBool("Gate", false),
			intProp(t, "A", 1, 0, 10),
			intProp(t, "B", 1, 0, 10),
			intProp(t, "C", 1, 0, 10),
			intProp(t, "Wide", 1, 0, 100),
		}
	}

	tests := []struct {
		name  string
		rules []collection.Rule
		code  string
	}{
		{
			name:  "single target",
			rules: []collection.Rule{rule.NewLinkValuesBasedOnBoolean[int]([]string{"A"}, "Gate", false)},
			code:  collection.CodeInvalidTargets,
		},
		{
			name:  "source among targets",
			rules: []collection.Rule{rule.NewLinkValuesBasedOnBoolean[int]([]string{"A", "Gate"}, "Gate", false)},
			code:  collection.CodeInvalidTargets,
		},
		{
			name:  "duplicate target",
			rules: []collection.Rule{rule.NewLinkValuesBasedOnBoolean[int]([]string{"A", "A"}, "Gate", false)},
			code:  collection.CodeInvalidTargets,
		},
		{
			name:  "different ranges",
			rules: []collection.Rule{rule.NewLinkValuesBasedOnBoolean[int]([]string{"A", "Wide"}, "Gate", false)},
			code:  collection.CodeIncompatibleRange,
		},
		{
			name:  "wrong scalar type",
			rules: []collection.Rule{rule.NewLinkValuesBasedOnBoolean[float64]([]string{"A", "B"}, "Gate", false)},
			code:  collection.CodePropertyNotFound,
		},
		{
			name: "overlapping targets",
			rules: []collection.Rule{
				rule.NewLinkValuesBasedOnBoolean[int]([]string{"A", "B"}, "Gate", false),
				rule.NewLinkValuesBasedOnBoolean[int]([]string{"B", "C"}, "Gate", false),
			},
			code: collection.CodeOverlappingTargets,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := collection.New(props(t), tt.rules)
			errutil.AssertErrorCode(t, err, tt.code)
		})
	}
}

func TestLinkValues_DisjointSiblingsAllowed(t *testing.T) {
	c := build(t,
		[]property.Property{
			property.NewBool("Gate", true),
			intProp(t, "A", 1, 0, 10),
			intProp(t, "B", 1, 0, 10),
			intProp(t, "C", 2, 0, 10),
			intProp(t, "D", 2, 0, 10),
		},
		[]collection.Rule{
			rule.NewLinkValuesBasedOnBoolean[int]([]string{"A", "B"}, "Gate", false),
			rule.NewLinkValuesBasedOnBoolean[int]([]string{"C", "D"}, "Gate", false),
		},
	)

	require.NoError(t, get[*property.Int](t, c, "C").Set(8))
	assert.Equal(t, 8, get[*property.Int](t, c, "D").Get())
	assert.Equal(t, 1, get[*property.Int](t, c, "B").Get())
}

func TestLinkValues_OverlapFailsAtFirstClaimant(t *testing.T) {
	_, err := collection.New([]property.Property{
		property.NewBool("Gate", false),
		intProp(t, "A", 1, 0, 10),
		intProp(t, "B", 1, 0, 10),
		intProp(t, "C", 1, 0, 10),
	}, []collection.Rule{
		rule.NewLinkValuesBasedOnBoolean[int]([]string{"A", "B"}, "Gate", false),
		rule.NewLinkValuesBasedOnBoolean[int]([]string{"C", "A"}, "Gate", false),
	})
	errutil.AssertErrorCode(t, err, collection.CodeOverlappingTargets)
	errutil.AssertErrorContext(t, err, "rule_index", 0)
	errutil.AssertErrorContext(t, err, "property", "A")
}
