// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package rule

import (
	"maps"
	"slices"

	"github.com/holomush/propcore/internal/collection"
	"github.com/holomush/propcore/internal/property"
)

// ReadOnlyBoundToBoolean keeps a target's read-only flag equal to a boolean
// source (or its negation when inverse is set).
type ReadOnlyBoundToBoolean struct {
	collection.RuleBase
	target  string
	source  string
	inverse bool

	targetProp property.Property
	sourceProp *property.Bool
}

// NewReadOnlyBoundToBoolean creates a detached rule.
func NewReadOnlyBoundToBoolean(target, source string, inverse bool) *ReadOnlyBoundToBoolean {
	return &ReadOnlyBoundToBoolean{target: target, source: source, inverse: inverse}
}

func (r *ReadOnlyBoundToBoolean) Type() string { return TypeReadOnlyBoundToBoolean }

func (r *ReadOnlyBoundToBoolean) Clone() collection.Rule {
	return NewReadOnlyBoundToBoolean(r.target, r.source, r.inverse)
}

// Initialize implements collection.Rule.
func (r *ReadOnlyBoundToBoolean) Initialize(owner *collection.Collection) error {
	if err := r.Attach(owner, r.Type()); err != nil {
		return err
	}
	if r.target == r.source {
		return errSameProperty(r.Type(), r.target)
	}

	src, err := collection.As[*property.Bool](owner, r.source)
	if err != nil {
		return err
	}
	tgt, err := collection.As[property.Property](owner, r.target)
	if err != nil {
		return err
	}
	r.sourceProp, r.targetProp = src, tgt

	src.OnValueChanged(func(property.Property) error { return r.sync() })
	return r.sync()
}

func (r *ReadOnlyBoundToBoolean) sync() error {
	readOnly := r.sourceProp.Get() != r.inverse
	recordSync(r.Owner(), r.Type(), "property", r.target, "read_only", readOnly)
	return r.Owner().Cascade(r.Type(), func() error {
		return r.targetProp.SetReadOnly(readOnly)
	})
}

// ReadOnlyBoundToValue makes a target read-only whenever a source holds one
// of a set of values (or whenever it does not, when inverse is set).
type ReadOnlyBoundToValue[T comparable] struct {
	collection.RuleBase
	target  string
	source  string
	values  map[T]struct{}
	inverse bool

	targetProp property.Property
	sourceProp property.Valued[T]
}

// NewReadOnlyBoundToValue creates a detached rule.
func NewReadOnlyBoundToValue[T comparable](target, source string, valuesForReadOnly []T, inverse bool) *ReadOnlyBoundToValue[T] {
	values := make(map[T]struct{}, len(valuesForReadOnly))
	for _, v := range valuesForReadOnly {
		values[v] = struct{}{}
	}
	return &ReadOnlyBoundToValue[T]{target: target, source: source, values: values, inverse: inverse}
}

func (r *ReadOnlyBoundToValue[T]) Type() string { return TypeReadOnlyBoundToValue }

// ValuesForReadOnly returns the trigger values in no particular order.
func (r *ReadOnlyBoundToValue[T]) ValuesForReadOnly() []T {
	return slices.Collect(maps.Keys(r.values))
}

func (r *ReadOnlyBoundToValue[T]) Clone() collection.Rule {
	return NewReadOnlyBoundToValue(r.target, r.source, r.ValuesForReadOnly(), r.inverse)
}

// Initialize implements collection.Rule.
func (r *ReadOnlyBoundToValue[T]) Initialize(owner *collection.Collection) error {
	if err := r.Attach(owner, r.Type()); err != nil {
		return err
	}
	if r.target == r.source {
		return errSameProperty(r.Type(), r.target)
	}

	src, err := collection.As[property.Valued[T]](owner, r.source)
	if err != nil {
		return err
	}
	tgt, err := collection.As[property.Property](owner, r.target)
	if err != nil {
		return err
	}
	r.sourceProp, r.targetProp = src, tgt

	src.OnValueChanged(func(property.Property) error { return r.sync() })
	return r.sync()
}

func (r *ReadOnlyBoundToValue[T]) sync() error {
	_, match := r.values[r.sourceProp.Get()]
	readOnly := match != r.inverse
	recordSync(r.Owner(), r.Type(), "property", r.target, "read_only", readOnly)
	return r.Owner().Cascade(r.Type(), func() error {
		return r.targetProp.SetReadOnly(readOnly)
	})
}
