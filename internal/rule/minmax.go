// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package rule

import (
	"github.com/samber/oops"

	"github.com/holomush/propcore/internal/collection"
	"github.com/holomush/propcore/internal/property"
)

// SoftMutuallyBoundMinMax keeps min <= max without clamping the property
// being edited: raising min above max drags max up, lowering max below min
// drags min down.
//
// Cycle detection only looks at direct edges: initialization fails when any
// other min/max rule of the same value type in the collection uses this
// rule's min property as its max, wherever it is declared. Longer cycles are
// not searched for; WithMaxCascadeDepth is the guard against those.
type SoftMutuallyBoundMinMax[T property.Number] struct {
	collection.RuleBase
	minName string
	maxName string

	minProp *property.Scalar[T]
	maxProp *property.Scalar[T]
}

// NewSoftMutuallyBoundMinMax creates a detached rule.
func NewSoftMutuallyBoundMinMax[T property.Number](minName, maxName string) *SoftMutuallyBoundMinMax[T] {
	return &SoftMutuallyBoundMinMax[T]{minName: minName, maxName: maxName}
}

func (r *SoftMutuallyBoundMinMax[T]) Type() string             { return TypeSoftMinMax }
// Bounds returns the min and max property names.
func (r *SoftMutuallyBoundMinMax[T]) Bounds() (string, string) { return r.minName, r.maxName }

func (r *SoftMutuallyBoundMinMax[T]) Clone() collection.Rule {
	return NewSoftMutuallyBoundMinMax[T](r.minName, r.maxName)
}

// Initialize implements collection.Rule.
func (r *SoftMutuallyBoundMinMax[T]) Initialize(owner *collection.Collection) error {
	if err := r.Attach(owner, r.Type()); err != nil {
		return err
	}
	if r.minName == r.maxName {
		return errSameProperty(r.Type(), r.minName)
	}

	minProp, err := collection.As[*property.Scalar[T]](owner, r.minName)
	if err != nil {
		return err
	}
	maxProp, err := collection.As[*property.Scalar[T]](owner, r.maxName)
	if err != nil {
		return err
	}
	if minProp.Min() > maxProp.Min() || minProp.Max() > maxProp.Max() {
		return oops.Code(collection.CodeIncompatibleRange).
			With("rule", r.Type()).
			With("min_property", r.minName).
			With("max_property", r.maxName).
			Errorf("min property %q range [%v, %v] is not below max property %q range [%v, %v]",
				r.minName, minProp.Min(), minProp.Max(), r.maxName, maxProp.Min(), maxProp.Max())
	}

	for _, sibling := range owner.Rules() {
		other, ok := sibling.(*SoftMutuallyBoundMinMax[T])
		if !ok || other == r {
			continue
		}
		if _, otherMax := other.Bounds(); otherMax == r.minName {
			return oops.Code(collection.CodeCycleDetected).
				With("rule", r.Type()).
				With("property", r.minName).
				Errorf("min/max rules form a cycle through %q", r.minName)
		}
	}

	r.minProp, r.maxProp = minProp, maxProp
	minProp.OnValueChanged(func(property.Property) error { return r.onMinChanged() })
	maxProp.OnValueChanged(func(property.Property) error { return r.onMaxChanged() })
	return nil
}

func (r *SoftMutuallyBoundMinMax[T]) onMinChanged() error {
	if lo := r.minProp.Get(); lo > r.maxProp.Get() {
		recordSync(r.Owner(), r.Type(), "property", r.maxName, "value", lo)
		return r.Owner().Cascade(r.Type(), func() error { return r.maxProp.Set(lo) })
	}
	return nil
}

func (r *SoftMutuallyBoundMinMax[T]) onMaxChanged() error {
	if hi := r.maxProp.Get(); hi < r.minProp.Get() {
		recordSync(r.Owner(), r.Type(), "property", r.minName, "value", hi)
		return r.Owner().Cascade(r.Type(), func() error { return r.minProp.Set(hi) })
	}
	return nil
}
