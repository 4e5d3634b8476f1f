// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package rule

import (
	"slices"

	"github.com/samber/oops"

	"github.com/holomush/propcore/internal/collection"
	"github.com/holomush/propcore/internal/property"
)

// Linker is implemented by rules that claim a set of link targets. A linker
// fails to initialize when any other linker in the collection claims one of
// its targets.
type Linker interface {
	LinkedTargets() []string
}

// LinkValuesBasedOnBoolean keeps two or more scalar properties equal while a
// boolean gate is open (source XOR inverse). Whichever target was written
// last is the one whose value propagates.
type LinkValuesBasedOnBoolean[T property.Number] struct {
	collection.RuleBase
	targets []string
	source  string
	inverse bool

	lastChanged string
	targetProps []*property.Scalar[T]
	sourceProp  *property.Bool
}

// NewLinkValuesBasedOnBoolean creates a detached rule.
func NewLinkValuesBasedOnBoolean[T property.Number](targets []string, source string, inverse bool) *LinkValuesBasedOnBoolean[T] {
	return &LinkValuesBasedOnBoolean[T]{
		targets: slices.Clone(targets),
		source:  source,
		inverse: inverse,
	}
}

func (r *LinkValuesBasedOnBoolean[T]) Type() string            { return TypeLinkValues }
func (r *LinkValuesBasedOnBoolean[T]) LinkedTargets() []string { return slices.Clone(r.targets) }

// LastChanged names the target whose value propagates on the next sync.
func (r *LinkValuesBasedOnBoolean[T]) LastChanged() string { return r.lastChanged }

func (r *LinkValuesBasedOnBoolean[T]) Clone() collection.Rule {
	return NewLinkValuesBasedOnBoolean[T](r.targets, r.source, r.inverse)
}

// Initialize implements collection.Rule.
func (r *LinkValuesBasedOnBoolean[T]) Initialize(owner *collection.Collection) error {
	if err := r.Attach(owner, r.Type()); err != nil {
		return err
	}
	if err := r.checkTargets(owner); err != nil {
		return err
	}

	src, err := collection.As[*property.Bool](owner, r.source)
	if err != nil {
		return err
	}
	r.sourceProp = src

	for _, name := range r.targets {
		p, err := collection.As[*property.Scalar[T]](owner, name)
		if err != nil {
			return err
		}
		if first := r.targetProps; len(first) > 0 && (p.Min() != first[0].Min() || p.Max() != first[0].Max()) {
			return oops.Code(collection.CodeIncompatibleRange).
				With("rule", r.Type()).
				With("property", name).
				Errorf("link target %q range [%v, %v] differs from %q range [%v, %v]",
					name, p.Min(), p.Max(), first[0].Name(), first[0].Min(), first[0].Max())
		}
		r.targetProps = append(r.targetProps, p)
	}

	for _, p := range r.targetProps {
		name := p.Name()
		p.OnValueChanged(func(property.Property) error {
			r.lastChanged = name
			return r.sync()
		})
	}
	src.OnValueChanged(func(property.Property) error { return r.sync() })

	r.lastChanged = r.targets[0]
	return r.sync()
}

func (r *LinkValuesBasedOnBoolean[T]) checkTargets(owner *collection.Collection) error {
	if len(r.targets) < 2 {
		return oops.Code(collection.CodeInvalidTargets).
			With("rule", r.Type()).
			With("targets", r.targets).
			Errorf("link rule needs at least two targets, got %d", len(r.targets))
	}
	if slices.Contains(r.targets, r.source) {
		return oops.Code(collection.CodeInvalidTargets).
			With("rule", r.Type()).
			With("property", r.source).
			Errorf("link rule source %q is also a target", r.source)
	}
	for i, name := range r.targets {
		if slices.Contains(r.targets[i+1:], name) {
			return oops.Code(collection.CodeInvalidTargets).
				With("rule", r.Type()).
				With("property", name).
				Errorf("link rule lists target %q twice", name)
		}
	}

	for _, sibling := range owner.Rules() {
		other, ok := sibling.(Linker)
		if !ok || sibling == collection.Rule(r) {
			continue
		}
		for _, name := range other.LinkedTargets() {
			if slices.Contains(r.targets, name) {
				return oops.Code(collection.CodeOverlappingTargets).
					With("rule", r.Type()).
					With("property", name).
					Errorf("link target %q is already linked by another rule", name)
			}
		}
	}
	return nil
}

func (r *LinkValuesBasedOnBoolean[T]) sync() error {
	if r.sourceProp.Get() == r.inverse {
		return nil
	}
	recordSync(r.Owner(), r.Type(), "from", r.lastChanged)

	idx := slices.Index(r.targets, r.lastChanged)
	value := r.targetProps[idx].Get()
	return r.Owner().Cascade(r.Type(), func() error {
		for _, p := range r.targetProps {
			if p.Name() == r.targets[idx] {
				continue
			}
			if err := writeThroughReadOnly[T](p, value); err != nil {
				return err
			}
		}
		return nil
	})
}
