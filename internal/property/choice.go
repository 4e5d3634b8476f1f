// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package property

import (
	"slices"
)

// Choice is a property whose value is always one of a fixed list of choices.
type Choice[T comparable] struct {
	typed[T]
	choices      []T
	defaultIndex int
}

// NewChoice creates a choice property. Choices must be non-empty and
// distinct, and defaultIndex must index into them.
func NewChoice[T comparable](name string, choices []T, defaultIndex int, opts ...Option) (*Choice[T], error) {
	if len(choices) == 0 {
		return nil, errRangeOrder(name, "property %q: no choices", name)
	}
	if defaultIndex < 0 || defaultIndex >= len(choices) {
		return nil, errRangeOrder(name, "property %q: default index %d outside [0, %d)", name, defaultIndex, len(choices))
	}
	seen := make(map[T]struct{}, len(choices))
	for _, c := range choices {
		if _, dup := seen[c]; dup {
			return nil, errRangeOrder(name, "property %q: duplicate choice %v", name, c)
		}
		seen[c] = struct{}{}
	}

	p := &Choice[T]{choices: slices.Clone(choices), defaultIndex: defaultIndex}
	p.typed = newTyped[T](p, KindChoice, name, choices[defaultIndex], applyOptions(opts))
	return p, nil
}

// Choices returns a copy of the allowed values in order.
func (p *Choice[T]) Choices() []T { return slices.Clone(p.choices) }

// DefaultChoiceIndex is the index of the default value within Choices.
func (p *Choice[T]) DefaultChoiceIndex() int { return p.defaultIndex }

// Index returns the position of the current value within Choices.
func (p *Choice[T]) Index() int { return slices.Index(p.choices, p.value) }

// Validate reports whether v is one of the choices.
func (p *Choice[T]) Validate(v T) bool {
	return slices.Contains(p.choices, v)
}

// Clamp substitutes the default for any value outside the choices.
func (p *Choice[T]) Clamp(v T) T {
	if p.Validate(v) {
		return v
	}
	return p.defaultValue
}

func (p *Choice[T]) equal(a, b T) bool { return a == b }

func (p *Choice[T]) coerce(v any) (T, bool) {
	x, ok := v.(T)
	return x, ok
}

func (p *Choice[T]) Clone() Property {
	c := &Choice[T]{choices: slices.Clone(p.choices), defaultIndex: p.defaultIndex}
	c.typed = p.typed.cloneFor(c)
	return c
}
