// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package definition

import (
	"math"

	"github.com/samber/oops"

	"github.com/holomush/propcore/internal/collection"
	"github.com/holomush/propcore/internal/property"
	"github.com/holomush/propcore/internal/rule"
)

// Build creates the property and rule templates a document describes and
// assembles them into a collection.
func Build(doc *Document, opts ...collection.Option) (*collection.Collection, error) {
	props, rules, err := Templates(doc)
	if err != nil {
		return nil, err
	}
	return collection.New(props, rules, opts...)
}

// Templates returns the detached property and rule templates without
// initializing a collection.
func Templates(doc *Document) ([]property.Property, []collection.Rule, error) {
	props := make([]property.Property, 0, len(doc.Properties))
	kinds := make(map[string]property.Kind, len(doc.Properties))
	for i := range doc.Properties {
		p, err := doc.Properties[i].build()
		if err != nil {
			return nil, nil, oops.With("property_index", i).Wrap(err)
		}
		props = append(props, p)
		kinds[p.Name()] = p.Kind()
	}

	rules := make([]collection.Rule, 0, len(doc.Rules))
	for i := range doc.Rules {
		r, err := doc.Rules[i].build(kinds)
		if err != nil {
			return nil, nil, oops.With("rule_index", i).Wrap(err)
		}
		rules = append(rules, r)
	}
	return props, rules, nil
}

func (s *PropertySpec) build() (property.Property, error) {
	kind, err := property.ParseKind(s.Kind)
	if err != nil {
		return nil, err
	}
	policy, err := property.ParsePolicy(s.Policy)
	if err != nil {
		return nil, err
	}
	opts := []property.Option{property.ReadOnly(s.ReadOnly), property.WithPolicy(policy)}

	switch kind {
	case property.KindBool:
		def, ok := s.Default.(bool)
		if s.Default != nil && !ok {
			return nil, s.invalid("default must be a boolean")
		}
		return property.NewBool(s.Name, def, opts...), nil

	case property.KindInt:
		def, err := s.integer(s.Default, 0)
		if err != nil {
			return nil, err
		}
		lo, err := s.bound(s.Min, math.MinInt32, true)
		if err != nil {
			return nil, err
		}
		hi, err := s.bound(s.Max, math.MaxInt32, true)
		if err != nil {
			return nil, err
		}
		return erase(property.NewInt(s.Name, def, int(lo), int(hi), opts...))

	case property.KindDouble:
		def, ok := number(s.Default)
		if s.Default != nil && !ok {
			return nil, s.invalid("default must be a number")
		}
		lo, _ := s.bound(s.Min, -math.MaxFloat64, false)
		hi, _ := s.bound(s.Max, math.MaxFloat64, false)
		return erase(property.NewDouble(s.Name, def, lo, hi, opts...))

	case property.KindString:
		def, ok := s.Default.(string)
		if s.Default != nil && !ok {
			return nil, s.invalid("default must be a string")
		}
		maxLength := s.MaxLength
		if maxLength == 0 {
			maxLength = property.MaxStringLength
		}
		return erase(property.NewString(s.Name, def, maxLength, opts...))

	case property.KindChoice:
		idx := 0
		if s.Default != nil {
			def, ok := s.Default.(string)
			if !ok {
				return nil, s.invalid("default must be one of the choices")
			}
			idx = indexOf(s.Choices, def)
		}
		return erase(property.NewChoice(s.Name, s.Choices, idx, opts...))

	case property.KindDoubleVector:
		def, err := s.pair(s.Default)
		if err != nil {
			return nil, err
		}
		lo, hi := axisBounds(s.X)
		loY, hiY := axisBounds(s.Y)
		return erase(property.NewDoubleVector(s.Name, def,
			property.Pair[float64]{X: lo, Y: loY},
			property.Pair[float64]{X: hi, Y: hiY}, opts...))

	case property.KindImage:
		if s.Default != nil {
			return nil, s.invalid("image properties cannot have a default")
		}
		return property.NewImage(s.Name, nil, opts...), nil
	}
	return nil, s.invalid("unsupported kind")
}

func (s *PropertySpec) invalid(msg string) error {
	return oops.Code(CodeInvalid).
		With("property", s.Name).
		With("kind", s.Kind).
		Errorf("property %q: %s", s.Name, msg)
}

func (s *PropertySpec) integer(v any, fallback int) (int, error) {
	if v == nil {
		return fallback, nil
	}
	f, ok := number(v)
	if !ok || f != math.Trunc(f) {
		return 0, s.invalid("default must be an integer")
	}
	return int(f), nil
}

func (s *PropertySpec) bound(v *float64, fallback float64, integral bool) (float64, error) {
	if v == nil {
		return fallback, nil
	}
	if integral && *v != math.Trunc(*v) {
		return 0, s.invalid("range bounds must be integers")
	}
	return *v, nil
}

func (s *PropertySpec) pair(v any) (property.Pair[float64], error) {
	if v == nil {
		return property.Pair[float64]{}, nil
	}
	items, ok := v.([]any)
	if !ok || len(items) != 2 {
		return property.Pair[float64]{}, s.invalid("default must be an [x, y] pair")
	}
	x, okX := number(items[0])
	y, okY := number(items[1])
	if !okX || !okY {
		return property.Pair[float64]{}, s.invalid("default must be an [x, y] pair of numbers")
	}
	return property.Pair[float64]{X: x, Y: y}, nil
}

func axisBounds(r *Range) (float64, float64) {
	lo, hi := -math.MaxFloat64, math.MaxFloat64
	if r == nil {
		return lo, hi
	}
	if r.Min != nil {
		lo = *r.Min
	}
	if r.Max != nil {
		hi = *r.Max
	}
	return lo, hi
}

func (s *RuleSpec) build(kinds map[string]property.Kind) (collection.Rule, error) {
	switch s.Type {
	case rule.TypeReadOnlyBoundToBoolean:
		return rule.NewReadOnlyBoundToBoolean(s.Target, s.Source, s.Inverse), nil

	case rule.TypeReadOnlyBoundToValue:
		switch kinds[s.Source] {
		case property.KindBool:
			return readOnlyBoundToValue(s, asBool)
		case property.KindInt:
			return readOnlyBoundToValue(s, asInt)
		case property.KindDouble:
			return readOnlyBoundToValue(s, number)
		case property.KindString, property.KindChoice:
			return readOnlyBoundToValue(s, asString)
		}
		return nil, s.invalid("source %q must be a bool, int, double, string or choice property", s.Source)

	case rule.TypeLinkValues:
		if len(s.Targets) == 0 {
			return nil, s.invalid("targets are required")
		}
		switch kinds[s.Targets[0]] {
		case property.KindInt:
			return rule.NewLinkValuesBasedOnBoolean[int](s.Targets, s.Source, s.Inverse), nil
		case property.KindDouble:
			return rule.NewLinkValuesBasedOnBoolean[float64](s.Targets, s.Source, s.Inverse), nil
		}
		return nil, s.invalid("target %q must be an int or double property", s.Targets[0])

	case rule.TypeSoftMinMax:
		switch kinds[s.Min] {
		case property.KindInt:
			return rule.NewSoftMutuallyBoundMinMax[int](s.Min, s.Max), nil
		case property.KindDouble:
			return rule.NewSoftMutuallyBoundMinMax[float64](s.Min, s.Max), nil
		}
		return nil, s.invalid("min %q must be an int or double property", s.Min)

	case rule.TypeLua:
		if s.Script == "" {
			return nil, s.invalid("script is required")
		}
		return rule.NewLua(s.Watch, s.Script), nil
	}
	return nil, s.invalid("unknown rule type")
}

func (s *RuleSpec) invalid(format string, args ...any) error {
	return oops.Code(CodeInvalid).
		With("rule", s.Type).
		Errorf("rule %s: "+format, append([]any{s.Type}, args...)...)
}

func readOnlyBoundToValue[T comparable](s *RuleSpec, convert func(any) (T, bool)) (collection.Rule, error) {
	values := make([]T, 0, len(s.Values))
	for _, raw := range s.Values {
		v, ok := convert(raw)
		if raw == nil || !ok {
			return nil, s.invalid("value %v does not match the type of %q", raw, s.Source)
		}
		values = append(values, v)
	}
	return rule.NewReadOnlyBoundToValue(s.Target, s.Source, values, s.Inverse), nil
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	case nil:
		return 0, true
	}
	return 0, false
}

func asInt(v any) (int, bool) {
	f, ok := number(v)
	if !ok || v == nil || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func asBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func indexOf(choices []string, v string) int {
	for i, c := range choices {
		if c == v {
			return i
		}
	}
	return -1
}

func erase[P property.Property](p P, err error) (property.Property, error) {
	if err != nil {
		return nil, err
	}
	return p, nil
}
