// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package property

import (
	"image"
	"math"

	"github.com/samber/oops"
)

// Enum is the default value of a choice property built by Create: the
// selected value together with the domain it belongs to.
type Enum struct {
	Choices []string
	Value   string
}

// Create builds a property of the given kind with its widest natural
// configuration: doubles and vectors span the whole float64 range, ints span
// the int32 range, strings allow MaxStringLength runes. A nil default selects
// the kind's zero value; choice properties require an Enum.
func Create(kind Kind, name string, defaultValue any) (Property, error) {
	switch kind {
	case KindBool:
		if defaultValue == nil {
			return NewBool(name, false), nil
		}
		b, ok := defaultValue.(bool)
		if !ok {
			return nil, errTypeMismatch(name, kind, defaultValue)
		}
		return NewBool(name, b), nil

	case KindInt:
		def, ok := numberOrZero[int](defaultValue)
		if !ok {
			return nil, errTypeMismatch(name, kind, defaultValue)
		}
		return erase(NewInt(name, def, math.MinInt32, math.MaxInt32))

	case KindDouble:
		def, ok := numberOrZero[float64](defaultValue)
		if !ok {
			return nil, errTypeMismatch(name, kind, defaultValue)
		}
		return erase(NewDouble(name, def, -math.MaxFloat64, math.MaxFloat64))

	case KindString:
		if defaultValue == nil {
			return erase(NewString(name, "", MaxStringLength))
		}
		s, ok := defaultValue.(string)
		if !ok {
			return nil, errTypeMismatch(name, kind, defaultValue)
		}
		return erase(NewString(name, s, MaxStringLength))

	case KindChoice:
		enum, ok := defaultValue.(Enum)
		if !ok {
			return nil, errTypeMismatch(name, kind, defaultValue)
		}
		idx := -1
		for i, c := range enum.Choices {
			if c == enum.Value {
				idx = i
				break
			}
		}
		return erase(NewChoice(name, enum.Choices, idx))

	case KindDoubleVector:
		var def Pair[float64]
		if defaultValue != nil {
			shape := &Vector[float64]{}
			var ok bool
			if def, ok = shape.coerce(defaultValue); !ok {
				return nil, errTypeMismatch(name, kind, defaultValue)
			}
		}
		limit := math.MaxFloat64
		return erase(NewDoubleVector(name, def, Pair[float64]{X: -limit, Y: -limit}, Pair[float64]{X: limit, Y: limit}))

	case KindImage:
		if defaultValue == nil {
			return NewImage(name, nil), nil
		}
		img, ok := defaultValue.(image.Image)
		if !ok {
			return nil, errTypeMismatch(name, kind, defaultValue)
		}
		return NewImage(name, img), nil
	}

	return nil, oops.Code(CodeUnsupportedType).
		With("property", name).
		With("kind", kind.String()).
		Errorf("unsupported property kind %d for %q", uint8(kind), name)
}

// erase converts a typed constructor result without leaking a typed nil
// into the Property interface.
func erase[P Property](p P, err error) (Property, error) {
	if err != nil {
		return nil, err
	}
	return p, nil
}

func numberOrZero[T Number](v any) (T, bool) {
	if v == nil {
		return 0, true
	}
	return toNumber[T](v)
}
