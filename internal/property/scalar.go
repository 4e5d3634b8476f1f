// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package property

import (
	"math"
	"reflect"
)

// Number is the set of value types a Scalar can hold.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// Scalar is an ordered value bounded by [Min, Max].
type Scalar[T Number] struct {
	typed[T]
	minValue T
	maxValue T
}

// Int is the integer scalar property.
type Int = Scalar[int]

// Double is the floating-point scalar property.
type Double = Scalar[float64]

// NewScalar creates a scalar property. It fails with RangeOrder unless
// minValue <= def <= maxValue.
func NewScalar[T Number](name string, def, minValue, maxValue T, opts ...Option) (*Scalar[T], error) {
	if isNaN(minValue) || isNaN(maxValue) || isNaN(def) {
		return nil, errRangeOrder(name, "property %q: NaN is not a valid bound or default", name)
	}
	if minValue > maxValue {
		return nil, errRangeOrder(name, "property %q: min %v exceeds max %v", name, minValue, maxValue)
	}
	if def < minValue || def > maxValue {
		return nil, errRangeOrder(name, "property %q: default %v outside [%v, %v]", name, def, minValue, maxValue)
	}

	p := &Scalar[T]{minValue: minValue, maxValue: maxValue}
	p.typed = newTyped[T](p, scalarKind[T](), name, def, applyOptions(opts))
	return p, nil
}

// NewInt creates an integer property.
func NewInt(name string, def, minValue, maxValue int, opts ...Option) (*Int, error) {
	return NewScalar(name, def, minValue, maxValue, opts...)
}

// NewDouble creates a floating-point property.
func NewDouble(name string, def, minValue, maxValue float64, opts ...Option) (*Double, error) {
	return NewScalar(name, def, minValue, maxValue, opts...)
}

func (p *Scalar[T]) Min() T { return p.minValue }
func (p *Scalar[T]) Max() T { return p.maxValue }

// Validate reports whether v lies within [Min, Max].
func (p *Scalar[T]) Validate(v T) bool {
	return v >= p.minValue && v <= p.maxValue
}

// Clamp saturates v to the nearest bound.
func (p *Scalar[T]) Clamp(v T) T {
	return clampNumber(v, p.minValue, p.maxValue)
}

func (p *Scalar[T]) coerce(v any) (T, bool) { return toNumber[T](v) }
func (p *Scalar[T]) equal(a, b T) bool      { return a == b }

func (p *Scalar[T]) Clone() Property {
	c := &Scalar[T]{minValue: p.minValue, maxValue: p.maxValue}
	c.typed = p.typed.cloneFor(c)
	return c
}

func clampNumber[T Number](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func scalarKind[T Number]() Kind {
	if isIntegral[T]() {
		return KindInt
	}
	return KindDouble
}

func isIntegral[T Number]() bool {
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Float32, reflect.Float64:
		return false
	default:
		return true
	}
}

func isNaN[T Number](v T) bool {
	return v != v //nolint:gocritic // NaN is the only value not equal to itself
}

// toNumber widens any numeric Go value into T. Floating values stored into
// an integral slot are truncated toward zero. Values outside T's range and
// non-finite floats are refused.
func toNumber[T Number](v any) (T, bool) {
	var f float64
	switch x := v.(type) {
	case T:
		if isNaN(x) {
			return 0, false
		}
		return x, true
	case int:
		return fromInt64[T](int64(x))
	case int8:
		return fromInt64[T](int64(x))
	case int16:
		return fromInt64[T](int64(x))
	case int32:
		return fromInt64[T](int64(x))
	case int64:
		return fromInt64[T](x)
	case uint:
		return fromUint64[T](uint64(x))
	case uint8:
		return fromUint64[T](uint64(x))
	case uint16:
		return fromUint64[T](uint64(x))
	case uint32:
		return fromUint64[T](uint64(x))
	case uint64:
		return fromUint64[T](x)
	case float32:
		f = float64(x)
	case float64:
		f = x
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if isIntegral[T]() {
		// 2^63 is exactly representable; anything at or past it overflows int64.
		if f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, false
		}
		return fromInt64[T](int64(math.Trunc(f)))
	}
	return T(f), true
}

func fromInt64[T Number](x int64) (T, bool) {
	t := T(x)
	if isIntegral[T]() && int64(t) != x {
		return 0, false
	}
	return t, true
}

func fromUint64[T Number](x uint64) (T, bool) {
	if x > math.MaxInt64 {
		if isIntegral[T]() {
			return 0, false
		}
		return T(float64(x)), true
	}
	return fromInt64[T](int64(x))
}
