// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package property

import (
	"fmt"
)

// Pair is a two-component value.
type Pair[T Number] struct {
	X T `json:"x" yaml:"x"`
	Y T `json:"y" yaml:"y"`
}

func (p Pair[T]) String() string {
	return fmt.Sprintf("(%v, %v)", p.X, p.Y)
}

// Vector is an ordered pair whose axes are bounded independently.
type Vector[T Number] struct {
	typed[Pair[T]]
	minValue Pair[T]
	maxValue Pair[T]
}

// DoubleVector is the floating-point pair property.
type DoubleVector = Vector[float64]

// NewVector creates a vector property. Each axis must satisfy
// min <= default <= max.
func NewVector[T Number](name string, def, minValue, maxValue Pair[T], opts ...Option) (*Vector[T], error) {
	axes := []struct {
		axis          string
		def, min, max T
	}{
		{"x", def.X, minValue.X, maxValue.X},
		{"y", def.Y, minValue.Y, maxValue.Y},
	}
	for _, a := range axes {
		if isNaN(a.def) || isNaN(a.min) || isNaN(a.max) {
			return nil, errRangeOrder(name, "property %q: NaN on axis %s", name, a.axis)
		}
		if a.min > a.max {
			return nil, errRangeOrder(name, "property %q: %s min %v exceeds max %v", name, a.axis, a.min, a.max)
		}
		if a.def < a.min || a.def > a.max {
			return nil, errRangeOrder(name, "property %q: %s default %v outside [%v, %v]", name, a.axis, a.def, a.min, a.max)
		}
	}

	p := &Vector[T]{minValue: minValue, maxValue: maxValue}
	p.typed = newTyped[Pair[T]](p, KindDoubleVector, name, def, applyOptions(opts))
	return p, nil
}

// NewDoubleVector creates a floating-point pair property.
func NewDoubleVector(name string, def, minValue, maxValue Pair[float64], opts ...Option) (*DoubleVector, error) {
	return NewVector(name, def, minValue, maxValue, opts...)
}

func (p *Vector[T]) Min() Pair[T] { return p.minValue }
func (p *Vector[T]) Max() Pair[T] { return p.maxValue }
func (p *Vector[T]) MinX() T      { return p.minValue.X }
func (p *Vector[T]) MaxX() T      { return p.maxValue.X }
func (p *Vector[T]) MinY() T      { return p.minValue.Y }
func (p *Vector[T]) MaxY() T      { return p.maxValue.Y }

// Validate checks each axis against its own range.
func (p *Vector[T]) Validate(v Pair[T]) bool {
	return v.X >= p.minValue.X && v.X <= p.maxValue.X &&
		v.Y >= p.minValue.Y && v.Y <= p.maxValue.Y
}

// Clamp saturates each axis independently.
func (p *Vector[T]) Clamp(v Pair[T]) Pair[T] {
	return Pair[T]{
		X: clampNumber(v.X, p.minValue.X, p.maxValue.X),
		Y: clampNumber(v.Y, p.minValue.Y, p.maxValue.Y),
	}
}

func (p *Vector[T]) equal(a, b Pair[T]) bool { return a == b }

func (p *Vector[T]) coerce(v any) (Pair[T], bool) {
	switch x := v.(type) {
	case Pair[T]:
		return x, !isNaN(x.X) && !isNaN(x.Y)
	case [2]T:
		return pairOf[T](x[0], x[1])
	case []T:
		if len(x) != 2 {
			return Pair[T]{}, false
		}
		return pairOf[T](x[0], x[1])
	case []any:
		if len(x) != 2 {
			return Pair[T]{}, false
		}
		return pairOf[T](x[0], x[1])
	default:
		return Pair[T]{}, false
	}
}

func pairOf[T Number](x, y any) (Pair[T], bool) {
	px, ok := toNumber[T](x)
	if !ok {
		return Pair[T]{}, false
	}
	py, ok := toNumber[T](y)
	if !ok {
		return Pair[T]{}, false
	}
	return Pair[T]{X: px, Y: py}, true
}

func (p *Vector[T]) Clone() Property {
	c := &Vector[T]{minValue: p.minValue, maxValue: p.maxValue}
	c.typed = p.typed.cloneFor(c)
	return c
}
