// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package property

import (
	"fmt"
	"unicode/utf8"
)

// MaxStringLength is the largest max length a String property accepts.
const MaxStringLength = 32767

// String is a text property limited to MaxLength runes.
type String struct {
	typed[string]
	maxLength int
}

// NewString creates a string property.
func NewString(name, def string, maxLength int, opts ...Option) (*String, error) {
	if maxLength < 0 || maxLength > MaxStringLength {
		return nil, errRangeOrder(name, "property %q: max length %d outside [0, %d]", name, maxLength, MaxStringLength)
	}
	if n := utf8.RuneCountInString(def); n > maxLength {
		return nil, errRangeOrder(name, "property %q: default length %d exceeds max length %d", name, n, maxLength)
	}

	p := &String{maxLength: maxLength}
	p.typed = newTyped[string](p, KindString, name, def, applyOptions(opts))
	return p, nil
}

// MaxLength is the maximum number of runes.
func (p *String) MaxLength() int { return p.maxLength }

// Validate reports whether v fits within MaxLength.
func (p *String) Validate(v string) bool {
	return utf8.RuneCountInString(v) <= p.maxLength
}

// Clamp truncates v to MaxLength runes.
func (p *String) Clamp(v string) string {
	if p.Validate(v) {
		return v
	}
	return string([]rune(v)[:p.maxLength])
}

func (p *String) equal(a, b string) bool { return a == b }

func (p *String) coerce(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case []byte:
		return string(x), true
	case fmt.Stringer:
		return x.String(), true
	default:
		return "", false
	}
}

func (p *String) Clone() Property {
	c := &String{maxLength: p.maxLength}
	c.typed = p.typed.cloneFor(c)
	return c
}
