// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package property

import (
	"image"
	"reflect"
)

// Bool is a boolean property. Every value is valid.
type Bool struct {
	typed[bool]
}

// NewBool creates a boolean property.
func NewBool(name string, def bool, opts ...Option) *Bool {
	p := &Bool{}
	p.typed = newTyped[bool](p, KindBool, name, def, applyOptions(opts))
	return p
}

func (p *Bool) Validate(bool) bool   { return true }
func (p *Bool) Clamp(v bool) bool    { return v }
func (p *Bool) equal(a, b bool) bool { return a == b }

func (p *Bool) coerce(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

func (p *Bool) Clone() Property {
	c := &Bool{}
	c.typed = p.typed.cloneFor(c)
	return c
}

// Image holds an opaque image resource. Validation always succeeds; a nil
// image is a valid, empty value.
type Image struct {
	typed[image.Image]
}

// NewImage creates an image property.
func NewImage(name string, def image.Image, opts ...Option) *Image {
	p := &Image{}
	p.typed = newTyped[image.Image](p, KindImage, name, def, applyOptions(opts))
	return p
}

func (p *Image) Validate(image.Image) bool       { return true }
func (p *Image) Clamp(v image.Image) image.Image { return v }
func (p *Image) equal(a, b image.Image) bool     { return sameImage(a, b) }

func (p *Image) coerce(v any) (image.Image, bool) {
	if v == nil {
		return nil, true
	}
	img, ok := v.(image.Image)
	return img, ok
}

func (p *Image) Clone() Property {
	c := &Image{}
	c.typed = p.typed.cloneFor(c)
	return c
}

// sameImage compares by identity. Images with non-comparable dynamic types
// are never considered equal.
func sameImage(a, b image.Image) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
