// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package property implements named, typed, observable value slots.
//
// Every write goes through one pipeline: read-only check, coercion,
// equality short-circuit, validation, and finally the property's
// InvalidValuePolicy when validation fails. A committed change raises
// ValueChanged; toggling the read-only flag raises ReadOnlyChanged.
package property

import (
	"reflect"

	"github.com/holomush/propcore/internal/event"
)

// Handler observes a property change. The sender is the property itself;
// handlers re-read whatever state they need.
type Handler = event.Handler[Property]

// Property is the type-erased view of a value slot.
type Property interface {
	Name() string
	Kind() Kind
	// ValueType is the Go type stored in the slot.
	ValueType() reflect.Type
	Value() any
	DefaultValue() any
	// SetValue coerces v into the slot's type and runs the write pipeline.
	SetValue(v any) error
	// Reset writes the default value through the write pipeline.
	Reset() error
	ReadOnly() bool
	SetReadOnly(readOnly bool) error
	Policy() InvalidValuePolicy
	OnValueChanged(h Handler) event.Subscription
	OnReadOnlyChanged(h Handler) event.Subscription
	// BeginEventAddMoratorium drops new subscriptions to both events until
	// the returned function is called.
	BeginEventAddMoratorium() (end func())
	// Clone returns an independent copy with the same configuration, value
	// and read-only flag, and no subscribers.
	Clone() Property
}

// Valued is a Property with a statically typed accessor.
type Valued[T any] interface {
	Property
	Get() T
	Set(v T) error
}

// Option configures a property at construction.
type Option func(*settings)

type settings struct {
	readOnly bool
	policy   InvalidValuePolicy
}

// ReadOnly sets the initial read-only flag.
func ReadOnly(readOnly bool) Option {
	return func(s *settings) { s.readOnly = readOnly }
}

// WithPolicy sets the invalid-value policy. The default is PolicyIgnore.
func WithPolicy(policy InvalidValuePolicy) Option {
	return func(s *settings) { s.policy = policy }
}

func applyOptions(opts []Option) settings {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// slot is implemented by each concrete kind; it supplies the type-specific
// steps of the write pipeline.
type slot[T any] interface {
	Property
	coerce(v any) (T, bool)
	equal(a, b T) bool
	Validate(v T) bool
	Clamp(v T) T
}

// typed holds the state and pipeline shared by every kind.
type typed[T any] struct {
	name            string
	kind            Kind
	readOnly        bool
	policy          InvalidValuePolicy
	value           T
	defaultValue    T
	valueChanged    event.Event[Property]
	readOnlyChanged event.Event[Property]
	self            slot[T]
}

func newTyped[T any](self slot[T], kind Kind, name string, def T, s settings) typed[T] {
	return typed[T]{
		name:         name,
		kind:         kind,
		readOnly:     s.readOnly,
		policy:       s.policy,
		value:        def,
		defaultValue: def,
		self:         self,
	}
}

// cloneFor copies configuration and current state, but not subscribers.
func (p *typed[T]) cloneFor(self slot[T]) typed[T] {
	return typed[T]{
		name:         p.name,
		kind:         p.kind,
		readOnly:     p.readOnly,
		policy:       p.policy,
		value:        p.value,
		defaultValue: p.defaultValue,
		self:         self,
	}
}

func (p *typed[T]) Name() string                   { return p.name }
func (p *typed[T]) Kind() Kind                     { return p.kind }
func (p *typed[T]) ValueType() reflect.Type        { return reflect.TypeFor[T]() }
func (p *typed[T]) Value() any                     { return p.value }
func (p *typed[T]) DefaultValue() any              { return p.defaultValue }
func (p *typed[T]) Get() T                         { return p.value }
func (p *typed[T]) Default() T                     { return p.defaultValue }
func (p *typed[T]) ReadOnly() bool                 { return p.readOnly }
func (p *typed[T]) Policy() InvalidValuePolicy     { return p.policy }
func (p *typed[T]) Reset() error                   { return p.Set(p.defaultValue) }
func (p *typed[T]) SetPolicy(v InvalidValuePolicy) { p.policy = v }

// SetReadOnly changes the read-only flag and raises ReadOnlyChanged when it
// actually changes.
func (p *typed[T]) SetReadOnly(readOnly bool) error {
	if p.readOnly == readOnly {
		return nil
	}
	p.readOnly = readOnly
	return p.readOnlyChanged.Fire(p.self)
}

func (p *typed[T]) OnValueChanged(h Handler) event.Subscription {
	return p.valueChanged.Subscribe(h)
}

func (p *typed[T]) OnReadOnlyChanged(h Handler) event.Subscription {
	return p.readOnlyChanged.Subscribe(h)
}

func (p *typed[T]) BeginEventAddMoratorium() func() {
	endValue := p.valueChanged.BeginMoratorium()
	endReadOnly := p.readOnlyChanged.BeginMoratorium()
	return func() {
		endValue()
		endReadOnly()
	}
}

// SetValue implements Property.
func (p *typed[T]) SetValue(v any) error {
	if p.readOnly {
		recordWrite(p.kind, OutcomeReadOnly)
		return errReadOnly(p.name)
	}
	coerced, ok := p.self.coerce(v)
	if !ok {
		recordWrite(p.kind, OutcomeRejected)
		return errTypeMismatch(p.name, p.kind, v)
	}
	return p.apply(coerced, false)
}

// Set writes a value of the slot's own type.
func (p *typed[T]) Set(v T) error {
	if p.readOnly {
		recordWrite(p.kind, OutcomeReadOnly)
		return errReadOnly(p.name)
	}
	return p.apply(v, false)
}

// apply runs everything after coercion. A clamped value re-enters once;
// clamp functions are idempotent so a second failure is a real rejection.
func (p *typed[T]) apply(v T, clamped bool) error {
	if p.self.equal(v, p.value) {
		recordWrite(p.kind, OutcomeUnchanged)
		return nil
	}

	if p.self.Validate(v) {
		p.value = v
		if clamped {
			recordWrite(p.kind, OutcomeClamped)
		} else {
			recordWrite(p.kind, OutcomeCommitted)
		}
		return p.valueChanged.Fire(p.self)
	}

	switch p.policy {
	case PolicyIgnore:
		recordWrite(p.kind, OutcomeIgnored)
		return p.valueChanged.Fire(p.self)
	case PolicyClamp:
		if !clamped {
			return p.apply(p.self.Clamp(v), true)
		}
	case PolicyThrowError:
	}

	recordWrite(p.kind, OutcomeRejected)
	return errInvalidValue(p.name, v)
}
