// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package event provides synchronous observer lists for single-threaded
// change propagation.
//
// Delivery happens on the caller's goroutine, in subscription order. A
// handler may itself trigger further events (re-entrant delivery); nothing
// here bounds that recursion.
package event

import (
	"github.com/oklog/ulid/v2"
)

// Handler receives the sender of an event. Returning a non-nil error stops
// delivery to the remaining handlers and is returned from Fire.
type Handler[T any] func(sender T) error

type entry[T any] struct {
	id ulid.ULID
	fn Handler[T]
}

// Event is an ordered list of handlers. The zero value is ready to use.
// An Event is not safe for concurrent use.
type Event[T any] struct {
	handlers   []entry[T]
	moratorium int
}

// Subscription identifies a registered handler.
// The zero Subscription is inert: it was suppressed by a moratorium.
type Subscription struct {
	ID     ulid.ULID
	cancel func()
}

// Active reports whether the subscription was actually registered.
func (s Subscription) Active() bool {
	return s.cancel != nil
}

// Cancel removes the handler. Calling Cancel more than once is harmless.
func (s Subscription) Cancel() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Subscribe appends fn to the handler list. While a moratorium is in effect
// the registration is dropped and an inert Subscription is returned.
func (e *Event[T]) Subscribe(fn Handler[T]) Subscription {
	if fn == nil || e.moratorium > 0 {
		return Subscription{}
	}

	id := ulid.Make()
	e.handlers = append(e.handlers, entry[T]{id: id, fn: fn})
	return Subscription{
		ID:     id,
		cancel: func() { e.remove(id) },
	}
}

func (e *Event[T]) remove(id ulid.ULID) {
	for i, h := range e.handlers {
		if h.id == id {
			e.handlers = append(e.handlers[:i:i], e.handlers[i+1:]...)
			return
		}
	}
}

// Fire delivers sender to a snapshot of the current handlers.
// Handlers added during delivery are not called for this event.
func (e *Event[T]) Fire(sender T) error {
	if len(e.handlers) == 0 {
		return nil
	}

	snapshot := make([]entry[T], len(e.handlers))
	copy(snapshot, e.handlers)
	for _, h := range snapshot {
		if err := h.fn(sender); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of registered handlers.
func (e *Event[T]) Len() int {
	return len(e.handlers)
}

// BeginMoratorium suppresses new subscriptions until the returned function
// is called. Moratoria nest; the end function is idempotent.
func (e *Event[T]) BeginMoratorium() (end func()) {
	e.moratorium++
	ended := false
	return func() {
		if ended {
			return
		}
		ended = true
		e.moratorium--
	}
}

// InMoratorium reports whether subscriptions are currently suppressed.
func (e *Event[T]) InMoratorium() bool {
	return e.moratorium > 0
}
