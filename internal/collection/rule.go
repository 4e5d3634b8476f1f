// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package collection

import (
	"github.com/samber/oops"
)

// Rule is a standing constraint between properties of one collection.
//
// A rule starts detached. Initialize binds it to exactly one collection,
// validates its configuration against that collection and subscribes to the
// properties it watches; from then on it is driven purely by change events.
// Collections never share rules: they clone the templates they are given.
type Rule interface {
	// Type is a stable identifier for the rule kind, used in logs and metrics.
	Type() string
	Initialize(owner *Collection) error
	// Clone returns a detached rule with the same configuration.
	Clone() Rule
}

// RuleBase carries the detached/active lifecycle shared by rule
// implementations. Embed it and call Attach first thing in Initialize.
type RuleBase struct {
	owner *Collection
}

// Attach records the owner. A second call fails with AlreadyInitialized.
func (b *RuleBase) Attach(owner *Collection, ruleType string) error {
	if b.owner != nil {
		return oops.Code(CodeAlreadyInitialized).
			With("rule", ruleType).
			Errorf("%s rule is already initialized", ruleType)
	}
	if owner == nil {
		return oops.With("rule", ruleType).Errorf("%s rule initialized with nil collection", ruleType)
	}
	b.owner = owner
	return nil
}

// Owner returns the collection the rule is bound to, or nil while detached.
func (b *RuleBase) Owner() *Collection {
	return b.owner
}

// Initialized reports whether Attach has succeeded.
func (b *RuleBase) Initialized() bool {
	return b.owner != nil
}
