// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package rule implements the standard collection rules: read-only state
// bound to another property, values linked behind a boolean gate, softly
// co-constrained min/max pairs, and scripted rules.
package rule

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/oops"

	"github.com/holomush/propcore/internal/collection"
	"github.com/holomush/propcore/internal/property"
)

// Rule type identifiers.
const (
	TypeReadOnlyBoundToBoolean = "read_only_bound_to_boolean"
	TypeReadOnlyBoundToValue   = "read_only_bound_to_value"
	TypeLinkValues             = "link_values"
	TypeSoftMinMax             = "soft_min_max"
	TypeLua                    = "lua"
)

// SyncsTotal counts rule synchronizations by rule type.
// Use RegisterMetrics to register this with a Prometheus registry.
var SyncsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "propcore_rule_syncs_total",
		Help: "Total number of rule synchronizations by rule type",
	},
	[]string{"rule"},
)

// RegisterMetrics registers rule metrics with the given registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(SyncsTotal)
}

// recordSync counts a synchronization and logs it at debug level.
func recordSync(owner *collection.Collection, ruleType string, attrs ...any) {
	SyncsTotal.WithLabelValues(ruleType).Inc()
	owner.Logger().Debug("rule sync", append([]any{"rule", ruleType}, attrs...)...)
}

func errSameProperty(ruleType, name string) error {
	return oops.Code(collection.CodeSameProperty).
		With("rule", ruleType).
		With("property", name).
		Errorf("%s rule: source and target are both %q", ruleType, name)
}

// writeThroughReadOnly writes v into p, lifting the read-only flag for the
// duration of the write when it is set.
func writeThroughReadOnly[T any](p property.Valued[T], v T) (err error) {
	if !p.ReadOnly() {
		return p.Set(v)
	}
	if err := p.SetReadOnly(false); err != nil {
		return err
	}
	defer func() {
		if restoreErr := p.SetReadOnly(true); err == nil {
			err = restoreErr
		}
	}()
	return p.Set(v)
}
