// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package property

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Write outcomes recorded by WritesTotal.
const (
	OutcomeCommitted = "committed"
	OutcomeClamped   = "clamped"
	OutcomeUnchanged = "unchanged"
	OutcomeIgnored   = "ignored"
	OutcomeRejected  = "rejected"
	OutcomeReadOnly  = "read_only"
)

// WritesTotal counts property writes by kind and outcome.
// Use RegisterMetrics to register this with a Prometheus registry.
var WritesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "propcore_property_writes_total",
		Help: "Total number of property writes by kind and outcome",
	},
	[]string{"kind", "outcome"},
)

// RegisterMetrics registers property metrics with the given registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(WritesTotal)
}

func recordWrite(kind Kind, outcome string) {
	WritesTotal.WithLabelValues(kind.String(), outcome).Inc()
}
