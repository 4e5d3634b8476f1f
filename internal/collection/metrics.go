// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package collection

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PropertyChangesTotal counts change notifications republished by collections.
// Use RegisterMetrics to register this with a Prometheus registry.
var PropertyChangesTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "propcore_collection_property_changes_total",
		Help: "Total number of property change notifications relayed by collections",
	},
)

// CascadeDepthExceededTotal counts rule cascades stopped by the depth cap.
var CascadeDepthExceededTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "propcore_collection_cascade_depth_exceeded_total",
		Help: "Total number of rule cascades aborted by the cascade depth cap",
	},
)

// RegisterMetrics registers collection metrics with the given registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(PropertyChangesTotal)
	reg.MustRegister(CascadeDepthExceededTotal)
}
