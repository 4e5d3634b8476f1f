// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package observability

import (
	"io"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/common/expfmt"
	"github.com/samber/oops"

	"github.com/holomush/propcore/internal/collection"
	"github.com/holomush/propcore/internal/property"
	"github.com/holomush/propcore/internal/rule"
)

// NewRegistry returns a registry holding the property, collection and rule
// metrics. With runtime set, Go and process collectors are added as well.
func NewRegistry(runtime bool) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	property.RegisterMetrics(reg)
	collection.RegisterMetrics(reg)
	rule.RegisterMetrics(reg)
	if runtime {
		reg.MustRegister(collectors.NewGoCollector())
		reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	return reg
}

// WriteText writes every gathered metric family in the Prometheus text
// exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return oops.Wrapf(err, "gather metrics")
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return oops.With("metric", mf.GetName()).Wrapf(err, "write metric family")
		}
	}
	return nil
}

// Sample is one counter or gauge series.
type Sample struct {
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels,omitempty"`
	Value  float64           `json:"value"`
}

// Samples flattens counters and gauges into series, sorted by name. Series
// with a zero value are skipped.
func Samples(g prometheus.Gatherer) ([]Sample, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, oops.Wrapf(err, "gather metrics")
	}

	var out []Sample
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var v float64
			switch {
			case m.GetCounter() != nil:
				v = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				v = m.GetGauge().GetValue()
			default:
				continue
			}
			if v == 0 {
				continue
			}
			s := Sample{Name: mf.GetName(), Value: v}
			if pairs := m.GetLabel(); len(pairs) > 0 {
				s.Labels = make(map[string]string, len(pairs))
				for _, lp := range pairs {
					s.Labels[lp.GetName()] = lp.GetValue()
				}
			}
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
