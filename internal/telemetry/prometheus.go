/*
Copyright 2026 RDK Management

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package telemetry

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusSink mirrors Count/Value events into a counter vector and
// a gauge vector, for deployments that scrape the agent (it runs as a
// one-shot process, so these are normally pushed via a textfile
// collector or a pushgateway rather than scraped directly).
type PrometheusSink struct {
	counters *prometheus.CounterVec
	values   *prometheus.GaugeVec
}

// NewPrometheusSink registers its collectors on reg. Passing a
// dedicated prometheus.NewRegistry() (rather than the global
// DefaultRegisterer) keeps a one-shot process's metrics from leaking
// into unrelated registries when embedded in a larger supervisor.
func NewPrometheusSink(reg prometheus.Registerer) *PrometheusSink {
	s := &PrometheusSink{
		counters: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "logupload",
			Name:      "events_total",
			Help:      "Count of named log-upload agent events.",
		}, []string{"event"}),
		values: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "logupload",
			Name:      "event_value",
			Help:      "Last numeric value reported for a named event, where the value parses as a number.",
		}, []string{"event"}),
	}
	reg.MustRegister(s.counters, s.values)
	return s
}

func (s *PrometheusSink) Count(name string) {
	s.counters.WithLabelValues(name).Inc()
}

// Value records a name=value event. Non-numeric values (e.g. the
// "STBLogUL, 35, host" triple for certerr_split) still increment the
// counter side but are not reflected in the gauge.
func (s *PrometheusSink) Value(name, value string) {
	s.counters.WithLabelValues(name).Inc()
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		s.values.WithLabelValues(name).Set(f)
	}
}

var _ Sink = (*PrometheusSink)(nil)
