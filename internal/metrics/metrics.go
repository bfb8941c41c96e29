// Package metrics exposes Prometheus counters for the demo binary's probe
// loop and its span attribute writes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the demo's counters, registered on a private registry so the
// default process collectors stay out of the way.
type Metrics struct {
	registry *prometheus.Registry

	probesTotal       *prometheus.CounterVec
	attributeWrites   *prometheus.CounterVec
	attributeFailures *prometheus.CounterVec
}

// New creates the counters and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		probesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spanattrs_demo_probes_total",
			Help: "Number of probe requests by outcome.",
		}, []string{"outcome"}),
		attributeWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spanattrs_demo_attribute_writes_total",
			Help: "Number of span attributes written, by value kind.",
		}, []string{"kind"}),
		attributeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spanattrs_demo_attribute_failures_total",
			Help: "Number of span attribute writes rejected, by failure kind.",
		}, []string{"kind"}),
	}

	m.registry.MustRegister(m.probesTotal, m.attributeWrites, m.attributeFailures)
	return m
}

// Registry returns the registry backing the /metrics endpoint.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveProbe counts one probe with the given outcome ("success" or
// "failure").
func (m *Metrics) ObserveProbe(outcome string) {
	m.probesTotal.WithLabelValues(outcome).Inc()
}

// ObserveWrite counts one successful attribute write of the given value kind
// ("bool", "int", "float", "string", or a list variant).
func (m *Metrics) ObserveWrite(kind string) {
	m.attributeWrites.WithLabelValues(kind).Inc()
}

// ObserveFailure counts one rejected attribute write ("validation" or
// "span.context").
func (m *Metrics) ObserveFailure(kind string) {
	m.attributeFailures.WithLabelValues(kind).Inc()
}
