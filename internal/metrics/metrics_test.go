package metrics

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValue returns the counter value for the metric with a matching label
// value, or 0 when absent.
func counterValue(families []*dto.MetricFamily, name, label string) float64 {
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if pair.GetValue() == label {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

// TestNewRegistersCounters tests that a fresh Metrics gathers cleanly
func TestNewRegistersCounters(t *testing.T) {
	m := New()

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	// CounterVecs with no observations gather to no families.
	assert.Empty(t, families)
}

// TestObserveCounters tests the three observation paths
func TestObserveCounters(t *testing.T) {
	m := New()

	m.ObserveProbe("success")
	m.ObserveProbe("success")
	m.ObserveProbe("failure")
	m.ObserveWrite("int")
	m.ObserveFailure("validation")

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	assert.Equal(t, 2.0, counterValue(families, "spanattrs_demo_probes_total", "success"))
	assert.Equal(t, 1.0, counterValue(families, "spanattrs_demo_probes_total", "failure"))
	assert.Equal(t, 1.0, counterValue(families, "spanattrs_demo_attribute_writes_total", "int"))
	assert.Equal(t, 1.0, counterValue(families, "spanattrs_demo_attribute_failures_total", "validation"))
}
