package report

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/probelab/pingmon/internal/probe"
)

// Metrics exposes the most recent probe measurements to Prometheus.
type Metrics struct {
	registry *prometheus.Registry

	mtu     *prometheus.GaugeVec
	latency *prometheus.GaugeVec
	probes  *prometheus.CounterVec
}

// NewMetrics creates and registers the probe collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		mtu: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "pingmon",
			Name:      "probe_mtu_bytes",
			Help:      "Largest deliverable payload size from the last probe.",
		}, []string{"target"}),
		latency: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "pingmon",
			Name:      "probe_latency_microseconds",
			Help:      "Round-trip time of the last successful probe.",
		}, []string{"target"}),
		probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pingmon",
			Name:      "probes_total",
			Help:      "Probe attempts by target and outcome.",
		}, []string{"target", "result"}),
	}
	m.registry.MustRegister(m.mtu, m.latency, m.probes)
	return m
}

// Registry returns the underlying registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe records one probe outcome for a target.
func (m *Metrics) Observe(target string, res probe.Result, up bool) {
	outcome := "up"
	if !up {
		outcome = "down"
	}
	m.probes.WithLabelValues(target, outcome).Inc()
	m.mtu.WithLabelValues(target).Set(float64(res.MTU))
	m.latency.WithLabelValues(target).Set(float64(res.Latency.Microseconds()))
}
