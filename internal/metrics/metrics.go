// Package metrics exposes Prometheus counters for the verification pass.
// All methods are nil-safe so the pipeline can run without metrics wired.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the checker's Prometheus collectors on a private registry.
type Metrics struct {
	registry      *prometheus.Registry
	probesTotal   prometheus.Counter
	statusTotal   *prometheus.CounterVec
	cacheHits     prometheus.Counter
	passDuration  prometheus.Gauge
	channelsTotal prometheus.Gauge
}

// New creates and registers the checker metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	probesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "iptv_check_probes_total",
		Help: "Total number of stream probes performed (network or cached)",
	})
	statusTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "iptv_check_status_total",
		Help: "Probe classifications by health state",
	}, []string{"health"})
	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "iptv_check_probe_cache_hits_total",
		Help: "Probes answered from the persisted probe cache",
	})
	passDuration := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "iptv_check_pass_duration_seconds",
		Help: "Wall-clock duration of the last verification pass",
	})
	channelsTotal := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "iptv_check_channels_total",
		Help: "Number of channels processed in the last pass",
	})

	registry.MustRegister(probesTotal, statusTotal, cacheHits, passDuration, channelsTotal)

	return &Metrics{
		registry:      registry,
		probesTotal:   probesTotal,
		statusTotal:   statusTotal,
		cacheHits:     cacheHits,
		passDuration:  passDuration,
		channelsTotal: channelsTotal,
	}
}

// IncProbes counts one probe.
func (m *Metrics) IncProbes() {
	if m != nil {
		m.probesTotal.Inc()
	}
}

// IncStatus counts one classification outcome.
func (m *Metrics) IncStatus(health string) {
	if m != nil {
		m.statusTotal.WithLabelValues(health).Inc()
	}
}

// IncCacheHits counts one probe served from the cache.
func (m *Metrics) IncCacheHits() {
	if m != nil {
		m.cacheHits.Inc()
	}
}

// ObservePass records pass duration and channel count.
func (m *Metrics) ObservePass(seconds float64, channels int) {
	if m != nil {
		m.passDuration.Set(seconds)
		m.channelsTotal.Set(float64(channels))
	}
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
