package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/omegasovereign/omega/server/internal/telemetry"
)

// Metrics holds every instrument the bridge updates.
type Metrics struct {
	reg *prometheus.Registry

	requests    *prometheus.CounterVec
	failures    prometheus.Counter
	cpuLoad     prometheus.Gauge
	integrity   prometheus.Gauge
	leakage     prometheus.Gauge
	ghostMode   prometheus.Gauge
	pulseClient prometheus.Gauge
}

// New creates the instruments and registers them, plus the Go and process
// collectors, on a private registry.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "omega_http_requests_total",
			Help: "HTTP requests served, by route and status code.",
		}, []string{"route", "code"}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "omega_telemetry_failures_total",
			Help: "Host reads that failed while building a telemetry sample.",
		}),
		cpuLoad: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "omega_cpu_load_ratio",
			Help: "Most recent normalised cpu load (0-1).",
		}),
		integrity: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "omega_integrity",
			Help: "Most recent wire integrity figure.",
		}),
		leakage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "omega_leakage_ratio",
			Help: "Most recent leakage figure.",
		}),
		ghostMode: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "omega_ghost_mode",
			Help: "1 while the most recent sample reported GHOST_MODE, else 0.",
		}),
		pulseClient: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "omega_pulse_clients",
			Help: "WebSocket clients connected to the pulse hub.",
		}),
	}

	m.reg.MustRegister(
		m.requests, m.failures, m.cpuLoad, m.integrity, m.leakage, m.ghostMode, m.pulseClient,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// ObserveRequest counts one served request.
func (m *Metrics) ObserveRequest(route string, code int) {
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// ObserveSample records the figures of a successful telemetry sample.
func (m *Metrics) ObserveSample(s telemetry.Sample) {
	m.cpuLoad.Set(s.CPULoad)
	m.integrity.Set(s.Integrity)
	m.leakage.Set(s.Leakage)
	if s.Status == telemetry.StatusGhostMode {
		m.ghostMode.Set(1)
	} else {
		m.ghostMode.Set(0)
	}
}

// ObserveFailure counts one failed telemetry read.
func (m *Metrics) ObserveFailure() {
	m.failures.Inc()
}

// SetPulseClients records the number of connected pulse clients.
func (m *Metrics) SetPulseClients(n int) {
	m.pulseClient.Set(float64(n))
}
