package dynamolocal

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/giantswarm/dynamolocal/internal/core"
)

// MetricsCollector receives lifecycle observations from a Manager. Implement
// it to export manager activity to a metrics backend; all methods must be
// safe for concurrent use. NewPrometheusMetrics provides a ready-made
// implementation.
type MetricsCollector = core.MetricsCollector

// NoopMetrics is a MetricsCollector that discards all observations. Used as
// the default when no collector is configured.
type NoopMetrics = core.NoopMetrics

// PrometheusMetrics implements MetricsCollector using Prometheus metrics:
// install duration and outcome, launch and stop counts per port, and a
// gauge of currently tracked instances.
type PrometheusMetrics struct {
	installDuration *prometheus.HistogramVec
	launches        *prometheus.CounterVec
	stops           *prometheus.CounterVec
	tracked         prometheus.Gauge

	registry *prometheus.Registry
}

var _ MetricsCollector = (*PrometheusMetrics)(nil)

// NewPrometheusMetrics creates a Prometheus-backed collector with its own
// registry. Expose it via Registry(); pass it to NewManager via WithMetrics.
// An empty namespace defaults to "dynamolocal".
func NewPrometheusMetrics(namespace string) *PrometheusMetrics {
	if namespace == "" {
		namespace = "dynamolocal"
	}

	m := &PrometheusMetrics{
		registry: prometheus.NewRegistry(),
	}

	m.installDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "install_duration_seconds",
			Help:      "Duration of emulator install runs",
			Buckets:   []float64{0.01, 0.1, 1, 5, 15, 60, 300},
		},
		[]string{"status"},
	)

	m.launches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "launches_total",
			Help:      "Total number of emulator launch attempts",
		},
		[]string{"port", "status"},
	)

	m.stops = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stops_total",
			Help:      "Total number of emulator stops",
		},
		[]string{"port", "status"},
	)

	m.tracked = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tracked_instances",
			Help:      "Number of instances currently tracked in the registry",
		},
	)

	m.registry.MustRegister(
		m.installDuration,
		m.launches,
		m.stops,
		m.tracked,
	)

	return m
}

// statusLabel maps an operation outcome to the status label value.
func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordInstall observes one Install run with its duration and outcome.
func (m *PrometheusMetrics) RecordInstall(d time.Duration, err error) {
	m.installDuration.WithLabelValues(statusLabel(err)).Observe(d.Seconds())
}

// RecordLaunch observes one Launch attempt for a port.
func (m *PrometheusMetrics) RecordLaunch(port int, err error) {
	m.launches.WithLabelValues(strconv.Itoa(port), statusLabel(err)).Inc()
}

// RecordStop observes one stop of a tracked or handed-in instance.
func (m *PrometheusMetrics) RecordStop(port int, err error) {
	m.stops.WithLabelValues(strconv.Itoa(port), statusLabel(err)).Inc()
}

// SetTracked reports the registry size after it changed.
func (m *PrometheusMetrics) SetTracked(count int) {
	m.tracked.Set(float64(count))
}

// Registry returns the Prometheus registry holding this collector's metrics,
// for wiring into an HTTP handler or a parent registry.
func (m *PrometheusMetrics) Registry() *prometheus.Registry {
	return m.registry
}
