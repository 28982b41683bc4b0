// Package metrics exports editing core counters to Prometheus.
package metrics

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dshills/inkwell/internal/bus"
	"github.com/dshills/inkwell/internal/bus/topic"
)

const namespace = "inkwell"

// Metrics holds the collectors for one process. Safe for concurrent use.
type Metrics struct {
	registry *prometheus.Registry

	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	cleanRuns  prometheus.Counter
	cleanTime  prometheus.Histogram
	dispatches *prometheus.CounterVec
	unhandled  *prometheus.CounterVec

	// Totals for Snapshot; the collectors are write-only from here.
	opCount    atomic.Uint64
	opErrors   atomic.Uint64
	cleanCount atomic.Uint64
	startTime  time.Time
}

// New creates a Metrics with its own registry. withRuntime adds the Go and
// process collectors.
func New(withRuntime bool) *Metrics {
	m := &Metrics{
		registry:  prometheus.NewRegistry(),
		startTime: time.Now(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "format_operations_total",
			Help:      "Formatting operations by style and result.",
		}, []string{"style", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "format_transaction_seconds",
			Help:      "Duration of committed and aborted formatting transactions.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}, []string{"style"}),
		cleanRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sanitizer_runs_total",
			Help:      "Sanitizer passes over a subtree.",
		}),
		cleanTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sanitizer_run_seconds",
			Help:      "Duration of sanitizer passes.",
			Buckets:   []float64{.00005, .0001, .0005, .001, .005, .01, .05},
		}),
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bus_dispatch_total",
			Help:      "Top-level bus dispatches by kind.",
		}, []string{"kind"}),
		unhandled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bus_unhandled_total",
			Help:      "Requests and commands no node handled.",
		}, []string{"kind", "key"}),
	}
	m.registry.MustRegister(m.operations, m.duration, m.cleanRuns, m.cleanTime, m.dispatches, m.unhandled)
	if withRuntime {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveOperation implements format.Recorder. Denied operations carry no
// duration.
func (m *Metrics) ObserveOperation(style, result string, elapsed time.Duration) {
	m.operations.WithLabelValues(style, result).Inc()
	m.opCount.Add(1)
	if result == "error" {
		m.opErrors.Add(1)
	}
	if result != "denied" {
		m.duration.WithLabelValues(style).Observe(elapsed.Seconds())
	}
}

// ObserveClean records one sanitizer pass.
func (m *Metrics) ObserveClean(elapsed time.Duration) {
	m.cleanRuns.Inc()
	m.cleanTime.Observe(elapsed.Seconds())
	m.cleanCount.Add(1)
}

// Observer returns a bus observer counting dispatches. Unhandled events are
// not counted; an event with no listener is normal.
func (m *Metrics) Observer() bus.Observer {
	return func(kind bus.Kind, key topic.Topic, handled bool, _ int) {
		m.dispatches.WithLabelValues(kind.String()).Inc()
		if !handled && kind != bus.KindEvent {
			m.unhandled.WithLabelValues(kind.String(), key.String()).Inc()
		}
	}
}

// Snapshot is a point-in-time summary.
type Snapshot struct {
	Uptime     time.Duration `json:"uptime"`
	Operations uint64        `json:"operations"`
	Errors     uint64        `json:"errors"`
	CleanRuns  uint64        `json:"clean_runs"`
}

// Snapshot returns the current totals.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		Uptime:     time.Since(m.startTime),
		Operations: m.opCount.Load(),
		Errors:     m.opErrors.Load(),
		CleanRuns:  m.cleanCount.Load(),
	}
}
