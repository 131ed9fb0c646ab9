// Package metrics exposes Prometheus collectors for the compiler: a
// private registry exposed through a promhttp handler, covering
// fragment/jump/cache counters and phase duration instead of the
// request-rate/runtime gauges a batch CLI has no use for.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every Prometheus collector the compiler updates during a
// compile: fragments emitted, jumps linked, and end-to-end duration.
type Metrics struct {
	fragmentsEmitted prometheus.Counter
	jumpsLinked      prometheus.Counter
	jumpsUnresolved  prometheus.Counter
	compileDuration  *prometheus.HistogramVec
	cacheHits        *prometheus.CounterVec

	registry *prometheus.Registry
}

// Config names the metric namespace/subsystem.
type Config struct {
	Namespace string
	Subsystem string
}

// DefaultConfig returns huffc's metric namespace.
func DefaultConfig() Config {
	return Config{Namespace: "huffc", Subsystem: "compile"}
}

// New creates and registers every collector against a fresh, private
// registry (never the global default one, so multiple compiles in one
// process never collide).
func New(cfg Config) *Metrics {
	if cfg.Namespace == "" {
		cfg = DefaultConfig()
	}

	registry := prometheus.NewRegistry()
	m := &Metrics{registry: registry}

	m.fragmentsEmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: cfg.Namespace, Subsystem: cfg.Subsystem,
		Name: "fragments_emitted_total", Help: "Bytes fragments appended by the macro expander.",
	})
	m.jumpsLinked = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: cfg.Namespace, Subsystem: cfg.Subsystem,
		Name: "jumps_linked_total", Help: "Jump-table entries successfully patched.",
	})
	m.jumpsUnresolved = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: cfg.Namespace, Subsystem: cfg.Subsystem,
		Name: "jumps_unresolved_total", Help: "Jump-table entries that raised UnmatchedJumpLabel.",
	})
	m.compileDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: cfg.Namespace, Subsystem: cfg.Subsystem,
		Name:    "duration_seconds",
		Help:    "Wall-clock duration of a compile phase.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"phase", "session_id"})
	m.cacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.Namespace, Subsystem: cfg.Subsystem,
		Name: "cache_requests_total", Help: "Artifact cache lookups, by result.",
	}, []string{"result", "session_id"})

	registry.MustRegister(m.fragmentsEmitted, m.jumpsLinked, m.jumpsUnresolved, m.compileDuration, m.cacheHits)
	return m
}

// ObserveFragments adds n to the fragments-emitted counter.
func (m *Metrics) ObserveFragments(n int) {
	m.fragmentsEmitted.Add(float64(n))
}

// ObserveJumpLinked records one successfully patched jump.
func (m *Metrics) ObserveJumpLinked() { m.jumpsLinked.Inc() }

// ObserveJumpUnresolved records one UnmatchedJumpLabel failure.
func (m *Metrics) ObserveJumpUnresolved() { m.jumpsUnresolved.Inc() }

// ObserveDuration records how long one named phase ("lex", "parse",
// "expand", "link") took during the compile run identified by sessionID.
func (m *Metrics) ObserveDuration(phase string, d time.Duration, sessionID string) {
	m.compileDuration.WithLabelValues(phase, sessionID).Observe(d.Seconds())
}

// ObserveCacheResult records a cache lookup outcome ("hit" or "miss") for
// the compile run identified by sessionID.
func (m *Metrics) ObserveCacheResult(result string, sessionID string) {
	m.cacheHits.WithLabelValues(result, sessionID).Inc()
}

// Handler exposes the registry in the Prometheus text exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
