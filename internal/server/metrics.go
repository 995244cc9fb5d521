package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/tideman/pkg/observability"
)

var (
	_ observability.TabulationHooks = (*Metrics)(nil)
	_ observability.CacheHooks      = (*Metrics)(nil)
	_ observability.HTTPHooks       = (*Metrics)(nil)
)

// Metrics implements the observability hooks with Prometheus collectors.
// Each Metrics owns its registry, so several servers in one process (as in
// tests) do not collide.
type Metrics struct {
	registry *prometheus.Registry

	tabulations      *prometheus.CounterVec
	tabulateDuration prometheus.Histogram
	pairsSkipped     prometheus.Counter
	candidates       prometheus.Histogram
	renders          *prometheus.CounterVec
	renderDuration   prometheus.Histogram
	cacheEvents      *prometheus.CounterVec
	cacheBytes       *prometheus.CounterVec
	requests         *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	inFlight         prometheus.Gauge
	rateLimited      *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them, together with the
// Go runtime and process collectors, in a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		// Tabulation metrics.
		tabulations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tideman_tabulations_total",
				Help: "Tabulations run, by outcome.",
			},
			[]string{"status"},
		),
		tabulateDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tideman_tabulation_duration_seconds",
				Help:    "Time to tabulate a ballot set, including cache lookups.",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
		),
		pairsSkipped: f.NewCounter(
			prometheus.CounterOpts{
				Name: "tideman_pairs_skipped_total",
				Help: "Pairs skipped because locking them would have created a cycle.",
			},
		),
		candidates: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tideman_candidates",
				Help:    "Number of candidates per tabulation.",
				Buckets: []float64{2, 3, 4, 6, 8, 12, 16, 32, 64},
			},
		),
		renders: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tideman_renders_total",
				Help: "Render calls, by outcome.",
			},
			[]string{"status"},
		),
		renderDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tideman_render_duration_seconds",
				Help:    "Time to render the requested formats, including cache lookups.",
				Buckets: prometheus.DefBuckets,
			},
		),

		// Cache metrics.
		cacheEvents: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tideman_cache_events_total",
				Help: "Cache hits, misses and writes, by key type.",
			},
			[]string{"key_type", "event"},
		),
		cacheBytes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tideman_cache_written_bytes_total",
				Help: "Bytes written to the cache, by key type.",
			},
			[]string{"key_type"},
		),

		// HTTP metrics.
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tideman_http_requests_total",
				Help: "HTTP requests served, by route and status code.",
			},
			[]string{"method", "route", "code"},
		),
		requestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tideman_http_request_duration_seconds",
				Help:    "HTTP request latency, by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		inFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "tideman_http_requests_in_flight",
				Help: "HTTP requests currently being served.",
			},
		),
		rateLimited: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tideman_http_rate_limited_total",
				Help: "HTTP requests rejected by the rate limiter.",
			},
			[]string{"method", "route"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Register installs m as the process-wide observability hooks.
func (m *Metrics) Register() {
	observability.SetTabulationHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) OnTabulateStart(context.Context, int, int) {}

func (m *Metrics) OnTabulateComplete(_ context.Context, candidates, skipped int, d time.Duration, err error) {
	m.tabulations.WithLabelValues(outcome(err)).Inc()
	m.tabulateDuration.Observe(d.Seconds())
	if err == nil {
		m.candidates.Observe(float64(candidates))
		m.pairsSkipped.Add(float64(skipped))
	}
}

func (m *Metrics) OnRenderStart(context.Context, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	m.renders.WithLabelValues(outcome(err)).Inc()
	m.renderDuration.Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.inFlight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	m.inFlight.Dec()
	m.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) OnRateLimited(_ context.Context, method, route string) {
	m.rateLimited.WithLabelValues(method, route).Inc()
}
