package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records hook events as Prometheus series on a private registry.
// A CLI run is short-lived, so samples are exported with [Metrics.WriteTextfile]
// for the node_exporter textfile collector instead of being scraped.
type Metrics struct {
	registry *prometheus.Registry

	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	TransportErrors prometheus.Counter
	CacheEvents     *prometheus.CounterVec
	FetchedRecords  *prometheus.CounterVec
	TruncatedFetch  *prometheus.CounterVec
	ExpandDuration  prometheus.Histogram
}

// NewMetrics creates a Metrics instance with all series registered.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "swcatalog_http_requests_total",
			Help: "Freshservice HTTP responses by method and status code",
		}, []string{"method", "code"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "swcatalog_http_request_duration_seconds",
			Help:    "Duration of Freshservice HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"method"}),
		TransportErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "swcatalog_http_transport_errors_total",
			Help: "Freshservice HTTP requests that failed before a response",
		}),
		CacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "swcatalog_cache_events_total",
			Help: "Snapshot cache hits, misses and writes by kind",
		}, []string{"kind", "event"}),
		FetchedRecords: f.NewCounterVec(prometheus.CounterOpts{
			Name: "swcatalog_fetched_records_total",
			Help: "Records fetched from paginated collections",
		}, []string{"collection"}),
		TruncatedFetch: f.NewCounterVec(prometheus.CounterOpts{
			Name: "swcatalog_truncated_fetches_total",
			Help: "Paginated fetches that ended early on a failed page",
		}, []string{"collection"}),
		ExpandDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "swcatalog_expand_duration_seconds",
			Help:    "Duration of one software expansion unit",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
	}
}

// Hooks returns a Hooks set feeding m.
func (m *Metrics) Hooks() Hooks {
	return Hooks{Sync: m, Cache: m, HTTP: m}
}

// Registry exposes the private registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// WriteTextfile writes all samples to path in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) OnFetchComplete(_ context.Context, collection string, records int, _ time.Duration, err error) {
	m.FetchedRecords.WithLabelValues(collection).Add(float64(records))
	if err != nil {
		m.TruncatedFetch.WithLabelValues(collection).Inc()
	}
}

func (m *Metrics) OnExpandComplete(_ context.Context, _ string, d time.Duration) {
	m.ExpandDuration.Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, kind string) {
	m.CacheEvents.WithLabelValues(kind, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, kind string) {
	m.CacheEvents.WithLabelValues(kind, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, kind string, _ int) {
	m.CacheEvents.WithLabelValues(kind, "set").Inc()
}

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, _ string, status int, d time.Duration) {
	m.Requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(d.Seconds())
}

func (m *Metrics) OnError(context.Context, string, string, error) {
	m.TransportErrors.Inc()
}
