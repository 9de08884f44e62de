package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "markscan"

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Parse metrics
	ParsesTotal   *prometheus.CounterVec
	ParseDuration *prometheus.HistogramVec
	ParseItems    *prometheus.HistogramVec

	// Storage metrics
	ResultsStored prometheus.Counter

	startTime time.Time

	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds current metric values for the JSON health endpoint
type Snapshot struct {
	TotalRequests int64   `json:"total_requests"`
	TotalErrors   int64   `json:"total_errors"`
	TotalParses   int64   `json:"total_parses"`
	ParseFailures int64   `json:"parse_failures"`
	AvgLatencyMS  float64 `json:"avg_latency_ms"`
	UptimeSeconds float64 `json:"uptime_seconds"`

	totalDuration float64
}

// NewMetrics creates a metrics collector backed by its own registry, so
// several collectors can live in one process.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_size_bytes",
				Help:      "HTTP request size in bytes",
				Buckets:   []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_response_size_bytes",
				Help:      "HTTP response size in bytes",
				Buckets:   []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),

		ParsesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "parses_total",
				Help:      "Total number of parse runs by source and outcome",
			},
			[]string{"source", "status"},
		),
		ParseDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "parse_duration_seconds",
				Help:      "Parse duration in seconds",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"source"},
		),
		ParseItems: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "parse_items",
				Help:      "Number of tokens or links produced per parse",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
			},
			[]string{"source"},
		),

		ResultsStored: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "results_stored_total",
				Help:      "Total number of results written to the store",
			},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "uptime_seconds",
			Help:      "Process uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry returns the registry the metrics are registered with
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.totalDuration += duration.Seconds()
	if status != "" && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// ObserveParse records one extractor or tokenizer run. items is the number
// of links or tokens the run produced.
func (m *Metrics) ObserveParse(source string, err error, elapsed time.Duration, items int) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.ParsesTotal.WithLabelValues(source, status).Inc()
	m.ParseDuration.WithLabelValues(source).Observe(elapsed.Seconds())
	if err == nil {
		m.ParseItems.WithLabelValues(source).Observe(float64(items))
	}

	m.mu.Lock()
	m.snapshot.TotalParses++
	if err != nil {
		m.snapshot.ParseFailures++
	}
	m.mu.Unlock()
}

// IncResultsStored counts a persisted result
func (m *Metrics) IncResultsStored() {
	m.ResultsStored.Inc()
}

// Snapshot returns the current counters
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.snapshot
	if s.TotalRequests > 0 {
		s.AvgLatencyMS = s.totalDuration / float64(s.TotalRequests) * 1000
	}
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}
