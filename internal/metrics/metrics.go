// Package metrics exposes Prometheus collectors for the wine crawler.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch outcome labels.
const (
	OutcomeSuccess      = "success"
	OutcomeNetworkError = "network_error"
	OutcomeTimeout      = "timeout"
)

// Parse outcome labels.
const (
	ParseSuccess = "success"
	ParseFailure = "failure"
)

var (
	fetchTotal                 *prometheus.CounterVec
	fetchDurationSeconds       *prometheus.HistogramVec
	fetchBytesTotal            *prometheus.CounterVec
	parseTotal                 *prometheus.CounterVec
	ratingsSkippedTotal        prometheus.Counter
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		fetchTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "winecrawler_fetch_total",
				Help: "Total number of page fetches, labeled by backend and outcome.",
			},
			[]string{"backend", "outcome"},
		)

		fetchDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "winecrawler_fetch_duration_seconds",
				Help:    "Histogram of page fetch latencies, labeled by backend.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"backend"},
		)

		fetchBytesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "winecrawler_fetch_bytes_total",
				Help: "Total number of body bytes fetched, labeled by backend.",
			},
			[]string{"backend"},
		)

		parseTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "winecrawler_parse_total",
				Help: "Total number of page extractions, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		ratingsSkippedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "winecrawler_ratings_skipped_total",
				Help: "Total rating items dropped because they failed extraction.",
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// The Observe helpers are no-ops until Init runs, so library code and tests
// can call them unconditionally.

// ObserveFetch records one fetch attempt.
func ObserveFetch(backend, outcome string, duration time.Duration, bytesFetched int) {
	if fetchTotal == nil {
		return
	}
	fetchTotal.WithLabelValues(backend, outcome).Inc()
	fetchDurationSeconds.WithLabelValues(backend).Observe(duration.Seconds())
	if bytesFetched > 0 {
		fetchBytesTotal.WithLabelValues(backend).Add(float64(bytesFetched))
	}
}

// ObserveParse records one extraction outcome.
func ObserveParse(outcome string) {
	if parseTotal == nil {
		return
	}
	parseTotal.WithLabelValues(outcome).Inc()
}

// ObserveRatingSkipped counts a rating item dropped during extraction.
func ObserveRatingSkipped() {
	if ratingsSkippedTotal == nil {
		return
	}
	ratingsSkippedTotal.Inc()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
