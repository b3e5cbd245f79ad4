// Package telemetry exposes Prometheus collectors for the ingest service.
package telemetry

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ingestRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_records_total",
			Help: "Total number of records processed, labeled by format, kind, and outcome.",
		},
		[]string{"format", "kind", "outcome"},
	)

	ingestBatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_batches_total",
			Help: "Total number of webhook batches received, labeled by format and status.",
		},
		[]string{"format", "status"},
	)

	ingestBatchDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ingest_batch_duration_seconds",
			Help:    "Histogram of end-to-end batch ingestion latencies, labeled by format.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"format"},
	)

	csvDownloadBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_csv_download_bytes_total",
			Help: "Total number of bytes downloaded from CSV result exports.",
		},
	)

	scrapeLaunchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_scrape_launches_total",
			Help: "Total number of scrape agent launches, labeled by status.",
		},
		[]string{"status"},
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
)

// Handler returns the standard Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware is a chi middleware that records HTTP request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(ww, r)

		routePattern := chi.RouteContext(r.Context()).RoutePattern()
		if routePattern == "" {
			routePattern = "unknown"
		}

		ObserveHTTPRequest(r.Method, routePattern, ww.statusCode, time.Since(start))
	})
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.statusCode = code
	rec.ResponseWriter.WriteHeader(code)
}

// SanitizeLabel lowercases a metric label value, mapping the empty string to
// "unknown".
func SanitizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return strings.ToLower(v)
}

// ObserveRecord records the outcome of a single ingested record.
func ObserveRecord(format, kind, outcome string) {
	ingestRecordsTotal.WithLabelValues(SanitizeLabel(format), SanitizeLabel(kind), outcome).Inc()
}

// ObserveBatch records the outcome and duration of a webhook batch.
func ObserveBatch(format, status string, duration time.Duration) {
	label := SanitizeLabel(format)
	ingestBatchesTotal.WithLabelValues(label, status).Inc()
	ingestBatchDurationSeconds.WithLabelValues(label).Observe(duration.Seconds())
}

// AddCSVDownloadBytes records bytes downloaded from a CSV export.
func AddCSVDownloadBytes(n int) {
	if n > 0 {
		csvDownloadBytesTotal.Add(float64(n))
	}
}

// ObserveScrapeLaunch records a scrape agent launch attempt.
func ObserveScrapeLaunch(status string) {
	scrapeLaunchesTotal.WithLabelValues(status).Inc()
}

// ObserveHTTPRequest records metrics for an HTTP request.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
