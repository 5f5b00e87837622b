// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Recommendation Metrics
	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Time to score a recommendation request",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"path"}, // "popular", "hybrid"
	)

	RecommendationResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_results",
			Help:    "Number of results returned per recommendation request",
			Buckets: []float64{0, 1, 5, 10, 20, 50},
		},
		[]string{"path"},
	)

	RecommendationScorerFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_scorer_failures_total",
			Help: "Total number of scorer failures during fusion",
		},
		[]string{"scorer"}, // "content", "collaborative"
	)

	// Metadata Resolution Metrics
	MetadataResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metadata_resolutions_total",
			Help: "Total number of metadata resolutions by outcome",
		},
		[]string{"outcome"}, // "stored", "fetched", "missing", "fetch_failed"
	)

	FeatureCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feature_cache_hits_total",
			Help: "Total number of feature text cache hits",
		},
	)

	FeatureCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feature_cache_misses_total",
			Help: "Total number of feature text cache misses",
		},
	)

	FeatureCacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feature_cache_entries",
			Help: "Current number of cached feature texts",
		},
	)

	// YouTube Data API Metrics
	YouTubeRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "youtube_api_request_duration_seconds",
			Help:    "YouTube Data API request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	YouTubeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "youtube_api_requests_total",
			Help: "Total number of YouTube Data API requests",
		},
		[]string{"endpoint", "status_code"},
	)

	YouTubeRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "youtube_api_retries_total",
			Help: "Total number of rate-limited YouTube requests that were retried",
		},
		[]string{"endpoint"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Maintenance Metrics
	MaintenanceRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maintenance_runs_total",
			Help: "Total number of scheduled maintenance job runs",
		},
		[]string{"job"},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation records the latency and size of a scored request.
func RecordRecommendation(path string, duration time.Duration, results int) {
	RecommendationDuration.WithLabelValues(path).Observe(duration.Seconds())
	RecommendationResults.WithLabelValues(path).Observe(float64(results))
}

// RecordScorerFailure counts a failed scorer.
func RecordScorerFailure(scorer string) {
	RecommendationScorerFailures.WithLabelValues(scorer).Inc()
}

// RecordMetadataResolution counts a metadata lookup by outcome.
func RecordMetadataResolution(outcome string) {
	MetadataResolutions.WithLabelValues(outcome).Inc()
}

// RecordFeatureCacheLookup counts a feature text cache hit or miss.
func RecordFeatureCacheLookup(hit bool) {
	if hit {
		FeatureCacheHits.Inc()
	} else {
		FeatureCacheMisses.Inc()
	}
}

// SetFeatureCacheSize sets the current feature text cache size.
func SetFeatureCacheSize(size int) {
	FeatureCacheSize.Set(float64(size))
}

// RecordYouTubeRequest records a YouTube Data API call. A status code of 0
// means the request never got a response.
func RecordYouTubeRequest(endpoint string, statusCode int, duration time.Duration) {
	YouTubeRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	YouTubeRequestsTotal.WithLabelValues(endpoint, status).Inc()
}

// RecordYouTubeRetry counts a retried YouTube request.
func RecordYouTubeRetry(endpoint string) {
	YouTubeRetries.WithLabelValues(endpoint).Inc()
}

// RecordMaintenanceRun counts a maintenance job run.
func RecordMaintenanceRun(job string) {
	MaintenanceRuns.WithLabelValues(job).Inc()
}
