// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

/*
Package metrics provides Prometheus metrics collection and export for observability.

All metrics are registered with the default registry through promauto and
exposed at /metrics in Prometheus text format:

	curl http://localhost:5000/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: In-flight requests (gauge)

Database Metrics:
  - duckdb_query_duration_seconds: Query execution time (histogram)
    Labels: operation, table
  - duckdb_query_errors_total: Failed queries (counter)
    Labels: operation, table, error_type

Recommendation Metrics:
  - recommendation_duration_seconds: Scoring latency (histogram)
    Labels: path (popular, hybrid)
  - recommendation_results: Results per request (histogram)
    Labels: path
  - recommendation_scorer_failures_total: Failed scorers (counter)
    Labels: scorer (content, collaborative)

Metadata Metrics:
  - metadata_resolutions_total: Lookups by outcome (counter)
    Labels: outcome (stored, fetched, missing, fetch_failed)
  - feature_cache_hits_total, feature_cache_misses_total (counter)
  - feature_cache_entries (gauge)

YouTube Metrics:
  - youtube_api_request_duration_seconds (histogram), Labels: endpoint
  - youtube_api_requests_total (counter), Labels: endpoint, status_code
  - youtube_api_retries_total (counter), Labels: endpoint

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - circuit_breaker_requests_total: Labels: name, result
  - circuit_breaker_consecutive_failures (gauge)
  - circuit_breaker_state_transitions_total: Labels: name, from_state, to_state

Maintenance Metrics:
  - maintenance_runs_total (counter), Labels: job

# Usage

	start := time.Now()
	rows, err := db.QueryContext(ctx, query)
	metrics.RecordDBQuery("select", "videos", time.Since(start), err)

# Thread Safety

All recording functions are safe for concurrent use.
*/
package metrics
