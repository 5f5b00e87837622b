// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

/*
Package middleware provides HTTP instrumentation middleware.

PrometheusMetrics records api_requests_total, api_request_duration_seconds
and api_active_requests for every request it wraps. Requests are labelled
with the chi route pattern (for example /api/v1/watch_history) rather than
the raw URL path, so query strings and unknown paths cannot blow up label
cardinality.

Usage with chi:

	r.Group(func(r chi.Router) {
	    r.Use(middleware.PrometheusMetrics)
	    r.Get("/recommendations", h.Recommendations)
	})
*/
package middleware
