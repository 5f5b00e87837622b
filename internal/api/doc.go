// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

/*
Package api provides the HTTP API of Vidrec, routed with chi.

# Endpoints

All endpoints are served under /api/v1 and, for older clients, under /api:

	GET  /search?q=&max_results=        YouTube search (1..50 results, default 10)
	GET  /recommendations?user_id=&limit=
	POST /watch_history                 {user_id, video_id, watch_duration?, rating?}
	GET  /watch_history?user_id=&limit=
	POST /interactions                  {user_id, video_id, type, weight?}
	GET  /health/live
	GET  /health/ready

Prometheus metrics are served at /metrics. A missing user_id means the
"default" user.

# Response Format

Every response uses the APIResponse envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 3}}
	{"success": false, "error": {"code": "VALIDATION_ERROR", "message": "...", "request_id": "..."}}

# Middleware

Global: request ID (X-Request-ID, propagated into the logging context), real
IP, access log, panic recovery and CORS (go-chi/cors). API routes add
security headers, Prometheus metrics, gzip and per-client rate limits
(go-chi/httprate), with tighter budgets for search and writes.
*/
package api
