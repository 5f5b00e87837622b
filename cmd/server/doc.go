// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

/*
Package main is the entry point for the Vidrec server.

Vidrec recommends YouTube videos by blending TF-IDF content similarity over
video metadata with collaborative filtering over the interactions of all
users. Metadata is read from the local store first and fetched from the
YouTube Data API on a miss.

# Application Architecture

	RootSupervisor ("vidrec")
	├── DataSupervisor ("data-layer")
	│   └── MaintenanceService (cron: cache cleanup, metadata GC, checkpoint)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService (/api/v1, /api, /metrics)

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config.yaml and environment variables
 2. Logging: zerolog, bridged to slog for the supervisor
 3. Storage: DuckDB, plus BadgerDB when METADATA_BACKEND=badger
 4. YouTube client: rate limited, wrapped in a circuit breaker (skipped without YOUTUBE_API_KEY)
 5. Recommendation engine: metadata resolver, content and collaborative scorers, candidate source
 6. HTTP API: chi router with CORS, rate limiting and Prometheus metrics
 7. Supervisor tree: runs until SIGINT or SIGTERM

# Example Usage

	export YOUTUBE_API_KEY=your-key
	export DUCKDB_PATH=./vidrec.duckdb
	export RECOMMEND_CANDIDATE_SOURCE=catalog
	./vidrec

	curl 'http://localhost:5000/api/v1/search?q=golang'
	curl -X POST http://localhost:5000/api/v1/watch_history \
	  -H 'Content-Type: application/json' \
	  -d '{"user_id":"alice","video_id":"dQw4w9WgXcQ","rating":5}'
	curl 'http://localhost:5000/api/v1/recommendations?user_id=alice&limit=5'
*/
package main
