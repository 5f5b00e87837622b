// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

/*
Package services provides suture.Service wrappers for Vidrec components.

HTTPServerService translates http.Server's blocking ListenAndServe into
suture's context-aware Serve with a bounded graceful shutdown.

MaintenanceService runs housekeeping jobs on a robfig/cron schedule:

  - feature_cache_cleanup: drops expired feature text cache entries
  - metadata_gc: Badger value log GC (badger metadata backend only)
  - database_checkpoint: DuckDB CHECKPOINT

Each run increments maintenance_runs_total{job}. A failing job is logged and
the remaining jobs still run.
*/
package services
