// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package services

import (
	"context"

	"github.com/rs/zerolog"
)

// Job names double as the "job" label of maintenance_runs_total.
const (
	JobFeatureCacheCleanup = "feature_cache_cleanup"
	JobMetadataGC          = "metadata_gc"
	JobDatabaseCheckpoint  = "database_checkpoint"
)

// FeatureCache is satisfied by *recommend.MetadataResolver.
type FeatureCache interface {
	CleanupCache() (removed, size int)
}

// GarbageCollector is satisfied by *metastore.Store.
type GarbageCollector interface {
	RunGC() error
}

// Checkpointer is satisfied by *database.DB.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// FeatureCacheCleanupJob drops expired feature text entries.
//
//nolint:gocritic // zerolog.Logger is passed by value
func FeatureCacheCleanupJob(cache FeatureCache, logger zerolog.Logger) MaintenanceJob {
	return MaintenanceJob{
		Name: JobFeatureCacheCleanup,
		Run: func(context.Context) error {
			removed, size := cache.CleanupCache()
			if removed > 0 {
				logger.Debug().Int("removed", removed).Int("size", size).Msg("feature cache cleaned")
			}
			return nil
		},
	}
}

// MetadataGCJob reclaims Badger value log space.
func MetadataGCJob(gc GarbageCollector) MaintenanceJob {
	return MaintenanceJob{
		Name: JobMetadataGC,
		Run:  func(context.Context) error { return gc.RunGC() },
	}
}

// DatabaseCheckpointJob flushes the DuckDB WAL into the database file.
func DatabaseCheckpointJob(db Checkpointer) MaintenanceJob {
	return MaintenanceJob{
		Name: JobDatabaseCheckpoint,
		Run:  db.Checkpoint,
	}
}
