// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package main

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/vidrec/internal/config"
	"github.com/tomtom215/vidrec/internal/database"
	"github.com/tomtom215/vidrec/internal/metastore"
	"github.com/tomtom215/vidrec/internal/recommend"
	"github.com/tomtom215/vidrec/internal/supervisor/services"
)

// metadataBackend is what the selected metadata store must provide.
type metadataBackend interface {
	recommend.MetadataStore
	recommend.Catalog
}

var (
	_ metadataBackend = (*database.DB)(nil)
	_ metadataBackend = (*metastore.Store)(nil)
)

// Storage holds the DuckDB database and the selected metadata backend.
type Storage struct {
	DB       *database.DB
	Metadata metadataBackend

	// badger is nil unless METADATA_BACKEND=badger.
	badger *metastore.Store
}

// openStorage opens DuckDB and, when configured, the Badger metadata store.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func openStorage(cfg *config.Config, logger zerolog.Logger) (*Storage, error) {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Storage{DB: db, Metadata: db}
	if cfg.Metadata.Backend != config.MetadataBackendBadger {
		logger.Info().Str("backend", config.MetadataBackendDuckDB).Msg("metadata store ready")
		return s, nil
	}

	store, err := metastore.Open(cfg.Metadata)
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error().Err(closeErr).Msg("error closing database")
		}
		return nil, fmt.Errorf("open metadata store: %w", err)
	}
	s.Metadata = store
	s.badger = store

	logger.Info().
		Str("backend", config.MetadataBackendBadger).
		Bool("in_memory", cfg.Metadata.BadgerInMemory).
		Str("path", cfg.Metadata.BadgerPath).
		Msg("metadata store ready")
	return s, nil
}

// maintenanceJobs returns the housekeeping jobs for this storage setup.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func (s *Storage) maintenanceJobs(cache services.FeatureCache, logger zerolog.Logger) []services.MaintenanceJob {
	jobs := []services.MaintenanceJob{
		services.FeatureCacheCleanupJob(cache, logger),
	}
	if s.badger != nil {
		jobs = append(jobs, services.MetadataGCJob(s.badger))
	}
	return append(jobs, services.DatabaseCheckpointJob(s.DB))
}

// Close closes the metadata store before the database.
func (s *Storage) Close() error {
	var errs []error
	if s.badger != nil {
		if err := s.badger.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.DB.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
