// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/tomtom215/vidrec/internal/api"
	"github.com/tomtom215/vidrec/internal/config"
	"github.com/tomtom215/vidrec/internal/logging"
	"github.com/tomtom215/vidrec/internal/supervisor"
	"github.com/tomtom215/vidrec/internal/supervisor/services"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logger := logging.Logger()

	logger.Info().
		Str("db_path", cfg.Database.Path).
		Str("metadata_backend", cfg.Metadata.Backend).
		Bool("youtube_enabled", cfg.YouTube.Enabled()).
		Msg("Starting Vidrec with supervisor tree")

	storage, err := openStorage(cfg, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	defer func() {
		if err := storage.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing storage")
		}
	}()

	rec, err := initRecommend(cfg, storage, logger)
	if err != nil {
		// Fatal skips deferred calls.
		_ = storage.Close()
		logging.Fatal().Err(err).Msg("Failed to initialize recommendation engine")
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		_ = storage.Close()
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if cfg.Maintenance.Enabled {
		maintenance, err := services.NewMaintenanceService(
			storage.maintenanceJobs(rec.Resolver, logger),
			services.MaintenanceServiceConfig{Schedule: cfg.Maintenance.Schedule},
			logger,
		)
		if err != nil {
			_ = storage.Close()
			logging.Fatal().Err(err).Msg("Failed to create maintenance service")
		}
		tree.AddDataService(maintenance)
	} else {
		logger.Info().Msg("Maintenance disabled (MAINTENANCE_ENABLED=false)")
	}

	handler := api.NewHandler(api.Dependencies{
		Store:       storage.DB,
		Metadata:    storage.Metadata,
		Resolver:    rec.Resolver,
		Recommender: rec.Engine,
		Searcher:    rec.YouTube,
	}, api.Limits{
		DefaultTopN:    cfg.Recommend.TopN,
		MaxTopN:        cfg.Recommend.MaxTopN,
		RequestTimeout: cfg.Server.RequestTimeout,
	})
	router := api.NewRouter(handler, api.NewChiMiddlewareFromSecurity(cfg.Security))

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: cfg.Server.Timeout,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("addr", server.Addr).Msg("Supervisor tree starting")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree stopped with error")
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within the shutdown timeout")
		}
	}
	logger.Info().Msg("Vidrec stopped")
}
