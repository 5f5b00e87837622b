// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/tomtom215/vidrec/internal/metrics"
)

// MaintenanceJob is one unit of periodic housekeeping.
type MaintenanceJob struct {
	Name string
	Run  func(ctx context.Context) error
}

// MaintenanceServiceConfig holds configuration for the maintenance service.
type MaintenanceServiceConfig struct {
	// Schedule is a standard 5-field cron expression or an @every descriptor.
	Schedule string

	// RunOnStartup runs every job once before the first scheduled tick.
	RunOnStartup bool

	// JobTimeout bounds a single job run. Default: 1m
	JobTimeout time.Duration
}

// MaintenanceService runs MaintenanceJobs on a cron schedule under suture
// supervision. Overlapping ticks are skipped while a run is in progress.
type MaintenanceService struct {
	jobs     []MaintenanceJob
	config   MaintenanceServiceConfig
	schedule cron.Schedule
	logger   zerolog.Logger
	name     string
}

// NewMaintenanceService validates the schedule and creates the service.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewMaintenanceService(jobs []MaintenanceJob, cfg MaintenanceServiceConfig, logger zerolog.Logger) (*MaintenanceService, error) {
	schedule, err := cron.ParseStandard(cfg.Schedule)
	if err != nil {
		return nil, fmt.Errorf("invalid maintenance schedule %q: %w", cfg.Schedule, err)
	}
	for _, job := range jobs {
		if job.Name == "" || job.Run == nil {
			return nil, errors.New("maintenance job requires a name and a run function")
		}
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = time.Minute
	}

	return &MaintenanceService{
		jobs:     jobs,
		config:   cfg,
		schedule: schedule,
		logger:   logger.With().Str("service", "maintenance").Logger(),
		name:     "maintenance-service",
	}, nil
}

// Serve implements suture.Service.
func (s *MaintenanceService) Serve(ctx context.Context) error {
	s.logger.Info().
		Str("schedule", s.config.Schedule).
		Int("jobs", len(s.jobs)).
		Bool("run_on_startup", s.config.RunOnStartup).
		Msg("maintenance service starting")

	if s.config.RunOnStartup {
		s.RunOnce(ctx)
	}

	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.Recover(cronLogger{s.logger}), cron.SkipIfStillRunning(cronLogger{s.logger})),
	)
	c.Schedule(s.schedule, cron.FuncJob(func() { s.RunOnce(ctx) }))
	c.Start()

	<-ctx.Done()

	s.logger.Info().Msg("maintenance service stopping")
	<-c.Stop().Done()
	return ctx.Err()
}

// RunOnce runs every job in order. A failing job is logged and does not stop
// the jobs after it. It returns the number of failed jobs.
func (s *MaintenanceService) RunOnce(ctx context.Context) int {
	failed := 0
	for _, job := range s.jobs {
		if ctx.Err() != nil {
			return failed
		}

		start := time.Now()
		jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
		err := job.Run(jobCtx)
		cancel()

		metrics.RecordMaintenanceRun(job.Name)
		if err != nil {
			failed++
			s.logger.Warn().Err(err).Str("job", job.Name).Dur("duration", time.Since(start)).Msg("maintenance job failed")
			continue
		}
		s.logger.Debug().Str("job", job.Name).Dur("duration", time.Since(start)).Msg("maintenance job completed")
	}
	return failed
}

// String implements fmt.Stringer for suture's event log.
func (s *MaintenanceService) String() string {
	return s.name
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
