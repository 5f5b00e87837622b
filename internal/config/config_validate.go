// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package config

import (
	"fmt"
	"net/url"

	"github.com/robfig/cron/v3"

	"github.com/tomtom215/vidrec/internal/logging"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateMetadata(); err != nil {
		return err
	}
	if err := c.validateYouTube(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateMaintenance(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive, got %v", c.Server.ShutdownTimeout)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("HTTP_REQUEST_TIMEOUT must be positive, got %v", c.Server.RequestTimeout)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be non-negative, got %d", c.Database.Threads)
	}
	return nil
}

func (c *Config) validateMetadata() error {
	switch c.Metadata.Backend {
	case MetadataBackendDuckDB:
		return nil
	case MetadataBackendBadger:
		if !c.Metadata.BadgerInMemory && c.Metadata.BadgerPath == "" {
			return fmt.Errorf("METADATA_BADGER_PATH is required when METADATA_BACKEND=badger")
		}
		return nil
	default:
		return fmt.Errorf("METADATA_BACKEND must be %q or %q, got %q", MetadataBackendDuckDB, MetadataBackendBadger, c.Metadata.Backend)
	}
}

func (c *Config) validateYouTube() error {
	u, err := url.Parse(c.YouTube.BaseURL)
	if err != nil {
		return fmt.Errorf("YOUTUBE_BASE_URL is invalid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("YOUTUBE_BASE_URL must use http or https, got %q", c.YouTube.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("YOUTUBE_BASE_URL must include a host, got %q", c.YouTube.BaseURL)
	}
	if c.YouTube.Timeout <= 0 {
		return fmt.Errorf("YOUTUBE_TIMEOUT must be positive, got %v", c.YouTube.Timeout)
	}
	if c.YouTube.RequestsPerSecond <= 0 {
		return fmt.Errorf("YOUTUBE_REQUESTS_PER_SECOND must be positive, got %v", c.YouTube.RequestsPerSecond)
	}
	if c.YouTube.Burst < 1 {
		return fmt.Errorf("YOUTUBE_BURST must be at least 1, got %d", c.YouTube.Burst)
	}
	if c.YouTube.MaxRetries < 0 {
		return fmt.Errorf("YOUTUBE_MAX_RETRIES must be non-negative, got %d", c.YouTube.MaxRetries)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	switch c.Recommend.CandidateSource {
	case CandidateSourceStatic:
		if len(c.Recommend.Candidates) == 0 {
			return fmt.Errorf("RECOMMEND_CANDIDATES must not be empty when RECOMMEND_CANDIDATE_SOURCE=static")
		}
	case CandidateSourceCatalog:
	default:
		return fmt.Errorf("RECOMMEND_CANDIDATE_SOURCE must be %q or %q, got %q",
			CandidateSourceStatic, CandidateSourceCatalog, c.Recommend.CandidateSource)
	}

	if err := c.Recommend.EngineConfig().Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQS must be positive, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Security.RateLimitWindow)
	}
	return nil
}

func (c *Config) validateMaintenance() error {
	if !c.Maintenance.Enabled {
		return nil
	}
	if _, err := cron.ParseStandard(c.Maintenance.Schedule); err != nil {
		return fmt.Errorf("MAINTENANCE_SCHEDULE is invalid: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got %q", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
