// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

// Package config loads Vidrec configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for every setting
//  2. Config File: Optional YAML file (CONFIG_PATH, config.yaml, /etc/vidrec/config.yaml)
//  3. Environment Variables: Explicitly mapped variables override everything
//
// Example:
//
//	cfg, err := config.LoadWithKoanf()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load config")
//	}
package config

import (
	"time"

	"github.com/tomtom215/vidrec/internal/recommend"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Database    DatabaseConfig    `koanf:"database"`
	Metadata    MetadataConfig    `koanf:"metadata"`
	YouTube     YouTubeConfig     `koanf:"youtube"`
	Recommend   RecommendConfig   `koanf:"recommend"`
	Security    SecurityConfig    `koanf:"security"`
	Maintenance MaintenanceConfig `koanf:"maintenance"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = DuckDB default
}

// Metadata store backends.
const (
	MetadataBackendDuckDB = "duckdb"
	MetadataBackendBadger = "badger"
)

// MetadataConfig selects where item metadata is persisted.
type MetadataConfig struct {
	Backend        string `koanf:"backend"`
	BadgerPath     string `koanf:"badger_path"`
	BadgerInMemory bool   `koanf:"badger_in_memory"`
}

// YouTubeConfig holds YouTube Data API client settings.
// An empty APIKey disables metadata fetching and search.
type YouTubeConfig struct {
	APIKey            string        `koanf:"api_key"`
	BaseURL           string        `koanf:"base_url"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	MaxRetries        int           `koanf:"max_retries"`
}

// Enabled reports whether an API key is configured.
func (c YouTubeConfig) Enabled() bool {
	return c.APIKey != ""
}

// Candidate sources.
const (
	CandidateSourceStatic  = "static"
	CandidateSourceCatalog = "catalog"
)

// RecommendConfig holds recommendation engine settings
type RecommendConfig struct {
	ContentWeight     float64       `koanf:"content_weight"`
	CollabWeight      float64       `koanf:"collab_weight"`
	TopN              int           `koanf:"top_n"`
	MaxTopN           int           `koanf:"max_top_n"`
	HistoryLimit      int           `koanf:"history_limit"`
	NeighborPoolLimit int           `koanf:"neighbor_pool_limit"`
	Neighbors         int           `koanf:"neighbors"`
	MaxFeatures       int           `koanf:"max_features"`
	CandidateSource   string        `koanf:"candidate_source"`
	CandidateLimit    int           `koanf:"candidate_limit"`
	Candidates        []string      `koanf:"candidates"`
	FeatureCacheSize  int           `koanf:"feature_cache_size"` // 0 disables the cache
	FeatureCacheTTL   time.Duration `koanf:"feature_cache_ttl"`
}

// EngineConfig converts the settings into a recommend.Config.
func (c RecommendConfig) EngineConfig() *recommend.Config {
	cfg := recommend.DefaultConfig()
	cfg.Weights.Content = c.ContentWeight
	cfg.Weights.Collaborative = c.CollabWeight
	cfg.Content.MaxFeatures = c.MaxFeatures
	cfg.Collaborative.Neighbors = c.Neighbors
	cfg.Limits.DefaultTopN = c.TopN
	cfg.Limits.MaxTopN = c.MaxTopN
	cfg.Limits.HistoryLimit = c.HistoryLimit
	cfg.Limits.NeighborPoolLimit = c.NeighborPoolLimit
	cfg.Limits.CandidateLimit = c.CandidateLimit
	cfg.FeatureCache.Enabled = c.FeatureCacheSize > 0
	cfg.FeatureCache.Size = c.FeatureCacheSize
	cfg.FeatureCache.TTL = c.FeatureCacheTTL
	return cfg
}

// SecurityConfig holds CORS and rate limiting settings
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// MaintenanceConfig holds the schedule for background maintenance jobs
type MaintenanceConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Schedule string `koanf:"schedule"` // standard 5-field cron expression or @every descriptor
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
