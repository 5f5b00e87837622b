// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/vidrec/config.yaml",
	"/etc/vidrec/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultCandidates is the static candidate list used when no catalog is configured.
var DefaultCandidates = []string{
	"dQw4w9WgXcQ",
	"jNQXAC9IVRw",
	"9bZkp7q19f0",
	"kJQP7kiw5Fk",
	"CevxZvSJLk8",
	"OPf0YbXqDm0",
	"09R8_2nJtjg",
	"uelHwf8o7_U",
	"QK8mJJJvaes",
	"2vjPBrBU-TM",
}

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  15 * time.Second,
		},
		Database: DatabaseConfig{
			Path:      "/data/vidrec.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Metadata: MetadataConfig{
			Backend:        MetadataBackendDuckDB,
			BadgerPath:     "/data/metadata",
			BadgerInMemory: false,
		},
		YouTube: YouTubeConfig{
			APIKey:            "",
			BaseURL:           "https://www.googleapis.com/youtube/v3",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 5,
			Burst:             10,
			MaxRetries:        3,
		},
		Recommend: RecommendConfig{
			ContentWeight:     0.6,
			CollabWeight:      0.4,
			TopN:              10,
			MaxTopN:           50,
			HistoryLimit:      100,
			NeighborPoolLimit: 10000,
			Neighbors:         20,
			MaxFeatures:       1000,
			CandidateSource:   CandidateSourceStatic,
			CandidateLimit:    200,
			Candidates:        append([]string(nil), DefaultCandidates...),
			FeatureCacheSize:  5000,
			FeatureCacheTTL:   30 * time.Minute,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Maintenance: MaintenanceConfig{
			Enabled:  true,
			Schedule: "*/5 * * * *",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration from defaults, an optional YAML file and
// environment variables, in increasing order of priority, then validates it.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "" if none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are config paths that accept comma-separated env values.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"recommend.candidates",
}

// processSliceFields converts comma-separated strings into slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to config paths.
var envMappings = map[string]string{
	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"http_request_timeout":  "server.request_timeout",
	"port":                  "server.port",

	// Database
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	// Metadata store
	"metadata_backend":          "metadata.backend",
	"metadata_badger_path":      "metadata.badger_path",
	"metadata_badger_in_memory": "metadata.badger_in_memory",

	// YouTube
	"youtube_api_key":             "youtube.api_key",
	"youtube_base_url":            "youtube.base_url",
	"youtube_timeout":             "youtube.timeout",
	"youtube_requests_per_second": "youtube.requests_per_second",
	"youtube_burst":               "youtube.burst",
	"youtube_max_retries":         "youtube.max_retries",

	// Recommendation engine
	"recommend_content_weight":      "recommend.content_weight",
	"recommend_collab_weight":       "recommend.collab_weight",
	"recommend_top_n":               "recommend.top_n",
	"recommend_max_top_n":           "recommend.max_top_n",
	"recommend_history_limit":       "recommend.history_limit",
	"recommend_neighbor_pool_limit": "recommend.neighbor_pool_limit",
	"recommend_neighbors":           "recommend.neighbors",
	"recommend_max_features":        "recommend.max_features",
	"recommend_candidate_source":    "recommend.candidate_source",
	"recommend_candidate_limit":     "recommend.candidate_limit",
	"recommend_candidates":          "recommend.candidates",
	"recommend_feature_cache_size":  "recommend.feature_cache_size",
	"recommend_feature_cache_ttl":   "recommend.feature_cache_ttl",

	// Security
	"cors_origins":       "security.cors_origins",
	"rate_limit_reqs":    "security.rate_limit_reqs",
	"rate_limit_window":  "security.rate_limit_window",
	"disable_rate_limit": "security.rate_limit_disabled",

	// Maintenance
	"maintenance_enabled":  "maintenance.enabled",
	"maintenance_schedule": "maintenance.schedule",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to a koanf path.
// Unmapped variables return "" and are ignored.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
