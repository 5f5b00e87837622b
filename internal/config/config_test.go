// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "HTTP_PORT"},
		{"request timeout", func(c *Config) { c.Server.RequestTimeout = 0 }, "HTTP_REQUEST_TIMEOUT"},
		{"empty database path", func(c *Config) { c.Database.Path = "" }, "DUCKDB_PATH"},
		{"negative threads", func(c *Config) { c.Database.Threads = -1 }, "DUCKDB_THREADS"},
		{"unknown metadata backend", func(c *Config) { c.Metadata.Backend = "redis" }, "METADATA_BACKEND"},
		{"badger without path", func(c *Config) {
			c.Metadata.Backend = MetadataBackendBadger
			c.Metadata.BadgerPath = ""
		}, "METADATA_BADGER_PATH"},
		{"badger in memory", func(c *Config) {
			c.Metadata.Backend = MetadataBackendBadger
			c.Metadata.BadgerPath = ""
			c.Metadata.BadgerInMemory = true
		}, ""},
		{"youtube url scheme", func(c *Config) { c.YouTube.BaseURL = "ftp://example.com" }, "YOUTUBE_BASE_URL"},
		{"youtube url host", func(c *Config) { c.YouTube.BaseURL = "https://" }, "YOUTUBE_BASE_URL"},
		{"youtube rate", func(c *Config) { c.YouTube.RequestsPerSecond = 0 }, "YOUTUBE_REQUESTS_PER_SECOND"},
		{"youtube burst", func(c *Config) { c.YouTube.Burst = 0 }, "YOUTUBE_BURST"},
		{"unknown candidate source", func(c *Config) { c.Recommend.CandidateSource = "x" }, "RECOMMEND_CANDIDATE_SOURCE"},
		{"empty static candidates", func(c *Config) { c.Recommend.Candidates = nil }, "RECOMMEND_CANDIDATES"},
		{"catalog without candidates", func(c *Config) {
			c.Recommend.CandidateSource = CandidateSourceCatalog
			c.Recommend.Candidates = nil
		}, ""},
		{"negative weight", func(c *Config) { c.Recommend.CollabWeight = -1 }, "weights.collaborative"},
		{"max below default", func(c *Config) { c.Recommend.MaxTopN = 5 }, "max_top_n"},
		{"cache disabled", func(c *Config) { c.Recommend.FeatureCacheSize = 0 }, ""},
		{"rate limit", func(c *Config) { c.Security.RateLimitReqs = 0 }, "RATE_LIMIT_REQS"},
		{"rate limit disabled", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, ""},
		{"bad schedule", func(c *Config) { c.Maintenance.Schedule = "every minute" }, "MAINTENANCE_SCHEDULE"},
		{"descriptor schedule", func(c *Config) { c.Maintenance.Schedule = "@every 10m" }, ""},
		{"maintenance disabled", func(c *Config) {
			c.Maintenance.Enabled = false
			c.Maintenance.Schedule = ""
		}, ""},
		{"log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestEngineConfig(t *testing.T) {
	rc := defaultConfig().Recommend
	rc.ContentWeight = 0.3
	rc.CollabWeight = 0.7
	rc.TopN = 7
	rc.Neighbors = 5
	rc.FeatureCacheSize = 0
	rc.FeatureCacheTTL = time.Second

	cfg := rc.EngineConfig()

	if cfg.Weights.Content != 0.3 || cfg.Weights.Collaborative != 0.7 {
		t.Errorf("weights = %+v", cfg.Weights)
	}
	if cfg.Limits.DefaultTopN != 7 {
		t.Errorf("Limits.DefaultTopN = %d, want 7", cfg.Limits.DefaultTopN)
	}
	if cfg.Collaborative.Neighbors != 5 {
		t.Errorf("Collaborative.Neighbors = %d, want 5", cfg.Collaborative.Neighbors)
	}
	if cfg.FeatureCache.Enabled {
		t.Error("a zero cache size should disable the feature cache")
	}
	if cfg.Content.MinNGram != 1 || cfg.Content.MaxNGram != 2 {
		t.Errorf("n-gram range = %d..%d, want 1..2", cfg.Content.MinNGram, cfg.Content.MaxNGram)
	}

	opts := cfg.DefaultOptions()
	if opts.TopN != 7 || opts.ContentWeight != 0.3 {
		t.Errorf("DefaultOptions() = %+v", opts)
	}
}
