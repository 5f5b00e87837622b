// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package recommend

import (
	"math"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("default weights", func(t *testing.T) {
		if cfg.Weights.Content != 0.6 {
			t.Errorf("Weights.Content = %f, want 0.6", cfg.Weights.Content)
		}
		if cfg.Weights.Collaborative != 0.4 {
			t.Errorf("Weights.Collaborative = %f, want 0.4", cfg.Weights.Collaborative)
		}
	})

	t.Run("content defaults", func(t *testing.T) {
		if cfg.Content.MaxFeatures != 1000 {
			t.Errorf("Content.MaxFeatures = %d, want 1000", cfg.Content.MaxFeatures)
		}
		if cfg.Content.MinNGram != 1 || cfg.Content.MaxNGram != 2 {
			t.Errorf("n-gram range = (%d, %d), want (1, 2)", cfg.Content.MinNGram, cfg.Content.MaxNGram)
		}
	})

	t.Run("collaborative defaults", func(t *testing.T) {
		if cfg.Collaborative.Neighbors != 20 {
			t.Errorf("Collaborative.Neighbors = %d, want 20", cfg.Collaborative.Neighbors)
		}
	})

	t.Run("default top n", func(t *testing.T) {
		if cfg.Limits.DefaultTopN != 10 {
			t.Errorf("Limits.DefaultTopN = %d, want 10", cfg.Limits.DefaultTopN)
		}
	})

	t.Run("default config is valid", func(t *testing.T) {
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantError bool
	}{
		{name: "valid default", modify: func(*Config) {}},
		{name: "zero weights allowed", modify: func(c *Config) { c.Weights.Content = 0; c.Weights.Collaborative = 0 }},
		{name: "negative content weight", modify: func(c *Config) { c.Weights.Content = -0.1 }, wantError: true},
		{name: "NaN collaborative weight", modify: func(c *Config) { c.Weights.Collaborative = math.NaN() }, wantError: true},
		{name: "infinite content weight", modify: func(c *Config) { c.Weights.Content = math.Inf(1) }, wantError: true},
		{name: "zero max features", modify: func(c *Config) { c.Content.MaxFeatures = 0 }, wantError: true},
		{name: "inverted n-gram range", modify: func(c *Config) { c.Content.MinNGram = 3; c.Content.MaxNGram = 2 }, wantError: true},
		{name: "zero neighbors", modify: func(c *Config) { c.Collaborative.Neighbors = 0 }, wantError: true},
		{name: "max top n below default", modify: func(c *Config) { c.Limits.MaxTopN = 5 }, wantError: true},
		{name: "zero history limit", modify: func(c *Config) { c.Limits.HistoryLimit = 0 }, wantError: true},
		{name: "negative neighbor pool", modify: func(c *Config) { c.Limits.NeighborPoolLimit = -1 }, wantError: true},
		{name: "cache enabled without size", modify: func(c *Config) { c.FeatureCache.Size = 0 }, wantError: true},
		{name: "cache disabled ignores size", modify: func(c *Config) { c.FeatureCache.Enabled = false; c.FeatureCache.Size = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestConfig_Clone(t *testing.T) {
	cfg := DefaultConfig()
	clone := cfg.Clone()
	clone.Weights.Content = 0.9

	if cfg.Weights.Content != 0.6 {
		t.Errorf("modifying clone changed original: Weights.Content = %f", cfg.Weights.Content)
	}
}

func TestConfig_DefaultOptions(t *testing.T) {
	cfg := DefaultConfig()
	opts := cfg.DefaultOptions()

	if opts.ContentWeight != 0.6 || opts.CollabWeight != 0.4 || opts.TopN != 10 {
		t.Errorf("DefaultOptions() = %+v, want {0.6 0.4 10}", opts)
	}
}
