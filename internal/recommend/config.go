// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package recommend

import (
	"fmt"
	"math"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Weights defines the contribution of each scorer to the fused score.
	// Weights are applied as-is and are not normalized.
	Weights FusionWeights `json:"weights"`

	// Content contains parameters for the content scorer.
	Content ContentConfig `json:"content"`

	// Collaborative contains parameters for the collaborative scorer.
	Collaborative CollaborativeConfig `json:"collaborative"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// FeatureCache configures the FeatureText cache.
	FeatureCache FeatureCacheConfig `json:"feature_cache"`
}

// FusionWeights defines the relative contribution of each scorer.
type FusionWeights struct {
	// Content is the weight for content-based scores.
	Content float64 `json:"content"`

	// Collaborative is the weight for collaborative scores.
	Collaborative float64 `json:"collaborative"`
}

// ContentConfig contains parameters for TF-IDF content scoring.
type ContentConfig struct {
	// MaxFeatures caps the fitted vocabulary size.
	MaxFeatures int `json:"max_features"`

	// MinNGram and MaxNGram bound the n-gram range.
	MinNGram int `json:"min_ngram"`
	MaxNGram int `json:"max_ngram"`
}

// CollaborativeConfig contains parameters for user-based collaborative scoring.
type CollaborativeConfig struct {
	// Neighbors is the number of most similar users retained.
	Neighbors int `json:"neighbors"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultTopN is used when a request does not specify a size.
	DefaultTopN int `json:"default_top_n"`

	// MaxTopN is the largest allowed request size.
	MaxTopN int `json:"max_top_n"`

	// HistoryLimit bounds how many of the user's interactions are read.
	HistoryLimit int `json:"history_limit"`

	// NeighborPoolLimit bounds how many cross-user interactions are read
	// for collaborative scoring.
	NeighborPoolLimit int `json:"neighbor_pool_limit"`

	// CandidateLimit bounds how many candidates a CandidateSource returns.
	CandidateLimit int `json:"candidate_limit"`
}

// FeatureCacheConfig configures the in-memory FeatureText cache.
type FeatureCacheConfig struct {
	// Enabled turns the cache on. Results are identical either way.
	Enabled bool `json:"enabled"`

	// Size is the maximum number of cached entries.
	Size int `json:"size"`

	// TTL is how long an entry stays valid.
	TTL time.Duration `json:"ttl"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		Weights: FusionWeights{
			Content:       0.6,
			Collaborative: 0.4,
		},
		Content: ContentConfig{
			MaxFeatures: 1000,
			MinNGram:    1,
			MaxNGram:    2,
		},
		Collaborative: CollaborativeConfig{
			Neighbors: 20,
		},
		Limits: LimitsConfig{
			DefaultTopN:       10,
			MaxTopN:           50,
			HistoryLimit:      100,
			NeighborPoolLimit: 10000,
			CandidateLimit:    200,
		},
		FeatureCache: FeatureCacheConfig{
			Enabled: true,
			Size:    5000,
			TTL:     30 * time.Minute,
		},
	}
}

// Validate checks that all configuration values are usable.
func (c *Config) Validate() error {
	if err := validateWeight("weights.content", c.Weights.Content); err != nil {
		return err
	}
	if err := validateWeight("weights.collaborative", c.Weights.Collaborative); err != nil {
		return err
	}

	if c.Content.MaxFeatures < 1 {
		return fmt.Errorf("content.max_features must be positive, got %d", c.Content.MaxFeatures)
	}
	if c.Content.MinNGram < 1 {
		return fmt.Errorf("content.min_ngram must be positive, got %d", c.Content.MinNGram)
	}
	if c.Content.MaxNGram < c.Content.MinNGram {
		return fmt.Errorf("content.max_ngram must be >= content.min_ngram, got %d < %d", c.Content.MaxNGram, c.Content.MinNGram)
	}

	if c.Collaborative.Neighbors < 1 {
		return fmt.Errorf("collaborative.neighbors must be positive, got %d", c.Collaborative.Neighbors)
	}

	if c.Limits.DefaultTopN < 1 {
		return fmt.Errorf("limits.default_top_n must be positive, got %d", c.Limits.DefaultTopN)
	}
	if c.Limits.MaxTopN < c.Limits.DefaultTopN {
		return fmt.Errorf("limits.max_top_n must be >= limits.default_top_n, got %d < %d", c.Limits.MaxTopN, c.Limits.DefaultTopN)
	}
	if c.Limits.HistoryLimit < 1 {
		return fmt.Errorf("limits.history_limit must be positive, got %d", c.Limits.HistoryLimit)
	}
	if c.Limits.NeighborPoolLimit < 0 {
		return fmt.Errorf("limits.neighbor_pool_limit must be non-negative, got %d", c.Limits.NeighborPoolLimit)
	}
	if c.Limits.CandidateLimit < 1 {
		return fmt.Errorf("limits.candidate_limit must be positive, got %d", c.Limits.CandidateLimit)
	}

	if c.FeatureCache.Enabled {
		if c.FeatureCache.Size < 1 {
			return fmt.Errorf("feature_cache.size must be positive, got %d", c.FeatureCache.Size)
		}
		if c.FeatureCache.TTL <= 0 {
			return fmt.Errorf("feature_cache.ttl must be positive, got %v", c.FeatureCache.TTL)
		}
	}

	return nil
}

func validateWeight(name string, w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return fmt.Errorf("%s must be a finite non-negative number, got %f", name, w)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// DefaultOptions returns fusion options derived from the configuration.
func (c *Config) DefaultOptions() Options {
	return Options{
		ContentWeight: c.Weights.Content,
		CollabWeight:  c.Weights.Collaborative,
		TopN:          c.Limits.DefaultTopN,
	}
}
