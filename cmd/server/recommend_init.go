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
	"github.com/tomtom215/vidrec/internal/recommend"
	"github.com/tomtom215/vidrec/internal/recommend/algorithms"
	"github.com/tomtom215/vidrec/internal/youtube"
)

// RecommendComponents holds all recommendation-related components.
type RecommendComponents struct {
	Engine   *recommend.Engine
	Resolver *recommend.MetadataResolver

	// YouTube is nil when no API key is configured.
	YouTube youtube.API
}

// initRecommend wires the YouTube client, metadata resolver, scorers and
// candidate source into an engine.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(cfg *config.Config, storage *Storage, logger zerolog.Logger) (*RecommendComponents, error) {
	engineCfg := cfg.Recommend.EngineConfig()

	yt, err := newYouTubeAPI(cfg.YouTube, logger)
	if err != nil {
		return nil, err
	}

	var cacheCfg *recommend.FeatureCacheConfig
	if engineCfg.FeatureCache.Enabled {
		cacheCfg = &engineCfg.FeatureCache
	}
	resolver := recommend.NewMetadataResolver(storage.Metadata, yt, algorithms.ExtractFeatureText, cacheCfg, logger)

	engine, err := recommend.NewEngine(engineCfg, recommend.Dependencies{
		Interactions:  storage.DB,
		Resolver:      resolver,
		Content:       algorithms.NewContentScorer(resolver, engineCfg.Content),
		Collaborative: algorithms.NewCollaborativeScorer(engineCfg.Collaborative),
		Candidates:    buildCandidateSource(cfg.Recommend, storage.Metadata),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}

	logger.Info().
		Float64("content_weight", engineCfg.Weights.Content).
		Float64("collab_weight", engineCfg.Weights.Collaborative).
		Str("candidate_source", cfg.Recommend.CandidateSource).
		Bool("feature_cache", engineCfg.FeatureCache.Enabled).
		Bool("youtube", yt != nil).
		Msg("recommendation engine initialized")

	return &RecommendComponents{Engine: engine, Resolver: resolver, YouTube: yt}, nil
}

// newYouTubeAPI returns the circuit-breaker wrapped Data API client, or nil
// when no API key is configured.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func newYouTubeAPI(cfg config.YouTubeConfig, logger zerolog.Logger) (youtube.API, error) {
	client, err := youtube.NewClient(cfg)
	if errors.Is(err, youtube.ErrNoAPIKey) {
		logger.Warn().Msg("YOUTUBE_API_KEY not set: metadata fetching and search disabled")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("create youtube client: %w", err)
	}
	return youtube.NewCircuitBreakerClient(client, youtube.BreakerSettings{}), nil
}

// buildCandidateSource selects the configured CandidateSource. The catalog
// source falls back to the static list while the catalog is empty.
func buildCandidateSource(cfg config.RecommendConfig, catalog recommend.Catalog) recommend.CandidateSource {
	static := recommend.NewStaticCandidates(cfg.Candidates)
	if cfg.CandidateSource == config.CandidateSourceCatalog {
		return &recommend.CatalogCandidates{Catalog: catalog, Fallback: static}
	}
	return static
}
