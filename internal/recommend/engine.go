// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/vidrec/internal/metrics"
)

// ItemResolver resolves item metadata for enrichment.
// *MetadataResolver is the production implementation.
type ItemResolver interface {
	Resolve(ctx context.Context, itemID string) Resolution
}

var _ ItemResolver = (*MetadataResolver)(nil)

// Dependencies are the collaborators an Engine needs.
type Dependencies struct {
	Interactions  InteractionLog
	Resolver      ItemResolver
	Content       ContentScorer
	Collaborative CollaborativeScorer

	// Candidates is only required by GetRecommendations.
	Candidates CandidateSource
}

// Engine blends content and collaborative scores into one ranking.
// It holds no per-request state and is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	interactions InteractionLog
	resolver     ItemResolver
	content      ContentScorer
	collab       CollaborativeScorer
	candidates   CandidateSource
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, deps Dependencies, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	switch {
	case deps.Interactions == nil:
		return nil, fmt.Errorf("interaction log is required")
	case deps.Resolver == nil:
		return nil, fmt.Errorf("metadata resolver is required")
	case deps.Content == nil:
		return nil, fmt.Errorf("content scorer is required")
	case deps.Collaborative == nil:
		return nil, fmt.Errorf("collaborative scorer is required")
	}

	return &Engine{
		config:       cfg,
		logger:       logger.With().Str("component", "recommend").Logger(),
		interactions: deps.Interactions,
		resolver:     deps.Resolver,
		content:      deps.Content,
		collab:       deps.Collaborative,
		candidates:   deps.Candidates,
	}, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// DefaultOptions returns the configured fusion options.
func (e *Engine) DefaultOptions() Options {
	return e.config.DefaultOptions()
}

// Score ranks candidates for a user.
//
// Users without view history get the first TopN candidates with score 1.0
// tagged popular. Otherwise both scorers run with 2*TopN and their scores
// are summed with the option weights. A single scorer failure is logged and
// the other scorer's results are used; if both fail an *EngineError is returned.
// When fusion yields nothing the popular ordering is returned instead.
func (e *Engine) Score(ctx context.Context, userID string, candidates []string, opts Options) ([]RecommendationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateOptions(opts, e.config.Limits.MaxTopN); err != nil {
		return nil, &EngineError{Op: "options", UserID: userID, Err: err}
	}
	if opts.TopN <= 0 || len(candidates) == 0 {
		return []RecommendationResult{}, nil
	}

	start := time.Now()
	logger := e.logger.With().Str("user_id", userID).Logger()

	history := e.loadHistory(ctx, userID, logger)
	watched := viewedItems(history)

	if len(watched) == 0 {
		results := popular(candidates, opts.TopN)
		metrics.RecordRecommendation(string(ProvenancePopular), time.Since(start), len(results))
		logger.Debug().Int("returned", len(results)).Msg("cold start, using popular candidates")
		return results, nil
	}

	pool := e.loadPool(ctx, history, logger)

	contentResults, collabResults, err := e.runScorers(ctx, userID, watched, pool, candidates, opts.TopN*2, logger)
	if err != nil {
		return nil, err
	}

	results := fuse(contentResults, collabResults, opts)
	if len(results) == 0 {
		results = popular(candidates, opts.TopN)
		metrics.RecordRecommendation(string(ProvenancePopular), time.Since(start), len(results))
		logger.Debug().Int("watched", len(watched)).Int("returned", len(results)).Msg("scorers returned nothing, using popular candidates")
		return results, nil
	}
	metrics.RecordRecommendation(string(ProvenanceHybrid), time.Since(start), len(results))

	logger.Debug().
		Int("watched", len(watched)).
		Int("candidates", len(candidates)).
		Int("content_results", len(contentResults)).
		Int("collaborative_results", len(collabResults)).
		Int("returned", len(results)).
		Dur("latency", time.Since(start)).
		Msg("hybrid recommendation complete")

	return results, nil
}

// Recommend scores candidates and joins each result with its metadata.
// Results whose metadata cannot be resolved are dropped.
func (e *Engine) Recommend(ctx context.Context, userID string, candidates []string, opts Options) ([]EnrichedRecommendation, error) {
	results, err := e.Score(ctx, userID, candidates, opts)
	if err != nil {
		return nil, err
	}
	return e.enrich(ctx, results)
}

// GetRecommendations recommends up to limit items drawn from the configured
// CandidateSource. A non-positive limit uses the configured default and
// limits above the configured maximum are clamped.
func (e *Engine) GetRecommendations(ctx context.Context, userID string, limit int) ([]EnrichedRecommendation, error) {
	if e.candidates == nil {
		return nil, &EngineError{Op: "candidates", UserID: userID, Err: errors.New("no candidate source configured")}
	}

	candidates, err := e.candidates.Candidates(ctx, userID, e.config.Limits.CandidateLimit)
	if err != nil {
		return nil, &EngineError{Op: "candidates", UserID: userID, Err: err}
	}

	opts := e.config.DefaultOptions()
	if limit > 0 {
		opts.TopN = min(limit, e.config.Limits.MaxTopN)
	}

	return e.Recommend(ctx, userID, candidates, opts)
}

// loadHistory reads the user's recent interactions. Failures are treated as
// an empty history.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) loadHistory(ctx context.Context, userID string, logger zerolog.Logger) []Interaction {
	history, err := e.interactions.InteractionsForUser(ctx, userID, e.config.Limits.HistoryLimit)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load user history, treating as cold start")
		return nil
	}
	return history
}

// loadPool returns the interactions used for collaborative scoring: the
// user's own history followed by the cross-user feed.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) loadPool(ctx context.Context, history []Interaction, logger zerolog.Logger) []Interaction {
	if e.config.Limits.NeighborPoolLimit == 0 {
		return history
	}

	all, err := e.interactions.AllInteractions(ctx, e.config.Limits.NeighborPoolLimit)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load interaction pool, using user history only")
		return history
	}

	pool := make([]Interaction, 0, len(history)+len(all))
	pool = append(pool, history...)
	pool = append(pool, all...)
	return pool
}

// scorerResult holds the outcome of one scorer.
type scorerResult struct {
	results []RecommendationResult
	err     error
}

// runScorers runs both scorers in parallel.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) runScorers(ctx context.Context, userID string, watched []string, pool []Interaction, candidates []string, topN int, logger zerolog.Logger) ([]RecommendationResult, []RecommendationResult, error) {
	var content, collab scorerResult
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		content.results, content.err = e.content.Score(ctx, watched, candidates, topN)
	}()
	go func() {
		defer wg.Done()
		collab.results, collab.err = e.collab.Score(ctx, userID, pool, candidates, topN)
	}()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	if content.err != nil && collab.err != nil {
		metrics.RecordScorerFailure("content")
		metrics.RecordScorerFailure("collaborative")
		return nil, nil, &EngineError{
			Op:     "fuse",
			UserID: userID,
			Err: errors.Join(
				fmt.Errorf("content scorer: %w", content.err),
				fmt.Errorf("collaborative scorer: %w", collab.err),
			),
		}
	}
	if content.err != nil {
		metrics.RecordScorerFailure("content")
		logger.Warn().Err(content.err).Msg("content scorer failed, using collaborative results only")
		content.results = nil
	}
	if collab.err != nil {
		metrics.RecordScorerFailure("collaborative")
		logger.Warn().Err(collab.err).Msg("collaborative scorer failed, using content results only")
		collab.results = nil
	}

	return content.results, collab.results, nil
}

// enrich resolves metadata for each result, dropping unresolved items.
func (e *Engine) enrich(ctx context.Context, results []RecommendationResult) ([]EnrichedRecommendation, error) {
	enriched := make([]EnrichedRecommendation, 0, len(results))
	for _, r := range results {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res := e.resolver.Resolve(ctx, r.ItemID)
		if !res.Found() {
			e.logger.Debug().
				Str("item_id", r.ItemID).
				Str("outcome", res.Outcome.String()).
				Msg("dropping recommendation without metadata")
			continue
		}

		enriched = append(enriched, EnrichedRecommendation{
			ItemID:     r.ItemID,
			Title:      res.Meta.Title,
			Channel:    res.Meta.Channel,
			Thumbnail:  res.Meta.Thumbnail,
			ViewCount:  res.Meta.ViewCount,
			Score:      r.Score,
			Provenance: r.Provenance,
		})
	}
	return enriched, nil
}

// viewedItems returns the distinct items with a view interaction, in history order.
func viewedItems(history []Interaction) []string {
	seen := make(map[string]struct{}, len(history))
	watched := make([]string, 0, len(history))
	for _, in := range history {
		if in.Type != InteractionView {
			continue
		}
		if _, ok := seen[in.ItemID]; ok {
			continue
		}
		seen[in.ItemID] = struct{}{}
		watched = append(watched, in.ItemID)
	}
	return watched
}

// popular returns the first topN candidates with a constant score.
func popular(candidates []string, topN int) []RecommendationResult {
	n := min(topN, len(candidates))
	results := make([]RecommendationResult, 0, n)
	for _, id := range candidates[:n] {
		results = append(results, RecommendationResult{
			ItemID:     id,
			Score:      1.0,
			Provenance: ProvenancePopular,
		})
	}
	return results
}

// fuse computes content*cw + collab*clw per item. Items keep the order in
// which they were first seen (content results first) among equal scores.
func fuse(content, collab []RecommendationResult, opts Options) []RecommendationResult {
	order := make([]string, 0, len(content)+len(collab))
	scores := make(map[string]float64, len(content)+len(collab))

	add := func(results []RecommendationResult, weight float64) {
		for _, r := range results {
			if _, ok := scores[r.ItemID]; !ok {
				order = append(order, r.ItemID)
			}
			scores[r.ItemID] += r.Score * weight
		}
	}
	add(content, opts.ContentWeight)
	add(collab, opts.CollabWeight)

	fused := make([]RecommendationResult, 0, len(order))
	for _, id := range order {
		fused = append(fused, RecommendationResult{
			ItemID:     id,
			Score:      scores[id],
			Provenance: ProvenanceHybrid,
		})
	}

	sort.SliceStable(fused, func(i, j int) bool {
		return fused[i].Score > fused[j].Score
	})

	if len(fused) > opts.TopN {
		fused = fused[:opts.TopN]
	}
	return fused
}

func validateOptions(opts Options, maxTopN int) error {
	if maxTopN > 0 && opts.TopN > maxTopN {
		return fmt.Errorf("top n %d exceeds maximum %d", opts.TopN, maxTopN)
	}
	if err := validateWeight("content weight", opts.ContentWeight); err != nil {
		return err
	}
	return validateWeight("collaborative weight", opts.CollabWeight)
}
