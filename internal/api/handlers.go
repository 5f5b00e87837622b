// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package api

import (
	"context"
	"time"

	"github.com/tomtom215/vidrec/internal/database"
	"github.com/tomtom215/vidrec/internal/recommend"
)

// Store is the persistence the handlers write to and read from.
// *database.DB is the production implementation.
type Store interface {
	EnsureUser(ctx context.Context, userID string) error
	AddWatchHistory(ctx context.Context, entry database.WatchHistoryEntry) (*database.WatchHistoryEntry, error)
	GetWatchHistory(ctx context.Context, userID string, limit int) ([]database.WatchHistoryEntry, error)
	RecordInteraction(ctx context.Context, in recommend.Interaction) (recommend.Interaction, error)
	Ping(ctx context.Context) error
}

// Recommender produces recommendations from the configured candidate source.
type Recommender interface {
	GetRecommendations(ctx context.Context, userID string, limit int) ([]recommend.EnrichedRecommendation, error)
}

// Searcher queries the external video catalog.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]*recommend.ItemMetadata, error)
}

var (
	_ Store       = (*database.DB)(nil)
	_ Recommender = (*recommend.Engine)(nil)
)

// Limits bound the list endpoints.
type Limits struct {
	DefaultTopN    int
	MaxTopN        int
	RequestTimeout time.Duration
}

// Dependencies groups the collaborators of Handler.
type Dependencies struct {
	Store       Store
	Metadata    recommend.MetadataStore
	Resolver    recommend.ItemResolver
	Recommender Recommender

	// Searcher is nil when no YouTube API key is configured.
	Searcher Searcher
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_health.go: liveness and readiness probes
//   - handlers_search.go: GET /search
//   - handlers_recommend.go: GET /recommendations
//   - handlers_watch_history.go: POST and GET /watch_history
//   - handlers_interactions.go: POST /interactions
type Handler struct {
	store       Store
	metadata    recommend.MetadataStore
	resolver    recommend.ItemResolver
	recommender Recommender
	searcher    Searcher
	limits      Limits
	startTime   time.Time
}

// NewHandler creates a handler. Zero limits take the engine defaults.
func NewHandler(deps Dependencies, limits Limits) *Handler {
	defaults := recommend.DefaultConfig().Limits
	if limits.DefaultTopN <= 0 {
		limits.DefaultTopN = defaults.DefaultTopN
	}
	if limits.MaxTopN <= 0 {
		limits.MaxTopN = defaults.MaxTopN
	}
	if limits.RequestTimeout <= 0 {
		limits.RequestTimeout = 15 * time.Second
	}

	return &Handler{
		store:       deps.Store,
		metadata:    deps.Metadata,
		resolver:    deps.Resolver,
		recommender: deps.Recommender,
		searcher:    deps.Searcher,
		limits:      limits,
		startTime:   time.Now(),
	}
}

func (h *Handler) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, h.limits.RequestTimeout)
}
