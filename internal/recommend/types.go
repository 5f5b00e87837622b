// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package recommend

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// InteractionType classifies a user-item interaction.
type InteractionType string

const (
	// InteractionView records that the user watched the item.
	InteractionView InteractionType = "view"
	// InteractionLike records an explicit thumbs-up.
	InteractionLike InteractionType = "like"
	// InteractionDislike records an explicit thumbs-down.
	InteractionDislike InteractionType = "dislike"
	// InteractionShare records that the user shared the item.
	InteractionShare InteractionType = "share"
)

// String returns the stored name of the interaction type.
func (t InteractionType) String() string {
	return string(t)
}

// Valid reports whether t is one of the known interaction types.
func (t InteractionType) Valid() bool {
	switch t {
	case InteractionView, InteractionLike, InteractionDislike, InteractionShare:
		return true
	default:
		return false
	}
}

// ParseInteractionType converts a case-insensitive name to an InteractionType.
func ParseInteractionType(s string) (InteractionType, error) {
	t := InteractionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown interaction type %q", s)
	}
	return t, nil
}

// DefaultInteractionWeight is applied when an interaction carries no weight.
const DefaultInteractionWeight = 1.0

// Interaction is a single append-only entry in the interaction log.
type Interaction struct {
	// UserID identifies the user that produced the interaction.
	UserID string `json:"user_id"`

	// ItemID is the video identifier.
	ItemID string `json:"item_id"`

	// Type is the kind of interaction.
	Type InteractionType `json:"type"`

	// Timestamp is when the interaction occurred.
	Timestamp time.Time `json:"timestamp"`

	// Weight is the strength of the signal. Always positive.
	Weight float64 `json:"weight"`
}

// ItemMetadata is an immutable snapshot of a video's descriptive fields.
// Optional fields hold their zero value when unknown.
type ItemMetadata struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Channel      string     `json:"channel_title"`
	Tags         []string   `json:"tags"`
	Thumbnail    string     `json:"thumbnail,omitempty"`
	ViewCount    int64      `json:"view_count"`
	LikeCount    int64      `json:"like_count"`
	CommentCount int64      `json:"comment_count"`
	Duration     int        `json:"duration_seconds"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
}

// Clone returns a deep copy so callers cannot mutate a shared snapshot.
func (m *ItemMetadata) Clone() *ItemMetadata {
	if m == nil {
		return nil
	}
	c := *m
	if m.Tags != nil {
		c.Tags = append([]string(nil), m.Tags...)
	}
	if m.PublishedAt != nil {
		t := *m.PublishedAt
		c.PublishedAt = &t
	}
	return &c
}

// Provenance labels the strategy that produced a recommendation.
type Provenance string

const (
	ProvenanceContent       Provenance = "content-based"
	ProvenanceCollaborative Provenance = "collaborative"
	ProvenanceHybrid        Provenance = "hybrid"
	ProvenancePopular       Provenance = "popular"
)

// RecommendationResult is a scored item. Score is finite and non-negative.
type RecommendationResult struct {
	ItemID     string     `json:"item_id"`
	Score      float64    `json:"score"`
	Provenance Provenance `json:"type"`
}

// EnrichedRecommendation is a result joined with the presentation fields of
// its metadata.
type EnrichedRecommendation struct {
	ItemID     string     `json:"video_id"`
	Title      string     `json:"title"`
	Channel    string     `json:"channel_title"`
	Thumbnail  string     `json:"thumbnail"`
	ViewCount  int64      `json:"view_count"`
	Score      float64    `json:"score"`
	Provenance Provenance `json:"type"`
}

// Options control a single fusion call.
type Options struct {
	// ContentWeight scales content-based scores.
	ContentWeight float64

	// CollabWeight scales collaborative scores.
	CollabWeight float64

	// TopN is the maximum number of results returned.
	TopN int
}

// MetadataStore is the persistent item metadata lookup.
//
// GetMetadata returns ErrNotFound when the id is unknown. SaveMetadata is an
// idempotent insert-if-absent: when the id already exists the stored record is
// returned unchanged.
type MetadataStore interface {
	GetMetadata(ctx context.Context, itemID string) (*ItemMetadata, error)
	SaveMetadata(ctx context.Context, item *ItemMetadata) (*ItemMetadata, error)
}

// MetadataFetcher retrieves metadata from an external provider.
// It returns ErrNotFound when the provider has no such item and any other
// error for infrastructure failures.
type MetadataFetcher interface {
	FetchMetadata(ctx context.Context, itemID string) (*ItemMetadata, error)
}

// InteractionLog reads the append-only interaction log.
type InteractionLog interface {
	// InteractionsForUser returns up to limit interactions, newest first.
	InteractionsForUser(ctx context.Context, userID string, limit int) ([]Interaction, error)

	// AllInteractions returns up to limit interactions across all users.
	AllInteractions(ctx context.Context, limit int) ([]Interaction, error)
}

// CandidateSource supplies the items a user may be recommended.
type CandidateSource interface {
	Candidates(ctx context.Context, userID string, limit int) ([]string, error)
}

// FeatureSource resolves the FeatureText of an item. The boolean is false
// when the item has no usable metadata.
type FeatureSource interface {
	FeatureText(ctx context.Context, itemID string) (string, bool)
}

// ContentScorer ranks candidates by textual similarity to watched items.
type ContentScorer interface {
	Score(ctx context.Context, watched, candidates []string, topN int) ([]RecommendationResult, error)
}

// CollaborativeScorer ranks candidates using overlap with other users.
type CollaborativeScorer interface {
	Score(ctx context.Context, userID string, interactions []Interaction, candidates []string, topN int) ([]RecommendationResult, error)
}
