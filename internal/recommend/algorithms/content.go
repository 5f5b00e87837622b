// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package algorithms

import (
	"context"

	"github.com/tomtom215/vidrec/internal/recommend"
)

// ContentScorer ranks candidates by TF-IDF cosine similarity to the items a
// user has watched.
//
// The corpus is the watched items followed by the candidates, with
// duplicates removed. Items without FeatureText are dropped before fitting.
// A candidate's score is its mean cosine similarity over the surviving
// watched items:
//
//	score(c) = (1/|W|) * Σ_{w ∈ W} cos(v_w, v_c)
type ContentScorer struct {
	features   recommend.FeatureSource
	vectorizer VectorizerConfig
}

var _ recommend.ContentScorer = (*ContentScorer)(nil)

// NewContentScorer creates a content scorer. Zero config values use defaults.
func NewContentScorer(features recommend.FeatureSource, cfg recommend.ContentConfig) *ContentScorer {
	return &ContentScorer{
		features: features,
		vectorizer: VectorizerConfig{
			MaxFeatures: cfg.MaxFeatures,
			MinNGram:    cfg.MinNGram,
			MaxNGram:    cfg.MaxNGram,
			StopWords:   true,
		}.withDefaults(),
	}
}

// Score implements recommend.ContentScorer. Degenerate inputs return an
// empty slice. Only context cancellation is returned as an error.
func (c *ContentScorer) Score(ctx context.Context, watched, candidates []string, topN int) ([]recommend.RecommendationResult, error) {
	empty := []recommend.RecommendationResult{}
	if len(watched) == 0 || len(candidates) == 0 || topN <= 0 {
		return empty, nil
	}

	watchedSet := make(map[string]struct{}, len(watched))
	for _, id := range watched {
		watchedSet[id] = struct{}{}
	}

	corpus := dedupe(watched, candidates)

	ids := make([]string, 0, len(corpus))
	docs := make([]string, 0, len(corpus))
	for _, id := range corpus {
		if ContextCancelled(ctx) {
			return nil, ctx.Err()
		}
		text, ok := c.features.FeatureText(ctx, id)
		if !ok || text == "" {
			continue
		}
		ids = append(ids, id)
		docs = append(docs, text)
	}

	if len(ids) < 2 {
		return empty, nil
	}

	candidateSet := make(map[string]struct{}, len(candidates))
	for _, id := range candidates {
		candidateSet[id] = struct{}{}
	}

	// A watched id that is also a candidate lands in both row sets.
	var watchedRows, candidateRows []int
	for i, id := range ids {
		if _, ok := watchedSet[id]; ok {
			watchedRows = append(watchedRows, i)
		}
		if _, ok := candidateSet[id]; ok {
			candidateRows = append(candidateRows, i)
		}
	}
	if len(watchedRows) == 0 || len(candidateRows) == 0 {
		return empty, nil
	}

	space := Fit(docs, c.vectorizer)

	items := make([]scored, 0, len(candidateRows))
	for _, ci := range candidateRows {
		cv := space.Row(ci)
		var sum float64
		for _, wi := range watchedRows {
			sum += cosineSimilarity(space.Row(wi), cv)
		}
		items = append(items, scored{id: ids[ci], score: sum / float64(len(watchedRows))})
	}

	return rankTopN(items, topN, recommend.ProvenanceContent), nil
}

// dedupe concatenates lists, keeping the first occurrence of each id.
func dedupe(lists ...[]string) []string {
	total := 0
	for _, l := range lists {
		total += len(l)
	}

	seen := make(map[string]struct{}, total)
	out := make([]string, 0, total)
	for _, l := range lists {
		for _, id := range l {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
