// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package algorithms

import (
	"context"
	"sort"

	"github.com/tomtom215/vidrec/internal/recommend"
)

// cosineSimilarity computes cosine similarity between two sparse vectors.
// Either vector being zero yields 0.
func cosineSimilarity(a, b SparseVector) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}

	var dot float64
	for k, wa := range a {
		if wb, ok := b[k]; ok {
			dot += wa * wb
		}
	}
	if dot == 0 {
		return 0
	}

	normA, normB := a.Norm(), b.Norm()
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (normA * normB)
	// Guard against rounding slightly past 1.
	if sim > 1 {
		sim = 1
	}
	return sim
}

// jaccardSimilarity computes |A ∩ B| / |A ∪ B|. An empty union yields 0.
func jaccardSimilarity(a, b map[string]struct{}) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}

	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// scored is an item with a score, kept in discovery order.
type scored struct {
	id    string
	score float64
}

// rankTopN sorts items by score descending, keeping discovery order among
// ties, and returns at most topN results.
func rankTopN(items []scored, topN int, provenance recommend.Provenance) []recommend.RecommendationResult {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].score > items[j].score
	})

	if len(items) > topN {
		items = items[:topN]
	}

	results := make([]recommend.RecommendationResult, len(items))
	for i, it := range items {
		results[i] = recommend.RecommendationResult{
			ItemID:     it.id,
			Score:      it.score,
			Provenance: provenance,
		}
	}
	return results
}

// ContextCancelled checks if the context has been cancelled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
