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

// CollaborativeScorer implements user-based collaborative filtering over
// item sets.
//
// Users are compared by Jaccard similarity of the items they interacted
// with. The K most similar users vote for items the target has not seen:
//
//	score(i) = Σ_{v ∈ N(u), i ∈ I(v) \ I(u)} jaccard(u, v)
type CollaborativeScorer struct {
	neighbors int
}

var _ recommend.CollaborativeScorer = (*CollaborativeScorer)(nil)

// NewCollaborativeScorer creates a collaborative scorer.
func NewCollaborativeScorer(cfg recommend.CollaborativeConfig) *CollaborativeScorer {
	k := cfg.Neighbors
	if k <= 0 {
		k = 20
	}
	return &CollaborativeScorer{neighbors: k}
}

// userItems is an ordered set of items.
type userItems struct {
	order []string
	set   map[string]struct{}
}

// neighbor represents a similar user.
type neighbor struct {
	user       string
	similarity float64
}

// Score implements recommend.CollaborativeScorer.
func (c *CollaborativeScorer) Score(ctx context.Context, userID string, interactions []recommend.Interaction, candidates []string, topN int) ([]recommend.RecommendationResult, error) {
	empty := []recommend.RecommendationResult{}
	if topN <= 0 || len(candidates) == 0 {
		return empty, nil
	}

	users, byUser := groupByUser(interactions)
	target, ok := byUser[userID]
	if !ok {
		return empty, nil
	}

	if ContextCancelled(ctx) {
		return nil, ctx.Err()
	}

	neighbors := c.nearestNeighbors(userID, target, users, byUser)

	candidateSet := make(map[string]struct{}, len(candidates))
	for _, id := range candidates {
		candidateSet[id] = struct{}{}
	}

	scores := make(map[string]float64)
	var order []string
	for _, n := range neighbors {
		for _, item := range byUser[n.user].order {
			if _, seen := target.set[item]; seen {
				continue
			}
			if _, ok := candidateSet[item]; !ok {
				continue
			}
			if _, ok := scores[item]; !ok {
				order = append(order, item)
			}
			scores[item] += n.similarity
		}
	}

	items := make([]scored, len(order))
	for i, id := range order {
		items[i] = scored{id: id, score: scores[id]}
	}
	return rankTopN(items, topN, recommend.ProvenanceCollaborative), nil
}

// nearestNeighbors returns the most similar users with positive similarity.
func (c *CollaborativeScorer) nearestNeighbors(userID string, target *userItems, users []string, byUser map[string]*userItems) []neighbor {
	neighbors := make([]neighbor, 0, len(users))
	for _, other := range users {
		if other == userID {
			continue
		}
		sim := jaccardSimilarity(target.set, byUser[other].set)
		if sim <= 0 {
			continue
		}
		neighbors = append(neighbors, neighbor{user: other, similarity: sim})
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].similarity > neighbors[j].similarity
	})

	if len(neighbors) > c.neighbors {
		neighbors = neighbors[:c.neighbors]
	}
	return neighbors
}

// groupByUser builds ordered item sets per user, with users in first-seen order.
func groupByUser(interactions []recommend.Interaction) ([]string, map[string]*userItems) {
	var users []string
	byUser := make(map[string]*userItems)

	for _, in := range interactions {
		ui, ok := byUser[in.UserID]
		if !ok {
			ui = &userItems{set: make(map[string]struct{})}
			byUser[in.UserID] = ui
			users = append(users, in.UserID)
		}
		if _, seen := ui.set[in.ItemID]; seen {
			continue
		}
		ui.set[in.ItemID] = struct{}{}
		ui.order = append(ui.order, in.ItemID)
	}
	return users, byUser
}
