// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

// Package algorithms implements the scorers used by the hybrid engine.
//
// # Scorers
//
// Content-Based Filtering:
//   - ContentScorer: TF-IDF vectors over item text, ranked by mean cosine
//     similarity to the items a user has watched
//
// Collaborative Filtering:
//   - CollaborativeScorer: user-based neighbors by Jaccard overlap of item
//     sets, with neighbor similarities summed per candidate
//
// # Text Processing
//
// ExtractFeatureText builds the text of an item from its title,
// description, tags and channel. The Vectorizer tokenizes on runs of word
// characters of length two or more, lowercases, removes English stop words,
// and builds unigram and bigram features. Weights use smoothed inverse
// document frequency and each row is L2-normalized.
//
// # Determinism
//
// All rankings use stable sorts over slices built in input order, so equal
// scores keep the order in which items were first seen. Nothing is trained
// ahead of time; every call fits its own vector space.
package algorithms
