// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

// Package recommend implements hybrid video recommendation.
//
// # Architecture
//
// Two signals are blended for each request:
//
//   - Content similarity: TF-IDF cosine between the text of watched videos
//     and each candidate (see the algorithms subpackage)
//   - Collaborative similarity: Jaccard overlap between the user's item set
//     and those of other users
//
// The Engine loads the user's recent interactions, runs both scorers in
// parallel and sums their weighted scores. Users without any view history
// receive the candidate list in its given order, tagged "popular".
//
// # Metadata
//
// Item metadata is read through a MetadataResolver, which consults the
// MetadataStore first and falls back to a single MetadataFetcher call.
// Fetched items are persisted with insert-if-absent semantics. Resolution
// outcomes distinguish a missing item from a failing provider.
//
// # Usage
//
//	resolver := recommend.NewMetadataResolver(store, client, algorithms.ExtractFeatureText, &cfg.FeatureCache, logger)
//	engine, err := recommend.NewEngine(cfg, recommend.Dependencies{
//	    Interactions:  db,
//	    Resolver:      resolver,
//	    Content:       algorithms.NewContentScorer(resolver, cfg.Content),
//	    Collaborative: algorithms.NewCollaborativeScorer(cfg.Collaborative),
//	    Candidates:    candidates,
//	}, logger)
//
//	recs, err := engine.GetRecommendations(ctx, "user-1", 10)
//
// # Thread Safety
//
// The Engine holds no per-request state. Vector spaces are fitted per call
// and never shared. The only shared mutable state is the FeatureText cache,
// which is internally synchronized.
package recommend
