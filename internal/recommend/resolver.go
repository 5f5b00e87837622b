// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package recommend

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/tomtom215/vidrec/internal/cache"
	"github.com/tomtom215/vidrec/internal/metrics"
)

// Outcome describes how a metadata lookup was satisfied.
type Outcome int

const (
	// OutcomeStored means the item was found in the metadata store.
	OutcomeStored Outcome = iota
	// OutcomeFetched means the item came from the external provider.
	OutcomeFetched
	// OutcomeMissing means neither the store nor the provider know the item.
	OutcomeMissing
	// OutcomeFetchFailed means the provider could not be reached or errored.
	OutcomeFetchFailed
)

// String returns the label used in logs and metrics.
func (o Outcome) String() string {
	switch o {
	case OutcomeStored:
		return "stored"
	case OutcomeFetched:
		return "fetched"
	case OutcomeMissing:
		return "missing"
	case OutcomeFetchFailed:
		return "fetch_failed"
	default:
		return "unknown"
	}
}

// Resolution is the result of resolving one item.
// Meta is nil unless Outcome is OutcomeStored or OutcomeFetched.
type Resolution struct {
	Meta    *ItemMetadata
	Outcome Outcome
	Err     error
}

// Found reports whether metadata is available.
func (r Resolution) Found() bool {
	return r.Meta != nil
}

// FeatureTextFunc builds the FeatureText of an item.
type FeatureTextFunc func(*ItemMetadata) string

// MetadataResolver resolves item metadata by reading the store first and
// falling back to a single external fetch, persisting what it fetches.
// It also serves as the FeatureSource for content scoring.
type MetadataResolver struct {
	store    MetadataStore
	fetcher  MetadataFetcher
	features FeatureTextFunc
	cache    *cache.LRUCache[string]
	logger   zerolog.Logger
}

var _ FeatureSource = (*MetadataResolver)(nil)

// NewMetadataResolver creates a resolver. fetcher may be nil, in which case
// store misses resolve to OutcomeMissing. A nil cfg disables the cache.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewMetadataResolver(store MetadataStore, fetcher MetadataFetcher, features FeatureTextFunc, cfg *FeatureCacheConfig, logger zerolog.Logger) *MetadataResolver {
	r := &MetadataResolver{
		store:    store,
		fetcher:  fetcher,
		features: features,
		logger:   logger.With().Str("component", "metadata-resolver").Logger(),
	}
	if cfg != nil && cfg.Enabled {
		r.cache = cache.NewLRUCache[string](cfg.Size, cfg.TTL)
	}
	return r
}

// Resolve looks up an item. It never returns a Go error; failures are
// reported through the Outcome so callers can drop the item.
func (r *MetadataResolver) Resolve(ctx context.Context, itemID string) Resolution {
	res := r.resolve(ctx, itemID)
	metrics.RecordMetadataResolution(res.Outcome.String())

	switch res.Outcome {
	case OutcomeFetchFailed:
		r.logger.Warn().Err(res.Err).Str("item_id", itemID).Msg("metadata fetch failed")
	case OutcomeMissing:
		r.logger.Debug().Str("item_id", itemID).Msg("metadata not found")
	default:
		r.logger.Trace().Str("item_id", itemID).Str("outcome", res.Outcome.String()).Msg("metadata resolved")
	}
	return res
}

func (r *MetadataResolver) resolve(ctx context.Context, itemID string) Resolution {
	meta, err := r.store.GetMetadata(ctx, itemID)
	switch {
	case err == nil && meta != nil:
		return Resolution{Meta: meta, Outcome: OutcomeStored}
	case err != nil && !errors.Is(err, ErrNotFound):
		// A broken store is treated like a miss so the fetcher can still help.
		r.logger.Warn().Err(err).Str("item_id", itemID).Msg("metadata store lookup failed")
	}

	if r.fetcher == nil {
		return Resolution{Outcome: OutcomeMissing}
	}

	fetched, err := r.fetcher.FetchMetadata(ctx, itemID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Resolution{Outcome: OutcomeMissing}
		}
		return Resolution{Outcome: OutcomeFetchFailed, Err: errors.Join(ErrFetchFailed, err)}
	}
	if fetched == nil {
		return Resolution{Outcome: OutcomeMissing}
	}

	stored, err := r.store.SaveMetadata(ctx, fetched)
	if err != nil {
		r.logger.Warn().Err(err).Str("item_id", itemID).Msg("failed to persist fetched metadata")
		return Resolution{Meta: fetched, Outcome: OutcomeFetched}
	}
	return Resolution{Meta: stored, Outcome: OutcomeFetched}
}

// FeatureText returns the FeatureText of an item, or false when the item has
// no metadata or its text is empty. Only found items are cached.
func (r *MetadataResolver) FeatureText(ctx context.Context, itemID string) (string, bool) {
	if r.cache != nil {
		if text, ok := r.cache.Get(itemID); ok {
			metrics.RecordFeatureCacheLookup(true)
			return text, true
		}
		metrics.RecordFeatureCacheLookup(false)
	}

	res := r.Resolve(ctx, itemID)
	if !res.Found() {
		return "", false
	}

	text := r.features(res.Meta)
	if text == "" {
		return "", false
	}

	if r.cache != nil {
		r.cache.Add(itemID, text)
	}
	return text, true
}

// CleanupCache drops expired cache entries and reports the remaining size.
// It is a no-op when the cache is disabled.
func (r *MetadataResolver) CleanupCache() (removed, size int) {
	if r.cache == nil {
		return 0, 0
	}
	removed = r.cache.CleanupExpired()
	size = r.cache.Len()
	metrics.SetFeatureCacheSize(size)
	return removed, size
}
