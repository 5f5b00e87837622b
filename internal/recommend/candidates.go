// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

package recommend

import (
	"context"
	"fmt"
)

// StaticCandidates is a fixed candidate list shared by every user.
type StaticCandidates []string

var _ CandidateSource = StaticCandidates(nil)

// NewStaticCandidates copies ids, dropping blanks and duplicates while
// keeping the first occurrence order.
func NewStaticCandidates(ids []string) StaticCandidates {
	seen := make(map[string]struct{}, len(ids))
	out := make(StaticCandidates, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Candidates returns up to limit ids. A non-positive limit returns all.
func (s StaticCandidates) Candidates(_ context.Context, _ string, limit int) ([]string, error) {
	n := len(s)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]string, n)
	copy(out, s[:n])
	return out, nil
}

// Catalog lists stored items by popularity.
// Both *database.DB and *metastore.Store implement it.
type Catalog interface {
	CatalogCandidates(ctx context.Context, limit int) ([]string, error)
}

// CatalogCandidates draws candidates from the metadata catalog, most viewed
// first. An empty catalog falls back to the static list when one is set.
type CatalogCandidates struct {
	Catalog  Catalog
	Fallback StaticCandidates
}

var _ CandidateSource = (*CatalogCandidates)(nil)

// Candidates implements CandidateSource.
func (c *CatalogCandidates) Candidates(ctx context.Context, userID string, limit int) ([]string, error) {
	ids, err := c.Catalog.CatalogCandidates(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("catalog candidates: %w", err)
	}
	if len(ids) == 0 && len(c.Fallback) > 0 {
		return c.Fallback.Candidates(ctx, userID, limit)
	}
	return ids, nil
}
