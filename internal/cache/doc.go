// Vidrec - Hybrid Video Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vidrec

// Package cache provides a generic, size-bounded LRU cache with per-entry TTL.
//
// The recommendation engine uses it to keep FeatureText strings for items it
// has already resolved, so repeated scoring does not hit the metadata store:
//
//	c := cache.NewLRUCache[string](5000, 30*time.Minute)
//	c.Add("dQw4w9WgXcQ", "never gonna give you up rick astley music")
//	if text, ok := c.Get("dQw4w9WgXcQ"); ok {
//	    // use text
//	}
//
// Expired entries are dropped lazily on Get and in bulk by CleanupExpired,
// which the maintenance service calls on its schedule. All methods are safe
// for concurrent use.
package cache
