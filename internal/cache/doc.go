// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

// Package cache provides a generic, thread-safe LRU cache with TTL expiry.
//
// The recommendation engine uses it to keep ranked results for repeated
// requests between rebuilds:
//
//	c := cache.NewLRU[*recommend.Response](1000, 5*time.Minute)
//	c.Add(key, resp)
//	if resp, ok := c.Get(key); ok {
//	    // serve cached response
//	}
//
// Entries expire lazily on access; CleanupExpired removes them eagerly.
package cache
