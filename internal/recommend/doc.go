// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

// Package recommend implements similarity-based collaborative filtering over
// a sparse rating matrix.
//
// # Architecture
//
// The package has two layers:
//
//   - A pure-function core: similarity metrics, neighbor ranking, the
//     preference transpose and the user- and item-based recommenders. These
//     take a RatingMatrix, never mutate it, and return fresh results.
//   - Engine: a long-lived, concurrency-safe holder for one dataset and its
//     precomputed ItemSimilarityTable, with result caching and rebuilds.
//
// # Similarity Metrics
//
// DistanceSimilarity maps the sum of squared rating differences d over the
// common items to 1/(1+d); entities without common items score 0.
// PearsonSimilarity is the linear correlation over the common items; fewer
// than two common items, or a profile with no variance, scores 0.
//
// # Recommenders
//
// User-based (GetRecommendations) weights every other person's ratings by
// their similarity to the target, ignoring anyone with similarity <= 0.
//
// Item-based scoring runs in two phases. CalculateSimilarItems ranks the
// neighbors of every item once (the expensive step, optionally parallel),
// and GetRecommendedItems scores a user's unrated items from that table.
//
// # Determinism
//
// All rankings sort descending by score and break ties by descending
// identifier. Sums are accumulated in sorted key order, so repeated runs
// over the same matrix produce bit-identical output.
//
// # Usage
//
//	table, err := recommend.CalculateSimilarItems(ctx, prefs, recommend.SimilarItemsConfig{})
//	if err != nil {
//	    return err
//	}
//	recs, err := recommend.GetRecommendedItems(prefs, table, "87")
//
// # Thread Safety
//
// The core functions share no state. Engine rebuilds hold an exclusive
// rebuild lock; requests read an immutable snapshot under a shared lock,
// so they continue to be served while a rebuild runs.
package recommend
