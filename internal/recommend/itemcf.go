// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

package recommend

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultSimilarItems is the neighbor count kept per item when
	// SimilarItemsConfig.Neighbors is not set.
	DefaultSimilarItems = 10

	// DefaultProgressEvery is how many items are processed between
	// progress callbacks.
	DefaultProgressEvery = 100

	// zeroSimilarityDenominator replaces a total similarity of exactly 0
	// when scoring item-based recommendations.
	zeroSimilarityDenominator = 1e-7
)

// ProgressFunc receives the number of items processed so far and the total.
type ProgressFunc func(done, total int)

// SimilarItemsConfig controls CalculateSimilarItems.
type SimilarItemsConfig struct {
	// Neighbors is the number of similar items kept per item. Default: 10.
	Neighbors int

	// Similarity compares two items. Default: DistanceSimilarity.
	Similarity SimilarityFunc

	// Workers is the number of items processed concurrently. Values <= 1
	// process sequentially. The table is identical either way.
	Workers int

	// ProgressEvery is the batch size between Progress calls. Default: 100.
	ProgressEvery int

	// Progress, if set, is called after every ProgressEvery items.
	// Calls are serialized and done is strictly increasing.
	Progress ProgressFunc
}

func (c *SimilarItemsConfig) applyDefaults() {
	if c.Neighbors <= 0 {
		c.Neighbors = DefaultSimilarItems
	}
	if c.Similarity == nil {
		c.Similarity = DistanceSimilarity
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.ProgressEvery <= 0 {
		c.ProgressEvery = DefaultProgressEvery
	}
}

// progressTracker serializes progress reporting across workers.
type progressTracker struct {
	mu    sync.Mutex
	done  int
	total int
	every int
	fn    ProgressFunc
}

func (p *progressTracker) tick() {
	if p.fn == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	if p.done%p.every == 0 {
		p.fn(p.done, p.total)
	}
}

// CalculateSimilarItems builds the item similarity table for a matrix keyed
// by person. Each item's neighbors are ranked with TopMatches over the
// transposed matrix.
//
// The context is checked between items. If it is cancelled no partial table
// is returned.
func CalculateSimilarItems(ctx context.Context, m RatingMatrix, cfg SimilarItemsConfig) (ItemSimilarityTable, error) {
	cfg.applyDefaults()

	itemPrefs := TransformPrefs(m)
	items := itemPrefs.Entities()
	results := make([][]Scored, len(items))
	progress := &progressTracker{total: len(items), every: cfg.ProgressEvery, fn: cfg.Progress}

	compute := func(i int) error {
		matches, err := TopMatches(itemPrefs, items[i], cfg.Neighbors, cfg.Similarity)
		if err != nil {
			return fmt.Errorf("rank neighbors of %q: %w", items[i], err)
		}
		results[i] = matches
		progress.tick()
		return nil
	}

	if cfg.Workers == 1 {
		for i := range items {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := compute(i); err != nil {
				return nil, err
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Workers)
		for i := range items {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return compute(i)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	table := make(ItemSimilarityTable, len(items))
	for i, item := range items {
		table[item] = results[i]
	}
	return table, nil
}

// GetRecommendedItems scores the items user has not rated from the
// precomputed table: each rated item contributes its rating weighted by the
// table similarity to every neighbor. A total similarity of exactly 0 is
// replaced by 1e-7 so the score stays near zero instead of failing.
//
// The result is sorted descending by score and then by descending item ID.
func GetRecommendedItems(m RatingMatrix, table ItemSimilarityTable, user string) ([]Scored, error) {
	ratings, ok := m[user]
	if !ok {
		return nil, unknownEntity("person", user)
	}

	rated := make([]string, 0, len(ratings))
	for item := range ratings {
		rated = append(rated, item)
	}
	slices.Sort(rated)

	scores := make(map[string]float64)
	totalSim := make(map[string]float64)

	for _, item := range rated {
		neighbors, ok := table[item]
		if !ok {
			return nil, fmt.Errorf("similarity table has no entry for item %q: %w", item, ErrUnknownEntity)
		}
		rating := ratings[item]
		for _, n := range neighbors {
			if _, seen := ratings[n.ID]; seen {
				continue
			}
			scores[n.ID] += n.Score * rating
			totalSim[n.ID] += n.Score
		}
	}

	rankings := make([]Scored, 0, len(scores))
	for item, score := range scores {
		denom := totalSim[item]
		if denom == 0 {
			denom = zeroSimilarityDenominator
		}
		rankings = append(rankings, Scored{Score: score / denom, ID: item})
	}

	sortScored(rankings)
	return rankings, nil
}
