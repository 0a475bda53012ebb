// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

package recommend

import (
	"fmt"
	"runtime"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Neighbors is the number of similar items kept per item in the
	// precomputed table.
	// Default: 10.
	Neighbors int `json:"neighbors"`

	// Similarity is the default metric for user-based scoring and
	// similar-user lookups ("pearson" or "distance").
	// Default: "pearson".
	Similarity string `json:"similarity"`

	// TableSimilarity is the metric used to build the item table.
	// Default: "distance".
	TableSimilarity string `json:"table_similarity"`

	// Workers is the number of items ranked concurrently during a rebuild.
	// Default: number of CPUs.
	Workers int `json:"workers"`

	// ProgressEvery is the number of items between progress reports.
	// Default: 100.
	ProgressEvery int `json:"progress_every"`

	// RebuildTimeout bounds a single rebuild.
	// Default: 10m.
	RebuildTimeout time.Duration `json:"rebuild_timeout"`

	// Limits contains result-size limits.
	Limits LimitsConfig `json:"limits"`

	// Cache contains result caching parameters.
	Cache CacheConfig `json:"cache"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultK is the number of results returned when a request sets none.
	// Default: 10.
	DefaultK int `json:"default_k"`

	// MaxK is the maximum allowed K value. Larger requests are clamped.
	// Default: 100.
	MaxK int `json:"max_k"`
}

// CacheConfig contains caching parameters.
type CacheConfig struct {
	// Enabled controls whether recommendation results are cached.
	// Default: true.
	Enabled bool `json:"enabled"`

	// TTL is the cache entry time-to-live.
	// Default: 5m.
	TTL time.Duration `json:"ttl"`

	// MaxEntries is the maximum number of cached responses.
	// Default: 1000.
	MaxEntries int `json:"max_entries"`
}

// DefaultConfig returns a Config with sensible production defaults.
func DefaultConfig() *Config {
	return &Config{
		Neighbors:       DefaultSimilarItems,
		Similarity:      SimilarityPearson,
		TableSimilarity: SimilarityDistance,
		Workers:         runtime.NumCPU(),
		ProgressEvery:   DefaultProgressEvery,
		RebuildTimeout:  10 * time.Minute,
		Limits: LimitsConfig{
			DefaultK: 10,
			MaxK:     100,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        5 * time.Minute,
			MaxEntries: 1000,
		},
	}
}

// Validate checks the configuration. Failures wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	if err := c.validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.Neighbors < 1 {
		return fmt.Errorf("neighbors must be positive, got %d", c.Neighbors)
	}
	if _, err := SimilarityByName(c.Similarity); err != nil {
		return fmt.Errorf("similarity: %w", err)
	}
	if _, err := SimilarityByName(c.TableSimilarity); err != nil {
		return fmt.Errorf("table_similarity: %w", err)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.ProgressEvery < 1 {
		return fmt.Errorf("progress_every must be positive, got %d", c.ProgressEvery)
	}
	if c.RebuildTimeout <= 0 {
		return fmt.Errorf("rebuild_timeout must be positive, got %v", c.RebuildTimeout)
	}

	if c.Limits.DefaultK < 1 {
		return fmt.Errorf("limits.default_k must be positive, got %d", c.Limits.DefaultK)
	}
	if c.Limits.MaxK < c.Limits.DefaultK {
		return fmt.Errorf("limits.max_k must be >= limits.default_k, got %d < %d", c.Limits.MaxK, c.Limits.DefaultK)
	}

	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive, got %v", c.Cache.TTL)
		}
		if c.Cache.MaxEntries < 1 {
			return fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
		}
	}

	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs contain only value types
	clone := *c
	return &clone
}
