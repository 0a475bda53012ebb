// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

/*
Package config provides centralized configuration management for Critics.

Configuration is layered with koanf (see LoadWithKoanf):

 1. Defaults from DefaultConfig()
 2. An optional YAML file (CONFIG_PATH, or config.yaml in the working directory)
 3. Environment variables (see envTransformFunc for the mapping)

Each layer overrides the previous one. The result is validated with struct
tags (internal/validation) plus cross-field checks in Validate.

# Environment Variables

Data:
  - DATA_DIR: MovieLens directory holding u.data and u.item (default: ./ml-100k)

Recommendation engine:
  - RECOMMEND_NEIGHBORS: neighbors kept per item in the similarity table (default: 10)
  - RECOMMEND_SIMILARITY: default user-based metric, pearson or distance (default: pearson)
  - RECOMMEND_TABLE_SIMILARITY: metric for the item table (default: distance)
  - RECOMMEND_WORKERS: concurrent items during a rebuild, 0 = NumCPU (default: 0)
  - RECOMMEND_PROGRESS_EVERY: items between progress reports (default: 100)
  - RECOMMEND_DEFAULT_K, RECOMMEND_MAX_K: result size limits (default: 10, 100)
  - RECOMMEND_CACHE_ENABLED, RECOMMEND_CACHE_TTL, RECOMMEND_CACHE_MAX_ENTRIES

Rebuild:
  - REBUILD_ON_STARTUP: build the table when the service starts (default: true)
  - REBUILD_INTERVAL: periodic reload interval, 0 disables (default: 0)
  - REBUILD_TIMEOUT: upper bound for a single rebuild (default: 10m)

Store:
  - STORE_ENABLED: persist similarity tables in BadgerDB (default: false)
  - STORE_PATH: BadgerDB directory (default: ./data/tables)
  - STORE_IN_MEMORY: keep the store in memory only (default: false)

HTTP server:
  - HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT
  - CORS_ORIGINS: comma-separated allowed origins (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)
  - LOG_CALLER: include caller file and line (default: false)
*/
package config

import (
	"fmt"
	"runtime"
	"time"

	"github.com/tomtom215/critics/internal/logging"
	"github.com/tomtom215/critics/internal/recommend"
	"github.com/tomtom215/critics/internal/validation"
)

// Config holds all application configuration.
type Config struct {
	Data      DataConfig      `koanf:"data"`
	Recommend RecommendConfig `koanf:"recommend"`
	Rebuild   RebuildConfig   `koanf:"rebuild"`
	Store     StoreConfig     `koanf:"store"`
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DataConfig locates the ratings dataset.
type DataConfig struct {
	Dir string `koanf:"dir" validate:"required"` // Directory holding u.data and u.item
}

// RecommendConfig holds recommendation engine settings.
type RecommendConfig struct {
	Neighbors       int           `koanf:"neighbors" validate:"min=1"`
	Similarity      string        `koanf:"similarity" validate:"similarity"`
	TableSimilarity string        `koanf:"table_similarity" validate:"similarity"`
	Workers         int           `koanf:"workers" validate:"min=0"` // 0 = runtime.NumCPU()
	ProgressEvery   int           `koanf:"progress_every" validate:"min=1"`
	DefaultK        int           `koanf:"default_k" validate:"min=1"`
	MaxK            int           `koanf:"max_k" validate:"gtefield=DefaultK"`
	CacheEnabled    bool          `koanf:"cache_enabled"`
	CacheTTL        time.Duration `koanf:"cache_ttl"`
	CacheMaxEntries int           `koanf:"cache_max_entries" validate:"min=0"`
}

// RebuildConfig controls when the similarity table is rebuilt.
type RebuildConfig struct {
	OnStartup bool          `koanf:"on_startup"`
	Interval  time.Duration `koanf:"interval" validate:"min=0"` // 0 disables periodic reloads
	Timeout   time.Duration `koanf:"timeout" validate:"gt=0"`
}

// StoreConfig configures the BadgerDB table snapshot store.
type StoreConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout           time.Duration `koanf:"timeout" validate:"gt=0"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"min=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Validate checks struct tags and the cross-field rules tags cannot express.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	if c.Recommend.CacheEnabled {
		if c.Recommend.CacheTTL <= 0 {
			return fmt.Errorf("recommend.cache_ttl must be positive when the cache is enabled, got %v", c.Recommend.CacheTTL)
		}
		if c.Recommend.CacheMaxEntries < 1 {
			return fmt.Errorf("recommend.cache_max_entries must be positive when the cache is enabled, got %d", c.Recommend.CacheMaxEntries)
		}
	}

	if c.Store.Enabled && !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("store.path is required when the store is enabled on disk")
	}

	if !c.Server.RateLimitDisabled && c.Server.RateLimitReqs > 0 && c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("server.rate_limit_window must be positive, got %v", c.Server.RateLimitWindow)
	}

	return nil
}

// EngineConfig converts the recommend and rebuild sections into the
// engine's own configuration.
func (c *Config) EngineConfig() *recommend.Config {
	workers := c.Recommend.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	return &recommend.Config{
		Neighbors:       c.Recommend.Neighbors,
		Similarity:      c.Recommend.Similarity,
		TableSimilarity: c.Recommend.TableSimilarity,
		Workers:         workers,
		ProgressEvery:   c.Recommend.ProgressEvery,
		RebuildTimeout:  c.Rebuild.Timeout,
		Limits: recommend.LimitsConfig{
			DefaultK: c.Recommend.DefaultK,
			MaxK:     c.Recommend.MaxK,
		},
		Cache: recommend.CacheConfig{
			Enabled:    c.Recommend.CacheEnabled,
			TTL:        c.Recommend.CacheTTL,
			MaxEntries: c.Recommend.CacheMaxEntries,
		},
	}
}

// LoggerConfig converts the logging section for logging.Init.
func (c *Config) LoggerConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Logging.Level
	cfg.Format = c.Logging.Format
	cfg.Caller = c.Logging.Caller
	return cfg
}
