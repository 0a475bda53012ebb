// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

package config

import (
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{name: "defaults", modify: func(*Config) {}},
		{
			name:    "empty data dir",
			modify:  func(c *Config) { c.Data.Dir = "" },
			wantErr: "data.dir is required",
		},
		{
			name:    "zero neighbors",
			modify:  func(c *Config) { c.Recommend.Neighbors = 0 },
			wantErr: "recommend.neighbors must be at least 1",
		},
		{
			name:    "unknown similarity",
			modify:  func(c *Config) { c.Recommend.Similarity = "cosine" },
			wantErr: "recommend.similarity must be one of",
		},
		{
			name:    "max k below default k",
			modify:  func(c *Config) { c.Recommend.MaxK = 5 },
			wantErr: "recommend.max_k",
		},
		{
			name:    "port out of range",
			modify:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port must be at most 65535",
		},
		{
			name:    "bad log level",
			modify:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: "logging.level must be one of",
		},
		{
			name:    "zero rebuild timeout",
			modify:  func(c *Config) { c.Rebuild.Timeout = 0 },
			wantErr: "rebuild.timeout",
		},
		{
			name:    "cache without ttl",
			modify:  func(c *Config) { c.Recommend.CacheTTL = 0 },
			wantErr: "recommend.cache_ttl",
		},
		{
			name: "cache disabled ignores ttl",
			modify: func(c *Config) {
				c.Recommend.CacheEnabled = false
				c.Recommend.CacheTTL = 0
			},
		},
		{
			name: "on-disk store needs path",
			modify: func(c *Config) {
				c.Store.Enabled = true
				c.Store.Path = ""
			},
			wantErr: "store.path",
		},
		{
			name: "in-memory store needs no path",
			modify: func(c *Config) {
				c.Store.Enabled = true
				c.Store.InMemory = true
				c.Store.Path = ""
			},
		},
		{
			name:    "rate limit without window",
			modify:  func(c *Config) { c.Server.RateLimitWindow = 0 },
			wantErr: "server.rate_limit_window",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_EngineConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Recommend.Neighbors = 25
	cfg.Recommend.MaxK = 50
	cfg.Rebuild.Timeout = time.Minute

	ec := cfg.EngineConfig()
	if err := ec.Validate(); err != nil {
		t.Fatalf("EngineConfig().Validate() = %v", err)
	}
	if ec.Neighbors != 25 {
		t.Errorf("Neighbors = %d, want 25", ec.Neighbors)
	}
	if ec.Workers != runtime.NumCPU() {
		t.Errorf("Workers = %d, want NumCPU (%d)", ec.Workers, runtime.NumCPU())
	}
	if ec.Limits.MaxK != 50 || ec.Limits.DefaultK != 10 {
		t.Errorf("Limits = %+v, want {10 50}", ec.Limits)
	}
	if ec.RebuildTimeout != time.Minute {
		t.Errorf("RebuildTimeout = %v, want 1m", ec.RebuildTimeout)
	}
	if !ec.Cache.Enabled || ec.Cache.MaxEntries != 1000 {
		t.Errorf("Cache = %+v, want enabled with 1000 entries", ec.Cache)
	}

	cfg.Recommend.Workers = 3
	if got := cfg.EngineConfig().Workers; got != 3 {
		t.Errorf("Workers = %d, want 3", got)
	}
}

func TestConfig_LoggerConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "console"

	lc := cfg.LoggerConfig()
	if lc.Level != "debug" || lc.Format != "console" {
		t.Errorf("LoggerConfig() = %+v, want debug/console", lc)
	}
	if !lc.Timestamp {
		t.Error("LoggerConfig() should keep timestamps on")
	}
}

func TestServerConfig_Addr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8081}
	if got := s.Addr(); got != "127.0.0.1:8081" {
		t.Errorf("Addr() = %q, want 127.0.0.1:8081", got)
	}
}
