// Critics - Similarity-Based Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/critics

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Data.Dir != "./ml-100k" {
		t.Errorf("Data.Dir = %q, want ./ml-100k", cfg.Data.Dir)
	}
	if cfg.Recommend.Neighbors != 10 {
		t.Errorf("Recommend.Neighbors = %d, want 10", cfg.Recommend.Neighbors)
	}
	if cfg.Recommend.Similarity != "pearson" {
		t.Errorf("Recommend.Similarity = %q, want pearson", cfg.Recommend.Similarity)
	}
	if cfg.Recommend.TableSimilarity != "distance" {
		t.Errorf("Recommend.TableSimilarity = %q, want distance", cfg.Recommend.TableSimilarity)
	}
	if cfg.Recommend.ProgressEvery != 100 {
		t.Errorf("Recommend.ProgressEvery = %d, want 100", cfg.Recommend.ProgressEvery)
	}
	if !cfg.Rebuild.OnStartup {
		t.Error("Rebuild.OnStartup should be true by default")
	}
	if cfg.Rebuild.Interval != 0 {
		t.Errorf("Rebuild.Interval = %v, want 0 (disabled)", cfg.Rebuild.Interval)
	}
	if cfg.Store.Enabled {
		t.Error("Store.Enabled should be false by default")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "*" {
		t.Errorf("Server.CORSOrigins = %v, want [*]", cfg.Server.CORSOrigins)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"DATA_DIR", "data.dir"},
		{"RECOMMEND_NEIGHBORS", "recommend.neighbors"},
		{"RECOMMEND_SIMILARITY", "recommend.similarity"},
		{"RECOMMEND_TABLE_SIMILARITY", "recommend.table_similarity"},
		{"RECOMMEND_CACHE_TTL", "recommend.cache_ttl"},
		{"REBUILD_INTERVAL", "rebuild.interval"},
		{"STORE_ENABLED", "store.enabled"},
		{"STORE_IN_MEMORY", "store.in_memory"},
		{"HTTP_PORT", "server.port"},
		{"CORS_ORIGINS", "server.cors_origins"},
		{"DISABLE_RATE_LIMIT", "server.rate_limit_disabled"},
		{"LOG_LEVEL", "logging.level"},
		{"log_format", "logging.format"},

		{"RANDOM_VAR", ""},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if result := envTransformFunc(tt.input); result != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	t.Run("no config file exists", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "")
		if result := findConfigFile(); result != "" {
			t.Errorf("findConfigFile() = %q, want empty string", result)
		}
	})

	t.Run("config.yaml exists", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "config.yaml")
		if err := os.WriteFile(configPath, []byte("data:\n  dir: x\n"), 0o600); err != nil {
			t.Fatalf("Failed to create config file: %v", err)
		}
		t.Cleanup(func() { os.Remove(configPath) })

		t.Setenv(ConfigPathEnvVar, "")
		if result := findConfigFile(); result != "config.yaml" {
			t.Errorf("findConfigFile() = %q, want config.yaml", result)
		}
	})

	t.Run("CONFIG_PATH env var takes precedence", func(t *testing.T) {
		customPath := filepath.Join(tmpDir, "custom.yaml")
		if err := os.WriteFile(customPath, []byte("data:\n  dir: x\n"), 0o600); err != nil {
			t.Fatalf("Failed to create custom config file: %v", err)
		}

		t.Setenv(ConfigPathEnvVar, customPath)
		if result := findConfigFile(); result != customPath {
			t.Errorf("findConfigFile() = %q, want %q", result, customPath)
		}
	})

	t.Run("CONFIG_PATH with non-existent file", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")
		if result := findConfigFile(); result != "" {
			t.Errorf("findConfigFile() = %q, want empty string", result)
		}
	})
}

func TestLoadWithKoanf_EnvVars(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("DATA_DIR", "/srv/movielens")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RECOMMEND_SIMILARITY", "distance")
	t.Setenv("REBUILD_INTERVAL", "1h")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Data.Dir != "/srv/movielens" {
		t.Errorf("Data.Dir = %q, want /srv/movielens", cfg.Data.Dir)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Recommend.Similarity != "distance" {
		t.Errorf("Recommend.Similarity = %q, want distance", cfg.Recommend.Similarity)
	}
	if cfg.Rebuild.Interval != time.Hour {
		t.Errorf("Rebuild.Interval = %v, want 1h", cfg.Rebuild.Interval)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://b.example" {
		t.Errorf("Server.CORSOrigins = %v, want two trimmed origins", cfg.Server.CORSOrigins)
	}

	// Unset values keep their defaults
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0 (default)", cfg.Server.Host)
	}
	if cfg.Recommend.CacheTTL != 5*time.Minute {
		t.Errorf("Recommend.CacheTTL = %v, want 5m (default)", cfg.Recommend.CacheTTL)
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("HTTP_PORT", "7070")

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
data:
  dir: /data/ml-100k
recommend:
  neighbors: 20
  table_similarity: pearson
  cache_ttl: 30s
rebuild:
  interval: 6h
store:
  enabled: true
  in_memory: true
server:
  port: 9090
logging:
  format: console
`
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.Data.Dir != "/data/ml-100k" {
		t.Errorf("Data.Dir = %q, want /data/ml-100k", cfg.Data.Dir)
	}
	if cfg.Recommend.Neighbors != 20 {
		t.Errorf("Recommend.Neighbors = %d, want 20", cfg.Recommend.Neighbors)
	}
	if cfg.Recommend.TableSimilarity != "pearson" {
		t.Errorf("Recommend.TableSimilarity = %q, want pearson", cfg.Recommend.TableSimilarity)
	}
	if cfg.Recommend.CacheTTL != 30*time.Second {
		t.Errorf("Recommend.CacheTTL = %v, want 30s", cfg.Recommend.CacheTTL)
	}
	if cfg.Rebuild.Interval != 6*time.Hour {
		t.Errorf("Rebuild.Interval = %v, want 6h", cfg.Rebuild.Interval)
	}
	if !cfg.Store.Enabled || !cfg.Store.InMemory {
		t.Errorf("Store = %+v, want enabled in-memory", cfg.Store)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format = %q, want console", cfg.Logging.Format)
	}

	// Environment overrides the file
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070 (env override)", cfg.Server.Port)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Error("LoadFile() with missing file succeeded")
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("recommend:\n  similarity: cosine\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadFile(path); err == nil {
			t.Error("LoadFile() with unknown similarity succeeded")
		}
	})
}
