// Reelix - Hybrid Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelix

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Engine.Alpha != 0.6 {
		t.Errorf("expected default alpha 0.6, got %v", cfg.Engine.Alpha)
	}
	if cfg.Engine.TopN != 10 {
		t.Errorf("expected default top_n 10, got %d", cfg.Engine.TopN)
	}
	if cfg.Engine.LikedThreshold != 4.0 {
		t.Errorf("expected default liked threshold 4.0, got %v", cfg.Engine.LikedThreshold)
	}
	if cfg.Engine.MaxFeatures != 5000 {
		t.Errorf("expected default max features 5000, got %d", cfg.Engine.MaxFeatures)
	}
	if cfg.Server.Port != 8980 {
		t.Errorf("expected default port 8980, got %d", cfg.Server.Port)
	}
	if cfg.Poster.Enabled {
		t.Error("expected poster enrichment disabled by default")
	}
	if cfg.Poster.Concurrency != 50 {
		t.Errorf("expected default poster concurrency 50, got %d", cfg.Poster.Concurrency)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Logging.Level)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ENGINE_ALPHA", "0.8")
	t.Setenv("ENGINE_TOP_N", "25")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("DATASET_MOVIES_PATH", "/tmp/movies.csv")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Engine.Alpha != 0.8 {
		t.Errorf("expected alpha 0.8, got %v", cfg.Engine.Alpha)
	}
	if cfg.Engine.TopN != 25 {
		t.Errorf("expected top_n 25, got %d", cfg.Engine.TopN)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Dataset.MoviesPath != "/tmp/movies.csv" {
		t.Errorf("expected movies path override, got %s", cfg.Dataset.MoviesPath)
	}
	if len(cfg.API.CORSOrigins) != 2 || cfg.API.CORSOrigins[0] != "https://a.example" {
		t.Errorf("expected split CORS origins, got %v", cfg.API.CORSOrigins)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
engine:
  alpha: 0.3
  top_n: 5
poster:
  cache_ttl: 1h
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Engine.Alpha != 0.3 {
		t.Errorf("expected alpha 0.3 from file, got %v", cfg.Engine.Alpha)
	}
	if cfg.Engine.TopN != 5 {
		t.Errorf("expected top_n 5 from file, got %d", cfg.Engine.TopN)
	}
	if cfg.Poster.CacheTTL != time.Hour {
		t.Errorf("expected poster cache TTL 1h from file, got %v", cfg.Poster.CacheTTL)
	}
	// Unset fields keep defaults
	if cfg.Server.Port != 8980 {
		t.Errorf("expected default port with partial file, got %d", cfg.Server.Port)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("engine:\n  alpha: 0.3\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("ENGINE_ALPHA", "0.9")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Engine.Alpha != 0.9 {
		t.Errorf("expected env to override file, got %v", cfg.Engine.Alpha)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(*Config) {},
		},
		{
			name:    "alpha out of range",
			mutate:  func(c *Config) { c.Engine.Alpha = 1.5 },
			wantErr: "ENGINE_ALPHA",
		},
		{
			name:    "negative alpha",
			mutate:  func(c *Config) { c.Engine.Alpha = -0.1 },
			wantErr: "ENGINE_ALPHA",
		},
		{
			name:    "zero top_n",
			mutate:  func(c *Config) { c.Engine.TopN = 0 },
			wantErr: "ENGINE_TOP_N",
		},
		{
			name:    "zero max features",
			mutate:  func(c *Config) { c.Engine.MaxFeatures = 0 },
			wantErr: "ENGINE_MAX_FEATURES",
		},
		{
			name: "poster enabled without key",
			mutate: func(c *Config) {
				c.Poster.Enabled = true
				c.Poster.APIKey = ""
			},
			wantErr: "POSTER_API_KEY",
		},
		{
			name: "poster enabled with key",
			mutate: func(c *Config) {
				c.Poster.Enabled = true
				c.Poster.APIKey = "k"
			},
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "HTTP_PORT",
		},
		{
			name:    "invalid environment",
			mutate:  func(c *Config) { c.Server.Environment = "staging" },
			wantErr: "ENVIRONMENT",
		},
		{
			name: "max limit below default limit",
			mutate: func(c *Config) {
				c.API.DefaultLimit = 50
				c.API.MaxLimit = 10
			},
			wantErr: "API_MAX_LIMIT",
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "LOG_LEVEL",
		},
		{
			name:    "invalid log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "LOG_FORMAT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"ENGINE_ALPHA", "engine.alpha"},
		{"POSTER_API_KEY", "poster.api_key"},
		{"HTTP_PORT", "server.port"},
		{"LOG_LEVEL", "logging.level"},
		{"PATH", ""},     // unmapped env vars are skipped
		{"HOME", ""},     // unmapped env vars are skipped
		{"RANDOM_X", ""}, // unmapped env vars are skipped
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
