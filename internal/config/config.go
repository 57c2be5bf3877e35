// Reelix - Hybrid Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelix

// Package config provides centralized configuration management for Reelix.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting via environment variables
//
// Example - Load configuration from environment:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	// cfg.Dataset.MoviesPath, cfg.Engine.Alpha, etc. are now populated
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access from
// multiple goroutines.
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration loaded from environment
// variables and config files.
type Config struct {
	Dataset DatasetConfig `koanf:"dataset"`
	Engine  EngineConfig  `koanf:"engine"`
	Poster  PosterConfig  `koanf:"poster"`
	Server  ServerConfig  `koanf:"server"`
	API     APIConfig     `koanf:"api"`
	Logging LoggingConfig `koanf:"logging"`
}

// DatasetConfig holds paths to the movie catalog and ratings CSV files.
//
// Environment Variables:
//   - DATASET_MOVIES_PATH: Path to the movie catalog CSV (default: data/movies.csv)
//   - DATASET_RATINGS_PATH: Path to the ratings CSV (default: data/ratings.csv)
type DatasetConfig struct {
	MoviesPath  string `koanf:"movies_path"`
	RatingsPath string `koanf:"ratings_path"`
}

// EngineConfig holds recommendation engine tuning parameters.
//
// Environment Variables:
//   - ENGINE_ALPHA: Hybrid blend weight toward collaborative scores (default: 0.6)
//   - ENGINE_TOP_N: Default number of recommendations returned (default: 10)
//   - ENGINE_LIKED_THRESHOLD: Minimum rating that marks an item as liked (default: 4.0)
//   - ENGINE_MAX_FEATURES: TF-IDF vocabulary cap (default: 5000)
//   - ENGINE_WORKERS: Similarity build parallelism, 0 = runtime.NumCPU() (default: 0)
//   - ENGINE_CACHE_TTL: Response cache time-to-live (default: 5m)
type EngineConfig struct {
	Alpha          float64       `koanf:"alpha"`
	TopN           int           `koanf:"top_n"`
	LikedThreshold float64       `koanf:"liked_threshold"`
	MaxFeatures    int           `koanf:"max_features"`
	Workers        int           `koanf:"workers"` // 0 = use runtime.NumCPU()
	CacheTTL       time.Duration `koanf:"cache_ttl"`
}

// PosterConfig holds poster enrichment settings for the external artwork API.
//
// Environment Variables:
//   - POSTER_ENABLED: Enable external poster lookups (default: false)
//   - POSTER_API_KEY: API key for the artwork provider
//   - POSTER_BASE_URL: Artwork provider base URL
//   - POSTER_CACHE_PATH: BadgerDB poster cache directory (default: /data/posters)
//   - POSTER_CACHE_TTL: How long cached poster URLs stay valid (default: 24h)
//   - POSTER_CONCURRENCY: Max in-flight lookups during backfill (default: 50)
//   - POSTER_RATE_LIMIT: Lookup requests per second (default: 40)
//   - POSTER_MAX_RETRIES: Retry attempts per lookup (default: 3)
//   - POSTER_TIMEOUT: Per-request timeout (default: 10s)
type PosterConfig struct {
	Enabled     bool          `koanf:"enabled"`
	APIKey      string        `koanf:"api_key"`
	BaseURL     string        `koanf:"base_url"`
	CachePath   string        `koanf:"cache_path"`
	CacheTTL    time.Duration `koanf:"cache_ttl"`
	Concurrency int           `koanf:"concurrency"`
	RateLimit   float64       `koanf:"rate_limit"`
	MaxRetries  int           `koanf:"max_retries"`
	Timeout     time.Duration `koanf:"timeout"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_PORT: Listen port (default: 8980)
//   - HTTP_HOST: Listen host (default: 0.0.0.0)
//   - HTTP_TIMEOUT: Request timeout (default: 30s)
//   - ENVIRONMENT: development or production (default: development)
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// APIConfig holds API pagination and rate limiting settings.
//
// Environment Variables:
//   - API_DEFAULT_LIMIT: Default page size (default: 10)
//   - API_MAX_LIMIT: Maximum page size (default: 100)
//   - RATE_LIMIT_REQUESTS: Requests allowed per window (default: 100)
//   - RATE_LIMIT_WINDOW: Rate limit window (default: 1m)
//   - CORS_ORIGINS: Comma-separated allowed origins (default: *)
type APIConfig struct {
	DefaultLimit    int           `koanf:"default_limit"`
	MaxLimit        int           `koanf:"max_limit"`
	RateLimitReqs   int           `koanf:"rate_limit_requests"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// LoggingConfig holds log output settings.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json or console (default: json)
//   - LOG_CALLER: include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateEngine(); err != nil {
		return err
	}
	if err := c.validatePoster(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateEngine() error {
	if c.Engine.Alpha < 0 || c.Engine.Alpha > 1 {
		return fmt.Errorf("ENGINE_ALPHA must be in [0, 1], got %v", c.Engine.Alpha)
	}
	if c.Engine.TopN <= 0 {
		return fmt.Errorf("ENGINE_TOP_N must be positive, got %d", c.Engine.TopN)
	}
	if c.Engine.LikedThreshold < 0 {
		return fmt.Errorf("ENGINE_LIKED_THRESHOLD must be non-negative, got %v", c.Engine.LikedThreshold)
	}
	if c.Engine.MaxFeatures <= 0 {
		return fmt.Errorf("ENGINE_MAX_FEATURES must be positive, got %d", c.Engine.MaxFeatures)
	}
	if c.Engine.Workers < 0 {
		return fmt.Errorf("ENGINE_WORKERS must be non-negative, got %d", c.Engine.Workers)
	}
	return nil
}

func (c *Config) validatePoster() error {
	if !c.Poster.Enabled {
		return nil // poster enrichment is optional
	}
	if c.Poster.APIKey == "" {
		return fmt.Errorf("POSTER_API_KEY is required when POSTER_ENABLED=true")
	}
	if c.Poster.Concurrency <= 0 {
		return fmt.Errorf("POSTER_CONCURRENCY must be positive, got %d", c.Poster.Concurrency)
	}
	if c.Poster.RateLimit <= 0 {
		return fmt.Errorf("POSTER_RATE_LIMIT must be positive, got %v", c.Poster.RateLimit)
	}
	if c.Poster.MaxRetries < 0 {
		return fmt.Errorf("POSTER_MAX_RETRIES must be non-negative, got %d", c.Poster.MaxRetries)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be in [1, 65535], got %d", c.Server.Port)
	}
	switch c.Server.Environment {
	case "development", "production":
		return nil
	default:
		return fmt.Errorf("ENVIRONMENT must be 'development' or 'production', got %q", c.Server.Environment)
	}
}

func (c *Config) validateAPI() error {
	if c.API.DefaultLimit <= 0 {
		return fmt.Errorf("API_DEFAULT_LIMIT must be positive, got %d", c.API.DefaultLimit)
	}
	if c.API.MaxLimit < c.API.DefaultLimit {
		return fmt.Errorf("API_MAX_LIMIT (%d) must be >= API_DEFAULT_LIMIT (%d)", c.API.MaxLimit, c.API.DefaultLimit)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be 'json' or 'console', got %q", c.Logging.Format)
	}
}
