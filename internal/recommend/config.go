// Reelix - Hybrid Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelix

package recommend

import (
	"fmt"
	"runtime"
	"time"
)

// Config contains engine tuning parameters.
type Config struct {
	// Alpha is the blend weight toward collaborative scores.
	// final = alpha*cf + (1-alpha)*content. Must be in [0, 1].
	Alpha float64

	// TopN is the default number of recommendations returned when a
	// request does not specify its own limit.
	TopN int

	// LikedThreshold is the minimum rating that marks an item as liked
	// for the content predictor. Default 4.0 on a 5-point scale.
	LikedThreshold float64

	// MaxFeatures caps the TF-IDF vocabulary size.
	MaxFeatures int

	// Workers is the parallelism for the collaborative similarity
	// build. 0 means runtime.NumCPU().
	Workers int

	// CacheTTL bounds how long a recommendation response may be served
	// from cache. Zero disables response caching.
	CacheTTL time.Duration
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		Alpha:          0.6,
		TopN:           10,
		LikedThreshold: 4.0,
		MaxFeatures:    5000,
		Workers:        0,
		CacheTTL:       5 * time.Minute,
	}
}

// Validate checks configuration bounds.
func (c *Config) Validate() error {
	if c.Alpha < 0 || c.Alpha > 1 {
		return fmt.Errorf("alpha must be in [0, 1], got %v", c.Alpha)
	}
	if c.TopN <= 0 {
		return fmt.Errorf("top_n must be positive, got %d", c.TopN)
	}
	if c.MaxFeatures <= 0 {
		return fmt.Errorf("max_features must be positive, got %d", c.MaxFeatures)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	return nil
}

// workers resolves the effective worker count.
func (c *Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}
