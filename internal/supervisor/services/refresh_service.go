// Reelix - Hybrid Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelix

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// ModelReloader rebuilds the recommendation model from the dataset on
// disk and swaps it in atomically. Satisfied by the reload closure wired
// in cmd/server.
type ModelReloader func() error

// RefreshServiceConfig holds configuration for the model refresh service.
type RefreshServiceConfig struct {
	// ReloadOnStartup triggers a model build when the service starts.
	// Requests are answered 503 until the first build completes.
	ReloadOnStartup bool

	// RefreshInterval is how often the model is rebuilt from disk.
	// Zero or negative defaults to 24h.
	RefreshInterval time.Duration
}

// RefreshService periodically rebuilds the recommendation model so new
// ratings and catalog rows are picked up without a restart. A failed
// rebuild leaves the previous model serving and is retried on schedule.
type RefreshService struct {
	reload ModelReloader
	config RefreshServiceConfig
	logger zerolog.Logger
	name   string
}

// NewRefreshService creates a new model refresh service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRefreshService(reload ModelReloader, cfg RefreshServiceConfig, logger zerolog.Logger) *RefreshService {
	return &RefreshService{
		reload: reload,
		config: cfg,
		logger: logger.With().Str("service", "model-refresh").Logger(),
		name:   "model-refresh",
	}
}

// Serve implements the suture.Service interface.
func (s *RefreshService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("reload_on_startup", s.config.ReloadOnStartup).
		Dur("refresh_interval", s.config.RefreshInterval).
		Msg("model refresh service starting")

	if s.config.ReloadOnStartup {
		if err := s.rebuild(); err != nil {
			s.logger.Warn().Err(err).Msg("initial model build failed (will retry on schedule)")
		}
	}

	interval := s.config.RefreshInterval
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("model refresh service shutting down")
			return ctx.Err()

		case <-ticker.C:
			if err := s.rebuild(); err != nil {
				s.logger.Warn().Err(err).Msg("scheduled model rebuild failed")
			}
		}
	}
}

// rebuild runs one reload cycle.
func (s *RefreshService) rebuild() error {
	start := time.Now()
	s.logger.Info().Msg("rebuilding model")

	if err := s.reload(); err != nil {
		return err
	}

	s.logger.Info().
		Dur("duration", time.Since(start)).
		Msg("model rebuild complete")
	return nil
}

// String returns the service name for logging.
func (s *RefreshService) String() string {
	return s.name
}
