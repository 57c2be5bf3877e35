// Reelix - Hybrid Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelix

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelix/internal/dataset"
	"github.com/tomtom215/reelix/internal/poster"
)

// PosterBackfiller warms the poster cache for a set of movies.
// Satisfied by *poster.Service.
type PosterBackfiller interface {
	Backfill(ctx context.Context, movies []dataset.Movie, cfg poster.BackfillConfig) poster.BackfillStats
}

// MovieLister returns the current catalog. Reading through a function
// keeps the service working across model reloads.
type MovieLister func() []dataset.Movie

// BackfillServiceConfig holds configuration for the poster backfill service.
type BackfillServiceConfig struct {
	// Interval is how often the backfill re-runs to cover newly added
	// catalog rows and expired cache entries. Zero or negative
	// defaults to 12h.
	Interval time.Duration

	// Backfill carries the concurrency, rate and retry limits.
	Backfill poster.BackfillConfig
}

// BackfillService runs poster cache warming as a supervised background
// job. The first run starts immediately; the API never waits on it
// because poster resolution degrades to the placeholder URL.
type BackfillService struct {
	posters PosterBackfiller
	movies  MovieLister
	config  BackfillServiceConfig
	logger  zerolog.Logger
	name    string
}

// NewBackfillService creates a new poster backfill service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBackfillService(posters PosterBackfiller, movies MovieLister, cfg BackfillServiceConfig, logger zerolog.Logger) *BackfillService {
	return &BackfillService{
		posters: posters,
		movies:  movies,
		config:  cfg,
		logger:  logger.With().Str("service", "poster-backfill").Logger(),
		name:    "poster-backfill",
	}
}

// Serve implements the suture.Service interface.
func (s *BackfillService) Serve(ctx context.Context) error {
	interval := s.config.Interval
	if interval <= 0 {
		interval = 12 * time.Hour
	}

	s.logger.Info().
		Dur("interval", interval).
		Msg("poster backfill service starting")

	s.run(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("poster backfill service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.run(ctx)
		}
	}
}

// run executes one backfill pass over the current catalog.
func (s *BackfillService) run(ctx context.Context) {
	movies := s.movies()
	if len(movies) == 0 {
		s.logger.Debug().Msg("catalog empty, skipping poster backfill")
		return
	}

	stats := s.posters.Backfill(ctx, movies, s.config.Backfill)
	s.logger.Info().
		Str("job_id", stats.JobID).
		Int64("processed", stats.Processed).
		Int64("found", stats.Found).
		Int64("cached", stats.Cached).
		Int64("failed", stats.Failed).
		Dur("duration", stats.Duration).
		Msg("poster backfill pass complete")
}

// String returns the service name for logging.
func (s *BackfillService) String() string {
	return s.name
}
