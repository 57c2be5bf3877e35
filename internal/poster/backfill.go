// Reelix - Hybrid Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelix

package poster

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/tomtom215/reelix/internal/dataset"
	"github.com/tomtom215/reelix/internal/metrics"
)

// BackfillConfig bounds the concurrent warm-up of the poster cache.
type BackfillConfig struct {
	// Concurrency is the maximum number of in-flight lookups.
	Concurrency int

	// RequestsPerSecond throttles lookups across all workers.
	RequestsPerSecond float64

	// MaxRetries bounds retry attempts per title on transient
	// failures. Non-transient failures give up immediately.
	MaxRetries int

	// InitialBackoff seeds the exponential backoff between retries.
	InitialBackoff time.Duration
}

// DefaultBackfillConfig returns the default backfill bounds.
func DefaultBackfillConfig() BackfillConfig {
	return BackfillConfig{
		Concurrency:       50,
		RequestsPerSecond: 40,
		MaxRetries:        3,
		InitialBackoff:    500 * time.Millisecond,
	}
}

// BackfillStats summarizes one backfill run.
type BackfillStats struct {
	JobID     string
	Processed int64
	Found     int64
	Cached    int64
	Failed    int64
	Duration  time.Duration
}

// Backfill resolves posters for every catalog item whose (title, year)
// key is not yet cached, bounded by the configured concurrency limit and
// request rate. Transient lookup failures retry with exponential
// backoff up to MaxRetries; any other failure is recorded and skipped.
// Backfill never mutates the catalog; it only warms the cache.
func (s *Service) Backfill(ctx context.Context, movies []dataset.Movie, cfg BackfillConfig) BackfillStats {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 1
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 500 * time.Millisecond
	}

	stats := BackfillStats{JobID: uuid.NewString()}
	if s.source == nil {
		s.logger.Warn().Msg("Poster backfill skipped: no source configured")
		return stats
	}
	start := time.Now()
	logger := s.logger.With().Str("job_id", stats.JobID).Logger()
	logger.Info().Int("movies", len(movies)).Int("concurrency", cfg.Concurrency).
		Float64("rate", cfg.RequestsPerSecond).Msg("Poster backfill started")

	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	sem := make(chan struct{}, cfg.Concurrency)

	var (
		wg        sync.WaitGroup
		processed atomic.Int64
		found     atomic.Int64
		cached    atomic.Int64
		failed    atomic.Int64
	)

	for i := range movies {
		if ctx.Err() != nil {
			break
		}
		m := movies[i]

		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			defer processed.Add(1)

			title, year := m.CleanTitle(), m.Year()
			if _, ok := s.store.Get(title, year); ok {
				cached.Add(1)
				return
			}

			url, err := s.lookupWithRetry(ctx, title, year, limiter, cfg)
			if err != nil {
				failed.Add(1)
				if err == ErrNotFound {
					// Artless titles get the placeholder cached so
					// the next pass skips them.
					if serr := s.store.Set(title, year, PlaceholderURL); serr != nil {
						logger.Warn().Err(serr).Str("title", title).Msg("Failed to cache placeholder")
					}
				}
				return
			}
			found.Add(1)
			if serr := s.store.Set(title, year, url); serr != nil {
				logger.Warn().Err(serr).Str("title", title).Msg("Failed to cache backfilled poster")
			}
		}()
	}
	wg.Wait()

	stats.Processed = processed.Load()
	stats.Found = found.Load()
	stats.Cached = cached.Load()
	stats.Failed = failed.Load()
	stats.Duration = time.Since(start)

	metrics.PosterBackfillProgress.WithLabelValues("processed").Set(float64(stats.Processed))
	metrics.PosterBackfillProgress.WithLabelValues("found").Set(float64(stats.Found))
	metrics.PosterBackfillProgress.WithLabelValues("failed").Set(float64(stats.Failed))

	logger.Info().Int64("processed", stats.Processed).Int64("found", stats.Found).
		Int64("already_cached", stats.Cached).Int64("failed", stats.Failed).
		Dur("duration", stats.Duration).Msg("Poster backfill finished")
	return stats
}

// lookupWithRetry performs one rate-limited lookup with exponential
// backoff on transient failures.
func (s *Service) lookupWithRetry(ctx context.Context, title string, year int, limiter *rate.Limiter, cfg BackfillConfig) (string, error) {
	backoff := cfg.InitialBackoff
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
			backoff *= 2
		}

		if err := limiter.Wait(ctx); err != nil {
			return "", err
		}

		url, err := s.source.LookupPoster(ctx, title, year)
		if err == nil {
			return url, nil
		}
		if !IsTransient(err) {
			return "", err
		}
		lastErr = err
	}
	return "", lastErr
}
