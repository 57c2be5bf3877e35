// Reelix - Hybrid Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelix

// Package main is the entry point for the Reelix server.
//
// Reelix serves hybrid movie recommendations built from a CSV catalog
// and ratings file. Scores blend item-item collaborative filtering with
// TF-IDF content similarity, with a popularity fallback for cold users.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: settings from environment variables and config files (Koanf v2)
//  2. Recommendation engine: model built from the dataset, swapped atomically on reload
//  3. Poster service (optional): TMDB lookups behind a BadgerDB cache and circuit breaker
//  4. HTTP server: REST API under /api/v1 plus /health and /metrics
//
// All long-running components run under a suture supervisor tree; a
// crash in the model-refresh layer does not take down the API layer.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables (DATASET_MOVIES_PATH, ENGINE_ALPHA, POSTER_API_KEY, ...)
//   - Config file (config.yaml, or CONFIG_PATH)
//   - Built-in defaults
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: the HTTP
// server drains connections and the poster cache is closed cleanly.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/tomtom215/reelix/internal/api"
	"github.com/tomtom215/reelix/internal/config"
	"github.com/tomtom215/reelix/internal/dataset"
	"github.com/tomtom215/reelix/internal/logging"
	"github.com/tomtom215/reelix/internal/poster"
	"github.com/tomtom215/reelix/internal/recommend"
	"github.com/tomtom215/reelix/internal/supervisor"
	"github.com/tomtom215/reelix/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("movies_path", cfg.Dataset.MoviesPath).
		Str("ratings_path", cfg.Dataset.RatingsPath).
		Bool("posters_enabled", cfg.Poster.Enabled).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Reelix")

	engine, err := recommend.NewEngine(&recommend.Config{
		Alpha:          cfg.Engine.Alpha,
		TopN:           cfg.Engine.TopN,
		LikedThreshold: cfg.Engine.LikedThreshold,
		MaxFeatures:    cfg.Engine.MaxFeatures,
		Workers:        cfg.Engine.Workers,
		CacheTTL:       cfg.Engine.CacheTTL,
	}, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	// current holds the most recently loaded dataset so the poster
	// backfill can enumerate the catalog across model reloads.
	var current atomic.Pointer[dataset.Dataset]

	reload := func() error {
		ds, err := dataset.Load(cfg.Dataset.MoviesPath, cfg.Dataset.RatingsPath)
		if err != nil {
			return fmt.Errorf("load dataset: %w", err)
		}
		if err := engine.Reload(ds); err != nil {
			return fmt.Errorf("rebuild model: %w", err)
		}
		current.Store(ds)
		return nil
	}

	// Poster enrichment (optional)
	var posterSvc *poster.Service
	if cfg.Poster.Enabled {
		store, err := poster.NewStore(cfg.Poster.CachePath, cfg.Poster.CacheTTL)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to open poster cache")
		}
		defer func() {
			if err := store.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing poster cache")
			}
		}()

		source := poster.NewTMDBSource(poster.TMDBConfig{
			APIKey:  cfg.Poster.APIKey,
			BaseURL: cfg.Poster.BaseURL,
			Timeout: cfg.Poster.Timeout,
		})
		posterSvc = poster.NewService(source, store, logging.Logger())
		logging.Info().Str("cache_path", cfg.Poster.CachePath).Msg("Poster service initialized")
	}

	// HTTP surface
	handler := api.NewHandler(engine, posterSvc, reload, api.HandlerConfig{
		DefaultLimit: cfg.API.DefaultLimit,
		MaxLimit:     cfg.API.MaxLimit,
		DefaultAlpha: cfg.Engine.Alpha,
	})
	middleware := api.NewMiddleware(&api.MiddlewareConfig{
		CORSAllowedOrigins: cfg.API.CORSOrigins,
		CORSAllowedMethods: []string{"GET", "POST", "OPTIONS"},
		CORSAllowedHeaders: []string{"Content-Type", "Authorization"},
		CORSMaxAge:         86400,
		RateLimitRequests:  cfg.API.RateLimitReqs,
		RateLimitWindow:    cfg.API.RateLimitWindow,
	})
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(handler, middleware).Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	// Supervisor tree
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())

	tree.AddModelService(services.NewRefreshService(reload, services.RefreshServiceConfig{
		ReloadOnStartup: true,
	}, logging.Logger()))

	if posterSvc != nil {
		tree.AddModelService(services.NewBackfillService(posterSvc, func() []dataset.Movie {
			if ds := current.Load(); ds != nil {
				return ds.Movies
			}
			return nil
		}, services.BackfillServiceConfig{
			Backfill: poster.BackfillConfig{
				Concurrency:       cfg.Poster.Concurrency,
				RequestsPerSecond: cfg.Poster.RateLimit,
				MaxRetries:        cfg.Poster.MaxRetries,
			},
		}, logging.Logger()))
	}

	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain the error channel until the supervisor has fully stopped.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}
