// Reelix - Hybrid Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelix

package poster

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelix/internal/dataset"
	"github.com/tomtom215/reelix/internal/metrics"
	"github.com/tomtom215/reelix/internal/recommend"
)

// Service is the cache-through poster resolver used at response time.
// A lookup failure degrades to PlaceholderURL; it never propagates into
// the recommendation result.
type Service struct {
	source Source
	store  *Store
	logger zerolog.Logger
}

// NewService wires a Source behind the persistent cache. source may be
// nil, in which case every uncached item gets the placeholder.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewService(source Source, store *Store, logger zerolog.Logger) *Service {
	return &Service{
		source: source,
		store:  store,
		logger: logger.With().Str("component", "poster").Logger(),
	}
}

// Resolve returns the poster URL for a title, consulting the cache
// first. A definitive not-found answer caches the placeholder so the
// upstream is not re-asked about artless titles on every response;
// transient failures return PlaceholderURL without caching.
func (s *Service) Resolve(ctx context.Context, title string, year int) string {
	if url, ok := s.store.Get(title, year); ok {
		metrics.PosterLookups.WithLabelValues("cache_hit").Inc()
		return url
	}

	if s.source == nil {
		metrics.PosterLookups.WithLabelValues("placeholder").Inc()
		return PlaceholderURL
	}

	url, err := s.source.LookupPoster(ctx, title, year)
	switch {
	case err == nil:
		metrics.PosterLookups.WithLabelValues("found").Inc()
		if serr := s.store.Set(title, year, url); serr != nil {
			s.logger.Warn().Err(serr).Str("title", title).Msg("Failed to cache poster URL")
		}
		return url
	case err == ErrNotFound:
		metrics.PosterLookups.WithLabelValues("not_found").Inc()
		if serr := s.store.Set(title, year, PlaceholderURL); serr != nil {
			s.logger.Warn().Err(serr).Str("title", title).Msg("Failed to cache placeholder")
		}
		return PlaceholderURL
	default:
		metrics.PosterLookups.WithLabelValues("error").Inc()
		s.logger.Warn().Err(err).Str("title", title).Int("year", year).Msg("Poster lookup failed")
		return PlaceholderURL
	}
}

// EnrichRecommendations fills the PosterURL of each result that the
// catalog did not already provide one for. The item list is modified in
// place and always returned intact: enrichment never drops an item.
func (s *Service) EnrichRecommendations(ctx context.Context, items []recommend.Recommendation) {
	for i := range items {
		if items[i].PosterURL != "" {
			continue
		}
		m := dataset.Movie{Title: items[i].Title}
		items[i].PosterURL = s.Resolve(ctx, m.CleanTitle(), m.Year())
	}
}
