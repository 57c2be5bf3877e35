// Reelix - Hybrid Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelix

package poster

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/reelix/internal/logging"
	"github.com/tomtom215/reelix/internal/metrics"
)

// imageBaseURL prefixes the poster paths returned by the search API.
const imageBaseURL = "https://image.tmdb.org/t/p/w500"

// TMDBSource resolves posters through the TMDB movie search API.
// Requests run behind a circuit breaker so a degraded provider cannot
// stall recommendation serving.
type TMDBSource struct {
	client  *http.Client
	apiKey  string
	baseURL string
	cb      *gobreaker.CircuitBreaker[string]
}

// TMDBConfig configures the TMDB client.
type TMDBConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// NewTMDBSource creates a TMDB-backed poster source.
// Circuit breaker configuration:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 2 minute timeout before attempting recovery
// - Opens after 60% failure rate with minimum 10 requests
func NewTMDBSource(cfg TMDBConfig) *TMDBSource {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.themoviedb.org/3"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	cbName := "tmdb-api"
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("Poster circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
		IsSuccessful: func(err error) bool {
			// A missing poster is a valid answer, not a provider fault.
			return err == nil || err == ErrNotFound
		},
	})

	return &TMDBSource{
		client:  &http.Client{Timeout: cfg.Timeout},
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		cb:      cb,
	}
}

// LookupPoster searches TMDB for the title and returns the URL of the
// first result's poster. Rate-limit and server errors come back as
// transient (retryable); ErrNotFound and client errors are terminal.
func (t *TMDBSource) LookupPoster(ctx context.Context, title string, year int) (string, error) {
	result, err := t.cb.Execute(func() (string, error) {
		return t.search(ctx, title, year)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			metrics.CircuitBreakerRequests.WithLabelValues("tmdb-api", "rejected").Inc()
			return "", &transientError{err: err}
		}
		if err != ErrNotFound {
			metrics.CircuitBreakerRequests.WithLabelValues("tmdb-api", "failure").Inc()
		}
		return "", err
	}
	metrics.CircuitBreakerRequests.WithLabelValues("tmdb-api", "success").Inc()
	return result, nil
}

// searchResponse is the subset of the TMDB search payload we read.
type searchResponse struct {
	Results []struct {
		PosterPath string `json:"poster_path"`
	} `json:"results"`
}

func (t *TMDBSource) search(ctx context.Context, title string, year int) (string, error) {
	start := time.Now()
	defer func() {
		metrics.PosterLookupDuration.Observe(time.Since(start).Seconds())
	}()

	q := url.Values{}
	q.Set("api_key", t.apiKey)
	q.Set("query", title)
	if year > 0 {
		q.Set("year", strconv.Itoa(year))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/search/movie?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("poster: build request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", &transientError{err: fmt.Errorf("poster: search request: %w", err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body) //nolint:errcheck // draining for connection reuse
		return "", &transientError{err: fmt.Errorf("poster: provider returned %d", resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		io.Copy(io.Discard, resp.Body) //nolint:errcheck // draining for connection reuse
		return "", fmt.Errorf("poster: provider returned %d", resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("poster: decode response: %w", err)
	}

	for _, r := range payload.Results {
		if r.PosterPath != "" {
			return imageBaseURL + r.PosterPath, nil
		}
	}
	return "", ErrNotFound
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}
