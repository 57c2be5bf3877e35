// Reelix - Hybrid Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelix

// Package metrics provides Prometheus instrumentation for Reelix:
// API endpoint latency and throughput, recommendation engine timing,
// model rebuilds, and poster lookup outcomes.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelix_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelix_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Recommendation Engine Metrics
	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelix_recommend_duration_seconds",
			Help:    "Duration of recommendation computations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "recommend", "search", "similar", "by_genres"
	)

	RecommendCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelix_recommend_cache_hits_total",
			Help: "Total recommendation response cache hits",
		},
	)

	RecommendCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelix_recommend_cache_misses_total",
			Help: "Total recommendation response cache misses",
		},
	)

	ModelRebuilds = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelix_model_rebuilds_total",
			Help: "Total number of model rebuilds (reloads)",
		},
	)

	ModelRebuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reelix_model_rebuild_duration_seconds",
			Help:    "Duration of full model rebuilds in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	// Poster Enrichment Metrics
	PosterLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelix_poster_lookups_total",
			Help: "Total poster lookups by outcome",
		},
		[]string{"outcome"}, // "cache_hit", "found", "not_found", "error", "placeholder"
	)

	PosterLookupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reelix_poster_lookup_duration_seconds",
			Help:    "Duration of external poster lookups in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	PosterBackfillProgress = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reelix_poster_backfill_items",
			Help: "Poster backfill progress by state",
		},
		[]string{"state"}, // "processed", "found", "failed"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reelix_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelix_circuit_breaker_requests_total",
			Help: "Circuit breaker request outcomes",
		},
		[]string{"name", "outcome"}, // "success", "failure", "rejected"
	)
)

// ObserveAPIRequest records one completed API request.
func ObserveAPIRequest(endpoint, method string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	APIRequestDuration.WithLabelValues(endpoint, method, code).Observe(duration.Seconds())
	APIRequestsTotal.WithLabelValues(endpoint, method, code).Inc()
}

// ObserveRecommendOperation records the duration of one engine operation.
func ObserveRecommendOperation(operation string, duration time.Duration) {
	RecommendDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
