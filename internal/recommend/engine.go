// Reelix - Hybrid Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelix

package recommend

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelix/internal/dataset"
	"github.com/tomtom215/reelix/internal/metrics"
)

// ErrNotReady is returned when the engine has not loaded a dataset yet.
var ErrNotReady = errors.New("recommend: engine has no model loaded")

// Engine serves hybrid recommendations over an immutable model snapshot.
// It is safe for concurrent use: Reload builds a complete replacement
// model off to the side and swaps it in under the write lock, so
// requests never observe a half-built similarity space.
type Engine struct {
	config *Config
	logger zerolog.Logger

	mu    sync.RWMutex
	model *model

	cache   map[string]cacheEntry
	cacheMu sync.RWMutex

	modelVersion atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
}

// model is one immutable build of all derived structures.
type model struct {
	version    int64
	ds         *dataset.Dataset
	content    *ContentIndex
	cf         *CFModel
	popularity map[int]float64
	builtAt    time.Time
	buildDur   time.Duration
}

// cacheEntry holds a cached recommendation response.
type cacheEntry struct {
	results   []Recommendation
	expiresAt time.Time
}

// NewEngine creates an engine with no model loaded. Call Reload before
// serving requests.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("recommend: invalid config: %w", err)
	}
	return &Engine{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
		cache:  make(map[string]cacheEntry),
	}, nil
}

// Reload rebuilds every derived structure from the dataset and swaps
// the new model in atomically. The previous model keeps serving
// requests until the swap. The response cache is cleared.
func (e *Engine) Reload(ds *dataset.Dataset) error {
	if ds == nil {
		return errors.New("recommend: nil dataset")
	}

	start := time.Now()
	next := &model{
		ds:      ds,
		content: BuildContentIndex(ds.Movies, e.config.MaxFeatures),
		cf:      BuildCFModel(ds.Ratings, e.config.workers()),
		builtAt: start,
	}
	next.popularity = next.cf.Popularity()
	next.buildDur = time.Since(start)

	// Swap, version bump, and cache clear form one critical section:
	// a request racing the reload either keys against the old version
	// (and is refused by storeResults) or sees the new model with an
	// already-empty cache. Lock order is mu, then cacheMu.
	e.mu.Lock()
	next.version = e.modelVersion.Add(1)
	e.model = next
	e.cacheMu.Lock()
	e.cache = make(map[string]cacheEntry)
	e.cacheMu.Unlock()
	e.mu.Unlock()

	metrics.ModelRebuilds.Inc()
	metrics.ModelRebuildDuration.Observe(next.buildDur.Seconds())

	e.logger.Info().
		Int("movies", len(ds.Movies)).
		Int("ratings", len(ds.Ratings)).
		Int("users", next.cf.Users()).
		Int("vocabulary", next.content.VocabularySize()).
		Int64("model_version", next.version).
		Dur("build_duration", next.buildDur).
		Msg("Model rebuilt")
	return nil
}

// snapshot returns the current model, or nil before the first Reload.
func (e *Engine) snapshot() *model {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.model
}

// Recommend returns the top-N hybrid recommendations for a user.
// topN <= 0 uses the configured default; alpha is clamped to [0,1].
// Items the user already rated are excluded unconditionally. When
// neither signal covers any candidate, the result falls back to global
// popularity by mean rating.
func (e *Engine) Recommend(userID, topN int, alpha float64) ([]Recommendation, error) {
	m := e.snapshot()
	if m == nil {
		return nil, ErrNotReady
	}

	if topN <= 0 {
		topN = e.config.TopN
	}
	alpha = clampAlpha(alpha)

	key := fmt.Sprintf("rec:%d:%d:%g:%d", userID, topN, alpha, m.version)
	if cached, ok := e.cachedResults(key); ok {
		e.cacheHits.Add(1)
		metrics.RecommendCacheHits.Inc()
		return cached, nil
	}
	e.cacheMisses.Add(1)
	metrics.RecommendCacheMisses.Inc()

	rated := m.cf.UserRatings(userID)

	candidates := make([]int, 0, len(m.ds.Movies))
	for i := range m.ds.Movies {
		if _, seen := rated[m.ds.Movies[i].ID]; !seen {
			candidates = append(candidates, m.ds.Movies[i].ID)
		}
	}

	cfRaw := m.cf.PredictUser(userID, candidates)

	var liked []int
	for itemID, score := range rated {
		if score >= e.config.LikedThreshold {
			liked = append(liked, itemID)
		}
	}
	sort.Ints(liked)
	// Content scores cover the whole catalog, liked items included:
	// their 1.0 self-similarity anchors the min-max normalization, so
	// an unrated item's normalized score stays relative to a perfect
	// match rather than being inflated to 1.0. Rated items are
	// excluded only after blending.
	contentRaw := m.content.LikedMaxScores(liked)

	blended := blendScores(normalizeScores(cfRaw), normalizeScores(contentRaw), alpha)
	for itemID := range blended {
		if _, seen := rated[itemID]; seen {
			delete(blended, itemID)
		}
	}

	if len(blended) == 0 {
		// No collaborative or content signal for this user: global
		// popularity keeps the response non-empty whenever ratings
		// exist at all.
		e.logger.Debug().Int("user_id", userID).Msg("No per-user signal; using popularity fallback")
		blended = m.popularity
	}

	results := e.toRecommendations(m, rankScores(blended, topN))
	e.storeResults(key, results, m.version)
	return results, nil
}

// Search ranks catalog items against free query text using the content
// similarity space only. An empty catalog or a query with no known
// terms returns an empty list.
func (e *Engine) Search(query string, topN int) ([]SearchResult, error) {
	m := e.snapshot()
	if m == nil {
		return nil, ErrNotReady
	}
	if topN <= 0 {
		topN = e.config.TopN
	}

	results := make([]SearchResult, 0, topN)
	for _, sc := range rankScores(m.content.QueryScores(query), topN) {
		mv := m.ds.Movie(sc.id)
		if mv == nil {
			continue
		}
		results = append(results, SearchResult{
			ItemID:     mv.ID,
			Title:      mv.Title,
			Genres:     mv.Genres,
			Similarity: sc.score,
		})
	}
	return results, nil
}

// Similar returns the content-space nearest neighbors of one catalog
// item. An unknown item ID yields an empty list, not an error.
func (e *Engine) Similar(itemID, topN int) ([]SimilarItem, error) {
	m := e.snapshot()
	if m == nil {
		return nil, ErrNotReady
	}
	if topN <= 0 {
		topN = e.config.TopN
	}

	scores := make(map[int]float64, len(m.ds.Movies))
	for i := range m.ds.Movies {
		other := m.ds.Movies[i].ID
		if other == itemID {
			continue
		}
		if sim := m.content.Similarity(itemID, other); sim > 0 {
			scores[other] = sim
		}
	}

	results := make([]SimilarItem, 0, topN)
	for _, sc := range rankScores(scores, topN) {
		mv := m.ds.Movie(sc.id)
		if mv == nil {
			continue
		}
		results = append(results, SimilarItem{
			ItemID:     mv.ID,
			Title:      mv.Title,
			Genres:     mv.Genres,
			Similarity: sc.score,
		})
	}
	return results, nil
}

// ByGenres returns the most popular catalog items carrying any of the
// given genre tags, by mean rating. Unrated matches rank after rated
// ones with score 0.
func (e *Engine) ByGenres(genres []string, topN int) ([]Recommendation, error) {
	m := e.snapshot()
	if m == nil {
		return nil, ErrNotReady
	}
	if topN <= 0 {
		topN = e.config.TopN
	}

	wanted := make(map[string]struct{}, len(genres))
	for _, g := range genres {
		wanted[strings.ToLower(g)] = struct{}{}
	}

	scores := make(map[int]float64)
	for i := range m.ds.Movies {
		mv := &m.ds.Movies[i]
		for _, g := range mv.Genres {
			if _, ok := wanted[strings.ToLower(g)]; ok {
				scores[mv.ID] = m.popularity[mv.ID]
				break
			}
		}
	}

	return e.toRecommendations(m, rankScores(scores, topN)), nil
}

// Status reports the current model state.
func (e *Engine) Status() Status {
	m := e.snapshot()
	if m == nil {
		return Status{Ready: false}
	}
	return Status{
		Ready:          true,
		Movies:         len(m.ds.Movies),
		Ratings:        len(m.ds.Ratings),
		Users:          m.cf.Users(),
		VocabularySize: m.content.VocabularySize(),
		ModelVersion:   m.version,
		LastReloadAt:   m.builtAt,
		LastReloadDur:  m.buildDur.String(),
	}
}

// CacheStats returns cumulative response cache hits and misses.
func (e *Engine) CacheStats() (hits, misses int64) {
	return e.cacheHits.Load(), e.cacheMisses.Load()
}

func (e *Engine) toRecommendations(m *model, ranked []scoredID) []Recommendation {
	results := make([]Recommendation, 0, len(ranked))
	for _, sc := range ranked {
		mv := m.ds.Movie(sc.id)
		if mv == nil {
			continue
		}
		results = append(results, Recommendation{
			ItemID:    mv.ID,
			Title:     mv.Title,
			Genres:    mv.Genres,
			Score:     sc.score,
			PosterURL: mv.PosterURL,
		})
	}
	return results
}

func (e *Engine) cachedResults(key string) ([]Recommendation, bool) {
	if e.config.CacheTTL <= 0 {
		return nil, false
	}
	e.cacheMu.RLock()
	entry, ok := e.cache[key]
	e.cacheMu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	// Callers may decorate results (poster enrichment), so hand out a
	// copy rather than the cached backing array.
	results := make([]Recommendation, len(entry.results))
	copy(results, entry.results)
	return results, true
}

func (e *Engine) storeResults(key string, results []Recommendation, version int64) {
	if e.config.CacheTTL <= 0 {
		return
	}
	// Keep a private copy for the same reason cachedResults copies out.
	stored := make([]Recommendation, len(results))
	copy(stored, results)
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()
	// A reload may have cleared the cache while this request was
	// computing against the old model. Storing now would leave an
	// entry keyed to a version no future request asks for, so refuse
	// the stale write.
	if e.modelVersion.Load() != version {
		return
	}
	e.cache[key] = cacheEntry{results: stored, expiresAt: time.Now().Add(e.config.CacheTTL)}
}
