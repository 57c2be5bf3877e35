// Reelix - Hybrid Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelix

package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/reelix/internal/emotion"
	"github.com/tomtom215/reelix/internal/logging"
	"github.com/tomtom215/reelix/internal/metrics"
	"github.com/tomtom215/reelix/internal/poster"
	"github.com/tomtom215/reelix/internal/recommend"
	"github.com/tomtom215/reelix/internal/validation"
)

// ReloadFunc reloads the dataset from disk and swaps the engine model.
type ReloadFunc func() error

// HandlerConfig holds request-level limits for the API handlers.
type HandlerConfig struct {
	// DefaultLimit is the result count used when the client omits limit.
	DefaultLimit int

	// MaxLimit caps the client-supplied limit.
	MaxLimit int

	// DefaultAlpha is the hybrid blend weight used when the client omits
	// alpha. Client-supplied values outside [0, 1] are clamped by the
	// engine.
	DefaultAlpha float64
}

// Handler serves the recommendation API endpoints.
type Handler struct {
	engine     *recommend.Engine
	posters    *poster.Service
	reload     ReloadFunc
	classifier emotion.Classifier
	config     HandlerConfig
}

// NewHandler creates the API handler. posters may be nil when poster
// enrichment is disabled; reload may be nil when no reload path is wired
// (admin reload then returns 503).
func NewHandler(engine *recommend.Engine, posters *poster.Service, reload ReloadFunc, config HandlerConfig) *Handler {
	if config.DefaultLimit <= 0 {
		config.DefaultLimit = 10
	}
	if config.MaxLimit <= 0 {
		config.MaxLimit = 100
	}
	return &Handler{
		engine:  engine,
		posters: posters,
		reload:  reload,
		config:  config,
	}
}

// WithClassifier registers an emotion classifier so POST /emotion can
// accept a camera frame instead of a pre-computed label.
func (h *Handler) WithClassifier(c emotion.Classifier) *Handler {
	h.classifier = c
	return h
}

// Recommendations handles GET /api/v1/recommendations/user/{userID}.
// Query parameters: limit (result count), alpha (hybrid blend weight).
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil || userID <= 0 {
		rw.BadRequest("userID must be a positive integer")
		return
	}

	limit, ok := h.parseLimit(rw, r)
	if !ok {
		return
	}

	alpha := h.config.DefaultAlpha
	if raw := r.URL.Query().Get("alpha"); raw != "" {
		alpha, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			rw.BadRequest("alpha must be a number in [0, 1]")
			return
		}
	}

	start := time.Now()
	results, err := h.engine.Recommend(userID, limit, alpha)
	if err != nil {
		h.respondEngineError(rw, err)
		return
	}
	metrics.ObserveRecommendOperation("recommend", time.Since(start))

	h.enrichPosters(r, results)

	rw.SuccessWithPagination(results, &PaginationMeta{
		Count: len(results),
		Limit: limit,
	})
}

// Search handles GET /api/v1/search. Query parameters: q (free-text query),
// limit (result count).
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		rw.BadRequest("q is required")
		return
	}

	limit, ok := h.parseLimit(rw, r)
	if !ok {
		return
	}

	start := time.Now()
	results, err := h.engine.Search(query, limit)
	if err != nil {
		h.respondEngineError(rw, err)
		return
	}
	metrics.ObserveRecommendOperation("search", time.Since(start))

	rw.SuccessWithPagination(results, &PaginationMeta{
		Count: len(results),
		Limit: limit,
	})
}

// Similar handles GET /api/v1/similar/{itemID}. Query parameter: limit.
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	itemID, err := strconv.Atoi(chi.URLParam(r, "itemID"))
	if err != nil || itemID <= 0 {
		rw.BadRequest("itemID must be a positive integer")
		return
	}

	limit, ok := h.parseLimit(rw, r)
	if !ok {
		return
	}

	start := time.Now()
	results, err := h.engine.Similar(itemID, limit)
	if err != nil {
		h.respondEngineError(rw, err)
		return
	}
	metrics.ObserveRecommendOperation("similar", time.Since(start))

	rw.SuccessWithPagination(results, &PaginationMeta{
		Count: len(results),
		Limit: limit,
	})
}

// emotionRequest is the body for POST /api/v1/emotion. Either a label or
// a base64-encoded frame must be supplied; the frame path requires a
// registered classifier.
type emotionRequest struct {
	Emotion string `json:"emotion" validate:"omitempty,min=2,max=32"`
	Frame   []byte `json:"frame" validate:"omitempty,max=10485760"`
	Limit   int    `json:"limit" validate:"omitempty,min=1,max=100"`
}

// emotionResponse pairs the resolved mood with its recommendations.
type emotionResponse struct {
	Emotion         string                     `json:"emotion"`
	Genres          []string                   `json:"genres"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
}

// Emotion handles POST /api/v1/emotion. The detected mood label is mapped
// to a genre set and the catalog's most popular titles in those genres are
// returned. Unknown labels fall back to the neutral genre set.
func (h *Handler) Emotion(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req emotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("request body must be valid JSON")
		return
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	var label emotion.Label
	switch {
	case req.Emotion != "":
		var err error
		label, err = emotion.Parse(req.Emotion)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Str("emotion", req.Emotion).Msg("Unknown emotion label, using neutral")
			label = emotion.Neutral
		}
	case len(req.Frame) > 0 && h.classifier != nil:
		var err error
		label, err = h.classifier.Classify(r.Context(), req.Frame)
		if err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Emotion classification failed, using neutral")
			label = emotion.Neutral
		}
	default:
		rw.BadRequest("emotion or frame is required")
		return
	}
	genres := emotion.Genres(label)

	limit := req.Limit
	if limit <= 0 {
		limit = h.config.DefaultLimit
	}

	start := time.Now()
	results, err := h.engine.ByGenres(genres, limit)
	if err != nil {
		h.respondEngineError(rw, err)
		return
	}
	metrics.ObserveRecommendOperation("emotion", time.Since(start))

	h.enrichPosters(r, results)

	rw.Success(emotionResponse{
		Emotion:         string(label),
		Genres:          genres,
		Recommendations: results,
	})
}

// Reload handles POST /api/v1/admin/reload. The new model is built from the
// freshly loaded dataset and swapped in atomically; requests keep being
// served from the previous model until the swap.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if h.reload == nil {
		rw.ServiceUnavailable("Reload is not configured")
		return
	}

	if err := h.reload(); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Model reload failed")
		rw.Error(http.StatusInternalServerError, ErrCodeInternalError, "Model reload failed")
		return
	}

	rw.Success(h.engine.Status())
}

// Status handles GET /api/v1/status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	status := h.engine.Status()
	hits, misses := h.engine.CacheStats()

	rw.Success(map[string]interface{}{
		"engine":       status,
		"cache_hits":   hits,
		"cache_misses": misses,
	})
}

// Health handles GET /health. Returns 200 once a model has been built and
// 503 before that, so orchestrators hold traffic until the engine is ready.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	status := h.engine.Status()
	if !status.Ready {
		rw.ServiceUnavailable("Model not ready")
		return
	}

	rw.Success(map[string]interface{}{
		"status":        "ok",
		"model_version": status.ModelVersion,
	})
}

// parseLimit reads the limit query parameter, applying the default and cap.
// Writes a 400 response and returns false on invalid input.
func (h *Handler) parseLimit(rw *ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return h.config.DefaultLimit, true
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		rw.BadRequest("limit must be a positive integer")
		return 0, false
	}

	if limit > h.config.MaxLimit {
		limit = h.config.MaxLimit
	}
	return limit, true
}

// respondEngineError maps engine errors to API error responses.
func (h *Handler) respondEngineError(rw *ResponseWriter, err error) {
	if errors.Is(err, recommend.ErrNotReady) {
		rw.ServiceUnavailable("Recommendation model is not ready")
		return
	}
	rw.InternalError("Recommendation engine error")
}

// enrichPosters fills poster URLs on the results when the poster service
// is configured. Items without artwork get the placeholder URL; no item
// is ever dropped.
func (h *Handler) enrichPosters(r *http.Request, results []recommend.Recommendation) {
	if h.posters == nil {
		return
	}
	h.posters.EnrichRecommendations(r.Context(), results)
}
