// Reelix - Hybrid Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelix

package recommend

import "time"

// Recommendation is one ranked item in a recommendation response.
type Recommendation struct {
	ItemID    int      `json:"item_id"`
	Title     string   `json:"title"`
	Genres    []string `json:"genres,omitempty"`
	Score     float64  `json:"score"`
	PosterURL string   `json:"poster_url,omitempty"`
}

// SearchResult is one ranked item from a free-text content search.
type SearchResult struct {
	ItemID     int      `json:"item_id"`
	Title      string   `json:"title"`
	Genres     []string `json:"genres,omitempty"`
	Similarity float64  `json:"similarity"`
}

// SimilarItem is one neighbor from an item-to-item similarity query.
type SimilarItem struct {
	ItemID     int      `json:"item_id"`
	Title      string   `json:"title"`
	Genres     []string `json:"genres,omitempty"`
	Similarity float64  `json:"similarity"`
}

// Status reports the engine's current model state.
type Status struct {
	Ready          bool      `json:"ready"`
	Movies         int       `json:"movies"`
	Ratings        int       `json:"ratings"`
	Users          int       `json:"users"`
	VocabularySize int       `json:"vocabulary_size"`
	ModelVersion   int64     `json:"model_version"`
	LastReloadAt   time.Time `json:"last_reload_at"`
	LastReloadDur  string    `json:"last_reload_duration,omitempty"`
}
