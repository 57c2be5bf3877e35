// Reelix - Hybrid Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelix

package recommend

import (
	"math"
	"sort"
	"sync"

	"github.com/tomtom215/reelix/internal/dataset"
)

// CFModel is the collaborative similarity space: the user×item rating
// matrix and the derived item×item cosine similarity matrix. Missing
// ratings are treated as zero, which biases similarity toward co-rated
// items; that zero-fill is intentional, not a defect. Immutable after
// build.
type CFModel struct {
	// userRatings maps user ID -> item ID -> rating.
	userRatings map[int]map[int]float64

	// itemVectors maps item ID -> user ID -> rating (the matrix
	// transpose).
	itemVectors map[int]map[int]float64

	// similarity maps item ID -> item ID -> cosine similarity.
	// Self-similarity and zero entries are not stored.
	similarity map[int]map[int]float64
}

// BuildCFModel constructs the rating matrix and item-item similarity
// space. Zero ratings yields an empty model, not an error.
func BuildCFModel(ratings []dataset.Rating, workers int) *CFModel {
	m := &CFModel{
		userRatings: make(map[int]map[int]float64),
		itemVectors: make(map[int]map[int]float64),
		similarity:  make(map[int]map[int]float64),
	}

	for _, r := range ratings {
		if m.userRatings[r.UserID] == nil {
			m.userRatings[r.UserID] = make(map[int]float64)
		}
		m.userRatings[r.UserID][r.ItemID] = r.Score

		if m.itemVectors[r.ItemID] == nil {
			m.itemVectors[r.ItemID] = make(map[int]float64)
		}
		m.itemVectors[r.ItemID][r.UserID] = r.Score
	}

	m.buildSimilarity(workers)
	return m
}

// buildSimilarity precomputes pairwise item similarities, chunked
// across workers.
func (m *CFModel) buildSimilarity(workers int) {
	itemIDs := make([]int, 0, len(m.itemVectors))
	for id := range m.itemVectors {
		itemIDs = append(itemIDs, id)
	}
	sort.Ints(itemIDs)

	norms := make(map[int]float64, len(itemIDs))
	for id, vec := range m.itemVectors {
		var sum float64
		for _, v := range vec {
			sum += v * v
		}
		norms[id] = math.Sqrt(sum)
	}

	if workers <= 0 {
		workers = 1
	}
	chunkSize := (len(itemIDs) + workers - 1) / workers

	var wg sync.WaitGroup
	var mu sync.Mutex
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > len(itemIDs) {
			end = len(itemIDs)
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(items []int) {
			defer wg.Done()

			for _, id := range items {
				row := m.computeSimilarityRow(id, itemIDs, norms)
				if len(row) == 0 {
					continue
				}
				mu.Lock()
				m.similarity[id] = row
				mu.Unlock()
			}
		}(itemIDs[start:end])
	}
	wg.Wait()
}

// computeSimilarityRow computes cosine similarity between one item and
// every other rated item.
func (m *CFModel) computeSimilarityRow(itemID int, allItems []int, norms map[int]float64) map[int]float64 {
	vec := m.itemVectors[itemID]
	norm := norms[itemID]
	if norm == 0 {
		return nil
	}

	row := make(map[int]float64)
	for _, otherID := range allItems {
		if otherID == itemID || norms[otherID] == 0 {
			continue
		}
		dot := dotSparse(vec, m.itemVectors[otherID])
		if dot == 0 {
			continue
		}
		row[otherID] = dot / (norm * norms[otherID])
	}
	return row
}

// Similarity returns the cosine similarity between two items. Items
// absent from the rating matrix are similarity 0.0 to everything.
func (m *CFModel) Similarity(a, b int) float64 {
	return m.similarity[a][b]
}

// UserRatings returns the rating map for a user, or nil when the user
// has no ratings.
func (m *CFModel) UserRatings(userID int) map[int]float64 {
	return m.userRatings[userID]
}

// Users returns the number of distinct users in the matrix.
func (m *CFModel) Users() int {
	return len(m.userRatings)
}

// PredictUser computes collaborative scores for every item the user has
// not rated:
//
//	score = Σ(sim(candidate, rated_i) * rating_i) / Σ|sim(candidate, rated_i)|
//
// A zero denominator (no similarity signal) yields score 0.0. A user
// absent from the matrix yields an empty map, which callers treat as
// "no collaborative signal".
func (m *CFModel) PredictUser(userID int, candidates []int) map[int]float64 {
	rated := m.userRatings[userID]
	if len(rated) == 0 {
		return map[int]float64{}
	}

	scores := make(map[int]float64, len(candidates))
	for _, candidate := range candidates {
		if _, seen := rated[candidate]; seen {
			continue
		}

		var weighted, simSum float64
		for ratedID, rating := range rated {
			sim := m.Similarity(candidate, ratedID)
			if sim == 0 {
				continue
			}
			weighted += sim * rating
			simSum += math.Abs(sim)
		}
		if simSum == 0 {
			scores[candidate] = 0.0
			continue
		}
		scores[candidate] = weighted / simSum
	}
	return scores
}

// Popularity returns every item's mean rating across all users, for the
// popularity fallback.
func (m *CFModel) Popularity() map[int]float64 {
	pop := make(map[int]float64, len(m.itemVectors))
	for id, vec := range m.itemVectors {
		if len(vec) == 0 {
			continue
		}
		var sum float64
		for _, v := range vec {
			sum += v
		}
		pop[id] = sum / float64(len(vec))
	}
	return pop
}
