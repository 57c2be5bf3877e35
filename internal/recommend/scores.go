// Reelix - Hybrid Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelix

package recommend

import "sort"

// normalizeScores min-max normalizes a score map to [0,1] in place-free
// fashion. A map with a single distinct value normalizes to all 0.0;
// that convention keeps a signal-less map from outvoting a real one
// after blending.
func normalizeScores(scores map[int]float64) map[int]float64 {
	normalized := make(map[int]float64, len(scores))
	if len(scores) == 0 {
		return normalized
	}

	first := true
	var min, max float64
	for _, s := range scores {
		if first {
			min, max = s, s
			first = false
			continue
		}
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}

	if max == min {
		for id := range scores {
			normalized[id] = 0.0
		}
		return normalized
	}

	span := max - min
	for id, s := range scores {
		normalized[id] = (s - min) / span
	}
	return normalized
}

// blendScores combines normalized CF and content maps:
// final = alpha*cf + (1-alpha)*content. The candidate set is the union
// of both maps; an item missing from one map contributes 0 from that
// side.
func blendScores(cf, content map[int]float64, alpha float64) map[int]float64 {
	blended := make(map[int]float64, len(cf)+len(content))
	for id, s := range cf {
		blended[id] = alpha * s
	}
	for id, s := range content {
		blended[id] += (1 - alpha) * s
	}
	return blended
}

// clampAlpha constrains the blend weight to [0,1].
func clampAlpha(alpha float64) float64 {
	if alpha < 0 {
		return 0
	}
	if alpha > 1 {
		return 1
	}
	return alpha
}

// scoredID pairs an item with its final score for sorting.
type scoredID struct {
	id    int
	score float64
}

// rankScores orders a score map descending by score, ties broken by
// item ID ascending for determinism, truncated to topN.
func rankScores(scores map[int]float64, topN int) []scoredID {
	ranked := make([]scoredID, 0, len(scores))
	for id, s := range scores {
		ranked = append(ranked, scoredID{id: id, score: s})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].id < ranked[j].id
	})
	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
