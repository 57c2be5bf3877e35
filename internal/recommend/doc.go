// Reelix - Hybrid Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelix

// Package recommend implements the hybrid movie recommendation engine.
//
// The engine blends two independent signals:
//
//   - Content similarity: TF-IDF term vectors built from each item's title
//     and genre tags, compared by cosine similarity.
//   - Collaborative similarity: item-item cosine similarity over the sparse
//     user-rating matrix (item-based CF), with missing ratings treated as
//     zero.
//
// For a given user, the collaborative predictor scores each unrated item as
// a similarity-weighted average of the user's existing ratings, and the
// content predictor scores each item as its maximum similarity to any item
// the user rated at or above the liked threshold. Both score maps are
// independently min-max normalized to [0,1] and blended:
//
//	final = alpha*cf + (1-alpha)*content
//
// Items the user already rated are always excluded. When neither signal
// produces a candidate, the ranker falls back to global popularity (mean
// rating per item), so a non-empty rating set never yields an empty result.
//
// Derived structures are rebuilt atomically: Reload builds a complete new
// model off to the side and swaps it in under a write lock, so concurrent
// requests never observe a half-built similarity space.
package recommend
