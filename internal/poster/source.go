// Reelix - Hybrid Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelix

// Package poster resolves display artwork for catalog items from an
// external metadata API, with a persistent cache and a placeholder
// fallback.
//
// Poster resolution is strictly presentational: a failed lookup
// degrades the item to a placeholder image and never removes it from a
// recommendation result.
package poster

import (
	"context"
	"errors"
)

// PlaceholderURL is substituted when no artwork can be resolved.
const PlaceholderURL = "https://via.placeholder.com/300x450?text=No+Poster"

// ErrNotFound reports that the provider has no artwork for the title.
// It is a terminal outcome: callers must not retry it.
var ErrNotFound = errors.New("poster: no artwork found")

// Source resolves a poster image URL for a movie title. year is 0 when
// the title carries no release year.
type Source interface {
	LookupPoster(ctx context.Context, title string, year int) (string, error)
}

// transientError marks failures worth retrying (rate limits, server
// errors). Everything else is given up on immediately.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// IsTransient reports whether the lookup failure is retryable.
func IsTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}
