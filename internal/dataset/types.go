// Reelix - Hybrid Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelix

// Package dataset loads and normalizes the movie catalog and user ratings
// from CSV sources into canonical records.
//
// Input columns are reconciled against a set of known synonyms (e.g. both
// "movieId" and "id" resolve to the item identifier), so exports from
// different tools load without preprocessing. A source missing a required
// column fails with a SchemaError; an individual malformed row is skipped
// with a warning and the rest of the load proceeds.
package dataset

import (
	"fmt"
	"strings"
)

// Movie is a single catalog item. Immutable after load except for the
// lazily-populated PosterURL.
type Movie struct {
	ID        int      `json:"item_id"`
	Title     string   `json:"title"`
	Genres    []string `json:"genres"`
	PosterURL string   `json:"poster_url,omitempty"`
}

// Year extracts the release year from a title of the form "Name (2004)".
// Returns 0 when the title carries no parenthesized year suffix.
func (m Movie) Year() int {
	title := strings.TrimSpace(m.Title)
	if len(title) < 7 || title[len(title)-1] != ')' || title[len(title)-6] != '(' {
		return 0
	}
	year := 0
	for _, r := range title[len(title)-5 : len(title)-1] {
		if r < '0' || r > '9' {
			return 0
		}
		year = year*10 + int(r-'0')
	}
	return year
}

// CleanTitle returns the title with any trailing "(yyyy)" year suffix
// removed, for use as an external lookup key.
func (m Movie) CleanTitle() string {
	title := strings.TrimSpace(m.Title)
	if m.Year() != 0 {
		title = strings.TrimSpace(title[:len(title)-6])
	}
	return title
}

// Rating is one user's score for one item. One rating per (user, item)
// pair; duplicate input rows resolve last-write-wins.
type Rating struct {
	UserID int     `json:"user_id"`
	ItemID int     `json:"item_id"`
	Score  float64 `json:"rating"`
}

// Dataset is the validated catalog and rating set produced by Load.
type Dataset struct {
	Movies  []Movie
	Ratings []Rating

	// byID indexes Movies by item identifier.
	byID map[int]*Movie
}

// New assembles a Dataset from already-validated records.
func New(movies []Movie, ratings []Rating) *Dataset {
	ds := &Dataset{
		Movies:  movies,
		Ratings: ratings,
		byID:    make(map[int]*Movie, len(movies)),
	}
	for i := range ds.Movies {
		ds.byID[ds.Movies[i].ID] = &ds.Movies[i]
	}
	return ds
}

// Movie returns the catalog entry for id, or nil when absent.
func (d *Dataset) Movie(id int) *Movie {
	return d.byID[id]
}

// SchemaError reports required columns missing from an input source.
// It is fatal to the load; no partial state is retained.
type SchemaError struct {
	Source  string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("dataset %s: missing required columns: %s", e.Source, strings.Join(e.Missing, ", "))
}
