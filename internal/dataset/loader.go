// Reelix - Hybrid Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelix

package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tomtom215/reelix/internal/logging"
)

// noGenres is the catalog's sentinel for an item without genre tags.
const noGenres = "(no genres listed)"

// Column synonyms reconciled to the canonical schema. Keys are compared
// case-insensitively with surrounding whitespace and BOM stripped.
var (
	movieIDColumns = []string{"movieid", "movie_id", "itemid", "item_id", "id"}
	titleColumns   = []string{"title", "name"}
	genreColumns   = []string{"genres", "genre", "tags"}
	posterColumns  = []string{"poster_url", "poster", "image_url"}

	userIDColumns = []string{"userid", "user_id", "user"}
	scoreColumns  = []string{"rating", "score"}
)

// Load reads and validates both CSV sources.
func Load(moviesPath, ratingsPath string) (*Dataset, error) {
	movies, err := LoadMovies(moviesPath)
	if err != nil {
		return nil, err
	}
	ratings, err := LoadRatings(ratingsPath)
	if err != nil {
		return nil, err
	}

	return New(movies, ratings), nil
}

// LoadMovies reads the movie catalog CSV. Required columns: item
// identifier and title. Genre and poster columns are optional.
func LoadMovies(path string) ([]Movie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open movie catalog: %w", err)
	}
	defer f.Close()
	return readMovies(f, path)
}

// LoadRatings reads the ratings CSV. Required columns: user identifier,
// item identifier, and score.
func LoadRatings(path string) ([]Rating, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ratings: %w", err)
	}
	defer f.Close()
	return readRatings(f, path)
}

func readMovies(r io.Reader, source string) ([]Movie, error) {
	cr := newCSVReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read movie catalog header: %w", err)
	}
	cols := indexColumns(header)

	idCol, idOK := cols.find(movieIDColumns)
	titleCol, titleOK := cols.find(titleColumns)
	genreCol, genreOK := cols.find(genreColumns)
	posterCol, posterOK := cols.find(posterColumns)

	var missing []string
	if !idOK {
		missing = append(missing, "movieId")
	}
	if !titleOK {
		missing = append(missing, "title")
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Source: source, Missing: missing}
	}

	var (
		movies  []Movie
		seen    = make(map[int]int) // item ID -> index in movies
		skipped int
		line    = 1
	)
	for {
		line++
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			logging.Warn().Str("source", source).Int("line", line).Err(err).
				Msg("Skipping unparseable catalog row")
			continue
		}

		id, err := strconv.Atoi(strings.TrimSpace(field(record, idCol)))
		if err != nil {
			skipped++
			logging.Warn().Str("source", source).Int("line", line).
				Str("value", field(record, idCol)).
				Msg("Skipping catalog row with non-integer item ID")
			continue
		}
		title := strings.TrimSpace(field(record, titleCol))
		if title == "" {
			skipped++
			logging.Warn().Str("source", source).Int("line", line).Int("item_id", id).
				Msg("Skipping catalog row with empty title")
			continue
		}

		m := Movie{ID: id, Title: title}
		if genreOK {
			m.Genres = splitGenres(field(record, genreCol))
		}
		if posterOK {
			m.PosterURL = strings.TrimSpace(field(record, posterCol))
		}

		// Duplicate item IDs resolve last-write-wins, same as ratings.
		if idx, dup := seen[id]; dup {
			movies[idx] = m
			continue
		}
		seen[id] = len(movies)
		movies = append(movies, m)
	}

	logging.Info().Str("source", source).Int("movies", len(movies)).Int("skipped", skipped).
		Msg("Movie catalog loaded")
	return movies, nil
}

func readRatings(r io.Reader, source string) ([]Rating, error) {
	cr := newCSVReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read ratings header: %w", err)
	}
	cols := indexColumns(header)

	userCol, userOK := cols.find(userIDColumns)
	itemCol, itemOK := cols.find(movieIDColumns)
	scoreCol, scoreOK := cols.find(scoreColumns)

	var missing []string
	if !userOK {
		missing = append(missing, "userId")
	}
	if !itemOK {
		missing = append(missing, "movieId")
	}
	if !scoreOK {
		missing = append(missing, "rating")
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Source: source, Missing: missing}
	}

	var (
		ratings []Rating
		seen    = make(map[[2]int]int) // (user, item) -> index in ratings
		skipped int
		line    = 1
	)
	for {
		line++
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			logging.Warn().Str("source", source).Int("line", line).Err(err).
				Msg("Skipping unparseable rating row")
			continue
		}

		userID, uerr := strconv.Atoi(strings.TrimSpace(field(record, userCol)))
		itemID, ierr := strconv.Atoi(strings.TrimSpace(field(record, itemCol)))
		score, serr := strconv.ParseFloat(strings.TrimSpace(field(record, scoreCol)), 64)
		if uerr != nil || ierr != nil || serr != nil {
			skipped++
			logging.Warn().Str("source", source).Int("line", line).
				Msg("Skipping rating row with malformed fields")
			continue
		}

		rt := Rating{UserID: userID, ItemID: itemID, Score: score}

		// One rating per (user, item): last-write-wins.
		key := [2]int{userID, itemID}
		if idx, dup := seen[key]; dup {
			ratings[idx] = rt
			continue
		}
		seen[key] = len(ratings)
		ratings = append(ratings, rt)
	}

	logging.Info().Str("source", source).Int("ratings", len(ratings)).Int("skipped", skipped).
		Msg("Ratings loaded")
	return ratings, nil
}

func newCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // per-row validation handles short records
	cr.LazyQuotes = true
	return cr
}

// columnIndex maps normalized column names to their position in the header.
type columnIndex map[string]int

func indexColumns(header []string) columnIndex {
	cols := make(columnIndex, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF")))
		if _, exists := cols[name]; !exists {
			cols[name] = i
		}
	}
	return cols
}

// find returns the position of the first synonym present in the header.
func (c columnIndex) find(synonyms []string) (int, bool) {
	for _, name := range synonyms {
		if idx, ok := c[name]; ok {
			return idx, true
		}
	}
	return 0, false
}

func field(record []string, idx int) string {
	if idx >= len(record) {
		return ""
	}
	return record[idx]
}

// splitGenres splits a pipe-delimited genre string into tags. The
// "(no genres listed)" sentinel and empty input both yield nil.
func splitGenres(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, noGenres) {
		return nil
	}
	parts := strings.Split(raw, "|")
	genres := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			genres = append(genres, p)
		}
	}
	if len(genres) == 0 {
		return nil
	}
	return genres
}
