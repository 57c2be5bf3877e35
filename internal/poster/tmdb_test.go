// Reelix - Hybrid Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelix

package poster

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTMDBTestSource(handler http.HandlerFunc) (*TMDBSource, *httptest.Server) {
	srv := httptest.NewServer(handler)
	src := NewTMDBSource(TMDBConfig{APIKey: "test-key", BaseURL: srv.URL})
	return src, srv
}

func TestTMDBLookupPoster(t *testing.T) {
	var gotQuery, gotYear string
	src, srv := newTMDBTestSource(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotYear = r.URL.Query().Get("year")
		if r.URL.Query().Get("api_key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"poster_path":"/abc123.jpg"},{"poster_path":"/other.jpg"}]}`)) //nolint:errcheck
	})
	defer srv.Close()

	url, err := src.LookupPoster(context.Background(), "Heat", 1995)
	if err != nil {
		t.Fatalf("LookupPoster failed: %v", err)
	}
	if url != imageBaseURL+"/abc123.jpg" {
		t.Errorf("url = %q", url)
	}
	if gotQuery != "Heat" || gotYear != "1995" {
		t.Errorf("query params = (%q, %q)", gotQuery, gotYear)
	}
}

func TestTMDBLookupPosterNoResults(t *testing.T) {
	src, srv := newTMDBTestSource(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[]}`)) //nolint:errcheck
	})
	defer srv.Close()

	_, err := src.LookupPoster(context.Background(), "Nonexistent", 0)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTMDBLookupPosterEmptyPosterPath(t *testing.T) {
	src, srv := newTMDBTestSource(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"poster_path":""},{"poster_path":"/second.jpg"}]}`)) //nolint:errcheck
	})
	defer srv.Close()

	url, err := src.LookupPoster(context.Background(), "Partial", 0)
	if err != nil {
		t.Fatalf("LookupPoster failed: %v", err)
	}
	if url != imageBaseURL+"/second.jpg" {
		t.Errorf("expected first non-empty poster path, got %q", url)
	}
}

func TestTMDBLookupPosterErrorClassification(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		wantTransient bool
	}{
		{"rate limited", http.StatusTooManyRequests, true},
		{"server error", http.StatusInternalServerError, true},
		{"bad gateway", http.StatusBadGateway, true},
		{"unauthorized", http.StatusUnauthorized, false},
		{"bad request", http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, srv := newTMDBTestSource(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			})
			defer srv.Close()

			_, err := src.LookupPoster(context.Background(), "Any", 0)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := IsTransient(err); got != tt.wantTransient {
				t.Errorf("IsTransient = %v, want %v for status %d", got, tt.wantTransient, tt.status)
			}
		})
	}
}

func TestTMDBLookupPosterOmitsZeroYear(t *testing.T) {
	var hadYear bool
	src, srv := newTMDBTestSource(func(w http.ResponseWriter, r *http.Request) {
		_, hadYear = r.URL.Query()["year"]
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"poster_path":"/x.jpg"}]}`)) //nolint:errcheck
	})
	defer srv.Close()

	if _, err := src.LookupPoster(context.Background(), "Undated", 0); err != nil {
		t.Fatalf("LookupPoster failed: %v", err)
	}
	if hadYear {
		t.Error("year param must be omitted when unknown")
	}
}
