// Reelix - Hybrid Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelix

package emotion

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    Label
		wantErr bool
	}{
		{"HAPPY", Happy, false},
		{"happy", Happy, false},
		{"  Sad  ", Sad, false},
		{"NEUTRAL", Neutral, false},
		{"ANGRY", Angry, false},
		{"FEAR", Fear, false},
		{"ecstatic", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Parse(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestGenres(t *testing.T) {
	tests := []struct {
		label Label
		want  []string
	}{
		{Happy, []string{"Comedy", "Animation", "Family"}},
		{Sad, []string{"Drama", "Romance"}},
		{Angry, []string{"Action", "Thriller"}},
		{Fear, []string{"Horror", "Mystery"}},
		{Neutral, []string{"Drama", "Adventure", "Documentary"}},
		{Label("BOGUS"), []string{"Drama", "Adventure", "Documentary"}}, // falls back to Neutral
	}

	for _, tt := range tests {
		t.Run(string(tt.label), func(t *testing.T) {
			got := Genres(tt.label)
			if len(got) != len(tt.want) {
				t.Fatalf("Genres(%v) = %v, want %v", tt.label, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("genre %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLabelsCoverGenreMap(t *testing.T) {
	labels := Labels()
	if len(labels) != len(genresByLabel) {
		t.Fatalf("Labels() lists %d labels, genre map has %d", len(labels), len(genresByLabel))
	}
	for _, l := range labels {
		if _, ok := genresByLabel[l]; !ok {
			t.Errorf("label %v missing from genre map", l)
		}
	}
}
