// Reelix - Hybrid Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelix

// Package emotion maps discrete emotion labels to genre preferences.
//
// The emotion detector itself (a webcam/vision pipeline) is an external
// collaborator behind the Classifier interface; this package only owns
// the label vocabulary and the label-to-genre mapping used to seed
// mood-based recommendations.
package emotion

import (
	"context"
	"fmt"
	"strings"
)

// Label is a discrete emotion produced by a classifier.
type Label string

// The supported emotion vocabulary.
const (
	Neutral Label = "NEUTRAL"
	Happy   Label = "HAPPY"
	Sad     Label = "SAD"
	Angry   Label = "ANGRY"
	Fear    Label = "FEAR"
)

// Classifier produces an emotion label from an opaque image payload.
// Implementations are external; the engine only consumes the label.
type Classifier interface {
	Classify(ctx context.Context, image []byte) (Label, error)
}

// genresByLabel maps each emotion to the genres used to seed
// recommendations for it.
var genresByLabel = map[Label][]string{
	Happy:   {"Comedy", "Animation", "Family"},
	Sad:     {"Drama", "Romance"},
	Angry:   {"Action", "Thriller"},
	Fear:    {"Horror", "Mystery"},
	Neutral: {"Drama", "Adventure", "Documentary"},
}

// Parse normalizes raw text to a Label. Unknown input is an error, not
// a silent default.
func Parse(raw string) (Label, error) {
	label := Label(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := genresByLabel[label]; !ok {
		return "", fmt.Errorf("emotion: unknown label %q", raw)
	}
	return label, nil
}

// Genres returns the genre preferences for a label. Unknown labels fall
// back to the Neutral set so a misbehaving classifier degrades to a
// generic mood rather than an empty result.
func Genres(label Label) []string {
	if genres, ok := genresByLabel[label]; ok {
		return genres
	}
	return genresByLabel[Neutral]
}

// Labels lists the supported vocabulary in a stable order.
func Labels() []Label {
	return []Label{Neutral, Happy, Sad, Angry, Fear}
}
