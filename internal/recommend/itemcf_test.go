// Reelix - Hybrid Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelix

package recommend

import (
	"math"
	"testing"

	"github.com/tomtom215/reelix/internal/dataset"
)

func TestBuildCFModelEmpty(t *testing.T) {
	m := BuildCFModel(nil, 2)

	if m.Users() != 0 {
		t.Errorf("expected 0 users, got %d", m.Users())
	}
	if got := m.Similarity(1, 2); got != 0 {
		t.Errorf("empty model similarity = %v, want 0", got)
	}
	if got := m.PredictUser(1, []int{1, 2}); len(got) != 0 {
		t.Errorf("unknown user must yield empty map, got %v", got)
	}
}

func TestCFSimilarityHandComputed(t *testing.T) {
	// Item vectors over users:
	//   i1 = {u1:5, u2:4}  |i1| = sqrt(41)
	//   i2 = {u1:1}        |i2| = 1
	//   i3 = {u2:5}        |i3| = 5
	//
	// sim(1,2) = 5/sqrt(41), sim(1,3) = 4/sqrt(41), sim(2,3) = 0.
	ratings := []dataset.Rating{
		{UserID: 1, ItemID: 1, Score: 5},
		{UserID: 1, ItemID: 2, Score: 1},
		{UserID: 2, ItemID: 1, Score: 4},
		{UserID: 2, ItemID: 3, Score: 5},
	}
	m := BuildCFModel(ratings, 2)

	sqrt41 := math.Sqrt(41)
	if got, want := m.Similarity(1, 2), 5/sqrt41; !almostEqual(got, want, epsilon) {
		t.Errorf("sim(1,2) = %v, want %v", got, want)
	}
	if got, want := m.Similarity(1, 3), 4/sqrt41; !almostEqual(got, want, epsilon) {
		t.Errorf("sim(1,3) = %v, want %v", got, want)
	}
	if got := m.Similarity(2, 3); got != 0 {
		t.Errorf("sim(2,3) = %v, want 0 (no common raters)", got)
	}
}

func TestCFSimilaritySymmetry(t *testing.T) {
	ratings := []dataset.Rating{
		{UserID: 1, ItemID: 1, Score: 5},
		{UserID: 1, ItemID: 2, Score: 3},
		{UserID: 2, ItemID: 1, Score: 2},
		{UserID: 2, ItemID: 3, Score: 4},
		{UserID: 3, ItemID: 2, Score: 5},
		{UserID: 3, ItemID: 3, Score: 1},
	}
	m := BuildCFModel(ratings, 3)

	for _, a := range []int{1, 2, 3} {
		for _, b := range []int{1, 2, 3} {
			if sab, sba := m.Similarity(a, b), m.Similarity(b, a); !almostEqual(sab, sba, epsilon) {
				t.Errorf("sim(%d,%d)=%v but sim(%d,%d)=%v", a, b, sab, b, a, sba)
			}
		}
	}
}

func TestPredictUserWeightedAverage(t *testing.T) {
	// User 1 rated items 1 and 2. Candidate item 3 is only similar to
	// item 1 (sim(3,2)=0), so the weighted average collapses to user
	// 1's rating on item 1:
	//   score(3) = sim(3,1)*5 / |sim(3,1)| = 5.0
	ratings := []dataset.Rating{
		{UserID: 1, ItemID: 1, Score: 5},
		{UserID: 1, ItemID: 2, Score: 1},
		{UserID: 2, ItemID: 1, Score: 4},
		{UserID: 2, ItemID: 3, Score: 5},
	}
	m := BuildCFModel(ratings, 1)

	scores := m.PredictUser(1, []int{1, 2, 3})

	if _, ok := scores[1]; ok {
		t.Error("rated item 1 must not be scored")
	}
	if _, ok := scores[2]; ok {
		t.Error("rated item 2 must not be scored")
	}
	if !almostEqual(scores[3], 5.0, epsilon) {
		t.Errorf("score(3) = %v, want 5.0", scores[3])
	}
}

func TestPredictUserNoSignal(t *testing.T) {
	// Item 3 shares no raters with anything user 1 rated: the
	// denominator is zero and the score is defined as 0.0, never a
	// divide-by-zero fault.
	ratings := []dataset.Rating{
		{UserID: 1, ItemID: 1, Score: 5},
		{UserID: 2, ItemID: 3, Score: 4},
	}
	m := BuildCFModel(ratings, 1)

	scores := m.PredictUser(1, []int{3})
	if got, ok := scores[3]; !ok || got != 0.0 {
		t.Errorf("score(3) = %v (present=%v), want 0.0", got, ok)
	}
}

func TestPredictUserAbsent(t *testing.T) {
	ratings := []dataset.Rating{
		{UserID: 1, ItemID: 1, Score: 5},
	}
	m := BuildCFModel(ratings, 1)

	scores := m.PredictUser(42, []int{1})
	if len(scores) != 0 {
		t.Errorf("absent user must yield empty map, got %v", scores)
	}
}

func TestUnratedItemHasZeroSimilarityRow(t *testing.T) {
	ratings := []dataset.Rating{
		{UserID: 1, ItemID: 1, Score: 5},
		{UserID: 2, ItemID: 1, Score: 3},
	}
	m := BuildCFModel(ratings, 1)

	// Item 99 appears in no rating: similarity 0 to everything and a
	// zero CF score, never an error.
	if got := m.Similarity(99, 1); got != 0 {
		t.Errorf("sim(99,1) = %v, want 0", got)
	}
	scores := m.PredictUser(1, []int{99})
	if got := scores[99]; got != 0 {
		t.Errorf("score(99) = %v, want 0", got)
	}
}

func TestPopularity(t *testing.T) {
	ratings := []dataset.Rating{
		{UserID: 1, ItemID: 1, Score: 5},
		{UserID: 2, ItemID: 1, Score: 3},
		{UserID: 1, ItemID: 2, Score: 2},
	}
	m := BuildCFModel(ratings, 1)

	pop := m.Popularity()
	if !almostEqual(pop[1], 4.0, epsilon) {
		t.Errorf("popularity(1) = %v, want 4.0", pop[1])
	}
	if !almostEqual(pop[2], 2.0, epsilon) {
		t.Errorf("popularity(2) = %v, want 2.0", pop[2])
	}
}

func TestBuildCFModelWorkerCountsAgree(t *testing.T) {
	ratings := []dataset.Rating{
		{UserID: 1, ItemID: 1, Score: 5},
		{UserID: 1, ItemID: 2, Score: 3},
		{UserID: 2, ItemID: 1, Score: 2},
		{UserID: 2, ItemID: 3, Score: 4},
		{UserID: 3, ItemID: 2, Score: 5},
		{UserID: 3, ItemID: 3, Score: 1},
		{UserID: 4, ItemID: 1, Score: 4},
		{UserID: 4, ItemID: 3, Score: 2},
	}

	serial := BuildCFModel(ratings, 1)
	parallel := BuildCFModel(ratings, 8)

	for _, a := range []int{1, 2, 3} {
		for _, b := range []int{1, 2, 3} {
			if s, p := serial.Similarity(a, b), parallel.Similarity(a, b); !almostEqual(s, p, epsilon) {
				t.Errorf("worker count changed sim(%d,%d): serial=%v parallel=%v", a, b, s, p)
			}
		}
	}
}
