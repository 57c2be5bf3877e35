// Reelix - Hybrid Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelix

package recommend

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/tomtom215/reelix/internal/dataset"
)

// ContentIndex is the content similarity space: one L2-normalized TF-IDF
// vector per catalog item over a bounded vocabulary extracted from
// title+genre text at build time. Immutable after build.
type ContentIndex struct {
	// vocab maps term to vector dimension.
	vocab map[string]int

	// idf holds the inverse document frequency per dimension:
	// idf = ln((1+n)/(1+df)) + 1 with n = corpus size.
	idf []float64

	// vectors holds one sparse unit vector per item, keyed by item ID.
	// Vectors are L2-normalized so cosine similarity is a plain dot
	// product.
	vectors map[int]map[int]float64

	// order lists item IDs in catalog order for deterministic iteration.
	order []int
}

// BuildContentIndex constructs the TF-IDF space over the full catalog.
// A corpus of one item, or all-empty text, still produces a valid
// (possibly all-zero) index.
func BuildContentIndex(movies []dataset.Movie, maxFeatures int) *ContentIndex {
	docs := make([][]string, len(movies))
	termCount := make(map[string]int) // corpus-wide term frequency
	docFreq := make(map[string]int)

	for i := range movies {
		tokens := tokenize(movies[i].Title, movies[i].Genres)
		docs[i] = tokens

		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			termCount[tok]++
			if _, dup := seen[tok]; !dup {
				seen[tok] = struct{}{}
				docFreq[tok]++
			}
		}
	}

	vocab := selectVocabulary(termCount, maxFeatures)

	n := len(movies)
	idf := make([]float64, len(vocab))
	for term, dim := range vocab {
		idf[dim] = math.Log(float64(1+n)/float64(1+docFreq[term])) + 1
	}

	idx := &ContentIndex{
		vocab:   vocab,
		idf:     idf,
		vectors: make(map[int]map[int]float64, n),
		order:   make([]int, 0, n),
	}
	for i := range movies {
		idx.vectors[movies[i].ID] = idx.vectorize(docs[i])
		idx.order = append(idx.order, movies[i].ID)
	}
	return idx
}

// selectVocabulary keeps the cap highest-frequency terms, ties broken
// alphabetically so rebuilds over the same corpus produce the same space.
func selectVocabulary(termCount map[string]int, cap int) map[string]int {
	terms := make([]string, 0, len(termCount))
	for term := range termCount {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if termCount[terms[i]] != termCount[terms[j]] {
			return termCount[terms[i]] > termCount[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if cap > 0 && len(terms) > cap {
		terms = terms[:cap]
	}

	// Dimensions are assigned in sorted term order, matching the
	// alphabetical layout of a scikit-learn vocabulary.
	sorted := append([]string(nil), terms...)
	sort.Strings(sorted)
	vocab := make(map[string]int, len(sorted))
	for dim, term := range sorted {
		vocab[term] = dim
	}
	return vocab
}

// vectorize builds the L2-normalized TF-IDF vector for one token list.
// Out-of-vocabulary tokens contribute nothing.
func (c *ContentIndex) vectorize(tokens []string) map[int]float64 {
	tf := make(map[int]float64)
	for _, tok := range tokens {
		if dim, ok := c.vocab[tok]; ok {
			tf[dim]++
		}
	}
	if len(tf) == 0 {
		return tf
	}

	var norm float64
	for dim, count := range tf {
		w := count * c.idf[dim]
		tf[dim] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return tf
	}
	for dim := range tf {
		tf[dim] /= norm
	}
	return tf
}

// Similarity returns the cosine similarity between two catalog items.
// Unknown item IDs yield 0.0.
func (c *ContentIndex) Similarity(a, b int) float64 {
	return dotSparse(c.vectors[a], c.vectors[b])
}

// QueryScores ranks every catalog item against free query text. The
// result maps item ID to cosine similarity; zero-score items are
// omitted.
func (c *ContentIndex) QueryScores(query string) map[int]float64 {
	qv := c.vectorize(tokenize(query, nil))
	if len(qv) == 0 {
		return map[int]float64{}
	}

	scores := make(map[int]float64)
	for id, vec := range c.vectors {
		if sim := dotSparse(qv, vec); sim > 0 {
			scores[id] = sim
		}
	}
	return scores
}

// LikedMaxScores computes the content score map for a user: for each
// catalog item, the maximum similarity to any liked item. Liked items
// score against themselves too, so any liked item with a non-zero
// vector anchors the map at 1.0; that anchor is what later min-max
// normalization is relative to. An empty liked set yields an empty map.
func (c *ContentIndex) LikedMaxScores(liked []int) map[int]float64 {
	if len(liked) == 0 {
		return map[int]float64{}
	}

	scores := make(map[int]float64, len(c.order))
	for _, id := range c.order {
		best := 0.0
		for _, likedID := range liked {
			if sim := c.Similarity(id, likedID); sim > best {
				best = sim
			}
		}
		scores[id] = best
	}
	return scores
}

// VocabularySize returns the number of terms in the fitted vocabulary.
func (c *ContentIndex) VocabularySize() int {
	return len(c.vocab)
}

// dotSparse computes the dot product of two sparse vectors, iterating
// the smaller one.
func dotSparse(a, b map[int]float64) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}
	var dot float64
	for dim, av := range a {
		if bv, ok := b[dim]; ok {
			dot += av * bv
		}
	}
	return dot
}

// tokenize lowercases title and genre text and splits it into terms of
// two or more letters/digits, dropping English stop words. Genre
// delimiters and punctuation act as separators.
func tokenize(title string, genres []string) []string {
	var sb strings.Builder
	sb.WriteString(title)
	for _, g := range genres {
		sb.WriteByte(' ')
		sb.WriteString(g)
	}
	text := strings.ToLower(sb.String())

	var (
		tokens  []string
		current strings.Builder
		runes   int
	)
	flush := func() {
		// Length gate counts runes, not bytes: a single multi-byte
		// letter is still a one-character token.
		if runes >= 2 {
			tok := current.String()
			if _, stop := stopWords[tok]; !stop {
				tokens = append(tokens, tok)
			}
		}
		current.Reset()
		runes = 0
	}
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
			runes++
		} else {
			flush()
		}
	}
	flush()
	return tokens
}
