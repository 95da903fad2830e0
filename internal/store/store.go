// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store holds the word-to-score mapping built during a scoring run
// and persists it as an append-only word:score log.
//
// A word seen more than once keeps the highest score it was given, so the
// final mapping does not depend on the order in which batches arrive.
package store

import (
	"sort"

	"github.com/pdiddy/wordscore/pkg/types"
)

// Store maps each word to its current score. The zero value is not usable;
// call New.
type Store struct {
	scores map[string]int
}

// New returns an empty Store.
func New() *Store {
	return &Store{scores: make(map[string]int)}
}

// Merge folds records into the store. A word already present keeps the
// larger of its existing and new score. Merge returns how many records
// named a word the store already held.
func (s *Store) Merge(records []types.ScoreRecord) int {
	dups := 0
	for _, r := range records {
		if s.put(r) {
			dups++
		}
	}
	return dups
}

// put applies max-wins for a single record and reports whether the word
// was already present.
func (s *Store) put(r types.ScoreRecord) bool {
	cur, ok := s.scores[r.Word]
	if !ok || r.Score > cur {
		s.scores[r.Word] = r.Score
	}
	return ok
}

// Get returns the score for word.
func (s *Store) Get(word string) (int, bool) {
	v, ok := s.scores[word]
	return v, ok
}

// Has reports whether word has a score.
func (s *Store) Has(word string) bool {
	_, ok := s.scores[word]
	return ok
}

// Len returns the number of distinct words.
func (s *Store) Len() int {
	return len(s.scores)
}

// Snapshot returns a copy of the mapping.
func (s *Store) Snapshot() map[string]int {
	out := make(map[string]int, len(s.scores))
	for w, v := range s.scores {
		out[w] = v
	}
	return out
}

// Records returns the contents sorted by word code point, for stable dumps.
func (s *Store) Records() []types.ScoreRecord {
	out := make([]types.ScoreRecord, 0, len(s.scores))
	for w, v := range s.scores {
		out = append(out, types.ScoreRecord{Word: w, Score: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Word < out[j].Word })
	return out
}
