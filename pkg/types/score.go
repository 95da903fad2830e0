// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the wordscore pipeline:
// scored words, and the configuration of the scoring, filtering, and index
// stages.
package types

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Separator splits a word from its score in backend replies and in the scores log.
const Separator = ":"

// ScoreRecord is one word with the integer score the backend assigned to it.
type ScoreRecord struct {
	Word  string `json:"word" yaml:"word"`
	Score int    `json:"score" yaml:"score"`
}

// String renders the record in its log form, word:score.
func (r ScoreRecord) String() string {
	return r.Word + Separator + strconv.Itoa(r.Score)
}

// NormalizeWord trims surrounding whitespace and composes the word to NFC so
// that decomposed input (c + U+0327) and precomposed input (ç) are one word.
func NormalizeWord(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// ParseRecord splits a single word:score line. It reports false when the
// line has no separator, an empty word, or a score that is not an integer.
func ParseRecord(line string) (ScoreRecord, bool) {
	word, scoreStr, ok := strings.Cut(line, Separator)
	if !ok {
		return ScoreRecord{}, false
	}
	word = NormalizeWord(word)
	if word == "" {
		return ScoreRecord{}, false
	}
	score, err := strconv.Atoi(strings.TrimSpace(scoreStr))
	if err != nil {
		return ScoreRecord{}, false
	}
	return ScoreRecord{Word: word, Score: score}, true
}
