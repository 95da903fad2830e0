// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scoring

import (
	"strings"

	"github.com/pdiddy/wordscore/pkg/types"
)

// ParseStats counts how the lines of one reply were handled.
type ParseStats struct {
	Lines      int
	Accepted   int
	Ignored    int
	Duplicates int
}

// Parse extracts word:score records from a backend reply. Lines without a
// separator, with an empty word, or whose score is not an integer are
// dropped; the backend may surround the payload with commentary. A word
// repeated within one reply keeps its last score at the position of its
// first occurrence.
func Parse(raw string) []types.ScoreRecord {
	records, _ := ParseWithStats(raw)
	return records
}

// ParseWithStats is Parse with line accounting.
func ParseWithStats(raw string) ([]types.ScoreRecord, ParseStats) {
	var stats ParseStats
	var records []types.ScoreRecord
	pos := make(map[string]int)

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, stats
	}

	for _, line := range strings.Split(trimmed, "\n") {
		stats.Lines++
		rec, ok := types.ParseRecord(line)
		if !ok {
			stats.Ignored++
			continue
		}
		stats.Accepted++

		if i, seen := pos[rec.Word]; seen {
			records[i].Score = rec.Score
			stats.Duplicates++
			continue
		}
		pos[rec.Word] = len(records)
		records = append(records, rec)
	}

	return records, stats
}
