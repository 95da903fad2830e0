// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// QueryOptions holds parameters for index queries.
type QueryOptions struct {
	// MinScore is the inclusive lower bound on score.
	MinScore int

	// Prefix keeps only words that start with it, compared exactly.
	Prefix string

	// Limit caps the result count. Zero uses the store default.
	Limit int
}

// Entry is one indexed word.
type Entry struct {
	Word      string    `json:"word" yaml:"word"`
	Score     int       `json:"score" yaml:"score"`
	RunID     string    `json:"run_id" yaml:"run_id"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Query returns indexed words scoring at least opts.MinScore, ordered by
// the store's collator. SQLite cannot order by the collation, so matching
// rows are sorted in memory before the limit is applied.
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]Entry, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT word, score, run_id, updated_at FROM scores WHERE score >= ?`)
	args = append(args, opts.MinScore)

	if opts.Prefix != "" {
		qb.WriteString(` AND substr(word, 1, length(?)) = ?`)
		args = append(args, opts.Prefix, opts.Prefix)
	}

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	byWord := make(map[string]Entry)
	var words []string
	for rows.Next() {
		var (
			e       Entry
			updated string
		)
		if err := rows.Scan(&e.Word, &e.Score, &e.RunID, &updated); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		e.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		byWord[e.Word] = e
		words = append(words, e.Word)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	s.collator.Sort(words)
	if len(words) > limit {
		words = words[:limit]
	}

	entries := make([]Entry, len(words))
	for i, w := range words {
		entries[i] = byWord[w]
	}
	return entries, nil
}
