// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index keeps the scores of every run in a SQLite database so
// results from several word lists can be combined, queried, and exported.
// A word keeps the highest score any run gave it.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/wordscore/internal/collate"
	"github.com/pdiddy/wordscore/internal/store"
	"github.com/pdiddy/wordscore/pkg/types"
)

const (
	dbFile            = "wordscore.db"
	defaultMaxResults = 50
)

// Store manages the score index database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
	collator   collate.Collator
	logger     *slog.Logger
}

// NewStore opens or creates the index database at cfg.Dir/wordscore.db
// and creates the schema if it does not exist.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	c, err := collate.ForLanguage(cfg.Collation)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{
		db:         db,
		dir:        cfg.Dir,
		maxResults: maxResults,
		collator:   c,
		logger:     slog.Default(),
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// SetLogger replaces the logger that receives warnings about malformed
// log lines during Ingest.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			lines INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			words INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS scores (
			word TEXT PRIMARY KEY,
			score INTEGER NOT NULL,
			run_id TEXT NOT NULL REFERENCES runs(id),
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_score ON scores(score)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from one Ingest call.
type IngestSummary struct {
	RunID     string
	Lines     int
	Skipped   int
	Inserted  int
	Raised    int
	Unchanged int
}

// Words returns the number of distinct words the log contributed.
func (s IngestSummary) Words() int {
	return s.Inserted + s.Raised + s.Unchanged
}

// Ingest loads the scores log at logPath and merges it into the index in a
// single transaction. New words are inserted; existing words take the new
// score only when it is higher. Each call is recorded as a run with a fresh
// ID. A one-line summary is written to w.
func (s *Store) Ingest(ctx context.Context, logPath string, w io.Writer) (IngestSummary, error) {
	scores, stats, err := store.LoadFile(logPath, s.logger)
	if err != nil {
		return IngestSummary{}, err
	}

	summary := IngestSummary{
		RunID:   uuid.NewString(),
		Lines:   stats.Lines,
		Skipped: stats.Skipped,
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, source, lines, skipped, words, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		summary.RunID, logPath, stats.Lines, stats.Skipped, scores.Len(), now,
	)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("recording run: %w", err)
	}

	lookup, err := tx.PrepareContext(ctx, `SELECT score FROM scores WHERE word = ?`)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("preparing lookup: %w", err)
	}
	defer lookup.Close()

	upsert, err := tx.PrepareContext(ctx,
		`INSERT INTO scores (word, score, run_id, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(word) DO UPDATE SET
			score = max(scores.score, excluded.score),
			run_id = excluded.run_id,
			updated_at = excluded.updated_at
		 WHERE excluded.score > scores.score`)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("preparing upsert: %w", err)
	}
	defer upsert.Close()

	for _, rec := range scores.Records() {
		var existing int
		err := lookup.QueryRowContext(ctx, rec.Word).Scan(&existing)
		switch {
		case err == sql.ErrNoRows:
			summary.Inserted++
		case err != nil:
			return IngestSummary{}, fmt.Errorf("looking up %q: %w", rec.Word, err)
		case rec.Score > existing:
			summary.Raised++
		default:
			summary.Unchanged++
			continue
		}

		if _, err := upsert.ExecContext(ctx, rec.Word, rec.Score, summary.RunID, now); err != nil {
			return IngestSummary{}, fmt.Errorf("upserting %q: %w", rec.Word, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return IngestSummary{}, fmt.Errorf("committing run: %w", err)
	}

	fmt.Fprintf(w, "run %s: inserted: %d, raised: %d, unchanged: %d, skipped lines: %d\n",
		summary.RunID, summary.Inserted, summary.Raised, summary.Unchanged, summary.Skipped)

	return summary, nil
}

// Run is one recorded Ingest call.
type Run struct {
	ID        string    `json:"id" yaml:"id"`
	Source    string    `json:"source" yaml:"source"`
	Lines     int       `json:"lines" yaml:"lines"`
	Skipped   int       `json:"skipped" yaml:"skipped"`
	Words     int       `json:"words" yaml:"words"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Runs lists recorded runs, oldest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, lines, skipped, words, created_at FROM runs ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r       Run
			created string
		)
		if err := rows.Scan(&r.ID, &r.Source, &r.Lines, &r.Skipped, &r.Words, &created); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
