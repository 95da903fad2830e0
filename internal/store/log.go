// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pdiddy/wordscore/pkg/types"
)

// OpenMode selects what OpenLog does with an existing file.
type OpenMode int

const (
	// Truncate empties the file so the run starts a fresh log.
	Truncate OpenMode = iota
	// Append keeps existing lines; new batches are added after them.
	Append
)

// Log is the append-only word:score file written after every batch.
// Each Append opens, writes, syncs, and closes the file, so a crash between
// batches leaves only whole lines on disk.
type Log struct {
	path string
}

// OpenLog prepares the log at path. With Truncate an existing file is
// emptied; with Append it is created if missing and otherwise left alone.
func OpenLog(path string, mode OpenMode) (*Log, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if mode == Truncate {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening scores log %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("closing scores log %s: %w", path, err)
	}
	return &Log{path: path}, nil
}

// Path returns the file the log writes to.
func (l *Log) Path() string {
	return l.path
}

// Append writes one word:score line per record to the end of the log in a
// single write. An empty batch leaves the file untouched.
func (l *Log) Append(records []types.ScoreRecord) (err error) {
	if len(records) == 0 {
		return nil
	}

	var b strings.Builder
	for _, r := range records {
		b.WriteString(r.String())
		b.WriteByte('\n')
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("opening scores log %s: %w", l.path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing scores log %s: %w", l.path, cerr)
		}
	}()

	if _, err := io.WriteString(f, b.String()); err != nil {
		return fmt.Errorf("appending to scores log %s: %w", l.path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("syncing scores log %s: %w", l.path, err)
	}
	return nil
}

// LoadStats counts what Load saw while reading a log.
type LoadStats struct {
	Lines      int `json:"lines" yaml:"lines"`
	Skipped    int `json:"skipped" yaml:"skipped"`
	Malformed  int `json:"malformed" yaml:"malformed"`
	Duplicates int `json:"duplicates" yaml:"duplicates"`
}

// Load rebuilds a Store from a word:score log using the same max-wins
// policy as Merge. Blank lines are skipped. Lines without a separator or
// with a non-integer score are skipped with a line-numbered warning on
// logger. Only read errors are returned.
func Load(r io.Reader, logger *slog.Logger) (*Store, LoadStats, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := New()
	var stats LoadStats

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		stats.Lines++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			stats.Skipped++
			continue
		}

		rec, ok := types.ParseRecord(line)
		if !ok {
			logger.Warn("skipping malformed line", "line", stats.Lines, "reason", malformedReason(line), "text", line)
			stats.Skipped++
			stats.Malformed++
			continue
		}

		if s.put(rec) {
			stats.Duplicates++
		}
	}
	if err := sc.Err(); err != nil {
		return nil, stats, fmt.Errorf("reading scores log: %w", err)
	}
	return s, stats, nil
}

// LoadFile opens path and calls Load.
func LoadFile(path string, logger *slog.Logger) (*Store, LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("opening scores log %s: %w", path, err)
	}
	defer f.Close()
	return Load(f, logger)
}

func malformedReason(line string) string {
	word, _, ok := strings.Cut(line, types.Separator)
	switch {
	case !ok:
		return "missing separator"
	case strings.TrimSpace(word) == "":
		return "empty word"
	default:
		return "score is not an integer"
	}
}
