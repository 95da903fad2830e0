// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scoring sends a word list to a scoring backend in fixed-size
// batches, parses the replies into word:score records, and persists every
// batch before the next one starts.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/pdiddy/wordscore/internal/store"
)

var (
	// ErrInvalidBatchSize is returned when the batch size is below one.
	ErrInvalidBatchSize = errors.New("batch size must be at least 1")

	// ErrMalformedReply marks a backend reply whose envelope lacks the
	// message content. The batch yields no records but the run goes on.
	ErrMalformedReply = errors.New("malformed backend reply")
)

// Scorer scores one batch of words. It returns the backend's free-form
// text, expected to contain word:score lines. Implementations wrap
// ErrMalformedReply when the reply arrived but carried no content.
type Scorer interface {
	Score(ctx context.Context, words []string, prompt string) (string, error)
}

// ScorerFunc adapts a function to Scorer.
type ScorerFunc func(ctx context.Context, words []string, prompt string) (string, error)

// Score calls f.
func (f ScorerFunc) Score(ctx context.Context, words []string, prompt string) (string, error) {
	return f(ctx, words, prompt)
}

// Progress describes the batch about to be scored.
type Progress struct {
	Batch   int // 1-based
	Batches int
	Size    int
}

// Observer receives a Progress before each batch call.
type Observer func(Progress)

// Options configures Run.
type Options struct {
	// BatchSize is the maximum number of words per backend call.
	BatchSize int

	// MaxRetries is the number of extra attempts for a failed batch call.
	MaxRetries int

	// Log receives each batch's records. Nil keeps results in memory only.
	Log *store.Log

	// Seed holds scores from an earlier run. Its words are not sent again
	// and it becomes the returned store.
	Seed *store.Store

	// Observer is told about every batch. Nil disables progress reports.
	Observer Observer

	// Logger receives warnings and debug output. Nil discards them.
	Logger *slog.Logger
}

// Summary holds counts from a scoring run.
type Summary struct {
	Words        int
	Skipped      int
	Batches      int
	EmptyBatches int
	Records      int
	Duplicates   int
	Retries      int
}

// backoffBase controls the base duration for exponential backoff between
// batch retries. Tests override this to avoid real sleeps.
var backoffBase = time.Second

// Run scores words in contiguous batches of at most opts.BatchSize, in
// input order, one backend call at a time. After each batch the parsed
// records are merged into the store (highest score wins) and appended to
// opts.Log before the next batch starts, so an interrupted run leaves a
// loadable log of every completed batch.
//
// A batch call that still fails after opts.MaxRetries retries aborts the
// run; the returned store holds everything merged so far. A reply wrapping
// ErrMalformedReply is logged and counted, and contributes no records.
func Run(ctx context.Context, scorer Scorer, words []string, prompt string, opts Options) (*store.Store, Summary, error) {
	st := opts.Seed
	if st == nil {
		st = store.New()
	}
	if opts.BatchSize < 1 {
		return st, Summary{}, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, opts.BatchSize)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	pending := words
	summary := Summary{Words: len(words)}
	if opts.Seed != nil {
		pending = make([]string, 0, len(words))
		for _, w := range words {
			if opts.Seed.Has(w) {
				summary.Skipped++
				continue
			}
			pending = append(pending, w)
		}
	}

	total := (len(pending) + opts.BatchSize - 1) / opts.BatchSize

	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return st, summary, err
		}

		start := i * opts.BatchSize
		end := min(start+opts.BatchSize, len(pending))
		batch := pending[start:end]

		if opts.Observer != nil {
			opts.Observer(Progress{Batch: i + 1, Batches: total, Size: len(batch)})
		}

		raw, retries, err := callWithRetry(ctx, scorer, batch, prompt, opts.MaxRetries, logger)
		summary.Retries += retries
		summary.Batches++

		if errors.Is(err, ErrMalformedReply) {
			logger.Warn("backend reply has no content, batch produced no scores",
				"batch", i+1, "words", len(batch), "error", err)
			summary.EmptyBatches++
			continue
		}
		if err != nil {
			return st, summary, fmt.Errorf("scoring batch %d/%d: %w", i+1, total, err)
		}

		logger.Debug("raw backend reply", "batch", i+1, "text", raw)

		records, stats := ParseWithStats(raw)
		if stats.Ignored > 0 {
			logger.Debug("ignored reply lines", "batch", i+1, "lines", stats.Ignored)
		}
		if len(records) == 0 {
			logger.Warn("backend reply contained no word:score lines", "batch", i+1)
		}

		summary.Duplicates += st.Merge(records)
		summary.Records += len(records)

		if opts.Log != nil {
			if err := opts.Log.Append(records); err != nil {
				return st, summary, fmt.Errorf("persisting batch %d/%d: %w", i+1, total, err)
			}
		}
	}

	return st, summary, nil
}

// callWithRetry calls the scorer with exponential backoff. Malformed
// replies are returned at once since repeating the call would not help.
func callWithRetry(ctx context.Context, scorer Scorer, batch []string, prompt string, maxRetries int, logger *slog.Logger) (string, int, error) {
	maxRetries = max(maxRetries, 0)
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			logger.Warn("batch call failed, retrying", "attempt", attempt, "max", maxRetries, "backoff", backoff, "error", lastErr)
			select {
			case <-ctx.Done():
				return "", attempt - 1, ctx.Err()
			case <-time.After(backoff):
			}
		}

		raw, err := scorer.Score(ctx, batch, prompt)
		if err == nil || errors.Is(err, ErrMalformedReply) {
			return raw, attempt, err
		}
		lastErr = err
	}
	if maxRetries == 0 {
		return "", 0, lastErr
	}
	return "", maxRetries, fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}
