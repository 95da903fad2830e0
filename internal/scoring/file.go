// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/pdiddy/wordscore/internal/store"
	"github.com/pdiddy/wordscore/internal/wordlist"
	"github.com/pdiddy/wordscore/pkg/types"
)

// ScoreFile runs a scoring pass described by cfg: it reads the word list and
// prompt, prepares the scores log, and calls Run. Input files are read
// before the log is touched, so a missing input leaves no side effects.
//
// Without cfg.Resume the log is truncated. With it, scores already in the
// log are loaded, their words are skipped, and new batches are appended.
func ScoreFile(ctx context.Context, scorer Scorer, cfg types.ScoringConfig, observer Observer, logger *slog.Logger) (*store.Store, Summary, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	words, err := wordlist.ReadWords(cfg.InputFile)
	if err != nil {
		return nil, Summary{}, err
	}
	logger.Info("read word list", "path", cfg.InputFile, "words", len(words))

	prompt, err := wordlist.ReadPrompt(cfg.PromptFile)
	if err != nil {
		return nil, Summary{}, err
	}
	logger.Debug("prompt", "path", cfg.PromptFile, "text", prompt)

	if cfg.BatchSize < 1 {
		return nil, Summary{}, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, cfg.BatchSize)
	}

	mode := store.Truncate
	var seed *store.Store
	if cfg.Resume {
		seed, err = loadSeed(cfg.ScoresFile, logger)
		if err != nil {
			return nil, Summary{}, err
		}
		mode = store.Append
	}

	scoresLog, err := store.OpenLog(cfg.ScoresFile, mode)
	if err != nil {
		return nil, Summary{}, err
	}

	return Run(ctx, scorer, words, prompt, Options{
		BatchSize:  cfg.BatchSize,
		MaxRetries: cfg.MaxRetries,
		Log:        scoresLog,
		Seed:       seed,
		Observer:   observer,
		Logger:     logger,
	})
}

// loadSeed reads an existing scores log for resumption. A missing log
// resumes from nothing.
func loadSeed(path string, logger *slog.Logger) (*store.Store, error) {
	seed, stats, err := store.LoadFile(path, logger)
	if errors.Is(err, os.ErrNotExist) {
		return store.New(), nil
	}
	if err != nil {
		return nil, err
	}
	logger.Info("resuming from scores log", "path", path, "words", seed.Len(), "skipped_lines", stats.Skipped)
	return seed, nil
}
