// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter selects the words of a scores log that reach a threshold
// and writes them in collation order, one per line.
package filter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/wordscore/internal/collate"
	"github.com/pdiddy/wordscore/internal/store"
	"github.com/pdiddy/wordscore/pkg/types"
)

// Summary holds counts from a filtering pass.
type Summary struct {
	Lines      int `json:"lines" yaml:"lines"`
	Skipped    int `json:"skipped" yaml:"skipped"`
	Malformed  int `json:"malformed" yaml:"malformed"`
	Duplicates int `json:"duplicates" yaml:"duplicates"`
	Unique     int `json:"unique" yaml:"unique"`
	Kept       int `json:"kept" yaml:"kept"`
}

// Report is the YAML document written to FilterConfig.ReportPath.
type Report struct {
	Input     string    `yaml:"input"`
	Output    string    `yaml:"output"`
	MinScore  int       `yaml:"min_score"`
	Collation string    `yaml:"collation"`
	Summary   Summary   `yaml:"summary"`
	CreatedAt time.Time `yaml:"created_at"`
}

// Apply returns the words whose score is at least minScore, ordered by c.
// The result depends only on the mapping, never on how it was built.
func Apply(scores map[string]int, minScore int, c collate.Collator) []string {
	kept := make([]string, 0, len(scores))
	for w, s := range scores {
		if s >= minScore {
			kept = append(kept, w)
		}
	}
	c.Sort(kept)
	return kept
}

// Run loads the scores log at cfg.InputFile, keeps the words scoring at
// least cfg.MinScore, and replaces cfg.OutputFile with them. The output is
// written to a temporary file and renamed into place, so readers never see
// a partial list. Running twice on the same log yields identical bytes.
func Run(ctx context.Context, cfg types.FilterConfig, logger *slog.Logger) (Summary, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	c, err := collate.ForLanguage(cfg.Collation)
	if err != nil {
		return Summary{}, err
	}

	st, stats, err := store.LoadFile(cfg.InputFile, logger)
	if err != nil {
		return Summary{}, err
	}
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	kept := Apply(st.Snapshot(), cfg.MinScore, c)
	summary := Summary{
		Lines:      stats.Lines,
		Skipped:    stats.Skipped,
		Malformed:  stats.Malformed,
		Duplicates: stats.Duplicates,
		Unique:     st.Len(),
		Kept:       len(kept),
	}

	if err := writeAtomic(cfg.OutputFile, joinLines(kept)); err != nil {
		return summary, err
	}
	logger.Info("wrote filtered words", "path", cfg.OutputFile, "kept", summary.Kept,
		"unique", summary.Unique, "min_score", cfg.MinScore, "collation", c.Name())

	if cfg.ReportPath != "" {
		report := Report{
			Input:     cfg.InputFile,
			Output:    cfg.OutputFile,
			MinScore:  cfg.MinScore,
			Collation: c.Name(),
			Summary:   summary,
			CreatedAt: time.Now().UTC(),
		}
		if err := WriteReport(cfg.ReportPath, report); err != nil {
			return summary, err
		}
	}

	return summary, nil
}

// WriteReport marshals r as YAML to path.
func WriteReport(path string, r Report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return writeAtomic(path, data)
}

func joinLines(words []string) []byte {
	var b strings.Builder
	for _, w := range words {
		b.WriteString(w)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// writeAtomic writes data to a temporary file beside path and renames it
// over path.
func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temporary file for %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("setting mode on %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
