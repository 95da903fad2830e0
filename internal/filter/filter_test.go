// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/wordscore/internal/collate"
	"github.com/pdiddy/wordscore/pkg/types"
)

func TestApply(t *testing.T) {
	scores := map[string]int{
		"isim": 95,
		"çay":  92,
		"ışık": 90,
		"cay":  100,
		"elma": 89,
		"zil":  -1,
	}

	tests := []struct {
		name     string
		minScore int
		c        collate.Collator
		want     []string
	}{
		{name: "turkish order", minScore: 90, c: collate.Turkish(), want: []string{"cay", "çay", "ışık", "isim"}},
		{name: "threshold is inclusive", minScore: 89, c: collate.Turkish(), want: []string{"cay", "çay", "elma", "ışık", "isim"}},
		{name: "threshold above all", minScore: 101, c: collate.Turkish(), want: []string{}},
		{name: "negative threshold keeps all", minScore: -5, c: collate.Turkish(), want: []string{"cay", "çay", "elma", "ışık", "isim", "zil"}},
		{name: "code point order", minScore: 90, c: collate.CodePoint(), want: []string{"cay", "isim", "çay", "ışık"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Apply(scores, tt.minScore, tt.c))
		})
	}
}

func TestApplyEmpty(t *testing.T) {
	assert.Empty(t, Apply(nil, 90, collate.Turkish()))
}

func writeLog(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "all_words_scores.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	cfg := types.FilterConfig{
		InputFile:  writeLog(t, dir, "isim:95\nçay:40\nçay:92\n\nfoo:95\nbar\nışık:90\ncay:100\nelma:89\n"),
		OutputFile: filepath.Join(dir, "filtered_words.txt"),
		MinScore:   90,
	}

	summary, err := Run(context.Background(), cfg, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Equal(t, "cay\nçay\nfoo\nışık\nisim\n", string(data))

	assert.Equal(t, Summary{Lines: 9, Skipped: 2, Malformed: 1, Duplicates: 1, Unique: 6, Kept: 5}, summary)
}

func TestRunIdempotent(t *testing.T) {
	dir := t.TempDir()
	cfg := types.FilterConfig{
		InputFile:  writeLog(t, dir, "zeytin:99\nüzüm:91\nuzun:93\nşeker:97\nsaat:90\nğ:95\ng:95\n"),
		OutputFile: filepath.Join(dir, "out.txt"),
		MinScore:   90,
	}

	_, err := Run(context.Background(), cfg, nil)
	require.NoError(t, err)
	first, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)

	_, err = Run(context.Background(), cfg, nil)
	require.NoError(t, err)
	second, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "g\nğ\nsaat\nşeker\nuzun\nüzüm\nzeytin\n", string(first))
}

func TestRunReplacesExistingOutput(t *testing.T) {
	dir := t.TempDir()
	cfg := types.FilterConfig{
		InputFile:  writeLog(t, dir, "elma:10\n"),
		OutputFile: filepath.Join(dir, "out.txt"),
		MinScore:   90,
	}
	require.NoError(t, os.WriteFile(cfg.OutputFile, []byte("stale\nwords\n"), 0o644))

	summary, err := Run(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Zero(t, summary.Kept)

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Empty(t, data)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temporary files left behind")
}

func TestRunMissingInput(t *testing.T) {
	dir := t.TempDir()
	cfg := types.FilterConfig{
		InputFile:  filepath.Join(dir, "missing.txt"),
		OutputFile: filepath.Join(dir, "out.txt"),
		MinScore:   90,
	}

	_, err := Run(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, statErr := os.Stat(cfg.OutputFile)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestRunUnknownCollation(t *testing.T) {
	dir := t.TempDir()
	cfg := types.FilterConfig{
		InputFile:  writeLog(t, dir, "elma:95\n"),
		OutputFile: filepath.Join(dir, "out.txt"),
		Collation:  "not a language!",
	}

	_, err := Run(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown collation")
}

func TestRunWritesReport(t *testing.T) {
	dir := t.TempDir()
	cfg := types.FilterConfig{
		InputFile:  writeLog(t, dir, "elma:95\narmut:40\n"),
		OutputFile: filepath.Join(dir, "out.txt"),
		MinScore:   90,
		ReportPath: filepath.Join(dir, "report.yaml"),
	}

	_, err := Run(context.Background(), cfg, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.ReportPath)
	require.NoError(t, err)

	var report Report
	require.NoError(t, yaml.Unmarshal(data, &report))
	assert.Equal(t, cfg.InputFile, report.Input)
	assert.Equal(t, 90, report.MinScore)
	assert.Equal(t, collate.NameTurkish, report.Collation)
	assert.Equal(t, Summary{Lines: 2, Unique: 2, Kept: 1}, report.Summary)
	assert.False(t, report.CreatedAt.IsZero())
}
