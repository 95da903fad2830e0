//go:build mage

package main

import (
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Pipeline groups targets that run the CLI on the files in the working
// directory. Inputs come from the WORDS, MIN_SCORE, and BATCH_SIZE
// environment variables.
type Pipeline mg.Namespace

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Score scores $WORDS (default words.txt), resuming an interrupted run.
func (Pipeline) Score() error {
	mg.Deps(Build)
	return sh.RunV("bin/wordscore", "score", envOr("WORDS", "words.txt"),
		"--batch-size", envOr("BATCH_SIZE", "100"), "--resume")
}

// Filter writes filtered_words.txt from all_words_scores.txt.
func (Pipeline) Filter() error {
	mg.Deps(Build)
	return sh.RunV("bin/wordscore", "filter", "--min-score", envOr("MIN_SCORE", "90"))
}

// Index merges all_words_scores.txt into the score index and exports it.
func (Pipeline) Index() error {
	mg.Deps(Build)
	if err := sh.RunV("bin/wordscore", "index", "store"); err != nil {
		return err
	}
	return sh.RunV("bin/wordscore", "index", "export")
}

// All runs the whole pipeline.
func (Pipeline) All() {
	mg.SerialDeps(Pipeline.Score, Pipeline.Filter, Pipeline.Index)
}
