// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package wordlist reads the inputs of a scoring run: the word list and
// the prompt file.
package wordlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdiddy/wordscore/pkg/types"
)

// ErrEmptyPrompt is returned when the prompt file holds only whitespace.
var ErrEmptyPrompt = errors.New("prompt file is empty")

// Read returns the non-blank lines of r, trimmed and NFC-normalized, in
// input order. Duplicates are kept.
func Read(r io.Reader) ([]string, error) {
	var words []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		w := types.NormalizeWord(sc.Text())
		if w == "" {
			continue
		}
		words = append(words, w)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// ReadWords reads a word list file, one word per line.
func ReadWords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading word list %s: %w", path, err)
	}
	defer f.Close()

	words, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading word list %s: %w", path, err)
	}
	return words, nil
}

// ReadPrompt returns the trimmed contents of the prompt file.
func ReadPrompt(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading prompt file %s: %w", path, err)
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", fmt.Errorf("%s: %w", path, ErrEmptyPrompt)
	}
	return prompt, nil
}
