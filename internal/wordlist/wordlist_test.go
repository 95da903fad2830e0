// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wordlist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "one word per line",
			input: "elma\narmut\nkiraz\n",
			want:  []string{"elma", "armut", "kiraz"},
		},
		{
			name:  "blank lines and surrounding space dropped",
			input: "\n  elma  \n\t\n\r\narmut\r\n",
			want:  []string{"elma", "armut"},
		},
		{
			name:  "duplicates kept in order",
			input: "elma\narmut\nelma\n",
			want:  []string{"elma", "armut", "elma"},
		},
		{
			name:  "decomposed letters are composed",
			input: "çay\n",
			want:  []string{"çay"},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadWordsMissingFile(t *testing.T) {
	_, err := ReadWords(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "reading word list")
}

func TestReadPrompt(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "prompt.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n  Score each word 0-100.\nReply word:score.  \n\n"), 0o644))
	got, err := ReadPrompt(path)
	require.NoError(t, err)
	assert.Equal(t, "Score each word 0-100.\nReply word:score.", got)

	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte(" \n\t"), 0o644))
	_, err = ReadPrompt(empty)
	assert.ErrorIs(t, err, ErrEmptyPrompt)

	_, err = ReadPrompt(filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
