// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collate

import (
	"bytes"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// systemCollator delegates to the CLDR tables in golang.org/x/text/collate
// with numeric ordering of digit runs. collate.Collator keeps internal
// buffers, so access is serialized.
type systemCollator struct {
	tag language.Tag

	mu sync.Mutex
	c  *collate.Collator
}

// System returns an x/text collator for tag.
func System(tag language.Tag) Collator {
	return &systemCollator{
		tag: tag,
		c:   collate.New(tag, collate.Numeric),
	}
}

func (s *systemCollator) Name() string { return s.tag.String() }

func (s *systemCollator) fold(w string) string {
	return cases.Lower(s.tag).String(norm.NFC.String(w))
}

func (s *systemCollator) Compare(a, b string) int {
	fa, fb := s.fold(a), s.fold(b)

	s.mu.Lock()
	c := s.c.CompareString(fa, fb)
	s.mu.Unlock()

	if c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func (s *systemCollator) Sort(words []string) {
	s.mu.Lock()
	var buf collate.Buffer
	keys := make([][]byte, len(words))
	for i, w := range words {
		keys[i] = s.c.KeyFromString(&buf, s.fold(w))
	}
	s.mu.Unlock()

	sort.Sort(byBytesKey{words: words, keys: keys})
}

type byBytesKey struct {
	words []string
	keys  [][]byte
}

func (s byBytesKey) Len() int { return len(s.words) }
func (s byBytesKey) Less(i, j int) bool {
	if c := bytes.Compare(s.keys[i], s.keys[j]); c != 0 {
		return c < 0
	}
	return s.words[i] < s.words[j]
}
func (s byBytesKey) Swap(i, j int) {
	s.words[i], s.words[j] = s.words[j], s.words[i]
	s.keys[i], s.keys[j] = s.keys[j], s.keys[i]
}
