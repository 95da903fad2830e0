// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collate orders words by a language's alphabet rather than by
// Unicode code point.
//
// Turkish returns a pure table-driven collator that needs no locale data.
// System wraps golang.org/x/text/collate for any other language and can be
// used for Turkish as well; for Turkish words both produce the same order.
// Every collator folds case before comparing and breaks exact ties on the
// original string so that sorting is deterministic.
package collate

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// Collator compares and sorts words.
type Collator interface {
	// Compare returns -1, 0, or +1 depending on whether a sorts before,
	// equal to, or after b.
	Compare(a, b string) int

	// Sort orders words in place.
	Sort(words []string)

	// Name identifies the collation (e.g. "tr", "de", "none").
	Name() string
}

const (
	// NameTurkish selects the table-driven Turkish collator.
	NameTurkish = "tr"
	// NameCodePoint selects plain code point order.
	NameCodePoint = "none"
)

// ForLanguage returns the collator for name. An empty name or "tr" yields
// the Turkish table, "none" yields code point order, and any other BCP 47
// tag yields the x/text collator for that language.
func ForLanguage(name string) (Collator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameTurkish, "tr-tr", "tr_tr":
		return Turkish(), nil
	case NameCodePoint, "codepoint":
		return CodePoint(), nil
	}

	tag, err := language.Parse(name)
	if err != nil {
		return nil, fmt.Errorf("unknown collation %q: %w", name, err)
	}
	return System(tag), nil
}

// codePointCollator orders by raw string comparison.
type codePointCollator struct{}

// CodePoint returns a collator that compares strings byte-wise.
func CodePoint() Collator {
	return codePointCollator{}
}

func (codePointCollator) Compare(a, b string) int { return strings.Compare(a, b) }
func (codePointCollator) Sort(words []string)     { sort.Strings(words) }
func (codePointCollator) Name() string            { return NameCodePoint }
