// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collate

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Key classes, lowest first: symbols, then numbers, then letters.
const (
	classSymbol uint8 = iota
	classNumber
	classLetter
)

// letterKey is the two-part key of a Turkish letter: the Latin base letter
// it sorts next to, and a marker placing it after that base.
type letterKey struct {
	base   rune
	marker rune
}

// turkishLetters holds the letters whose position differs from their
// Latin base. Everything else keys as (rune, 0). The result is
// a b c ç d e f g ğ h ı i j k l m n o ö p r s ş t u ü v y z.
var turkishLetters = map[rune]letterKey{
	'ç': {'c', 1},
	'ğ': {'g', 1},
	'ı': {'i', 0},
	'i': {'i', 1},
	'ö': {'o', 1},
	'ş': {'s', 1},
	'ü': {'u', 1},
}

// unit is one primary collation element: a symbol, a run of ASCII digits,
// or a letter.
type unit struct {
	class  uint8
	digits string // number value without leading zeros
	weight rune   // base<<2 | marker for letters, the rune for symbols
}

// Key is the sort key of one word. Primary elements are compared first
// across the whole word; accents outside the Turkish alphabet (â, î, û)
// only break ties between otherwise equal words.
type Key struct {
	primary   []unit
	secondary []rune
	raw       string
}

// turkishCollator implements Collator with the explicit letter table.
type turkishCollator struct{}

// Turkish returns the table-driven Turkish collator.
func Turkish() Collator {
	return turkishCollator{}
}

func (turkishCollator) Name() string { return NameTurkish }

func (turkishCollator) Compare(a, b string) int {
	return TurkishKey(a).Compare(TurkishKey(b))
}

func (turkishCollator) Sort(words []string) {
	keys := make([]Key, len(words))
	for i, w := range words {
		keys[i] = TurkishKey(w)
	}
	sort.Sort(byKey{words: words, keys: keys})
}

type byKey struct {
	words []string
	keys  []Key
}

func (s byKey) Len() int           { return len(s.words) }
func (s byKey) Less(i, j int) bool { return s.keys[i].Compare(s.keys[j]) < 0 }
func (s byKey) Swap(i, j int) {
	s.words[i], s.words[j] = s.words[j], s.words[i]
	s.keys[i], s.keys[j] = s.keys[j], s.keys[i]
}

// foldTurkish lower-cases with Turkish rules (I -> ı, İ -> i). A Caser is
// stateful, so each call gets its own.
func foldTurkish(s string) string {
	return cases.Lower(language.Turkish).String(norm.NFC.String(s))
}

// TurkishKey builds the collation key for word.
func TurkishKey(word string) Key {
	k := Key{raw: word}
	runes := []rune(foldTurkish(word))

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if r >= '0' && r <= '9' {
			j := i
			for j < len(runes) && runes[j] >= '0' && runes[j] <= '9' {
				j++
			}
			k.primary = append(k.primary, unit{class: classNumber, digits: trimZeros(string(runes[i:j]))})
			k.secondary = append(k.secondary, 0)
			i = j - 1
			continue
		}

		if lk, ok := turkishLetters[r]; ok {
			k.primary = append(k.primary, unit{class: classLetter, weight: lk.base<<2 | lk.marker})
			k.secondary = append(k.secondary, 0)
			continue
		}

		if unicode.IsLetter(r) {
			base, accent := splitAccent(r)
			weight := base << 2
			if lk, ok := turkishLetters[base]; ok {
				// î sorts as an accented i, not as ı.
				weight = lk.base<<2 | lk.marker
			}
			k.primary = append(k.primary, unit{class: classLetter, weight: weight})
			k.secondary = append(k.secondary, accent)
			continue
		}

		if unicode.Is(unicode.Mn, r) {
			// Stray combining mark: attach to the previous element.
			if n := len(k.secondary); n > 0 {
				k.secondary[n-1] += r
			}
			continue
		}

		k.primary = append(k.primary, unit{class: classSymbol, weight: r})
		k.secondary = append(k.secondary, 0)
	}

	return k
}

// splitAccent decomposes a letter into its base and the first combining
// mark, if any (â -> a, U+0302).
func splitAccent(r rune) (rune, rune) {
	d := []rune(norm.NFD.String(string(r)))
	if len(d) < 2 {
		return r, 0
	}
	return d[0], d[1]
}

func trimZeros(digits string) string {
	t := strings.TrimLeft(digits, "0")
	if t == "" {
		return "0"
	}
	return t
}

// Compare orders two keys: primary elements first, then accents, then the
// original strings.
func (k Key) Compare(o Key) int {
	if c := comparePrimary(k.primary, o.primary); c != 0 {
		return c
	}
	if c := compareRunes(k.secondary, o.secondary); c != 0 {
		return c
	}
	return strings.Compare(k.raw, o.raw)
}

func comparePrimary(a, b []unit) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := compareUnit(a[i], b[i]); c != 0 {
			return c
		}
	}
	return compareInt(len(a), len(b))
}

func compareUnit(a, b unit) int {
	if a.class != b.class {
		return compareInt(int(a.class), int(b.class))
	}
	if a.class == classNumber {
		if c := compareInt(len(a.digits), len(b.digits)); c != 0 {
			return c
		}
		return strings.Compare(a.digits, b.digits)
	}
	return compareInt(int(a.weight), int(b.weight))
}

func compareRunes(a, b []rune) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := compareInt(int(a[i]), int(b[i])); c != 0 {
			return c
		}
	}
	return compareInt(len(a), len(b))
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
