// Package vocabulary holds the table of English number words and the
// (scale, increment) pair each one contributes to a magnitude.
package vocabulary

import (
	"sync"

	"golang.org/x/text/cases"
)

// Joiner words participate in grouping and cents splitting but never in
// magnitude accumulation.
const (
	And   = "and"
	Cent  = "cent"
	Cents = "cents"
)

var (
	units = []string{
		"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
		"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
		"seventeen", "eighteen", "nineteen",
	}
	// tens are indexed by their multiple of ten; the first two slots are unused.
	tens = []string{
		"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety",
	}
	scales = []string{
		"hundred", "thousand", "million", "billion", "trillion", "quadrillion",
	}
)

// Entry is the contribution of a single word.
type Entry struct {
	Word      string
	Scale     int64
	Increment int64
	Joiner    bool
}

// Major reports whether the entry flushes the running group into the total.
func (e Entry) Major() bool {
	return e.Scale > 100
}

// Vocabulary is an immutable word table. It is safe for concurrent use.
type Vocabulary struct {
	entries map[string]Entry
}

var (
	defaultOnce  sync.Once
	defaultVocab *Vocabulary
)

// Default returns the process-wide vocabulary, building it on first use.
func Default() *Vocabulary {
	defaultOnce.Do(func() {
		defaultVocab = build()
	})
	return defaultVocab
}

func build() *Vocabulary {
	entries := make(map[string]Entry, len(units)+len(tens)+len(scales)+3)
	for _, w := range []string{And, Cent, Cents} {
		entries[w] = Entry{Word: w, Scale: 1, Increment: 0, Joiner: true}
	}
	for i, w := range units {
		entries[w] = Entry{Word: w, Scale: 1, Increment: int64(i)}
	}
	for i, w := range tens {
		if w == "" {
			continue
		}
		entries[w] = Entry{Word: w, Scale: 1, Increment: int64(i * 10)}
	}
	for i, w := range scales {
		exp := 3 * i
		if exp < 2 {
			exp = 2
		}
		entries[w] = Entry{Word: w, Scale: pow10(exp), Increment: 0}
	}
	return &Vocabulary{entries: entries}
}

func pow10(n int) int64 {
	v := int64(1)
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}

// Fold returns the lookup key for word.
func Fold(word string) string {
	return cases.Fold().String(word)
}

// Lookup returns the entry for word, ignoring case.
func (v *Vocabulary) Lookup(word string) (Entry, bool) {
	e, ok := v.entries[Fold(word)]
	return e, ok
}

// Contains reports whether word is part of the vocabulary.
func (v *Vocabulary) Contains(word string) bool {
	_, ok := v.Lookup(word)
	return ok
}

// Len returns the number of words in the table.
func (v *Vocabulary) Len() int {
	return len(v.entries)
}

// IsAnd reports whether word is the "and" joiner.
func IsAnd(word string) bool {
	return Fold(word) == And
}

// IsCentMarker reports whether word is "cent" or "cents".
func IsCentMarker(word string) bool {
	f := Fold(word)
	return f == Cent || f == Cents
}

// IsJoiner reports whether word is any joiner.
func IsJoiner(word string) bool {
	f := Fold(word)
	return f == And || f == Cent || f == Cents
}
