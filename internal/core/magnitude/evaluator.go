// Package magnitude converts a run of number words into an integer.
package magnitude

import (
	"math"

	"github.com/baditaflorin/go_number_words/internal/core/domain"
	"github.com/baditaflorin/go_number_words/internal/core/vocabulary"
)

// Evaluate accumulates words with two registers: current holds the group
// being built and total the groups already closed by a major scale word.
// Joiners are skipped. An empty slice evaluates to 0.
func Evaluate(words []string, vocab *vocabulary.Vocabulary) (int64, error) {
	var current, total int64
	for _, w := range words {
		e, ok := vocab.Lookup(w)
		if !ok {
			return 0, &domain.PhraseError{Words: words, Word: w, Err: domain.ErrMalformedCandidatePhrase}
		}
		if e.Joiner {
			continue
		}

		next, ok := mulAdd(current, e.Scale, e.Increment)
		if !ok {
			return 0, &domain.PhraseError{Words: words, Word: w, Err: domain.ErrMagnitudeOverflow}
		}
		current = next

		if e.Major() {
			if total > math.MaxInt64-current {
				return 0, &domain.PhraseError{Words: words, Word: w, Err: domain.ErrMagnitudeOverflow}
			}
			total += current
			current = 0
		}
	}
	if total > math.MaxInt64-current {
		return 0, &domain.PhraseError{Words: words, Err: domain.ErrMagnitudeOverflow}
	}
	return total + current, nil
}

// mulAdd returns a*b+c for non-negative operands, reporting overflow.
func mulAdd(a, b, c int64) (int64, bool) {
	if a != 0 && b > math.MaxInt64/a {
		return 0, false
	}
	p := a * b
	if p > math.MaxInt64-c {
		return 0, false
	}
	return p + c, true
}
