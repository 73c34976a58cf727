// Package grouper partitions a normalized token stream into maximal runs of
// number words.
package grouper

import (
	"strings"

	"github.com/baditaflorin/go_number_words/internal/core/domain"
	"github.com/baditaflorin/go_number_words/internal/core/vocabulary"
)

// Group scans the whitespace tokens of text and returns every candidate
// phrase in order of appearance. Words keep their original case.
func Group(text string, vocab *vocabulary.Vocabulary) []domain.CandidatePhrase {
	tokens := strings.Fields(text)

	var (
		phrases []domain.CandidatePhrase
		buf     []string
		start   int
	)

	flush := func() {
		if p, ok := trim(buf, start); ok {
			phrases = append(phrases, p)
		}
		buf = nil
	}

	for i, tok := range tokens {
		if !vocab.Contains(tok) {
			flush()
			continue
		}
		if len(buf) == 0 {
			start = i
		}
		buf = append(buf, tok)
	}
	flush()

	return phrases
}

// trim strips leading and trailing "and" tokens from a pending buffer whose
// first token sits at index start.
func trim(buf []string, start int) (domain.CandidatePhrase, bool) {
	lo, hi := 0, len(buf)
	for lo < hi && vocabulary.IsAnd(buf[lo]) {
		lo++
	}
	for hi > lo && vocabulary.IsAnd(buf[hi-1]) {
		hi--
	}
	if lo == hi {
		return domain.CandidatePhrase{}, false
	}
	words := make([]string, hi-lo)
	copy(words, buf[lo:hi])
	return domain.CandidatePhrase{
		Words: words,
		Start: start + lo,
		End:   start + hi,
	}, true
}
