// Package cents splits a candidate phrase into whole and fractional parts
// and renders the canonical numeral.
package cents

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/baditaflorin/go_number_words/internal/core/domain"
	"github.com/baditaflorin/go_number_words/internal/core/magnitude"
	"github.com/baditaflorin/go_number_words/internal/core/vocabulary"
)

// Separator precedes the two cents digits.
const Separator = "."

// maxCentsWidth is the width the cents string is truncated to, separator
// included. A rounded three-digit value therefore keeps only its first two
// digits: 137 renders as ".14".
const maxCentsWidth = 3

// Format evaluates phrase and renders its canonical numeral.
func Format(phrase domain.CandidatePhrase, vocab *vocabulary.Vocabulary) (domain.ParsedNumber, error) {
	words := phrase.Words
	limit := len(words)

	centsStr := ""
	hasCents := containsCentMarker(words)
	if hasCents {
		segments := splitOnAnd(words)
		centsWords := withoutCentMarkers(segments[len(segments)-1])

		limit -= len(centsWords) + 1
		if limit < 0 {
			limit = 0
		}

		value, err := magnitude.Evaluate(centsWords, vocab)
		if err != nil {
			return domain.ParsedNumber{}, err
		}
		centsStr = formatCents(value)
	}

	whole, err := magnitude.Evaluate(words[:limit], vocab)
	if err != nil {
		return domain.ParsedNumber{}, err
	}

	var canonical string
	switch {
	case whole != 0:
		canonical = Group(whole) + centsStr
	case hasCents:
		canonical = centsStr
	default:
		canonical = "0"
	}

	return domain.ParsedNumber{
		Canonical:  canonical,
		Original:   phrase.Text(),
		Amount:     amount(canonical),
		Degenerate: allJoiners(words),
		Phrase:     phrase,
	}, nil
}

// Group renders n with English thousands separators.
func Group(n int64) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}

// formatCents clamps values that need more than two digits to the nearest
// ten (ties to even) and renders them behind the separator.
func formatCents(value int64) string {
	if value > 99 {
		value = int64(math.RoundToEven(float64(value)/10)) * 10
	}
	s := fmt.Sprintf("%s%02d", Separator, value)
	if len(s) > maxCentsWidth {
		s = s[:maxCentsWidth]
	}
	return s
}

// splitOnAnd splits words on the word "and". There is always at least one
// segment.
func splitOnAnd(words []string) [][]string {
	segments := [][]string{nil}
	for _, w := range words {
		if vocabulary.IsAnd(w) {
			segments = append(segments, nil)
			continue
		}
		last := len(segments) - 1
		segments[last] = append(segments[last], w)
	}
	return segments
}

func withoutCentMarkers(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if !vocabulary.IsCentMarker(w) {
			out = append(out, w)
		}
	}
	return out
}

func containsCentMarker(words []string) bool {
	for _, w := range words {
		if vocabulary.IsCentMarker(w) {
			return true
		}
	}
	return false
}

func allJoiners(words []string) bool {
	for _, w := range words {
		if !vocabulary.IsJoiner(w) {
			return false
		}
	}
	return true
}

func amount(canonical string) decimal.Decimal {
	s := strings.ReplaceAll(canonical, ",", "")
	if strings.HasPrefix(s, Separator) {
		s = "0" + s
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
