// Package reconcile inlines canonical numerals into text for the oracle and
// maps the oracle's answers back onto the surface phrases.
package reconcile

import (
	"strconv"
	"strings"

	"github.com/baditaflorin/go_number_words/internal/core/domain"
)

// Mode selects how canonical numerals are written back into the text.
type Mode string

const (
	// Literal replaces every occurrence of each phrase's text, in list order.
	Literal Mode = "literal"
	// Spans replaces exactly the token range each phrase was grouped from.
	Spans Mode = "span"
)

// Substitute replaces every literal occurrence of each number's original
// phrase with its canonical numeral. Later replacements see the output of
// earlier ones.
func Substitute(text string, numbers []domain.ParsedNumber) string {
	for _, n := range numbers {
		if n.Original == "" {
			continue
		}
		text = strings.ReplaceAll(text, n.Original, n.Canonical)
	}
	return text
}

// SubstituteSpans rebuilds the token stream of text, replacing the token
// range of each phrase with its canonical numeral. Tokens are re-joined
// with single spaces. Phrases must not overlap and must come in order.
func SubstituteSpans(text string, numbers []domain.ParsedNumber) string {
	tokens := strings.Fields(text)
	out := make([]string, 0, len(tokens))
	pos := 0
	for _, n := range numbers {
		start, end := n.Phrase.Start, n.Phrase.End
		if start < pos || end > len(tokens) || start >= end {
			continue
		}
		out = append(out, tokens[pos:start]...)
		out = append(out, n.Canonical)
		pos = end
	}
	out = append(out, tokens[pos:]...)
	return strings.Join(out, " ")
}

// Apply dispatches to the substitution selected by mode.
func Apply(mode Mode, text string, numbers []domain.ParsedNumber) string {
	if mode == Spans {
		return SubstituteSpans(text, numbers)
	}
	return Substitute(text, numbers)
}

// Reconcile emits one record per (number, match) pair whose canonical
// numeral occurs in the match. Labels count confirmed matches from #1.
func Reconcile(matches []string, history domain.HyphenHistory, numbers []domain.ParsedNumber) []domain.OutputRecord {
	var records []domain.OutputRecord
	for _, n := range numbers {
		for _, m := range matches {
			if !strings.Contains(m, n.Canonical) {
				continue
			}
			records = append(records, domain.OutputRecord{
				Label:     Label(len(records) + 1),
				Phrase:    history.Restore(n.Original),
				Canonical: n.Canonical,
			})
		}
	}
	return records
}

// Label renders the sequence label for the i-th record.
func Label(i int) string {
	return "#" + strconv.Itoa(i)
}
