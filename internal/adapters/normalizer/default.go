package normalizer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/baditaflorin/go_number_words/internal/core/domain"
	"github.com/baditaflorin/go_number_words/internal/ports"
)

const spaceClass = `\t\n\v\f\r \x{0085}\p{Z}`

var (
	symbolPattern = regexp.MustCompile(`([^\p{L}\p{N}` + spaceClass + `])`)
	runPattern    = regexp.MustCompile(`[` + spaceClass + `]{2,}`)
)

// DefaultNormalizer implements the reversible normalization with regular
// expressions.
type DefaultNormalizer struct{}

// NewDefaultNormalizer creates a new default normalizer.
func NewDefaultNormalizer() ports.TextNormalizer {
	return &DefaultNormalizer{}
}

// Normalize replaces hyphens with spaces, isolates every symbol as its own
// token and collapses whitespace runs, recording hyphenated words so they
// can be restored later.
func (n *DefaultNormalizer) Normalize(text string) domain.Normalized {
	history := collectHistory(text)

	clean := strings.ReplaceAll(text, "-", " ")
	clean = symbolPattern.ReplaceAllString(clean, " $1 ")
	clean = runPattern.ReplaceAllString(clean, " ")

	return domain.Normalized{Text: clean, History: history}
}

// collectHistory records every whitespace token of the original text that
// contains a hyphen. Surrounding punctuation is trimmed first so that
// "twenty-five," is remembered as "twenty-five".
func collectHistory(text string) domain.HyphenHistory {
	var history domain.HyphenHistory
	for _, word := range strings.Fields(text) {
		if !strings.Contains(word, "-") {
			continue
		}
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if !strings.Contains(word, "-") {
			continue
		}
		key := strings.ReplaceAll(word, "-", " ")
		if _, seen := history.Lookup(key); seen {
			continue
		}
		history = append(history, domain.HyphenEntry{Normalized: key, Original: word})
	}
	return history
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || unicode.Is(unicode.Z, r)
}

func isSymbol(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsNumber(r) && !isSpace(r)
}
