package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// HyphenEntry pairs a de-hyphenated phrase with the form the user typed.
type HyphenEntry struct {
	Normalized string
	Original   string
}

// HyphenHistory records, in first-occurrence order, every token that
// originally contained a hyphen.
type HyphenHistory []HyphenEntry

// Restore replaces each recorded de-hyphenated form found in text with its
// original hyphenated form.
func (h HyphenHistory) Restore(text string) string {
	for _, entry := range h {
		if strings.Contains(text, entry.Normalized) {
			text = strings.ReplaceAll(text, entry.Normalized, entry.Original)
		}
	}
	return text
}

// Lookup returns the original form recorded for a de-hyphenated phrase.
func (h HyphenHistory) Lookup(normalized string) (string, bool) {
	for _, entry := range h {
		if entry.Normalized == normalized {
			return entry.Original, true
		}
	}
	return "", false
}

// Normalized is the output of a text normalizer.
type Normalized struct {
	Text    string
	History HyphenHistory
}

// CandidatePhrase is a maximal run of vocabulary words taken from the
// normalized token stream. Start and End are token indexes (End exclusive).
type CandidatePhrase struct {
	Words []string
	Start int
	End   int
}

// Text joins the phrase words with single spaces.
func (p CandidatePhrase) Text() string {
	return strings.Join(p.Words, " ")
}

// ParsedNumber is a formatted numeral and the surface phrase it replaces.
type ParsedNumber struct {
	Canonical string          `json:"canonical" yaml:"canonical"`
	Original  string          `json:"original" yaml:"original"`
	Amount    decimal.Decimal `json:"amount" yaml:"amount"`
	// Degenerate is set when the phrase holds only joiner words.
	Degenerate bool            `json:"degenerate,omitempty" yaml:"degenerate,omitempty"`
	Phrase     CandidatePhrase `json:"-" yaml:"-"`
}

// OutputRecord is one oracle-confirmed match.
type OutputRecord struct {
	Label     string `json:"label" yaml:"label"`
	Phrase    string `json:"phrase" yaml:"phrase"`
	Canonical string `json:"canonical" yaml:"canonical"`
}

// Parse holds everything derived from a line before the oracle is consulted.
type Parse struct {
	Input      string
	Normalized Normalized
	Phrases    []CandidatePhrase
	Numbers    []ParsedNumber
}

// Extraction is the full result of running a line through the pipeline.
type Extraction struct {
	Parse
	Substituted string
	Matches     []string
	Records     []OutputRecord
}
