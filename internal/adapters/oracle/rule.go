// Package oracle holds the adapters that decide which numerals in a line of
// text denote monetary amounts.
package oracle

import (
	"context"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// DefaultCurrencyWords are the tokens that mark an adjacent numeral as money.
var DefaultCurrencyWords = []string{
	"$", "€", "£", "¥",
	"usd", "eur", "gbp", "jpy", "cny", "rmb",
	"dollar", "dollars", "buck", "bucks",
	"cent", "cents",
	"euro", "euros",
	"pound", "pounds",
	"yen", "yuan", "renminbi",
}

// RuleOracle is a local rule engine. A numeral is monetary when a currency
// word sits right before or after it, or when it carries a cents part.
type RuleOracle struct {
	currency map[string]struct{}
}

// NewRuleOracle creates a rule oracle. With no words DefaultCurrencyWords
// are used.
func NewRuleOracle(words ...string) *RuleOracle {
	if len(words) == 0 {
		words = DefaultCurrencyWords
	}
	fold := cases.Fold()
	currency := make(map[string]struct{}, len(words))
	for _, w := range words {
		currency[fold.String(w)] = struct{}{}
	}
	return &RuleOracle{currency: currency}
}

// Name identifies the oracle in errors.
func (o *RuleOracle) Name() string { return KindRule }

// Recognize returns the covering substring of every monetary numeral,
// currency word included.
func (o *RuleOracle) Recognize(ctx context.Context, text string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fold := cases.Fold()
	tokens := strings.Fields(text)
	var matches []string
	for i, tok := range tokens {
		if !isNumeral(tok) {
			continue
		}
		start, end := i, i+1
		if i > 0 && o.isCurrency(fold.String(tokens[i-1])) {
			start = i - 1
		}
		if i+1 < len(tokens) && o.isCurrency(fold.String(tokens[i+1])) {
			end = i + 2
		}
		if start == i && end == i+1 && !strings.Contains(tok, ".") {
			continue
		}
		matches = append(matches, strings.Join(tokens[start:end], " "))
	}
	return matches, nil
}

func (o *RuleOracle) isCurrency(word string) bool {
	_, ok := o.currency[word]
	return ok
}

// isNumeral reports whether tok is made of digits, grouping commas and a
// decimal point, with at least one digit.
func isNumeral(tok string) bool {
	digits := 0
	for _, r := range tok {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == ',' || r == '.':
		default:
			return false
		}
	}
	return digits > 0
}
