package oracle

import (
	"context"
	"strings"
)

// StaticOracle answers every question with the same list.
type StaticOracle struct {
	Matches []string
	Err     error
}

// Name identifies the oracle in errors.
func (StaticOracle) Name() string { return KindStatic }

// Recognize implements ports.Oracle.
func (o StaticOracle) Recognize(ctx context.Context, _ string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if o.Err != nil {
		return nil, o.Err
	}
	return append([]string(nil), o.Matches...), nil
}

// EchoOracle confirms every numeral token of the text it receives, so each
// parsed phrase is reported back.
type EchoOracle struct{}

// Name identifies the oracle in errors.
func (EchoOracle) Name() string { return KindEcho }

// Recognize implements ports.Oracle.
func (EchoOracle) Recognize(ctx context.Context, text string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var matches []string
	for _, tok := range strings.Fields(text) {
		if isNumeral(tok) {
			matches = append(matches, tok)
		}
	}
	return matches, nil
}
