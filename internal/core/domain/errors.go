package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrOracleUnavailable is returned when the entity-recognition oracle
	// cannot answer for a line.
	ErrOracleUnavailable = errors.New("oracle unavailable")

	// ErrMalformedCandidatePhrase signals that a phrase handed to the
	// evaluator contains a word outside the vocabulary.
	ErrMalformedCandidatePhrase = errors.New("malformed candidate phrase")

	// ErrMagnitudeOverflow is returned when a phrase does not fit in an int64.
	ErrMagnitudeOverflow = errors.New("magnitude overflow")

	// ErrEmptyInput is returned for blank input lines.
	ErrEmptyInput = errors.New("empty input")
)

// PhraseError describes a failure to evaluate a particular phrase.
type PhraseError struct {
	Words []string
	Word  string
	Err   error
}

func (e *PhraseError) Error() string {
	if e.Word != "" {
		return fmt.Sprintf("%v: %q in %q", e.Err, e.Word, strings.Join(e.Words, " "))
	}
	return fmt.Sprintf("%v: %q", e.Err, strings.Join(e.Words, " "))
}

func (e *PhraseError) Unwrap() error {
	return e.Err
}

// OracleError wraps a failure reported by an oracle adapter. It always
// matches ErrOracleUnavailable with errors.Is.
type OracleError struct {
	Oracle string
	Err    error
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrOracleUnavailable, e.Oracle, e.Err)
}

func (e *OracleError) Unwrap() []error {
	return []error{ErrOracleUnavailable, e.Err}
}

// NewOracleError wraps err for the named oracle.
func NewOracleError(oracle string, err error) error {
	if err == nil {
		return nil
	}
	return &OracleError{Oracle: oracle, Err: err}
}
