// Package pipeline chains normalization, grouping, formatting, oracle
// confirmation and reconciliation for a single line of text.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/baditaflorin/go_number_words/internal/core/cents"
	"github.com/baditaflorin/go_number_words/internal/core/domain"
	"github.com/baditaflorin/go_number_words/internal/core/grouper"
	"github.com/baditaflorin/go_number_words/internal/core/reconcile"
	"github.com/baditaflorin/go_number_words/internal/core/vocabulary"
	"github.com/baditaflorin/go_number_words/internal/ports"
)

// Config holds configuration for the pipeline.
type Config struct {
	// Substitution selects how canonical numerals are written back into
	// the normalized text before it is sent to the oracle.
	Substitution reconcile.Mode
	// SuppressDegenerate drops phrases made only of joiner words.
	SuppressDegenerate bool
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		Substitution: reconcile.Literal,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	switch c.Substitution {
	case reconcile.Literal, reconcile.Spans:
		return nil
	default:
		return fmt.Errorf("unknown substitution mode %q", c.Substitution)
	}
}

// Pipeline implements ports.Extractor. It holds no per-call state and is
// safe for concurrent use.
type Pipeline struct {
	config     Config
	vocab      *vocabulary.Vocabulary
	normalizer ports.TextNormalizer
	oracle     ports.Oracle
	logger     ports.Logger
	recorder   ports.Recorder
}

// New creates a new pipeline. A nil recorder discards measurements. The
// oracle may be nil when only Parse is used.
func New(config Config, logger ports.Logger, normalizer ports.TextNormalizer, oracle ports.Oracle, recorder ports.Recorder) (*Pipeline, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if normalizer == nil {
		return nil, errors.New("normalizer is required")
	}
	if recorder == nil {
		recorder = ports.NopRecorder{}
	}

	return &Pipeline{
		config:     config,
		vocab:      vocabulary.Default(),
		normalizer: normalizer,
		oracle:     oracle,
		logger:     logger,
		recorder:   recorder,
	}, nil
}

// Parse normalizes text, groups its number phrases and formats each one.
// Phrases too large for the evaluator are skipped with a warning.
func (p *Pipeline) Parse(text string) (domain.Parse, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Parse{}, domain.ErrEmptyInput
	}

	normalized := p.normalizer.Normalize(text)
	p.logger.Debug("Normalized text",
		"text", normalized.Text,
		"hyphenated", len(normalized.History),
	)

	phrases := grouper.Group(normalized.Text, p.vocab)
	p.recorder.PhrasesFound(len(phrases))

	numbers := make([]domain.ParsedNumber, 0, len(phrases))
	for _, phrase := range phrases {
		n, err := cents.Format(phrase, p.vocab)
		if errors.Is(err, domain.ErrMagnitudeOverflow) {
			p.logger.Warn("Skipping phrase beyond int64 range", "phrase", phrase.Text())
			continue
		}
		if err != nil {
			return domain.Parse{}, err
		}
		if n.Degenerate && p.config.SuppressDegenerate {
			p.logger.Debug("Dropping degenerate phrase", "phrase", n.Original)
			continue
		}
		p.logger.Debug("Formatted phrase",
			"phrase", n.Original,
			"canonical", n.Canonical,
			"degenerate", n.Degenerate,
		)
		numbers = append(numbers, n)
	}

	return domain.Parse{
		Input:      text,
		Normalized: normalized,
		Phrases:    phrases,
		Numbers:    numbers,
	}, nil
}

// Extract runs Parse, substitutes canonical numerals into the normalized
// text, asks the oracle which of them are monetary and reconciles the
// answer with the original phrases. Lines without number phrases never
// reach the oracle.
func (p *Pipeline) Extract(ctx context.Context, text string) (domain.Extraction, error) {
	parsed, err := p.Parse(text)
	if err != nil {
		return domain.Extraction{}, err
	}
	p.recorder.LineProcessed()

	out := domain.Extraction{Parse: parsed}
	if len(parsed.Numbers) == 0 {
		return out, nil
	}
	if p.oracle == nil {
		return out, domain.NewOracleError("none", errors.New("no oracle configured"))
	}

	out.Substituted = reconcile.Apply(p.config.Substitution, parsed.Normalized.Text, parsed.Numbers)

	if err := ctx.Err(); err != nil {
		return out, fmt.Errorf("extract: %w", err)
	}

	start := time.Now()
	matches, err := p.oracle.Recognize(ctx, out.Substituted)
	p.recorder.OracleCall(time.Since(start), err)
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return out, fmt.Errorf("extract: %w", err)
		}
		p.logger.Error("Oracle call failed", "oracle", oracleName(p.oracle), "error", err)
		if !errors.Is(err, domain.ErrOracleUnavailable) {
			err = domain.NewOracleError(oracleName(p.oracle), err)
		}
		return out, err
	}

	out.Matches = matches
	out.Records = reconcile.Reconcile(matches, parsed.Normalized.History, parsed.Numbers)
	p.recorder.RecordsEmitted(len(out.Records))

	p.logger.Debug("Reconciled oracle matches",
		"matches", len(matches),
		"records", len(out.Records),
	)

	return out, nil
}

// oracleName identifies an oracle adapter in errors and logs.
func oracleName(o ports.Oracle) string {
	if n, ok := o.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", o)
}
