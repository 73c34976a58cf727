// Package numberwords finds English cardinal number phrases in free text,
// such as "two thousand and fifty cents", and turns them into canonical
// numerals like "2,000.50". An oracle then decides which of the numerals are
// monetary, and the confirmed ones are reported with the phrase exactly as
// it was written, hyphens included.
//
// The zero value is not usable; create instances with New.
package numberwords

import (
	"context"

	"github.com/baditaflorin/l"

	"github.com/baditaflorin/go_number_words/internal/adapters/logger"
	"github.com/baditaflorin/go_number_words/internal/adapters/normalizer"
	"github.com/baditaflorin/go_number_words/internal/adapters/oracle"
	"github.com/baditaflorin/go_number_words/internal/core/domain"
	"github.com/baditaflorin/go_number_words/internal/core/pipeline"
	"github.com/baditaflorin/go_number_words/internal/core/reconcile"
	"github.com/baditaflorin/go_number_words/internal/ports"
)

// Number is a parsed number phrase with its canonical numeral.
type Number = domain.ParsedNumber

// Record is an oracle-confirmed monetary number.
type Record = domain.OutputRecord

// Oracle decides which substrings of a text denote monetary amounts.
type Oracle = ports.Oracle

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc = ports.OracleFunc

// Errors returned by Parse and Extract.
var (
	ErrEmptyInput        = domain.ErrEmptyInput
	ErrOracleUnavailable = domain.ErrOracleUnavailable
)

// Config holds configuration options for the parser.
type Config struct {
	Oracle             Oracle
	Logger             l.Logger
	SpanSubstitution   bool
	SuppressDegenerate bool
	Optimized          bool
}

// Option defines a functional option for configuring the parser.
type Option func(*Config)

// WithOracle sets the oracle consulted by Extract. The default is a local
// rule engine that looks for currency words next to numerals.
func WithOracle(o Oracle) Option {
	return func(cfg *Config) {
		cfg.Oracle = o
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger l.Logger) Option {
	return func(cfg *Config) {
		cfg.Logger = logger
	}
}

// WithSpanSubstitution writes numerals back by token position instead of
// replacing every occurrence of the phrase text.
func WithSpanSubstitution() Option {
	return func(cfg *Config) {
		cfg.SpanSubstitution = true
	}
}

// WithSuppressDegenerate drops phrases made only of "and", "cent" or "cents".
func WithSuppressDegenerate() Option {
	return func(cfg *Config) {
		cfg.SuppressDegenerate = true
	}
}

// WithOptimizedNormalizer selects the single-pass normalizer.
func WithOptimizedNormalizer() Option {
	return func(cfg *Config) {
		cfg.Optimized = true
	}
}

// NumberWords parses and extracts number phrases. It is safe for
// concurrent use.
type NumberWords struct {
	pipeline *pipeline.Pipeline
	// ownLogger is the default logger created by New, closed by Close.
	ownLogger l.Logger
}

// New creates a new NumberWords with the provided functional options.
// If no logger is provided, a default logger is created.
func New(opts ...Option) (*NumberWords, error) {
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}

	var ownLogger l.Logger
	if cfg.Logger == nil {
		lg, err := createDefaultLogger()
		if err != nil {
			return nil, err
		}
		cfg.Logger, ownLogger = lg, lg
	}
	if cfg.Oracle == nil {
		cfg.Oracle = oracle.NewRuleOracle()
	}

	normType := normalizer.DefaultNormalizerType
	if cfg.Optimized {
		normType = normalizer.OptimizedNormalizerType
	}

	pcfg := pipeline.DefaultConfig()
	if cfg.SpanSubstitution {
		pcfg.Substitution = reconcile.Spans
	}
	pcfg.SuppressDegenerate = cfg.SuppressDegenerate

	p, err := pipeline.New(pcfg,
		logger.FromExisting(cfg.Logger),
		normalizer.NewNormalizerFactory().CreateNormalizer(normType),
		cfg.Oracle,
		nil,
	)
	if err != nil {
		if ownLogger != nil {
			_ = ownLogger.Close()
		}
		return nil, err
	}
	return &NumberWords{pipeline: p, ownLogger: ownLogger}, nil
}

// Close flushes and closes the default logger created by New. A logger
// passed with WithLogger is left open.
func (n *NumberWords) Close() error {
	if n.ownLogger == nil {
		return nil
	}
	err := n.ownLogger.Close()
	n.ownLogger = nil
	return err
}

// Parse returns every number phrase found in text with its canonical
// numeral. No oracle is consulted.
func (n *NumberWords) Parse(text string) ([]Number, error) {
	parsed, err := n.pipeline.Parse(text)
	if err != nil {
		return nil, err
	}
	return parsed.Numbers, nil
}

// Extract returns the number phrases of text that the oracle confirms as
// monetary, labelled "#1", "#2", ... in order.
func (n *NumberWords) Extract(ctx context.Context, text string) ([]Record, error) {
	ex, err := n.pipeline.Extract(ctx, text)
	if err != nil {
		return nil, err
	}
	return ex.Records, nil
}

// EchoOracle confirms every numeral it is shown.
func EchoOracle() Oracle {
	return oracle.EchoOracle{}
}

// ParseWithDefaults parses text with a default instance, closing it
// before returning.
func ParseWithDefaults(text string) ([]Number, error) {
	nw, err := New()
	if err != nil {
		return nil, err
	}
	defer nw.Close()
	return nw.Parse(text)
}
