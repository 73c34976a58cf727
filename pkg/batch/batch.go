// Package batch extracts monetary number phrases from every line of a
// stream, writing one rendered block per line in input order.
package batch

import (
	"context"
	"io"
	"time"

	"github.com/baditaflorin/l"

	"github.com/baditaflorin/go_number_words/internal/adapters/logger"
	"github.com/baditaflorin/go_number_words/internal/adapters/normalizer"
	"github.com/baditaflorin/go_number_words/internal/adapters/oracle"
	"github.com/baditaflorin/go_number_words/internal/adapters/render"
	"github.com/baditaflorin/go_number_words/internal/adapters/stream/lineprocessor"
	"github.com/baditaflorin/go_number_words/internal/core/pipeline"
	"github.com/baditaflorin/go_number_words/internal/ports"
	"github.com/baditaflorin/go_number_words/internal/warmup"
)

// Output formats accepted by WithFormat.
const (
	FormatText = render.FormatText
	FormatJSON = render.FormatJSON
	FormatYAML = render.FormatYAML
)

// Result summarizes a processed stream.
type Result struct {
	Lines          int
	Failed         int
	Records        int
	BytesProcessed int64
	ProcessingTime string // Duration as string for easy display
}

// Processor runs line-oriented extraction over streams.
type Processor struct {
	processor ports.StreamProcessor
	logger    ports.Logger
}

// Option defines a functional option for configuring a Processor.
type Option func(*batchConfig)

type batchConfig struct {
	Logger       ports.Logger
	Oracle       ports.Oracle
	Format       string
	Processing   lineprocessor.ProcessingConfig
	Optimized    bool
	WarmUp       bool
	WarmUpConfig warmup.WarmupConfig
}

// WithLogger sets a custom logger.
func WithLogger(lg l.Logger) Option {
	return func(cfg *batchConfig) {
		cfg.Logger = logger.FromExisting(lg)
	}
}

// WithOracle sets the oracle consulted for every line.
func WithOracle(o ports.Oracle) Option {
	return func(cfg *batchConfig) {
		cfg.Oracle = o
	}
}

// WithFormat selects the output format: text, json or yaml.
func WithFormat(format string) Option {
	return func(cfg *batchConfig) {
		cfg.Format = format
	}
}

// WithParallel processes lines on the given number of workers, in batches
// of batchSize lines. Output order is preserved.
func WithParallel(workers, batchSize int) Option {
	return func(cfg *batchConfig) {
		cfg.Processing.UseParallel = true
		cfg.Processing.Workers = workers
		cfg.Processing.BatchSize = batchSize
	}
}

// WithMaxLineSize bounds the length of a single input line.
func WithMaxLineSize(size int) Option {
	return func(cfg *batchConfig) {
		cfg.Processing.MaxLineSize = size
	}
}

// WithOptimizedNormalizer selects the single-pass normalizer.
func WithOptimizedNormalizer() Option {
	return func(cfg *batchConfig) {
		cfg.Optimized = true
	}
}

// WithWarmUp warms the parser up before the first stream.
func WithWarmUp(config warmup.WarmupConfig) Option {
	return func(cfg *batchConfig) {
		cfg.WarmUp = true
		cfg.WarmUpConfig = config
	}
}

// New creates a new Processor.
func New(opts ...Option) (*Processor, error) {
	cfg := &batchConfig{Format: FormatText}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Logger == nil {
		var err error
		cfg.Logger, err = logger.NewStdLogger()
		if err != nil {
			return nil, err
		}
	}
	if cfg.Oracle == nil {
		cfg.Oracle = oracle.NewRuleOracle()
	}

	renderer, err := render.New(cfg.Format)
	if err != nil {
		return nil, err
	}

	normType := normalizer.DefaultNormalizerType
	if cfg.Optimized {
		normType = normalizer.OptimizedNormalizerType
	}
	norm := normalizer.NewNormalizerFactory().CreateNormalizer(normType)

	p, err := pipeline.New(pipeline.DefaultConfig(), cfg.Logger, norm, cfg.Oracle, nil)
	if err != nil {
		return nil, err
	}

	if cfg.WarmUp {
		mgr := warmup.NewManager(cfg.Logger, cfg.WarmUpConfig)
		mgr.RegisterExtractor(p)
		mgr.RegisterNormalizer(norm)
		mgr.WarmUp(context.Background())
	}

	return &Processor{
		processor: lineprocessor.NewProcessor(cfg.Logger, p, renderer, cfg.Processing),
		logger:    cfg.Logger,
	}, nil
}

// Process reads lines from reader and writes rendered records to writer.
// Lines whose oracle call fails are reported inline and counted in
// Result.Failed.
func (p *Processor) Process(ctx context.Context, reader io.Reader, writer io.Writer) (Result, error) {
	res, err := p.processor.ProcessStream(ctx, reader, writer)
	return Result{
		Lines:          res.Lines,
		Failed:         res.Failed,
		Records:        res.Records,
		BytesProcessed: res.BytesProcessed,
		ProcessingTime: res.ProcessingTime.Round(time.Microsecond).String(),
	}, err
}
