package lineprocessor

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/baditaflorin/go_number_words/internal/pool"
	"github.com/baditaflorin/go_number_words/internal/ports"
)

// Constants for line processing
const (
	// DefaultBatchSize defines how many lines to process in one batch
	DefaultBatchSize = 64

	// DefaultMaxLineSize bounds a single input line
	DefaultMaxLineSize = 1024 * 1024 // 1MB

	// initialLineBuffer is the starting capacity of the scanner buffer
	initialLineBuffer = 64 * 1024 // 64KB
)

// ProcessingConfig defines configuration for line processing
type ProcessingConfig struct {
	BatchSize   int
	Workers     int // 0 means runtime.NumCPU()
	MaxLineSize int
	UseParallel bool
}

// Processor runs every non-blank line of a stream through an extractor and
// renders the results in input order.
type Processor struct {
	logger    ports.Logger
	extractor ports.Extractor
	renderer  ports.Renderer

	bufferPool *pool.BufferPool
	config     ProcessingConfig
}

// NewProcessor creates a new line processor
func NewProcessor(
	logger ports.Logger,
	extractor ports.Extractor,
	renderer ports.Renderer,
	config ProcessingConfig,
) *Processor {
	// Use defaults if not specified
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultBatchSize
	}
	if config.MaxLineSize <= 0 {
		config.MaxLineSize = DefaultMaxLineSize
	}

	return &Processor{
		logger:     logger,
		extractor:  extractor,
		renderer:   renderer,
		bufferPool: pool.NewBufferPool(initialLineBuffer),
		config:     config,
	}
}

// ProcessStream implements ports.StreamProcessor. A line whose extraction
// fails is reported through the renderer and counted as failed; only
// read, write and context errors stop the stream.
func (p *Processor) ProcessStream(
	ctx context.Context,
	reader io.Reader,
	writer io.Writer,
) (ports.StreamResult, error) {
	start := time.Now()
	counted := &countingReader{r: reader}
	out := bufio.NewWriter(writer)

	var (
		result ports.StreamResult
		err    error
	)
	if p.config.UseParallel {
		result, err = p.processParallel(ctx, counted, out)
	} else {
		result, err = p.processSequential(ctx, counted, out)
	}

	if ferr := out.Flush(); err == nil {
		err = ferr
	}

	result.BytesProcessed = counted.n
	result.ProcessingTime = time.Since(start)

	p.logger.Debug("Line processing completed",
		"lines", result.Lines,
		"failed", result.Failed,
		"records", result.Records,
		"bytes_processed", result.BytesProcessed,
		"duration", result.ProcessingTime,
		"parallel", p.config.UseParallel,
	)
	return result, err
}

func (p *Processor) processSequential(ctx context.Context, reader io.Reader, writer io.Writer) (ports.StreamResult, error) {
	var result ports.StreamResult
	err := p.scan(reader, func(index int, line string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := p.processLine(ctx, index, line)
		if err != nil {
			return err
		}
		return p.write(writer, res, &result)
	})
	return result, err
}

// scan calls fn for every non-blank line with its zero-based position in
// the input.
func (p *Processor) scan(reader io.Reader, fn func(index int, line string) error) error {
	buf := p.bufferPool.Get()
	defer p.bufferPool.Put(buf)

	scanner := bufio.NewScanner(reader)
	scanner.Buffer((*buf)[:cap(*buf)], p.config.MaxLineSize)

	for index := 0; scanner.Scan(); index++ {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := fn(index, line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// processLine extracts a single line. Extraction failures stay with the
// line unless the context itself is done.
func (p *Processor) processLine(ctx context.Context, index int, line string) (ports.LineResult, error) {
	extraction, err := p.extractor.Extract(ctx, line)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return ports.LineResult{}, ctxErr
		}
		p.logger.Warn("Line extraction failed", "line", index+1, "error", err)
	}
	return ports.LineResult{
		Index:      index,
		Line:       line,
		Extraction: extraction,
		Err:        err,
	}, nil
}

func (p *Processor) write(writer io.Writer, res ports.LineResult, result *ports.StreamResult) error {
	result.Lines++
	if res.Err != nil {
		result.Failed++
	}
	result.Records += len(res.Extraction.Records)
	return p.renderer.Render(writer, res)
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(b []byte) (int, error) {
	n, err := c.r.Read(b)
	c.n += int64(n)
	return n, err
}
