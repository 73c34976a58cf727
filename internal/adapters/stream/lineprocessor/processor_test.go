package lineprocessor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/baditaflorin/go_number_words/internal/adapters/logger"
	"github.com/baditaflorin/go_number_words/internal/adapters/normalizer"
	"github.com/baditaflorin/go_number_words/internal/adapters/oracle"
	"github.com/baditaflorin/go_number_words/internal/adapters/render"
	"github.com/baditaflorin/go_number_words/internal/core/domain"
	"github.com/baditaflorin/go_number_words/internal/core/pipeline"
	"github.com/baditaflorin/go_number_words/internal/ports"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newExtractor(t *testing.T, o ports.Oracle) ports.Extractor {
	t.Helper()
	p, err := pipeline.New(pipeline.DefaultConfig(), logger.NewNop(), normalizer.NewOptimizedNormalizer(), o, nil)
	require.NoError(t, err)
	return p
}

func configs() map[string]ProcessingConfig {
	return map[string]ProcessingConfig{
		"sequential": {},
		"parallel":   {UseParallel: true, Workers: 4, BatchSize: 3},
	}
}

func TestProcessStream(t *testing.T) {
	input := "pay twenty-five dollars\n\nnothing here\r\nabout one hundred and five cents\n"

	for name, config := range configs() {
		t.Run(name, func(t *testing.T) {
			p := NewProcessor(logger.NewNop(), newExtractor(t, oracle.EchoOracle{}), render.Text{}, config)

			var out bytes.Buffer
			result, err := p.ProcessStream(context.Background(), strings.NewReader(input), &out)
			require.NoError(t, err)

			assert.Equal(t, 3, result.Lines)
			assert.Equal(t, 0, result.Failed)
			assert.Equal(t, 2, result.Records)
			assert.Equal(t, int64(len(input)), result.BytesProcessed)
			assert.Equal(t, "#1\ntwenty-five\n25\n\n#1\none hundred and five cents\n100.05\n\n", out.String())
		})
	}
}

func TestProcessStreamKeepsOrder(t *testing.T) {
	var input strings.Builder
	for i := 1; i <= 200; i++ {
		fmt.Fprintf(&input, "line %d costs five dollars\n", i)
	}

	for name, config := range configs() {
		t.Run(name, func(t *testing.T) {
			p := NewProcessor(logger.NewNop(), newExtractor(t, oracle.EchoOracle{}), render.JSON{}, config)

			var out bytes.Buffer
			result, err := p.ProcessStream(context.Background(), strings.NewReader(input.String()), &out)
			require.NoError(t, err)
			assert.Equal(t, 200, result.Lines)

			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			require.Len(t, lines, 200)
			for i, l := range lines {
				assert.Contains(t, l, fmt.Sprintf(`"line":%d,`, i+1))
			}
		})
	}
}

func TestProcessStreamReportsFailedLines(t *testing.T) {
	down := oracle.StaticOracle{Err: errors.New("connection refused")}

	for name, config := range configs() {
		t.Run(name, func(t *testing.T) {
			p := NewProcessor(logger.NewNop(), newExtractor(t, down), render.Text{}, config)

			var out bytes.Buffer
			result, err := p.ProcessStream(context.Background(), strings.NewReader("five dollars\nno numbers\n"), &out)
			require.NoError(t, err)
			assert.Equal(t, 2, result.Lines)
			assert.Equal(t, 1, result.Failed)
			assert.Contains(t, out.String(), "error: ")
		})
	}
}

type blockingExtractor struct{}

func (blockingExtractor) Parse(string) (domain.Parse, error) { return domain.Parse{}, nil }

func (blockingExtractor) Extract(ctx context.Context, _ string) (domain.Extraction, error) {
	<-ctx.Done()
	return domain.Extraction{}, domain.NewOracleError("test", ctx.Err())
}

func TestProcessStreamCancelled(t *testing.T) {
	input := strings.Repeat("five dollars\n", 50)

	for name, config := range configs() {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			p := NewProcessor(logger.NewNop(), blockingExtractor{}, render.Text{}, config)
			_, err := p.ProcessStream(ctx, strings.NewReader(input), &bytes.Buffer{})
			assert.ErrorIs(t, err, context.Canceled)
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestProcessStreamWriteError(t *testing.T) {
	input := strings.Repeat("five dollars and six cents\n", 5000)
	p := NewProcessor(logger.NewNop(), newExtractor(t, oracle.EchoOracle{}), render.Text{},
		ProcessingConfig{UseParallel: true, Workers: 2, BatchSize: 10})

	_, err := p.ProcessStream(context.Background(), strings.NewReader(input), failingWriter{})
	assert.EqualError(t, err, "disk full")
}
