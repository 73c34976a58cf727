package warmup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baditaflorin/go_number_words/internal/adapters/logger"
	"github.com/baditaflorin/go_number_words/internal/adapters/normalizer"
	"github.com/baditaflorin/go_number_words/internal/core/pipeline"
)

func TestWarmUp(t *testing.T) {
	norm := normalizer.NewOptimizedNormalizer()
	p, err := pipeline.New(pipeline.DefaultConfig(), logger.NewNop(), norm, nil, nil)
	require.NoError(t, err)

	m := NewManager(logger.NewNop(), WarmupConfig{Concurrency: 2, Iterations: 5, SampleTextSize: 200})
	m.RegisterNormalizer(norm)
	m.RegisterExtractor(p)

	assert.Equal(t, int64(2*5*2), m.WarmUp(context.Background()))
}

func TestWarmUpStopsAtDeadline(t *testing.T) {
	m := NewManager(logger.NewNop(), WarmupConfig{Concurrency: 1, Iterations: 1 << 30, SampleTextSize: 100, Duration: 20 * time.Millisecond})
	m.RegisterNormalizer(normalizer.NewDefaultNormalizer())

	done := make(chan int64)
	go func() { done <- m.WarmUp(context.Background()) }()

	select {
	case n := <-done:
		assert.Greater(t, n, int64(0))
	case <-time.After(5 * time.Second):
		t.Fatal("warmup did not stop at its deadline")
	}
}

func TestWarmUpNothingRegistered(t *testing.T) {
	m := NewManager(logger.NewNop(), DefaultWarmupConfig())
	assert.Zero(t, m.WarmUp(context.Background()))
}

func TestGenerateSampleText(t *testing.T) {
	s := generateSampleText(300)
	assert.GreaterOrEqual(t, len(s), 300)
	assert.Contains(t, s, "thirty-four")
}
