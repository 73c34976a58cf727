package warmup

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/baditaflorin/go_number_words/internal/core/vocabulary"
	"github.com/baditaflorin/go_number_words/internal/ports"
)

// WarmupConfig defines configuration for warming up the system
type WarmupConfig struct {
	// Number of concurrent warmup routines to run
	Concurrency int
	// Number of iterations per routine
	Iterations int
	// Sample text size for warmup
	SampleTextSize int
	// Warmup duration (0 means no time limit)
	Duration time.Duration
	// Whether to perform GC after warmup
	ForceGC bool
}

// DefaultWarmupConfig returns the default warmup configuration
func DefaultWarmupConfig() WarmupConfig {
	return WarmupConfig{
		Concurrency:    runtime.NumCPU(),
		Iterations:     200,
		SampleTextSize: 1000,
		Duration:       2 * time.Second,
		ForceGC:        true,
	}
}

// Manager handles system warmup operations
type Manager struct {
	logger      ports.Logger
	extractors  []ports.Extractor
	normalizers []ports.TextNormalizer
	config      WarmupConfig
}

// NewManager creates a new warmup manager
func NewManager(logger ports.Logger, config WarmupConfig) *Manager {
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	return &Manager{
		logger: logger,
		config: config,
	}
}

// RegisterExtractor adds an extractor to be warmed up. Only its Parse
// path runs, so no oracle is called.
func (wm *Manager) RegisterExtractor(ex ports.Extractor) {
	wm.extractors = append(wm.extractors, ex)
}

// RegisterNormalizer adds a normalizer to be warmed up
func (wm *Manager) RegisterNormalizer(norm ports.TextNormalizer) {
	wm.normalizers = append(wm.normalizers, norm)
}

// WarmUp builds the shared vocabulary and runs every registered component
// on sample text until the iterations are done or the duration elapses.
// It returns the number of component calls made.
func (wm *Manager) WarmUp(ctx context.Context) int64 {
	startTime := time.Now()
	wm.logger.Info("Starting system warmup",
		"components", len(wm.extractors)+len(wm.normalizers),
		"concurrency", wm.config.Concurrency,
		"iterations", wm.config.Iterations,
	)

	// Create a context with timeout if duration is specified
	warmupCtx := ctx
	if wm.config.Duration > 0 {
		var cancel context.CancelFunc
		warmupCtx, cancel = context.WithTimeout(ctx, wm.config.Duration)
		defer cancel()
	}

	vocabulary.Default()

	sample := generateSampleText(wm.config.SampleTextSize)
	calls := wm.run(warmupCtx, func() {
		for _, n := range wm.normalizers {
			_ = n.Normalize(sample)
		}
		for _, ex := range wm.extractors {
			_, _ = ex.Parse(sample)
		}
	})

	// Force garbage collection if configured
	if wm.config.ForceGC {
		wm.logger.Debug("Forcing garbage collection after warmup")
		runtime.GC()
	}

	wm.logger.Info("System warmup completed",
		"duration", time.Since(startTime),
		"iterations", calls,
	)
	return calls * int64(len(wm.extractors)+len(wm.normalizers))
}

// run calls fn from Concurrency goroutines, Iterations times each.
func (wm *Manager) run(ctx context.Context, fn func()) int64 {
	if len(wm.extractors)+len(wm.normalizers) == 0 {
		return 0
	}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int64
	)
	for i := 0; i < wm.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			var n int64
			for j := 0; j < wm.config.Iterations; j++ {
				// Check for context cancellation
				if ctx.Err() != nil {
					break
				}
				fn()
				n++
			}

			mu.Lock()
			total += n
			mu.Unlock()
		}()
	}

	wg.Wait()
	return total
}

// generateSampleText creates number-rich sample text of the specified size
func generateSampleText(size int) string {
	phrases := []string{
		"the invoice came to one thousand two hundred and thirty-four dollars",
		"and fifty cents,",
		"she paid seventy five cents for a forty-two page booklet;",
		"RMB one hundred thousand was wired on Monday.",
		"nothing here but words",
	}

	var sb strings.Builder
	for i := 0; sb.Len() < size; i++ {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(phrases[i%len(phrases)])
	}
	return sb.String()
}
