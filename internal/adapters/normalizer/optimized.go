package normalizer

import (
	"unicode/utf8"

	"github.com/baditaflorin/go_number_words/internal/core/domain"
	"github.com/baditaflorin/go_number_words/internal/pool"
	"github.com/baditaflorin/go_number_words/internal/ports"
)

// OptimizedNormalizer produces the same output as DefaultNormalizer in a
// single pass over the input, using pooled buffers.
type OptimizedNormalizer struct {
	bufferPool *pool.BufferPool
}

// NewOptimizedNormalizer creates a new optimized normalizer
func NewOptimizedNormalizer() ports.TextNormalizer {
	return &OptimizedNormalizer{
		bufferPool: pool.NewBufferPool(256),
	}
}

// whitespaceRun tracks pending whitespace. A run of one keeps its original
// character; longer runs collapse to a single space.
type whitespaceRun struct {
	first rune
	n     int
}

func (w *whitespaceRun) add(r rune) {
	if w.n == 0 {
		w.first = r
	}
	w.n++
}

func (w *whitespaceRun) flush(buf []byte) []byte {
	switch {
	case w.n == 1:
		buf = utf8.AppendRune(buf, w.first)
	case w.n > 1:
		buf = append(buf, ' ')
	}
	w.n = 0
	return buf
}

// Normalize implements ports.TextNormalizer
func (n *OptimizedNormalizer) Normalize(text string) domain.Normalized {
	history := collectHistory(text)

	buffer := n.bufferPool.Get()
	defer n.bufferPool.Put(buffer)

	var run whitespaceRun
	for _, r := range text {
		switch {
		case r == '-':
			run.add(' ')
		case isSpace(r):
			run.add(r)
		case isSymbol(r):
			run.add(' ')
			*buffer = run.flush(*buffer)
			*buffer = utf8.AppendRune(*buffer, r)
			run.add(' ')
		default:
			*buffer = run.flush(*buffer)
			*buffer = utf8.AppendRune(*buffer, r)
		}
	}
	*buffer = run.flush(*buffer)

	return domain.Normalized{Text: string(*buffer), History: history}
}

// NormalizerFactory creates the appropriate normalizer based on performance requirements
type NormalizerFactory struct{}

// NewNormalizerFactory creates a new normalizer factory
func NewNormalizerFactory() *NormalizerFactory {
	return &NormalizerFactory{}
}

// NormalizerType selects a normalizer implementation.
type NormalizerType int

const (
	// DefaultNormalizerType is the regular expression normalizer
	DefaultNormalizerType NormalizerType = iota
	// OptimizedNormalizerType uses buffer pooling and a single pass
	OptimizedNormalizerType
)

// ParseNormalizerType maps a configuration value to a NormalizerType.
// Unknown names select the default normalizer.
func ParseNormalizerType(name string) NormalizerType {
	if name == "optimized" {
		return OptimizedNormalizerType
	}
	return DefaultNormalizerType
}

// CreateNormalizer creates a normalizer of the specified type
func (f *NormalizerFactory) CreateNormalizer(normalizerType NormalizerType) ports.TextNormalizer {
	switch normalizerType {
	case OptimizedNormalizerType:
		return NewOptimizedNormalizer()
	default:
		return NewDefaultNormalizer()
	}
}
