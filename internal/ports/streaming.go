package ports

import (
	"context"
	"io"
	"time"

	"github.com/baditaflorin/go_number_words/internal/core/domain"
)

// StreamProcessor runs every line of an input stream through an extractor
// and writes the rendered results in input order.
type StreamProcessor interface {
	ProcessStream(ctx context.Context, reader io.Reader, writer io.Writer) (StreamResult, error)
}

// Renderer writes the records extracted from one line.
type Renderer interface {
	Render(w io.Writer, line LineResult) error
}

// LineResult pairs an input line with its extraction.
type LineResult struct {
	Index      int
	Line       string
	Extraction domain.Extraction
	Err        error
}

// StreamResult holds the outcome of processing a whole stream.
type StreamResult struct {
	Lines          int
	Failed         int
	Records        int
	BytesProcessed int64
	ProcessingTime time.Duration
}
