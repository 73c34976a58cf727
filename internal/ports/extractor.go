package ports

import (
	"context"

	"github.com/baditaflorin/go_number_words/internal/core/domain"
)

// Extractor turns a line of text into parsed numbers and, with the help of
// an oracle, into output records.
type Extractor interface {
	Parse(text string) (domain.Parse, error)
	Extract(ctx context.Context, text string) (domain.Extraction, error)
}
