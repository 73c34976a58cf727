package ports

import "github.com/baditaflorin/go_number_words/internal/core/domain"

// TextNormalizer defines the interface for reversible text normalization.
type TextNormalizer interface {
	Normalize(text string) domain.Normalized
}
