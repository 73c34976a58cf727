package ports

import (
	"context"
	"time"
)

// Oracle returns the substrings of text it judges to denote monetary amounts.
type Oracle interface {
	Recognize(ctx context.Context, text string) ([]string, error)
}

// OracleCache stores oracle answers keyed by an opaque string.
type OracleCache interface {
	Get(ctx context.Context, key string) ([]string, bool, error)
	Set(ctx context.Context, key string, matches []string, ttl time.Duration) error
}

// OracleFunc adapts an ordinary function to the Oracle interface.
type OracleFunc func(ctx context.Context, text string) ([]string, error)

// Recognize calls f(ctx, text).
func (f OracleFunc) Recognize(ctx context.Context, text string) ([]string, error) {
	return f(ctx, text)
}
