package oracle

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/baditaflorin/go_number_words/internal/ports"
)

// CachedOracle remembers the answers of another oracle. Cache failures are
// logged and fall through to the wrapped oracle.
type CachedOracle struct {
	next   ports.Oracle
	cache  ports.OracleCache
	ttl    time.Duration
	logger ports.Logger
}

// NewCachedOracle wraps next with cache.
func NewCachedOracle(next ports.Oracle, cache ports.OracleCache, ttl time.Duration, logger ports.Logger) *CachedOracle {
	return &CachedOracle{next: next, cache: cache, ttl: ttl, logger: logger}
}

// Recognize implements ports.Oracle.
func (o *CachedOracle) Recognize(ctx context.Context, text string) ([]string, error) {
	key := cacheKey(text)

	matches, ok, err := o.cache.Get(ctx, key)
	if err != nil {
		o.logger.Warn("Oracle cache read failed", "error", err)
	} else if ok {
		o.logger.Debug("Oracle cache hit", "key", key)
		return matches, nil
	}

	matches, err = o.next.Recognize(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := o.cache.Set(ctx, key, matches, o.ttl); err != nil {
		o.logger.Warn("Oracle cache write failed", "error", err)
	}
	return matches, nil
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
