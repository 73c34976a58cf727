package oracle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baditaflorin/go_number_words/internal/adapters/logger"
	"github.com/baditaflorin/go_number_words/internal/ports"
)

type countingOracle struct {
	calls   int
	matches []string
	err     error
}

func (o *countingOracle) Recognize(context.Context, string) ([]string, error) {
	o.calls++
	return o.matches, o.err
}

func TestCachedOracleMemory(t *testing.T) {
	next := &countingOracle{matches: []string{"5 dollars"}}
	cache := NewMemoryCache(8, time.Minute)
	o := NewCachedOracle(next, cache, time.Minute, logger.NewNop())

	for i := 0; i < 3; i++ {
		got, err := o.Recognize(context.Background(), "5 dollars")
		require.NoError(t, err)
		assert.Equal(t, []string{"5 dollars"}, got)
	}
	assert.Equal(t, 1, next.calls)
	assert.Equal(t, 1, cache.Len())

	_, err := o.Recognize(context.Background(), "6 dollars")
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCachedOracleDoesNotCacheErrors(t *testing.T) {
	next := &countingOracle{err: errors.New("down")}
	cache := NewMemoryCache(8, time.Minute)
	o := NewCachedOracle(next, cache, time.Minute, logger.NewNop())

	_, err := o.Recognize(context.Background(), "5 dollars")
	assert.Error(t, err)
	assert.Equal(t, 0, cache.Len())
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) ([]string, bool, error) {
	return nil, false, errors.New("cache down")
}

func (brokenCache) Set(context.Context, string, []string, time.Duration) error {
	return errors.New("cache down")
}

var _ ports.OracleCache = brokenCache{}

func TestCachedOracleFallsThroughOnCacheFailure(t *testing.T) {
	next := &countingOracle{matches: []string{"$5"}}
	o := NewCachedOracle(next, brokenCache{}, time.Minute, logger.NewNop())

	got, err := o.Recognize(context.Background(), "5")
	require.NoError(t, err)
	assert.Equal(t, []string{"$5"}, got)
	assert.Equal(t, 1, next.calls)
}

func TestMemoryCacheExpiry(t *testing.T) {
	cache := NewMemoryCache(4, 20*time.Millisecond)
	require.NoError(t, cache.Set(context.Background(), "k", []string{"1"}, 0))

	_, ok, _ := cache.Get(context.Background(), "k")
	assert.True(t, ok)

	assert.Eventually(t, func() bool {
		_, ok, _ := cache.Get(context.Background(), "k")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestRedisCache(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisCache(client, "")
	ctx := context.Background()

	mock.ExpectGet(DefaultRedisPrefix + "hit").SetVal(`["5 dollars",".50"]`)
	got, ok, err := cache.Get(ctx, "hit")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"5 dollars", ".50"}, got)

	mock.ExpectGet(DefaultRedisPrefix + "miss").RedisNil()
	_, ok, err = cache.Get(ctx, "miss")
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectGet(DefaultRedisPrefix + "broken").SetErr(errors.New("connection reset"))
	_, _, err = cache.Get(ctx, "broken")
	assert.Error(t, err)

	mock.ExpectSet(DefaultRedisPrefix+"k", `["$5"]`, time.Hour).SetVal("OK")
	require.NoError(t, cache.Set(ctx, "k", []string{"$5"}, time.Hour))

	mock.ExpectSet("custom:empty", `[]`, time.Minute).SetVal("OK")
	require.NoError(t, NewRedisCache(client, "custom:").Set(ctx, "empty", nil, time.Minute))

	assert.NoError(t, mock.ExpectationsWereMet())
}
