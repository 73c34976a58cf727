package oracle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baditaflorin/go_number_words/internal/adapters/logger"
)

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"rule", Options{Kind: KindRule}, false},
		{"echo with memory cache", Options{Kind: KindEcho, Cache: CacheOptions{Kind: CacheMemory, Size: 10}}, false},
		{"remote without url", Options{Kind: KindRemote}, true},
		{"onnx without model", Options{Kind: KindONNX}, true},
		{"unknown kind", Options{Kind: "crystal-ball"}, true},
		{"memory cache without size", Options{Kind: KindRule, Cache: CacheOptions{Kind: CacheMemory}}, true},
		{"redis cache without addr", Options{Kind: KindRule, Cache: CacheOptions{Kind: CacheRedis}}, true},
		{"unknown cache", Options{Kind: KindRule, Cache: CacheOptions{Kind: "disk"}}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.opts.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	o, closeFn, err := Build(Options{Kind: KindRule}, logger.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &RuleOracle{}, o)
	assert.NoError(t, closeFn())

	o, closeFn, err = Build(Options{
		Kind:  KindEcho,
		Cache: CacheOptions{Kind: CacheMemory, Size: 16, TTL: time.Minute},
	}, logger.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &CachedOracle{}, o)
	assert.NoError(t, closeFn())

	o, closeFn, err = Build(Options{Kind: KindRemote, Remote: RemoteOptions{URL: "http://localhost:1/"}}, logger.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &RemoteOracle{}, o)
	assert.NoError(t, closeFn())

	_, _, err = Build(Options{Kind: "nope"}, logger.NewNop())
	assert.Error(t, err)
}
