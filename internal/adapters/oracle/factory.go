package oracle

import (
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/baditaflorin/go_number_words/internal/ports"
)

// Oracle kinds accepted by Build.
const (
	KindRule   = "rule"
	KindRemote = "remote"
	KindONNX   = "onnx"
	KindEcho   = "echo"

	// KindStatic names StaticOracle; Build does not create it.
	KindStatic = "static"
)

// Cache kinds accepted by Build.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// CacheOptions configures the answer cache placed in front of an oracle.
type CacheOptions struct {
	Kind          string        `mapstructure:"kind" yaml:"kind"`
	Size          int           `mapstructure:"size" yaml:"size"`
	TTL           time.Duration `mapstructure:"ttl" yaml:"ttl"`
	RedisAddr     string        `mapstructure:"redis_addr" yaml:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password" yaml:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db" yaml:"redis_db"`
	Prefix        string        `mapstructure:"prefix" yaml:"prefix"`
}

// Options selects and configures an oracle.
type Options struct {
	Kind          string        `mapstructure:"kind" yaml:"kind"`
	CurrencyWords []string      `mapstructure:"currency_words" yaml:"currency_words"`
	Remote        RemoteOptions `mapstructure:"remote" yaml:"remote"`
	ONNX          ONNXOptions   `mapstructure:"onnx" yaml:"onnx"`
	Cache         CacheOptions  `mapstructure:"cache" yaml:"cache"`
}

// Validate checks if the options are valid.
func (o Options) Validate() error {
	switch o.Kind {
	case KindRule, KindEcho:
	case KindRemote:
		if o.Remote.URL == "" {
			return errors.New("oracle.remote.url is required for the remote oracle")
		}
	case KindONNX:
		if o.ONNX.ModelPath == "" || o.ONNX.TokenizerPath == "" {
			return errors.New("oracle.onnx.model_path and oracle.onnx.tokenizer_path are required for the onnx oracle")
		}
	default:
		return fmt.Errorf("unknown oracle kind %q", o.Kind)
	}

	switch o.Cache.Kind {
	case "", CacheNone:
	case CacheMemory:
		if o.Cache.Size <= 0 {
			return errors.New("oracle.cache.size must be greater than 0")
		}
	case CacheRedis:
		if o.Cache.RedisAddr == "" {
			return errors.New("oracle.cache.redis_addr is required for the redis cache")
		}
	default:
		return fmt.Errorf("unknown oracle cache kind %q", o.Cache.Kind)
	}
	return nil
}

// Build creates the oracle described by opts. The returned close function
// releases models and connections and is never nil.
func Build(opts Options, logger ports.Logger) (ports.Oracle, func() error, error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}

	var (
		oracle  ports.Oracle
		closers []func() error
	)
	switch opts.Kind {
	case KindRule:
		oracle = NewRuleOracle(opts.CurrencyWords...)
	case KindEcho:
		oracle = EchoOracle{}
	case KindRemote:
		remote, err := NewRemoteOracle(opts.Remote)
		if err != nil {
			return nil, nil, err
		}
		oracle = remote
	case KindONNX:
		model, err := NewONNXOracle(opts.ONNX)
		if err != nil {
			return nil, nil, err
		}
		oracle = model
		closers = append(closers, model.Close)
	}

	switch opts.Cache.Kind {
	case CacheMemory:
		oracle = NewCachedOracle(oracle, NewMemoryCache(opts.Cache.Size, opts.Cache.TTL), opts.Cache.TTL, logger)
	case CacheRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     opts.Cache.RedisAddr,
			Password: opts.Cache.RedisPassword,
			DB:       opts.Cache.RedisDB,
		})
		closers = append(closers, client.Close)
		oracle = NewCachedOracle(oracle, NewRedisCache(client, opts.Cache.Prefix), opts.Cache.TTL, logger)
	}

	logger.Info("Oracle ready", "kind", opts.Kind, "cache", opts.Cache.Kind)

	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}
	return oracle, closeAll, nil
}
