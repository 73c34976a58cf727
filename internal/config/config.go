// Package config loads the numwords configuration from defaults, an optional
// YAML file and NUMWORDS_ environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/baditaflorin/go_number_words/internal/adapters/oracle"
	"github.com/baditaflorin/go_number_words/internal/adapters/render"
	"github.com/baditaflorin/go_number_words/internal/core/reconcile"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "NUMWORDS"

// LogConfig selects the log destination.
type LogConfig struct {
	File string `mapstructure:"file" yaml:"file"`
	JSON bool   `mapstructure:"json" yaml:"json"`
}

// BatchConfig tunes the line processor.
type BatchConfig struct {
	Parallel    bool `mapstructure:"parallel" yaml:"parallel"`
	Workers     int  `mapstructure:"workers" yaml:"workers"`
	BatchSize   int  `mapstructure:"batch_size" yaml:"batch_size"`
	MaxLineSize int  `mapstructure:"max_line_size" yaml:"max_line_size"`
}

// ServerConfig tunes the HTTP server.
type ServerConfig struct {
	Addr           string        `mapstructure:"addr" yaml:"addr"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	MaxRequestSize int           `mapstructure:"max_request_size" yaml:"max_request_size"`
	Concurrency    int           `mapstructure:"concurrency" yaml:"concurrency"`
	WarmUp         bool          `mapstructure:"warm_up" yaml:"warm_up"`
}

// Config is the complete configuration of the numwords tools.
type Config struct {
	Normalizer         string         `mapstructure:"normalizer" yaml:"normalizer"`
	Substitution       string         `mapstructure:"substitution" yaml:"substitution"`
	SuppressDegenerate bool           `mapstructure:"suppress_degenerate" yaml:"suppress_degenerate"`
	Format             string         `mapstructure:"format" yaml:"format"`
	Log                LogConfig      `mapstructure:"log" yaml:"log"`
	Oracle             oracle.Options `mapstructure:"oracle" yaml:"oracle"`
	Batch              BatchConfig    `mapstructure:"batch" yaml:"batch"`
	Server             ServerConfig   `mapstructure:"server" yaml:"server"`
}

// SetDefaults registers the default of every key on v so that environment
// variables are picked up for all of them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("normalizer", "optimized")
	v.SetDefault("substitution", string(reconcile.Literal))
	v.SetDefault("suppress_degenerate", false)
	v.SetDefault("format", render.FormatText)

	v.SetDefault("log.file", "")
	v.SetDefault("log.json", false)

	v.SetDefault("oracle.kind", oracle.KindRule)
	v.SetDefault("oracle.currency_words", oracle.DefaultCurrencyWords)
	v.SetDefault("oracle.remote.url", "")
	v.SetDefault("oracle.remote.label", oracle.DefaultRemoteLabel)
	v.SetDefault("oracle.remote.timeout", oracle.DefaultRemoteTimeout)
	v.SetDefault("oracle.onnx.shared_library", "")
	v.SetDefault("oracle.onnx.model_path", "")
	v.SetDefault("oracle.onnx.tokenizer_path", "")
	v.SetDefault("oracle.onnx.labels", oracle.DefaultONNXLabels)
	v.SetDefault("oracle.onnx.entity", oracle.DefaultRemoteLabel)
	v.SetDefault("oracle.onnx.max_seq_len", 256)
	v.SetDefault("oracle.cache.kind", oracle.CacheNone)
	v.SetDefault("oracle.cache.size", 1024)
	v.SetDefault("oracle.cache.ttl", time.Hour)
	v.SetDefault("oracle.cache.redis_addr", "localhost:6379")
	v.SetDefault("oracle.cache.redis_password", "")
	v.SetDefault("oracle.cache.redis_db", 0)
	v.SetDefault("oracle.cache.prefix", oracle.DefaultRedisPrefix)

	v.SetDefault("batch.parallel", true)
	v.SetDefault("batch.workers", 0)
	v.SetDefault("batch.batch_size", 64)
	v.SetDefault("batch.max_line_size", 1024*1024)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.max_request_size", 10*1024*1024)
	v.SetDefault("server.concurrency", 0)
	v.SetDefault("server.warm_up", true)
}

// Load reads the configuration. Flags already bound to v take precedence
// over the environment, which takes precedence over the file at path.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Normalizer {
	case "default", "optimized":
	default:
		return fmt.Errorf("normalizer must be default or optimized, got %q", c.Normalizer)
	}
	switch reconcile.Mode(c.Substitution) {
	case reconcile.Literal, reconcile.Spans:
	default:
		return fmt.Errorf("substitution must be literal or span, got %q", c.Substitution)
	}
	if _, err := render.New(c.Format); err != nil {
		return err
	}
	if c.Batch.Workers < 0 {
		return errors.New("batch.workers must not be negative")
	}
	if c.Server.MaxRequestSize <= 0 {
		return errors.New("server.max_request_size must be greater than 0")
	}
	return c.Oracle.Validate()
}
