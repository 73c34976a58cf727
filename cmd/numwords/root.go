package main

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/baditaflorin/go_number_words/internal/adapters/logger"
	"github.com/baditaflorin/go_number_words/internal/adapters/normalizer"
	"github.com/baditaflorin/go_number_words/internal/adapters/oracle"
	"github.com/baditaflorin/go_number_words/internal/config"
	"github.com/baditaflorin/go_number_words/internal/core/pipeline"
	"github.com/baditaflorin/go_number_words/internal/core/reconcile"
	"github.com/baditaflorin/go_number_words/internal/metrics"
	"github.com/baditaflorin/go_number_words/internal/ports"
)

// app holds everything a subcommand needs. It is filled in by setup before
// the subcommand runs and released by teardown once it returns, whether or
// not it failed.
type app struct {
	v          *viper.Viper
	configPath string

	cfg         *config.Config
	logger      ports.Logger
	registry    *prometheus.Registry
	normalizer  ports.TextNormalizer
	pipeline    *pipeline.Pipeline
	closeOracle func() error
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "numwords",
		Short: "Find monetary number phrases written in English words",
		Long: `numwords finds cardinal numbers written out in English words, such as
"two thousand and fifty cents", converts them to canonical numerals
("2,000.50") and asks an entity oracle which of them are money.

Confirmed phrases are printed with a sequence label, the phrase as it was
written and its numeral.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Path to a YAML config file")
	flags.String("oracle", "", "Oracle kind: rule, remote, onnx or echo")
	flags.String("format", "", "Output format: text, json or yaml")
	flags.String("log-file", "", "Log file path (empty = stderr)")
	flags.Bool("log-json", false, "Write logs as JSON")

	for key, flag := range map[string]string{
		"oracle.kind": "oracle",
		"format":      "format",
		"log.file":    "log-file",
		"log.json":    "log-json",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(newExtractCmd(a), newBatchCmd(a), newServeCmd(a))
	return root
}

// run wraps a subcommand so that teardown runs after it even when it fails.
func (a *app) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		return errors.Join(err, a.teardown())
	}
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := a.init(cmd); err != nil {
		return errors.Join(err, a.teardown())
	}
	return nil
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.v, a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.logger, err = logger.New(logger.Options{File: cfg.Log.File, JSON: cfg.Log.JSON})
	if err != nil {
		return err
	}

	o, closeOracle, err := oracle.Build(cfg.Oracle, a.logger)
	if err != nil {
		return err
	}
	a.closeOracle = closeOracle

	a.registry = prometheus.NewRegistry()
	a.normalizer = normalizer.NewNormalizerFactory().CreateNormalizer(normalizer.ParseNormalizerType(cfg.Normalizer))
	a.pipeline, err = pipeline.New(pipeline.Config{
		Substitution:       reconcile.Mode(cfg.Substitution),
		SuppressDegenerate: cfg.SuppressDegenerate,
	}, a.logger, a.normalizer, o, metrics.New(a.registry))
	if err != nil {
		return err
	}

	a.logger.Debug("Command ready",
		"command", cmd.Name(),
		"normalizer", cfg.Normalizer,
		"substitution", cfg.Substitution,
		"oracle", cfg.Oracle.Kind,
	)
	return nil
}

// teardown closes the oracle and flushes the logger. It is safe to call
// more than once.
func (a *app) teardown() error {
	var errs []error
	if a.closeOracle != nil {
		errs = append(errs, a.closeOracle())
		a.closeOracle = nil
	}
	if a.logger != nil {
		errs = append(errs, a.logger.Close())
		a.logger = nil
	}
	return errors.Join(errs...)
}
