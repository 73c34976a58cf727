package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/baditaflorin/go_number_words/internal/server"
	"github.com/baditaflorin/go_number_words/internal/warmup"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the parser over HTTP",
		Long: `Starts an HTTP server with the endpoints:
  GET  /health   liveness
  POST /parse    {"text": ...} -> parsed numbers, no oracle call
  POST /extract  {"text": ...} -> oracle-confirmed records
  GET  /metrics  Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg.Server
			if addr != "" {
				cfg.Addr = addr
			}

			a.logger.Info("Starting numwords HTTP server",
				"addr", cfg.Addr,
				"read_timeout", cfg.ReadTimeout,
				"write_timeout", cfg.WriteTimeout,
				"max_request_size", cfg.MaxRequestSize,
				"concurrency", cfg.Concurrency,
			)

			if cfg.WarmUp {
				mgr := warmup.NewManager(a.logger, warmup.DefaultWarmupConfig())
				mgr.RegisterExtractor(a.pipeline)
				mgr.RegisterNormalizer(a.normalizer)
				mgr.WarmUp(cmd.Context())
			}

			srv := server.New(cfg, a.pipeline, a.logger, a.registry)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return srv.ListenAndServe(cfg.Addr)
			})
			g.Go(func() error {
				<-ctx.Done()
				a.logger.Info("Shutting down server...")
				return srv.Shutdown()
			})

			err := g.Wait()
			a.logger.Info("Server stopped")
			return err
		}),
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}
