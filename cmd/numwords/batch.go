package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/baditaflorin/go_number_words/internal/adapters/render"
	"github.com/baditaflorin/go_number_words/internal/adapters/stream/lineprocessor"
)

func newBatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "batch [file]",
		Short: "Extract monetary number phrases from every line of a file",
		Long: `Processes every non-blank line of the file, or of stdin when no file
is given, and writes the results in input order. Lines whose oracle call
fails are reported inline and do not stop the run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			renderer, err := render.New(a.cfg.Format)
			if err != nil {
				return err
			}

			processor := lineprocessor.NewProcessor(a.logger, a.pipeline, renderer, lineprocessor.ProcessingConfig{
				BatchSize:   a.cfg.Batch.BatchSize,
				Workers:     a.cfg.Batch.Workers,
				MaxLineSize: a.cfg.Batch.MaxLineSize,
				UseParallel: a.cfg.Batch.Parallel,
			})

			result, err := processor.ProcessStream(cmd.Context(), in, cmd.OutOrStdout())
			a.logger.Info("Batch completed",
				"lines", result.Lines,
				"failed", result.Failed,
				"records", result.Records,
				"bytes_processed", result.BytesProcessed,
				"duration", result.ProcessingTime,
			)
			return err
		}),
	}
}
