package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/baditaflorin/go_number_words/internal/adapters/render"
	"github.com/baditaflorin/go_number_words/internal/core/domain"
	"github.com/baditaflorin/go_number_words/internal/ports"
)

func newExtractCmd(a *app) *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract monetary number phrases from one line of text",
		Long: `Reads one line of text and prints every monetary number phrase in it.

Without --text the line is read interactively; blank input is asked for
again.

Example:
  numwords extract --text "I owe you twenty-five dollars"`,
		Args: cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			interactive := !cmd.Flags().Changed("text")
			if interactive {
				var err error
				text, err = prompt(cmd.InOrStdin(), out)
				if err != nil {
					return err
				}
			}
			if strings.TrimSpace(text) == "" {
				return domain.ErrEmptyInput
			}

			ex, err := a.pipeline.Extract(cmd.Context(), text)
			if err != nil {
				return err
			}

			var renderer ports.Renderer = render.Text{Header: interactive}
			if a.cfg.Format != render.FormatText {
				renderer, err = render.New(a.cfg.Format)
				if err != nil {
					return err
				}
			}
			return renderer.Render(out, ports.LineResult{Line: text, Extraction: ex})
		}),
	}
	cmd.Flags().StringVar(&text, "text", "", "Text to process instead of prompting")
	return cmd
}

// prompt asks for a line of text until a non-blank one is entered.
func prompt(in io.Reader, out io.Writer) (string, error) {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(out, "Input:")
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) != "" {
			return line, nil
		}
		fmt.Fprintln(out, "Please input text:")
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", errors.New("no input")
}
