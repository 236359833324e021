package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/CodexForgeBR/selfevo/internal/exitcode"
	"github.com/CodexForgeBR/selfevo/internal/metrics"
	"github.com/CodexForgeBR/selfevo/internal/stage"
)

// fileVerdict is one validated input.
type fileVerdict struct {
	File    string        `json:"file" yaml:"file"`
	Verdict stage.Verdict `json:"verdict" yaml:"verdict"`
}

func (a *app) validateCmd() *cobra.Command {
	var stageLabel, userPrompt, promptFile string

	cmd := &cobra.Command{
		Use:   "validate --stage <s> [files...]",
		Short: "Validate responses against a stage exit rule",
		Long: "Validate each file (or stdin) against the exit rule of --stage. Files are validated concurrently.\n" +
			"Exits 2 when any verdict is failed or the stage is unknown.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if promptFile != "" {
				data, err := os.ReadFile(promptFile)
				if err != nil {
					return fmt.Errorf("read prompt file: %w", err)
				}
				userPrompt = string(data)
			}

			results, err := validateAll(cmd, stageLabel, userPrompt, args)
			if err != nil {
				return err
			}

			if err := render(cmd.OutOrStdout(), a.cfg.OutputFormat, results, func(w io.Writer) error {
				for _, r := range results {
					fmt.Fprintf(w, "%s: %s\n", r.File, r.Verdict.Message)
				}
				return nil
			}); err != nil {
				return err
			}

			for _, r := range results {
				if r.Verdict.Status == stage.StatusFailed || r.Verdict.Status == stage.StatusUnknownStage {
					return &exitcode.ExitError{Code: exitcode.ValidationFailed}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&stageLabel, "stage", "s", "", "Stage label: 0-4, meta or 5")
	cmd.Flags().StringVar(&userPrompt, "prompt", "", "User prompt the response answered (enables constraint detection)")
	cmd.Flags().StringVar(&promptFile, "prompt-file", "", "Read the user prompt from a file")
	_ = cmd.MarkFlagRequired("stage")
	return cmd
}

// validateAll validates every input concurrently, preserving argument order.
func validateAll(cmd *cobra.Command, stageLabel, userPrompt string, files []string) ([]fileVerdict, error) {
	if len(files) == 0 {
		files = []string{"-"}
	}
	results := make([]fileVerdict, len(files))
	id, _ := stage.ParseID(stageLabel)
	metricLabel := id.String()

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.NumCPU())
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			response, err := readInput([]string{file}, cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			v := stage.Validate(stageLabel, response, userPrompt)
			metrics.RecordVerdict(metricLabel, string(v.Status))
			results[i] = fileVerdict{File: file, Verdict: v}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
