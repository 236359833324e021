package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/selfevo/internal/exitcode"
	"github.com/CodexForgeBR/selfevo/internal/metrics"
	"github.com/CodexForgeBR/selfevo/internal/parser"
)

func (a *app) parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse model output through the structured-text waterfall",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			outcome := parser.ParseStructuredText(raw)
			metrics.RecordParse(string(outcome.Strategy))

			if err := render(cmd.OutOrStdout(), a.cfg.OutputFormat, outcome, func(w io.Writer) error {
				return writeOutcome(w, outcome)
			}); err != nil {
				return err
			}
			if !outcome.Succeeded {
				return &exitcode.ExitError{Code: exitcode.ParseFailed}
			}
			return nil
		},
	}
}

func writeOutcome(w io.Writer, o parser.Outcome) error {
	data, err := json.MarshalIndent(o.Data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode data: %w", err)
	}
	fmt.Fprintf(w, "Strategy:   %s\n", o.Strategy)
	fmt.Fprintf(w, "Succeeded:  %t\n", o.Succeeded)
	fmt.Fprintf(w, "Confidence: %.2f\n", o.Confidence)
	if len(o.Warnings) > 0 {
		fmt.Fprintf(w, "Warnings:   %s\n", strings.Join(o.Warnings, "; "))
	}
	_, err = fmt.Fprintf(w, "Data:\n%s\n", data)
	return err
}
