package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/selfevo/internal/metrics"
	"github.com/CodexForgeBR/selfevo/internal/scoring"
)

// scoreResult is the score command output.
type scoreResult struct {
	Stage  string           `json:"stage" yaml:"stage"`
	IsMeta bool             `json:"is_meta" yaml:"is_meta"`
	Scores scoring.ScoreMap `json:"scores" yaml:"scores"`
	Note   string           `json:"note" yaml:"note"`
}

func (a *app) scoreCmd() *cobra.Command {
	var stageLabel string
	var isMeta bool

	cmd := &cobra.Command{
		Use:   "score --stage <s> [--meta] [file|-]",
		Short: "Score a response with the configured local scorer",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scorer, err := scoring.NewScorer(a.cfg.Scorer)
			if err != nil {
				return err
			}
			response, err := readInput(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			sm, note := scorer.Score(stageLabel, response, isMeta)
			metrics.RecordEvaluation(sm.Method)
			result := scoreResult{Stage: stageLabel, IsMeta: isMeta, Scores: sm, Note: note}

			return render(cmd.OutOrStdout(), a.cfg.OutputFormat, result, func(w io.Writer) error {
				fmt.Fprintf(w, "Method:     %s\n", sm.Method)
				fmt.Fprintf(w, "Confidence: %.2f\n", sm.Confidence)
				keys := make([]string, 0, len(sm.Scores))
				for k := range sm.Scores {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					fmt.Fprintf(w, "  %-16s %d\n", k, sm.Scores[k])
				}
				_, err := fmt.Fprintf(w, "Note:       %s\n", note)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&stageLabel, "stage", "s", "", "Stage label: 0-4, meta or 5")
	cmd.Flags().BoolVar(&isMeta, "meta", false, "Score as a Meta-Mode reflection")
	_ = cmd.MarkFlagRequired("stage")
	return cmd
}
