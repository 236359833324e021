package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/selfevo/internal/insights"
	"github.com/CodexForgeBR/selfevo/internal/journal"
	"github.com/CodexForgeBR/selfevo/internal/logging"
	"github.com/CodexForgeBR/selfevo/internal/store"
)

const week = 7 * 24 * time.Hour

func (a *app) reportCmd() *cobra.Command {
	var since time.Duration
	var save bool

	cmd := &cobra.Command{
		Use:   "report [--since <dur>]",
		Short: "Weekly self-patch report from stored interactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := store.Open(a.cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			rows, err := st.Since(cmd.Context(), a.now().Add(-since))
			if err != nil {
				return err
			}
			report := insights.FromInteractions(rows).Snapshot()

			if save {
				if a.cfg.JournalPath == "" {
					return fmt.Errorf("--save needs a journal path")
				}
				if err := journal.Append(a.cfg.JournalPath, a.now(), report.Render()); err != nil {
					return err
				}
				logging.Success("Report appended to " + a.cfg.JournalPath)
			}

			return render(cmd.OutOrStdout(), a.cfg.OutputFormat, report, func(w io.Writer) error {
				_, err := fmt.Fprint(w, report.Render())
				return err
			})
		},
	}

	cmd.Flags().DurationVar(&since, "since", week, "Window of interactions to include")
	cmd.Flags().BoolVar(&save, "save", false, "Append the report to the ritual journal")
	return cmd
}
