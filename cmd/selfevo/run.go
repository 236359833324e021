package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/selfevo/internal/ai"
	"github.com/CodexForgeBR/selfevo/internal/banner"
	"github.com/CodexForgeBR/selfevo/internal/exitcode"
	"github.com/CodexForgeBR/selfevo/internal/insights"
	"github.com/CodexForgeBR/selfevo/internal/journal"
	"github.com/CodexForgeBR/selfevo/internal/logging"
	"github.com/CodexForgeBR/selfevo/internal/ratelimit"
	"github.com/CodexForgeBR/selfevo/internal/schedule"
	"github.com/CodexForgeBR/selfevo/internal/scoring"
	"github.com/CodexForgeBR/selfevo/internal/session"
	sighandler "github.com/CodexForgeBR/selfevo/internal/signal"
	"github.com/CodexForgeBR/selfevo/internal/store"
)

func (a *app) runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Interactive stage loop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runLoop(cmd)
		},
	}
}

func (a *app) runLoop(cmd *cobra.Command) error {
	cfg := a.cfg
	if cfg.APIKey == "" {
		return fmt.Errorf("%w: set DEEPSEEK_API_KEY or OPENAI_API_KEY", ai.ErrNoAPIKey)
	}

	fallback, err := scoring.NewScorer(cfg.Scorer)
	if err != nil {
		return err
	}
	day, err := schedule.ParseWeekday(cfg.RitualDay)
	if err != nil {
		return err
	}
	ritual := schedule.Weekly(day)

	st, err := store.Open(cfg.DBPath, store.WithClock(a.now))
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Carry the last week of insights into this session.
	recent, err := st.Since(ctx, a.now().Add(-week))
	if err != nil {
		return err
	}
	tracker := insights.FromInteractions(recent)

	raw := ai.NewOpenAIClient(ai.OpenAIConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.APIBaseURL,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		Timeout:     cfg.RequestTimeout(),
		Now:         a.now,
	})
	client := &ai.RetryClient{
		Inner: raw,
		RetryCfg: ai.RetryConfig{
			MaxRetries: cfg.MaxRetry,
			OnRetry: func(attempt int, delay time.Duration, err error) {
				logging.Warn(fmt.Sprintf("Model call failed (attempt %d), retrying in %s: %v", attempt, ratelimit.FormatDuration(delay), err))
			},
			OnRateLimit: func(info *ratelimit.RateLimitInfo) {
				logging.Warn(fmt.Sprintf("Rate limited (%s), waiting until %s", info.Source, info.ResetHuman))
			},
		},
	}

	loop := &session.Loop{
		Client:    client,
		Evaluator: &scoring.Evaluator{Client: client, Fallback: fallback},
		Store:     st,
		Tracker:   tracker,
		In:        cmd.InOrStdin(),
		Out:       cmd.OutOrStdout(),
		Now:       a.now,
		Schedule:  ritual,
		Journal:   cfg.JournalPath,
	}

	stop := sighandler.SetupSignalHandler(ctx, cancel, func() {
		logging.Warn("Interrupted, running the weekly ritual...")
	})
	defer stop()

	banner.PrintStartupBanner(cmd.OutOrStdout(), uuid.NewString(), raw.Model(), cfg.Scorer, cfg.DBPath)
	logging.Debugf("next weekly ritual: %s", ritual.Next(a.now(), time.Time{}).Format("Mon 2006-01-02"))
	if cfg.JournalPath != "" {
		for _, s := range journal.LastSuggestions(journal.Read(cfg.JournalPath)) {
			logging.Info("Last ritual suggested: " + s)
		}
	}

	if err := loop.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return &exitcode.ExitError{Code: exitcode.Interrupted}
		}
		return err
	}
	return nil
}
