package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/selfevo/internal/cli"
	"github.com/CodexForgeBR/selfevo/internal/config"
	"github.com/CodexForgeBR/selfevo/internal/exitcode"
	"github.com/CodexForgeBR/selfevo/internal/logging"
)

// version vars injected via ldflags at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// app carries the process environment into the commands so tests can
// replace it.
type app struct {
	cfg         *config.Config
	in          io.Reader
	out         io.Writer
	getenv      func(string) string
	home        string
	projectPath string
	now         func() time.Time
}

func main() {
	home, _ := os.UserHomeDir()
	a := &app{
		cfg:         config.NewDefaultConfig(),
		in:          os.Stdin,
		out:         os.Stdout,
		getenv:      os.Getenv,
		home:        home,
		projectPath: config.ProjectConfigPath,
		now:         time.Now,
	}

	if err := a.rootCmd().Execute(); err != nil {
		var exitErr *exitcode.ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				logging.Error(exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		logging.Error(err.Error())
		os.Exit(exitcode.Error)
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "selfevo",
		Short:   "Staged-response validation engine and self-evolution loop",
		Long:    "selfevo validates model responses against staged exit rules, scores them and tracks weekly insights.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(a.in)
	root.SetOut(a.out)

	cli.BindFlags(root, a.cfg)
	cli.SetCustomHelp(root)

	root.AddCommand(
		a.runCmd(),
		a.parseCmd(),
		a.validateCmd(),
		a.scoreCmd(),
		a.reportCmd(),
	)
	return root
}

// loadConfig merges config files, environment and explicitly set flags into
// a.cfg and validates the result.
func (a *app) loadConfig(cmd *cobra.Command) error {
	loaded, err := config.LoadWithPrecedence(
		config.GlobalPath(a.home),
		a.projectPath,
		a.cfg.ConfigFile,
		config.EnvOverrides(a.getenv),
		cli.Overrides(cmd),
	)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	*a.cfg = *loaded

	if err := cli.ValidateFlags(a.cfg); err != nil {
		return err
	}
	logging.SetVerbose(a.cfg.Verbose)
	logging.Debugf("config: model=%s base=%s scorer=%s db=%s", a.cfg.Model, a.cfg.APIBaseURL, a.cfg.Scorer, a.cfg.DBPath)
	return nil
}
