package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/CodexForgeBR/selfevo/internal/ai"
	"github.com/CodexForgeBR/selfevo/internal/config"
	"github.com/CodexForgeBR/selfevo/internal/exitcode"
	"github.com/CodexForgeBR/selfevo/internal/insights"
	"github.com/CodexForgeBR/selfevo/internal/journal"
	"github.com/CodexForgeBR/selfevo/internal/parser"
	"github.com/CodexForgeBR/selfevo/internal/prompt"
	"github.com/CodexForgeBR/selfevo/internal/store"
)

// newTestApp returns an app isolated from the real home directory and
// environment, reading stdin from input.
func newTestApp(t *testing.T, input string, env map[string]string) (*app, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	out := &bytes.Buffer{}
	a := &app{
		cfg:         config.NewDefaultConfig(),
		in:          strings.NewReader(input),
		out:         out,
		getenv:      func(k string) string { return env[k] },
		home:        dir,
		projectPath: filepath.Join(dir, "project-config"),
		now:         func() time.Time { return time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC) },
	}
	a.cfg.DBPath = filepath.Join(dir, "interactions.db")
	return a, out
}

func execute(a *app, args ...string) error {
	root := a.rootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func exitCodeOf(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return exitcode.Success
	}
	var exitErr *exitcode.ExitError
	require.ErrorAs(t, err, &exitErr)
	return exitErr.Code
}

// ---------------------------------------------------------------------------
// parse
// ---------------------------------------------------------------------------

func TestParseCmd(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		format   string
		wantCode int
		contains []string
	}{
		{
			name:     "direct json as text",
			input:    `{"scores":{"utility":8},"patch_note":"fine"}`,
			format:   "text",
			wantCode: exitcode.Success,
			contains: []string{"Strategy:   direct", "Succeeded:  true", `"utility": 8`},
		},
		{
			name:     "fenced json as json",
			input:    "```json\n{\"scores\":{\"clarity\":6}}\n```",
			format:   "json",
			wantCode: exitcode.Success,
			contains: []string{`"succeeded": true`, `"clarity": 6`},
		},
		{
			name:     "blank input fails",
			input:    "   \n",
			format:   "text",
			wantCode: exitcode.ParseFailed,
			contains: []string{"Succeeded:  false"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, out := newTestApp(t, tt.input, nil)
			err := execute(a, "parse", "--format", tt.format)
			assert.Equal(t, tt.wantCode, exitCodeOf(t, err))
			for _, want := range tt.contains {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func TestParseCmd_YAMLRoundTrips(t *testing.T) {
	a, out := newTestApp(t, `{"scores":{"utility":"7/10"}}`, nil)
	require.NoError(t, execute(a, "parse", "-o", "yaml"))

	var got parser.Outcome
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
	assert.True(t, got.Succeeded)
	assert.Equal(t, parser.StrategyDirect, got.Strategy)
}

// ---------------------------------------------------------------------------
// validate
// ---------------------------------------------------------------------------

func TestValidateCmd(t *testing.T) {
	good := writeFile(t, "good.md", "Success Today: ship the parser\nPrimary Constraint: two hours\n")
	bad := writeFile(t, "bad.md", "nothing structured here\n")

	tests := []struct {
		name     string
		args     []string
		wantCode int
		contains []string
	}{
		{
			name:     "all met",
			args:     []string{"validate", "--stage", "0", good},
			wantCode: exitcode.Success,
			contains: []string{good + ": ✅"},
		},
		{
			name:     "one failed",
			args:     []string{"validate", "--stage", "0", good, bad},
			wantCode: exitcode.ValidationFailed,
			contains: []string{good + ": ✅", bad + ": ❌"},
		},
		{
			name:     "unknown stage",
			args:     []string{"validate", "--stage", "9", good},
			wantCode: exitcode.ValidationFailed,
			contains: []string{"Unknown stage: 9"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, out := newTestApp(t, "", nil)
			err := execute(a, tt.args...)
			assert.Equal(t, tt.wantCode, exitCodeOf(t, err))
			for _, want := range tt.contains {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func TestValidateCmd_PreservesOrderInJSON(t *testing.T) {
	files := []string{
		writeFile(t, "a.md", "Success Today: a\n"),
		writeFile(t, "b.md", "Success Today: b\nPrimary Constraint: c\n"),
		writeFile(t, "c.md", "nothing\n"),
	}
	a, out := newTestApp(t, "", nil)
	err := execute(a, append([]string{"validate", "-s", "0", "-o", "json"}, files...)...)
	assert.Equal(t, exitcode.ValidationFailed, exitCodeOf(t, err))

	var got []fileVerdict
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 3)
	for i, f := range files {
		assert.Equal(t, f, got[i].File)
	}
	assert.Equal(t, "partial", string(got[0].Verdict.Status))
	assert.Equal(t, "success", string(got[1].Verdict.Status))
	assert.Equal(t, "failed", string(got[2].Verdict.Status))
}

// verdictStageLabels returns the stage label values recorded on the verdict
// counter in the default registry.
func verdictStageLabels(t *testing.T) map[string]bool {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	labels := map[string]bool{}
	for _, mf := range families {
		if mf.GetName() != "selfevo_stage_verdicts_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "stage" {
					labels[lp.GetValue()] = true
				}
			}
		}
	}
	return labels
}

func TestValidateCmd_NormalizesMetricStage(t *testing.T) {
	input := writeFile(t, "in.md", "Success Today: x\n")

	a, _ := newTestApp(t, "", nil)
	err := execute(a, "validate", "--stage", "Stage-Nine-And-A-Half", input)
	assert.Equal(t, exitcode.ValidationFailed, exitCodeOf(t, err))

	a, _ = newTestApp(t, "", nil)
	require.NoError(t, execute(a, "validate", "--stage", " META ", writeFile(t, "meta.md", prompt.MetaTemplateResponse())))

	labels := verdictStageLabels(t)
	assert.True(t, labels["unknown"])
	assert.True(t, labels["meta"])
	assert.False(t, labels["Stage-Nine-And-A-Half"])
	assert.False(t, labels[" META "])
}

func TestValidateCmd_ReadsStdin(t *testing.T) {
	a, out := newTestApp(t, "Success Today: x\nPrimary Constraint: y\n", nil)
	require.NoError(t, execute(a, "validate", "--stage", "0"))
	assert.Contains(t, out.String(), "-: ✅")
}

func TestValidateCmd_MissingFile(t *testing.T) {
	a, _ := newTestApp(t, "", nil)
	err := execute(a, "validate", "--stage", "0", filepath.Join(t.TempDir(), "missing.md"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read input")
}

// ---------------------------------------------------------------------------
// score
// ---------------------------------------------------------------------------

func TestScoreCmd(t *testing.T) {
	response := "## Plan\n- step one\n- step two\n\nTherefore we start with the parser."

	t.Run("heuristic text", func(t *testing.T) {
		a, out := newTestApp(t, response, nil)
		require.NoError(t, execute(a, "score", "--stage", "4"))
		assert.Contains(t, out.String(), "Method:     heuristic")
		assert.Contains(t, out.String(), "clarity")
	})

	t.Run("none scorer via config file", func(t *testing.T) {
		a, out := newTestApp(t, response, nil)
		cfgPath := writeFile(t, "config", "SCORER=none\n")
		require.NoError(t, execute(a, "score", "--stage", "4", "--config", cfgPath, "-o", "json"))

		var got scoreResult
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, "none", got.Scores.Method)
		assert.Empty(t, got.Scores.Scores)
	})

	t.Run("invalid scorer flag", func(t *testing.T) {
		a, _ := newTestApp(t, response, nil)
		err := execute(a, "score", "--stage", "4", "--scorer", "oracle")
		require.Error(t, err)
	})
}

// ---------------------------------------------------------------------------
// report
// ---------------------------------------------------------------------------

func TestReportCmd(t *testing.T) {
	a, out := newTestApp(t, "", nil)

	st, err := store.Open(a.cfg.DBPath, store.WithClock(a.now))
	require.NoError(t, err)
	ctx := context.Background()
	for _, utility := range []int{2, 3} {
		_, err := st.Save(ctx, store.Interaction{
			Stage:      "1",
			UserPrompt: "I feel stuck on this",
			AIResponse: "Key Themes:\n- a\n- b\n- c\n",
			SelfScores: map[string]int{"utility": utility, "alignment": 8},
		})
		require.NoError(t, err)
	}
	require.NoError(t, st.Close())

	t.Run("markdown", func(t *testing.T) {
		out.Reset()
		require.NoError(t, execute(a, "report", "--db", a.cfg.DBPath))
		assert.Contains(t, out.String(), "# Weekly Self-Patch Ritual")
		assert.Contains(t, out.String(), "Interactions: 2")
		assert.Contains(t, out.String(), "- Stage 1: stuck 2 times")
	})

	t.Run("json", func(t *testing.T) {
		out.Reset()
		require.NoError(t, execute(a, "report", "--db", a.cfg.DBPath, "-o", "json"))
		var got insights.Report
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, 2, got.Interactions)
	})

	t.Run("save appends to journal", func(t *testing.T) {
		out.Reset()
		journalPath := filepath.Join(t.TempDir(), "patches.md")
		require.NoError(t, execute(a, "report", "--db", a.cfg.DBPath, "--journal", journalPath, "--save"))
		assert.Contains(t, journal.Read(journalPath), "Interactions: 2")
	})

	t.Run("window excludes old rows", func(t *testing.T) {
		out.Reset()
		later := a.now().Add(30 * 24 * time.Hour)
		a.now = func() time.Time { return later }
		require.NoError(t, execute(a, "report", "--db", a.cfg.DBPath, "--since", "24h"))
		assert.Contains(t, out.String(), "Interactions: 0")
	})
}

// ---------------------------------------------------------------------------
// run
// ---------------------------------------------------------------------------

func TestRunCmd_RequiresAPIKey(t *testing.T) {
	a, _ := newTestApp(t, "", nil)
	err := execute(a, "run")
	require.ErrorIs(t, err, ai.ErrNoAPIKey)
}

func TestRunCmd_EOFExitsCleanly(t *testing.T) {
	a, out := newTestApp(t, "", map[string]string{"DEEPSEEK_API_KEY": "sk-test"})
	require.NoError(t, execute(a, "run", "--model", "test-model", "--db", a.cfg.DBPath))
	assert.Contains(t, out.String(), "test-model")
}

// ---------------------------------------------------------------------------
// config loading
// ---------------------------------------------------------------------------

func TestLoadConfig_Precedence(t *testing.T) {
	a, _ := newTestApp(t, "Success Today: x\nPrimary Constraint: y\n", map[string]string{"DEEPSEEK_MODEL": "env-model"})
	require.NoError(t, os.WriteFile(a.projectPath, []byte("MODEL=project-model\nTEMPERATURE=0.2\n"), 0o644))

	require.NoError(t, execute(a, "validate", "--stage", "0", "--temperature", "1.1"))
	assert.Equal(t, "env-model", a.cfg.Model)
	assert.InDelta(t, 1.1, a.cfg.Temperature, 1e-9)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	a, _ := newTestApp(t, "", nil)
	err := execute(a, "parse", "--config", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}
