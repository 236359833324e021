package session_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/selfevo/internal/ai"
	"github.com/CodexForgeBR/selfevo/internal/insights"
	"github.com/CodexForgeBR/selfevo/internal/journal"
	"github.com/CodexForgeBR/selfevo/internal/logging"
	"github.com/CodexForgeBR/selfevo/internal/prompt"
	"github.com/CodexForgeBR/selfevo/internal/schedule"
	"github.com/CodexForgeBR/selfevo/internal/scoring"
	"github.com/CodexForgeBR/selfevo/internal/session"
	"github.com/CodexForgeBR/selfevo/internal/stage"
	"github.com/CodexForgeBR/selfevo/internal/store"
	"github.com/CodexForgeBR/selfevo/internal/triggers"
)

func init() {
	color.NoColor = true
	logging.SetOutput(io.Discard)
}

const stage0Reply = "Success Today: ship the parser\nPrimary Constraint: two hours"

// fakeModel answers the stage request with reply and the self-evaluation
// request with evalReply, recording the messages it saw.
type fakeModel struct {
	mu        sync.Mutex
	reply     string
	evalReply string
	calls     [][]ai.Message
}

func (f *fakeModel) Chat(ctx context.Context, msgs []ai.Message, opts ai.ChatOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, msgs)
	if opts.ForceJSON {
		return f.evalReply, nil
	}
	return f.reply, nil
}

func newLoop(t *testing.T, model *fakeModel, in string, now time.Time) (*session.Loop, *bytes.Buffer, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "s.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	var out bytes.Buffer
	l := &session.Loop{
		Store:   st,
		Tracker: insights.NewTracker(),
		In:      strings.NewReader(in),
		Out:     &out,
		Now:     func() time.Time { return now },
	}
	if model != nil {
		l.Client = model
		l.Evaluator = &scoring.Evaluator{Client: model}
	}
	return l, &out, st
}

var tuesday = time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
var monday = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

// ---------------------------------------------------------------------------
// Process
// ---------------------------------------------------------------------------

func TestProcess_StageTurn(t *testing.T) {
	model := &fakeModel{
		reply:     stage0Reply,
		evalReply: `{"scores": {"clarity": 8, "stage_alignment": 9, "tone": 7, "utility": 8, "empathy": 7}, "patch_note": "good"}`,
	}
	l, out, st := newLoop(t, model, "", tuesday)

	turn, err := l.Process(context.Background(), "0", "  What should I focus on today?  ")
	require.NoError(t, err)

	assert.Equal(t, 1, turn.Number)
	assert.Equal(t, "What should I focus on today?", turn.UserPrompt)
	assert.False(t, turn.IsMeta)
	assert.Nil(t, turn.Resize)
	assert.Equal(t, stage0Reply, turn.Response)
	assert.Equal(t, stage.StatusSuccess, turn.Verdict.Status)
	assert.Equal(t, prompt.StageGuidance(stage.Stage0, true), turn.Guidance)
	assert.Equal(t, "self-report:direct", turn.Scores.Method)
	assert.Equal(t, "good", turn.EvalNote)
	assert.NotEmpty(t, turn.InteractionID)

	require.Len(t, model.calls, 2)
	assert.Equal(t, prompt.SystemMessage(stage.Stage0), model.calls[0][0].Content)
	assert.Equal(t, "What should I focus on today?", model.calls[0][1].Content)

	rows, err := st.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, turn.InteractionID, rows[0].ID)
	assert.Equal(t, 9, rows[0].SelfScores["stage_alignment"])
	assert.Equal(t, "good\n"+turn.Guidance, rows[0].PatchNote)

	text := out.String()
	assert.Contains(t, text, "🤖 AI RESPONSE")
	assert.Contains(t, text, turn.Verdict.Message)
	assert.Equal(t, 1, l.Turns())
}

func TestProcess_MetaTurnSkipsModel(t *testing.T) {
	model := &fakeModel{evalReply: "not json at all"}
	l, _, _ := newLoop(t, model, "", tuesday)
	l.Evaluator = &scoring.Evaluator{} // heuristic only

	turn, err := l.Process(context.Background(), "2", "[META] how did you decide on those patterns?")
	require.NoError(t, err)

	assert.True(t, turn.IsMeta)
	assert.Equal(t, prompt.MetaTemplateResponse(), turn.Response)
	assert.Equal(t, stage.StatusSuccess, turn.Verdict.Status)
	assert.Equal(t, prompt.StageGuidance(stage.Meta, true), turn.Guidance)
	assert.Equal(t, scoring.MethodHeuristic, turn.Scores.Method)
	assert.Empty(t, model.calls)
}

func TestProcess_MetaStageLabel(t *testing.T) {
	l, _, _ := newLoop(t, nil, "", tuesday)

	turn, err := l.Process(context.Background(), "5", "reflect please")
	require.NoError(t, err)
	assert.True(t, turn.IsMeta)
}

func TestProcess_ResizeIntervention(t *testing.T) {
	model := &fakeModel{reply: "Pick the single smallest file and open it.", evalReply: "{}"}
	l, out, _ := newLoop(t, model, "", tuesday)

	turn, err := l.Process(context.Background(), "1", "I'm stuck and scattered, too much going on")
	require.NoError(t, err)

	require.NotNil(t, turn.Resize)
	assert.Equal(t, triggers.EmotionScattered, turn.Resize.Emotion)
	assert.Equal(t, triggers.EmotionScattered, turn.Emotion)
	assert.Equal(t, turn.Resize.SystemPrompt, model.calls[0][0].Content)
	assert.Contains(t, out.String(), "🔄 Resize Intervention:")
	assert.Equal(t, scoring.MethodHeuristic, turn.Scores.Method, "empty scores fall back")
}

func TestProcess_ConstraintTurnFeedsTracker(t *testing.T) {
	model := &fakeModel{reply: "I hear you. That sounds heavy.", evalReply: `{"scores": {"utility": 2, "stage_alignment": 9}}`}
	l, _, _ := newLoop(t, model, "", tuesday)

	turn, err := l.Process(context.Background(), "3", "no advice please, only confirm what I said")
	require.NoError(t, err)
	assert.Equal(t, stage.StatusSuccess, turn.Verdict.Status)

	r := l.Tracker.Snapshot()
	assert.Equal(t, []insights.Count{{Name: "3", Count: 1}}, r.Stuck)
	assert.Equal(t, []insights.Count{
		{Name: "no advice", Count: 1},
		{Name: "only confirm", Count: 1},
	}, r.Constraints["3"])
}

func TestProcess_Errors(t *testing.T) {
	l, _, _ := newLoop(t, nil, "", tuesday)

	_, err := l.Process(context.Background(), "0", "   ")
	assert.ErrorIs(t, err, session.ErrEmptyPrompt)

	_, err = l.Process(context.Background(), "0", "plan my day")
	assert.ErrorIs(t, err, session.ErrNoClient)

	l.Client = ai.ChatFunc(func(context.Context, []ai.Message, ai.ChatOptions) (string, error) {
		return "", errors.New("boom")
	})
	_, err = l.Process(context.Background(), "0", "plan my day")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model call: boom")
	assert.Zero(t, l.Turns())
}

func TestProcess_UnknownStage(t *testing.T) {
	model := &fakeModel{reply: "hello", evalReply: "{}"}
	l, _, _ := newLoop(t, model, "", tuesday)

	turn, err := l.Process(context.Background(), "7", "hi")
	require.NoError(t, err)
	assert.Equal(t, stage.StatusUnknownStage, turn.Verdict.Status)
	assert.Equal(t, prompt.NoGuidanceNote, turn.Guidance)
	assert.Equal(t, prompt.InvalidStageMessage, model.calls[0][0].Content)
}

// ---------------------------------------------------------------------------
// Run
// ---------------------------------------------------------------------------

func TestRun_ReadsTurnsUntilEOF(t *testing.T) {
	model := &fakeModel{reply: stage0Reply, evalReply: `{"scores": {"clarity": 8}}`}
	input := "0\nfirst line\nsecond line\nEOF\n0\n\nEOF\n0\nanother\n"
	l, out, st := newLoop(t, model, input, tuesday)

	require.NoError(t, l.Run(context.Background()))

	assert.Equal(t, 2, l.Turns(), "the empty prompt is skipped")
	assert.Equal(t, "first line\nsecond line", model.calls[0][1].Content)
	assert.NotContains(t, out.String(), "WEEKLY SELF-PATCH RITUAL")

	rows, err := st.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestRun_MondayRitualOncePerDay(t *testing.T) {
	model := &fakeModel{reply: stage0Reply, evalReply: `{"scores": {"clarity": 8}}`}
	input := "0\na\nEOF\n0\nb\nEOF\n"
	l, out, _ := newLoop(t, model, input, monday)

	require.NoError(t, l.Run(context.Background()))

	assert.Equal(t, 1, strings.Count(out.String(), "WEEKLY SELF-PATCH RITUAL"))
	assert.Equal(t, 1, l.Tracker.Snapshot().Interactions, "counters reset after the ritual")
}

func TestRun_ConfiguredRitualDay(t *testing.T) {
	model := &fakeModel{reply: stage0Reply, evalReply: `{"scores": {"clarity": 8}}`}
	l, out, _ := newLoop(t, model, "0\na\nEOF\n", monday)
	l.Schedule = schedule.Weekly(time.Friday)

	require.NoError(t, l.Run(context.Background()))

	assert.NotContains(t, out.String(), "WEEKLY SELF-PATCH RITUAL")
	assert.Equal(t, 1, l.Tracker.Snapshot().Interactions)
}

func TestRitual_AppendsJournal(t *testing.T) {
	model := &fakeModel{reply: stage0Reply, evalReply: `{"scores": {"clarity": 8}}`}
	l, _, _ := newLoop(t, model, "", monday)
	l.Journal = filepath.Join(t.TempDir(), "patches.md")

	_, err := l.Process(context.Background(), "0", "plan my day")
	require.NoError(t, err)
	report := l.Ritual()

	assert.Equal(t, 1, report.Interactions)
	content := journal.Read(l.Journal)
	assert.Contains(t, content, "## Ritual 2026-03-02 10:00")
	assert.Contains(t, content, "Interactions: 1")
}

func TestRun_InterruptRunsRitual(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	var out bytes.Buffer
	l := &session.Loop{In: pr, Out: &out, Tracker: insights.NewTracker()}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := l.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, out.String(), "Session interrupted after 0 turn(s)")
	assert.Contains(t, out.String(), "WEEKLY SELF-PATCH RITUAL")
}
