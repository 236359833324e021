// Package session runs the interactive stage loop: it reads a stage and a
// prompt, obtains the response, validates it against the stage exit rule,
// self-evaluates, persists the interaction and feeds the weekly insights.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/CodexForgeBR/selfevo/internal/ai"
	"github.com/CodexForgeBR/selfevo/internal/banner"
	"github.com/CodexForgeBR/selfevo/internal/insights"
	"github.com/CodexForgeBR/selfevo/internal/journal"
	"github.com/CodexForgeBR/selfevo/internal/logging"
	"github.com/CodexForgeBR/selfevo/internal/metrics"
	"github.com/CodexForgeBR/selfevo/internal/prompt"
	"github.com/CodexForgeBR/selfevo/internal/schedule"
	"github.com/CodexForgeBR/selfevo/internal/scoring"
	"github.com/CodexForgeBR/selfevo/internal/stage"
	"github.com/CodexForgeBR/selfevo/internal/store"
	"github.com/CodexForgeBR/selfevo/internal/triggers"
)

// Errors returned by Process.
var (
	ErrEmptyPrompt = errors.New("empty prompt")
	ErrNoClient    = errors.New("no model client configured")
)

// Recorder persists interactions. *store.Store implements it.
type Recorder interface {
	Save(ctx context.Context, in store.Interaction) (string, error)
}

// Turn is the outcome of one exchange.
type Turn struct {
	Number        int
	Stage         string
	UserPrompt    string
	Response      string
	IsMeta        bool
	Resize        *triggers.Resize
	Verdict       stage.Verdict
	Guidance      string
	Scores        scoring.ScoreMap
	EvalNote      string
	Emotion       string
	InteractionID string
}

// Loop is the interactive session. Client may be nil only if every turn is
// answered in Meta-Mode; Store may be nil to skip persistence.
type Loop struct {
	Client    ai.ChatClient
	Evaluator *scoring.Evaluator
	Store     Recorder
	Tracker   *insights.Tracker
	In        io.Reader
	Out       io.Writer
	// Now defaults to time.Now.
	Now func() time.Time
	// ChatOptions apply to the response request.
	ChatOptions ai.ChatOptions
	// Schedule decides when the weekly ritual runs; nil means Mondays.
	Schedule *schedule.Ritual
	// Journal, when set, is the markdown file each ritual report is
	// appended to.
	Journal string

	turns      int
	lastRitual time.Time
}

// Run reads turns until input ends or ctx is cancelled. Turn errors are
// logged and the loop continues; an input read failure ends the run. On the ritual day the weekly ritual runs
// after the first turn of the day; on cancellation it runs before Run
// returns the context error.
func (l *Loop) Run(ctx context.Context) error {
	ritual := l.Schedule
	if ritual == nil {
		ritual = schedule.Default()
	}
	src := startLines(ctx, l.In)
	for {
		_, err := l.step(ctx, src)
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, ErrInput):
			return err
		case ctx.Err() != nil:
			banner.PrintInterruptedBanner(l.Out, l.turns)
			l.Ritual()
			return ctx.Err()
		default:
			logging.Error(err.Error())
			continue
		}

		now := l.now()
		if ritual.Due(now, l.lastRitual) {
			l.Ritual()
			l.lastRitual = now
		}
	}
}

func (l *Loop) step(ctx context.Context, src *lineSource) (*Turn, error) {
	fmt.Fprint(l.Out, "Framework Stage (0-5): ")
	label, err := src.next(ctx)
	if err != nil {
		return nil, err
	}
	label = strings.TrimSpace(label)

	fmt.Fprintf(l.Out, "Your prompt ➜ (finish with %s on its own line)\n", Sentinel)
	text, err := collect(func() (string, error) { return src.next(ctx) }, Sentinel)
	if err != nil {
		return nil, err
	}
	return l.Process(ctx, label, text)
}

// Process runs one exchange for an already read stage label and prompt.
func (l *Loop) Process(ctx context.Context, stageLabel, userPrompt string) (*Turn, error) {
	userPrompt = strings.TrimSpace(userPrompt)
	if userPrompt == "" {
		return nil, ErrEmptyPrompt
	}

	id, known := stage.ParseID(stageLabel)
	turn := &Turn{
		Number:     l.turns + 1,
		Stage:      stageLabel,
		UserPrompt: userPrompt,
		IsMeta:     id == stage.Meta || triggers.IsMetaReflection(userPrompt) || triggers.IsMetaMode(userPrompt),
		Emotion:    triggers.DetectEmotion(userPrompt),
	}
	if !known {
		logging.Warn(fmt.Sprintf("Unknown stage %q", stageLabel))
	}

	response, err := l.respond(ctx, turn)
	if err != nil {
		return nil, err
	}
	turn.Response = response
	l.printResponse(response)

	validateID := id
	if turn.IsMeta {
		validateID = stage.Meta
	}
	if validateID == stage.Unknown {
		turn.Verdict = stage.Validate(stageLabel, response, userPrompt)
	} else {
		turn.Verdict = stage.ValidateID(validateID, response, userPrompt)
	}
	metrics.RecordVerdict(validateID.String(), string(turn.Verdict.Status))
	turn.Guidance = prompt.StageGuidance(validateID, turn.Verdict.Met())

	evaluator := l.Evaluator
	if evaluator == nil {
		evaluator = &scoring.Evaluator{}
	}
	turn.Scores, turn.EvalNote, err = evaluator.Evaluate(ctx, stageLabel, userPrompt, response, turn.IsMeta)
	if err != nil {
		return nil, fmt.Errorf("self-evaluation: %w", err)
	}

	if l.Store != nil {
		turn.InteractionID, err = l.Store.Save(ctx, store.Interaction{
			Stage:      stageLabel,
			UserPrompt: userPrompt,
			AIResponse: response,
			SelfScores: turn.Scores.Scores,
			PatchNote:  strings.TrimSpace(turn.EvalNote + "\n" + turn.Guidance),
			IsMeta:     turn.IsMeta,
			Emotion:    turn.Emotion,
		})
		if err != nil {
			logging.Warn(fmt.Sprintf("Interaction not saved: %v", err))
		}
	}

	if l.Tracker != nil {
		l.Tracker.Record(insights.Entry{
			Stage:       stageLabel,
			Emotion:     turn.Emotion,
			Scores:      turn.Scores.Scores,
			Constraints: stage.DetectConstraints(userPrompt),
		})
	}

	l.turns++
	fmt.Fprintln(l.Out, turn.Verdict.Message)
	fmt.Fprintln(l.Out, turn.Guidance)
	banner.PrintTurnSummary(l.Out, turn.Number, titleOf(validateID, stageLabel), string(turn.Verdict.Status),
		turn.Verdict.Score, turn.Scores.Method, turn.Scores.Confidence)
	return turn, nil
}

// respond produces the response text: the canned reflection in Meta-Mode,
// otherwise a model call with the stage (or resize) system message.
func (l *Loop) respond(ctx context.Context, turn *Turn) (string, error) {
	if turn.IsMeta {
		banner.PrintMetaBanner(l.Out)
		return prompt.MetaTemplateResponse(), nil
	}

	system := prompt.SystemMessageFor(turn.Stage)
	if r, ok := triggers.ResizeFor(turn.UserPrompt); ok {
		turn.Resize = &r
		banner.PrintResizeBanner(l.Out, r.Template)
		system = r.SystemPrompt
	}

	if l.Client == nil {
		return "", ErrNoClient
	}
	response, err := l.Client.Chat(ctx, []ai.Message{ai.System(system), ai.User(turn.UserPrompt)}, l.ChatOptions)
	if err != nil {
		return "", fmt.Errorf("model call: %w", err)
	}
	return response, nil
}

func (l *Loop) printResponse(response string) {
	rule := strings.Repeat("=", 50)
	fmt.Fprintln(l.Out)
	fmt.Fprintln(l.Out, rule)
	fmt.Fprintln(l.Out, center("🤖 AI RESPONSE", 50))
	fmt.Fprintln(l.Out, rule)
	fmt.Fprintln(l.Out, response)
	fmt.Fprintln(l.Out, rule)
	fmt.Fprintf(l.Out, "📝 Response length: %d characters\n", len([]rune(response)))
	fmt.Fprintln(l.Out, rule)
}

// Ritual prints the weekly self-patch report and resets the weekly
// counters.
func (l *Loop) Ritual() insights.Report {
	if l.Tracker == nil {
		l.Tracker = insights.NewTracker()
	}
	report := l.Tracker.Weekly()
	rendered := report.Render()
	banner.PrintWeeklyBanner(l.Out, rendered)
	if l.Journal != "" {
		if err := journal.Append(l.Journal, l.now(), rendered); err != nil {
			logging.Warn(fmt.Sprintf("Could not update journal: %v", err))
		}
	}
	return report
}

// Turns returns the number of completed turns.
func (l *Loop) Turns() int { return l.turns }

func (l *Loop) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

func titleOf(id stage.ID, label string) string {
	if id == stage.Unknown {
		return "Stage " + label
	}
	return id.Title()
}

func center(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	pad := (width - n) / 2
	return strings.Repeat(" ", pad) + s
}
