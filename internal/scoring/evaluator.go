package scoring

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/CodexForgeBR/selfevo/internal/ai"
	"github.com/CodexForgeBR/selfevo/internal/logging"
	"github.com/CodexForgeBR/selfevo/internal/metrics"
	"github.com/CodexForgeBR/selfevo/internal/parser"
)

// Evaluator asks the model to grade a response against the rubric and falls
// back to a local Scorer when the model is unavailable or its answer cannot
// be parsed.
type Evaluator struct {
	Client ai.ChatClient
	// Fallback defaults to Heuristic.
	Fallback Scorer
}

// Evaluate grades response. The returned note is the model's patch note or
// the fallback scorer's note. An error is returned only when ctx is done.
func (e *Evaluator) Evaluate(ctx context.Context, stageLabel, userPrompt, response string, isMeta bool) (ScoreMap, string, error) {
	if e.Client == nil {
		sm, note := e.fallback(stageLabel, response, isMeta)
		return sm, note, nil
	}

	raw, err := e.Client.Chat(ctx, BuildEvalMessages(stageLabel, userPrompt, response, isMeta), ai.ChatOptions{ForceJSON: true})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ScoreMap{}, "", ctxErr
		}
		logging.Warn(fmt.Sprintf("Self-evaluation request failed: %v", err))
		sm, note := e.fallback(stageLabel, response, isMeta)
		return sm, note, nil
	}

	out := parser.ParseStructuredText(raw)
	metrics.RecordParse(string(out.Strategy))
	logging.Debugf("self-evaluation parsed with %s (confidence: %.2f)", out.Strategy, out.Confidence)
	if !out.Succeeded {
		logging.Warn(fmt.Sprintf("Self-evaluation unparseable (%s)", strings.Join(out.Warnings, "; ")))
		sm, note := e.fallback(stageLabel, response, isMeta)
		return sm, note, nil
	}

	scores := ConvertScores(out.Scores())
	if len(scores) == 0 {
		logging.Warn("Self-evaluation returned no usable scores")
		sm, note := e.fallback(stageLabel, response, isMeta)
		return sm, note, nil
	}
	if missing := MissingCriteria(scores, RubricFor(isMeta)); len(missing) > 0 {
		logging.Warn("Missing some rubric scores: " + strings.Join(missing, ", "))
	}

	sm := ScoreMap{
		Scores:     scores,
		Confidence: out.Confidence,
		Method:     MethodSelfReport + ":" + string(out.Strategy),
	}
	metrics.RecordEvaluation(sm.Method)
	return sm, out.PatchNote(), nil
}

func (e *Evaluator) fallback(stageLabel, response string, isMeta bool) (ScoreMap, string) {
	s := e.Fallback
	if s == nil {
		s = Heuristic{}
	}
	sm, note := s.Score(stageLabel, response, isMeta)
	metrics.RecordEvaluation(sm.Method)
	return sm, note
}

var leadingIntRE = regexp.MustCompile(`^\s*(\d+)`)

// ConvertScores normalises a parsed scores object to integer scores in
// [0,10]. Numbers are rounded, numeric strings such as "8" or "8/10" are
// parsed and rubric words go through the categorical table. Other values are
// dropped.
func ConvertScores(raw map[string]interface{}) map[string]int {
	out := make(map[string]int, len(raw))
	for k, v := range raw {
		key := strings.ToLower(strings.TrimSpace(k))
		if key == "" {
			continue
		}
		if n, ok := scoreOf(v); ok {
			out[key] = clampInt(n, 0, 10)
		}
	}
	return out
}

func scoreOf(v interface{}) (int, bool) {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return int(math.Round(math.Max(-1, math.Min(11, x)))), true
	case int:
		return x, true
	case string:
		if m := leadingIntRE.FindStringSubmatch(x); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return 10, true
			}
			return n, true
		}
		return parser.LookupCategorical(x)
	default:
		return 0, false
	}
}

// MissingCriteria lists rubric criteria absent from scores, sorted.
func MissingCriteria(scores map[string]int, rubric []Criterion) []string {
	var missing []string
	for _, c := range rubric {
		if _, ok := scores[c.Name]; !ok {
			missing = append(missing, c.Name)
		}
	}
	sort.Strings(missing)
	return missing
}
