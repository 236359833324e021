// Package scoring grades stage responses, either by asking the model to
// self-report against a rubric or by a structural heuristic.
package scoring

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/CodexForgeBR/selfevo/internal/stage"
)

// Score map keys produced by the heuristic.
const (
	KeyClarity        = "clarity"
	KeyUtility        = "utility"
	KeyStageAlignment = "stage_alignment"
	KeyCompleteness   = "completeness"
)

// Scoring methods.
const (
	MethodHeuristic  = "heuristic"
	MethodNone       = "none"
	MethodSelfReport = "self-report"
)

// EmptyResponseNote is the note returned for an empty response.
const EmptyResponseNote = "Empty response - minimal scores"

// ScoreMap holds rubric scores plus the bookkeeping about how they were
// produced.
type ScoreMap struct {
	Scores     map[string]int `json:"scores" yaml:"scores"`
	Confidence float64        `json:"confidence" yaml:"confidence"`
	Method     string         `json:"method" yaml:"method"`
}

// structureCues are the structural signals counted by the heuristic. Each
// contributes at most once.
var structureCues = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^\s*(?:[-*•]|\d+[.)])`),       // bullets/numbers
	regexp.MustCompile(`(?m)^\s*\w+:`),                    // key: value lines
	regexp.MustCompile(`\*\*[^*]+\*\*`),                   // bold spans
	regexp.MustCompile(`(?i)(?:step|action|phase)\s*\d+`), // numbered steps
}

// HeuristicScore estimates rubric scores from the structure of response and
// its stage verdict. When isMeta is set the Meta-Mode validator is used
// regardless of stageLabel. It never fails; an unknown stage only lowers the
// alignment scores.
func HeuristicScore(stageLabel, response string, isMeta bool) (ScoreMap, string) {
	if strings.TrimSpace(response) == "" {
		return ScoreMap{
			Scores: map[string]int{
				KeyClarity:        1,
				KeyUtility:        1,
				KeyStageAlignment: 1,
				KeyCompleteness:   1,
			},
			Method: MethodHeuristic,
		}, EmptyResponseNote
	}

	words := len(strings.Fields(response))
	cues := countCues(response)

	utility := 5
	if cues > 0 {
		utility = 8
	}

	if isMeta {
		stageLabel = stage.Meta.String()
	}
	v := stage.Validate(stageLabel, response, "")
	alignment := int(math.Round(v.Score * 10))

	confidence := 0.3*float64(cues)/float64(len(structureCues)) +
		0.4*math.Min(float64(words)/200, 1) +
		0.3*v.Score
	confidence = math.Round(math.Max(0, math.Min(1, confidence))*100) / 100

	scores := ScoreMap{
		Scores: map[string]int{
			KeyClarity:        clarity(words),
			KeyUtility:        utility,
			KeyStageAlignment: alignment,
			KeyCompleteness:   alignment,
		},
		Confidence: confidence,
		Method:     MethodHeuristic,
	}
	note := fmt.Sprintf("Heuristic evaluation (confidence: %.2f) - %s", confidence, v.Message)
	return scores, note
}

func countCues(response string) int {
	n := 0
	for _, re := range structureCues {
		if re.MatchString(response) {
			n++
		}
	}
	return n
}

// clarity maps a word count onto 3 below 50 words, 6 to 8 up to 200, 8 to 9
// up to 500 and 9 beyond.
func clarity(words int) int {
	var c float64
	switch {
	case words < 50:
		c = 3
	case words < 200:
		c = 6 + float64(words-50)/150*2
	case words < 500:
		c = 8 + float64(words-200)/300
	default:
		c = 9
	}
	return clampInt(int(math.Round(c)), 1, 10)
}

func clampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
