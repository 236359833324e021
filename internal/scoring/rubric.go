package scoring

import (
	"fmt"

	"github.com/CodexForgeBR/selfevo/internal/ai"
	"github.com/CodexForgeBR/selfevo/internal/prompt"
)

// Criterion is one rubric line.
type Criterion struct {
	Name     string
	Question string
}

// Rubric grades ordinary stage responses.
var Rubric = []Criterion{
	{"clarity", "Is the answer clear and understandable?"},
	{"stage_alignment", "Does the answer match the declared framework stage?"},
	{"tone", "Does the tone match the user's emotional state?"},
	{"utility", "Does it help move the project forward?"},
	{"empathy", "Does the user feel seen and not overwhelmed?"},
}

// MetaRubric grades Meta-Mode reflections.
var MetaRubric = []Criterion{
	{"insight_clarity", "Does the AI clearly summarize framework performance?"},
	{"emotional_resonance", "Does it accurately capture the user's meta-frustrations?"},
	{"actionability", "Are refinements concrete and testable?"},
	{"section_completeness", "Are all template sections (A-D) addressed?"},
	{"transitional_neutrality", "Does the response effectively validate neutrality as a productive transitional state?"},
}

// RubricFor returns the rubric used for a response.
func RubricFor(isMeta bool) []Criterion {
	if isMeta {
		return MetaRubric
	}
	return Rubric
}

// BuildEvalMessages builds the self-evaluation request for one exchange.
func BuildEvalMessages(stageLabel, userPrompt, response string, isMeta bool) []ai.Message {
	title := "Standard Evaluation"
	if isMeta {
		title = "Meta-Mode Evaluation"
	}
	rubric := RubricFor(isMeta)
	lines := make([]string, 0, len(rubric))
	for _, c := range rubric {
		lines = append(lines, fmt.Sprintf("- %s: %s", c.Name, c.Question))
	}
	return []ai.Message{
		ai.System(prompt.BuildEvaluationPrompt(title, lines)),
		ai.User(prompt.BuildEvaluationInput(stageLabel, isMeta, userPrompt, response)),
	}
}
