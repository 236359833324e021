package prompt

import (
	"strconv"
	"strings"

	"github.com/CodexForgeBR/selfevo/internal/stage"
)

// InvalidStageMessage is the system message for an unrecognised stage.
const InvalidStageMessage = "Invalid stage."

// SystemMessage returns the system message for a stage.
func SystemMessage(id stage.ID) string {
	switch id {
	case stage.Stage0:
		return strings.TrimSpace(Stage0Template)
	case stage.Stage1:
		return strings.TrimSpace(Stage1Template)
	case stage.Stage2:
		return strings.TrimSpace(Stage2Template)
	case stage.Stage3:
		return strings.TrimSpace(Stage3Template)
	case stage.Stage4:
		return strings.TrimSpace(Stage4Template)
	case stage.Meta:
		return strings.TrimSpace(MetaTemplate)
	default:
		return InvalidStageMessage
	}
}

// SystemMessageFor resolves a textual stage label and returns its system
// message, or InvalidStageMessage.
func SystemMessageFor(label string) string {
	id, ok := stage.ParseID(label)
	if !ok {
		return InvalidStageMessage
	}
	return SystemMessage(id)
}

// NoGuidanceNote is used when a stage has no follow-up guidance.
const NoGuidanceNote = "[AI NOTE] No stage-specific guidance generated."

var guidance = map[stage.ID][2]string{
	// {not met, met}
	stage.Stage0: {"[AI NOTE] Clarify 'Success Today' and 'Primary Constraint'.", "🎉 Context seeded. Suggest advancing to Stage 1 (Brain Dump)."},
	stage.Stage1: {"[AI NOTE] Improve theme identification.", "🎉 Suggest advancing to Stage 2."},
	stage.Stage2: {"[AI NOTE] Improve pattern documentation and emotional transition guidance.", "🎉 Mind-Trace complete. Advance to Stage 3 (Signal Scan)."},
	stage.Stage3: {"[AI NOTE] Review constraint violations.", "🎉 Signal Scan complete (constraints respected)."},
	stage.Stage4: {"[AI NOTE] Complete missing Stage 4 sections.", "🎉 Prototype plan valid. Start building & test!"},
	stage.Meta:   {"[AI NOTE] Improve Meta-Mode section coverage.", "🧠 Meta-Mode reflection logged. Resume previous stage when ready."},
}

// StageGuidance returns the follow-up note appended after validating a
// response for id.
func StageGuidance(id stage.ID, met bool) string {
	g, ok := guidance[id]
	if !ok {
		return NoGuidanceNote
	}
	if met {
		return g[1]
	}
	return g[0]
}

// MetaTemplateResponse returns the canned Meta-Mode reflection used when the
// loop answers a meta request without a model round-trip.
func MetaTemplateResponse() string {
	return strings.TrimSpace(MetaResponseTemplate)
}

// BuildResizePrompt constructs the system message for an overwhelm
// intervention.
func BuildResizePrompt(emotion, strategy string) string {
	p := ResizeTemplate
	p = strings.ReplaceAll(p, "{{EMOTION}}", emotion)
	p = strings.ReplaceAll(p, "{{STRATEGY}}", strategy)
	return strings.TrimSpace(p)
}

// BuildEvaluationPrompt constructs the self-evaluation system message from a
// rubric title and "- name: question" lines.
func BuildEvaluationPrompt(title string, criteria []string) string {
	p := EvaluationTemplate
	p = strings.ReplaceAll(p, "{{RUBRIC_TITLE}}", title)
	p = strings.ReplaceAll(p, "{{RUBRIC}}", strings.Join(criteria, "\n"))
	return strings.TrimSpace(p)
}

// BuildEvaluationInput constructs the user message that carries the graded
// exchange. Placeholders inside the exchange text are not expanded.
func BuildEvaluationInput(stageLabel string, isMeta bool, userPrompt, response string) string {
	r := strings.NewReplacer(
		"{{STAGE}}", stageLabel,
		"{{META}}", strconv.FormatBool(isMeta),
		"{{USER_PROMPT}}", userPrompt,
		"{{RESPONSE}}", response,
	)
	return strings.TrimSpace(r.Replace(EvaluationInputTemplate))
}
