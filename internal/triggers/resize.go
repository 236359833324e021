package triggers

import (
	"fmt"

	"github.com/CodexForgeBR/selfevo/internal/prompt"
)

// DefaultStrategy applies to emotions without a dedicated strategy.
const DefaultStrategy = "Divide into smaller chunks and prioritize"

var resizeStrategies = map[string]string{
	EmotionScattered:   "Break into 3 micro-tasks under 15 minutes each",
	EmotionHeavy:       "Identify one core element to address now",
	EmotionOverwhelmed: "Find the smallest executable component",
	EmotionStuck:       "Reverse-engineer from desired outcome",
}

// Resize is a Pause, Name, Resize, Continue intervention.
type Resize struct {
	Emotion  string `json:"emotion" yaml:"emotion"`
	Strategy string `json:"strategy" yaml:"strategy"`
	// Template is the line shown to the user.
	Template string `json:"template" yaml:"template"`
	// SystemPrompt replaces the stage system message for the turn.
	SystemPrompt string `json:"system_prompt" yaml:"system_prompt"`
}

// NewResize selects the resizing strategy for emotion.
func NewResize(emotion string) Resize {
	strategy, ok := resizeStrategies[emotion]
	if !ok {
		strategy = DefaultStrategy
	}
	return Resize{
		Emotion:      emotion,
		Strategy:     strategy,
		Template:     fmt.Sprintf("User reported feeling %s. Suggested approach: %s", emotion, strategy),
		SystemPrompt: prompt.BuildResizePrompt(emotion, strategy),
	}
}

// ResizeFor returns the intervention for prompt when it signals overwhelm.
func ResizeFor(userPrompt string) (Resize, bool) {
	if !DetectOverwhelm(userPrompt) {
		return Resize{}, false
	}
	return NewResize(DetectEmotion(userPrompt)), true
}
