// Package triggers detects intent signals in a user prompt: requests for
// Meta-Mode reflection, overwhelm, and the emotional state named by the user.
package triggers

import (
	"regexp"
	"strings"
)

var metaModeREs = []*regexp.Regexp{
	regexp.MustCompile(`(?i)meta[-\s]?mode`),
	regexp.MustCompile(`(?i)\bzoom\s*out\b`),
	regexp.MustCompile(`(?i)\bhow\s+(?:did|do)\s+you\s+(?:decide|arrive|choose)\b`),
	regexp.MustCompile(`(?i)\bcurious\s+about\s+(?:the\s+)?process\b`),
}

var metaModePhrases = []string{
	"why did the framework",
	"how does this stage",
	"explain the system",
	"system reflection",
}

// IsMetaMode reports whether prompt asks the assistant to step outside the
// current stage and reflect on the framework itself.
func IsMetaMode(prompt string) bool {
	for _, re := range metaModeREs {
		if re.MatchString(prompt) {
			return true
		}
	}
	lower := strings.ToLower(prompt)
	for _, p := range metaModePhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// IsMetaReflection reports whether prompt carries a "[META" tag.
func IsMetaReflection(prompt string) bool {
	return strings.Contains(strings.ToUpper(prompt), "[META")
}

var overwhelmKeywords = []string{"overwhelm", "stuck", "can't decide", "too much"}

// DetectOverwhelm reports whether prompt contains an overwhelm keyword.
func DetectOverwhelm(prompt string) bool {
	lower := normalizeApostrophes(strings.ToLower(prompt))
	for _, kw := range overwhelmKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Emotion labels recognised by DetectEmotion, in priority order.
const (
	EmotionScattered   = "scattered"
	EmotionHeavy       = "heavy"
	EmotionOverwhelmed = "overwhelmed"
	EmotionStuck       = "stuck"
	EmotionExcited     = "excited"
	EmotionFrustrated  = "frustrated"
	EmotionConfused    = "confused"
	EmotionNeutral     = "neutral"
)

var emotions = []string{
	EmotionScattered,
	EmotionHeavy,
	EmotionOverwhelmed,
	EmotionStuck,
	EmotionExcited,
	EmotionFrustrated,
	EmotionConfused,
}

// DetectEmotion returns the first emotion label found in prompt as a whole
// word, or EmotionNeutral.
func DetectEmotion(prompt string) string {
	words := strings.FieldsFunc(strings.ToLower(prompt), func(r rune) bool {
		return !(r >= 'a' && r <= 'z')
	})
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		seen[w] = struct{}{}
	}
	for _, e := range emotions {
		if _, ok := seen[e]; ok {
			return e
		}
	}
	return EmotionNeutral
}

func normalizeApostrophes(s string) string {
	return strings.ReplaceAll(s, "’", "'")
}
