package stage

import (
	"fmt"
	"regexp"
)

const minPatterns = 2

var (
	patternLineRE    = labelLineRE(`Pattern[ \t]*\d+`, sepColon)
	evidenceLineRE   = labelLineRE(`Evidence`, sepColon)
	confidenceLineRE = regexp.MustCompile(leadIn + `Confidence[ \t]*(?:\*\*|__)?[ \t]*:[ \t]*(?:\*\*|__)?[ \t]*(?:High|Medium|Low)\b`)
	motivationRE     = labelLineRE(`Core\s+Motivation`, sepColon)
	emotionalShiftRE = labelLineRE(`Emotional\s+Shift`, sepColon)
)

// validateMindTrace requires at least two patterns, each with evidence and a
// confidence rating, plus one core motivation and one emotional shift line.
func validateMindTrace(response string) Verdict {
	patterns := len(patternLineRE.FindAllStringIndex(response, -1))
	evidence := len(evidenceLineRE.FindAllStringIndex(response, -1))
	confidences := len(confidenceLineRE.FindAllStringIndex(response, -1))
	motivation := motivationRE.MatchString(response)
	emotional := emotionalShiftRE.MatchString(response)

	details := map[string]interface{}{
		"patterns":        patterns,
		"evidence":        evidence,
		"confidence":      confidences,
		"core_motivation": motivation,
		"emotional_shift": emotional,
	}

	checks := []struct {
		name string
		ok   bool
	}{
		{"Patterns", patterns >= minPatterns},
		{"Evidence", evidence >= minPatterns},
		{"Confidence", confidences >= minPatterns},
		{"Core Motivation", motivation},
		{"Emotional Shift", emotional},
	}

	var missing []string
	passed := 0
	for _, c := range checks {
		if c.ok {
			passed++
			continue
		}
		missing = append(missing, c.name)
	}

	score := float64(passed) / float64(len(checks))
	summary := fmt.Sprintf("%d patterns traced, ready for Signal Scan.", patterns)
	return newVerdict(Stage2, statusForFraction(score), score, details, summary, missing)
}
