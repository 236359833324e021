package stage

import (
	"regexp"
	"strings"
)

// constraintPhrases are the user instructions that forbid the usual Signal
// Scan output. Each is matched against the lower-cased prompt.
var constraintPhrases = []struct {
	name string
	re   *regexp.Regexp
}{
	{"do not offer", regexp.MustCompile(`do not offer`)},
	{"no actionable steps", regexp.MustCompile(`no actionable steps`)},
	{"no advice", regexp.MustCompile(`no advice`)},
	{"only confirm", regexp.MustCompile(`only confirm`)},
	{"nothing more than", regexp.MustCompile(`nothing more than`)},
	{"exactly N words", regexp.MustCompile(`exactly [0-9]+ words`)},
}

// DetectConstraints returns the negative-constraint phrases present in
// userPrompt, in a fixed order. An empty result means no constraint.
func DetectConstraints(userPrompt string) []string {
	if strings.TrimSpace(userPrompt) == "" {
		return nil
	}
	lower := strings.ToLower(userPrompt)
	var found []string
	for _, p := range constraintPhrases {
		if p.re.MatchString(lower) {
			found = append(found, p.name)
		}
	}
	return found
}

var (
	winningSignalMarkerRE = regexp.MustCompile(`(?i)Winning\s+Signal\s*:`)
	microSprintMarkerRE   = regexp.MustCompile(`(?i)Micro[-\s]?Sprint\s+Plan\s*:`)
	numberedStepRE        = regexp.MustCompile(`(?m)^[ \t]*(?:\*\*|__)?\d+[.)][ \t]+\S`)
)

// maxViolations is the number of distinct markers a constrained response can
// violate; it scales the score.
const maxViolations = 3

// validateConstrainedSignalScan inverts the Signal Scan rule: any of the
// normally required markers counts against the response. Each violation
// costs a third of the score and the status follows the weighted bands.
func validateConstrainedSignalScan(response string, constraints []string) Verdict {
	var violations []string
	if winningSignalMarkerRE.MatchString(response) {
		violations = append(violations, "Winning Signal")
	}
	if microSprintMarkerRE.MatchString(response) {
		violations = append(violations, "Micro-Sprint Plan")
	}
	if numberedStepRE.MatchString(response) {
		violations = append(violations, "actionable steps")
	}

	details := map[string]interface{}{
		"constraint_mode": true,
		"constraints":     constraints,
		"violations":      violations,
	}

	if len(violations) == 0 {
		v := newVerdict(Stage3, StatusSuccess, 1.0, details, "constraints adhered.", nil)
		v.Message = StatusSuccess.Marker() + " " + Stage3.Title() + " Complete (Constraints Adhered)"
		return v
	}

	score := 1.0 - float64(len(violations))/maxViolations
	status := statusForWeighted(score)
	v := newVerdict(Stage3, status, score, details, "", violations)
	v.Message = status.Marker() + " " + Stage3.Title() + " Constraint Violations: " + strings.Join(violations, ", ")
	return v
}
