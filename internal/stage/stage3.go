package stage

import "fmt"

const (
	minSteps     = 3
	signalWeight = 0.4
	stepsWeight  = 0.6
	partialSteps = 0.3
)

var (
	winningSignalRE = labelLineRE(`Winning\s+Signal`, sepAny)
	microSprintRE   = headingRE(`Micro[-\s]?Sprint\s+Plan`)
)

// validateSignalScan requires a Winning Signal statement and at least three
// micro-sprint steps. A negative constraint in userPrompt switches to the
// inverted rule.
func validateSignalScan(response, userPrompt string) Verdict {
	if constraints := DetectConstraints(userPrompt); len(constraints) > 0 {
		return validateConstrainedSignalScan(response, constraints)
	}

	signal := winningSignalRE.MatchString(response)
	steps, sectionFound := sectionItems(response, microSprintRE, isStepItem)
	fromSection := len(steps) > 0
	if !fromSection {
		steps = allItems(response, isStepItem)
	}
	count := len(steps)

	score := 0.0
	if signal {
		score += signalWeight
	}
	switch {
	case count >= minSteps:
		score += stepsWeight
	case count > 0:
		score += partialSteps * float64(count) / minSteps
	}

	details := map[string]interface{}{
		"constraint_mode":    false,
		"winning_signal":     signal,
		"no_signal_declared": !signal,
		"micro_sprint_plan":  sectionFound,
		"steps_in_section":   fromSection,
		"step_count":         count,
	}

	var missing []string
	if !signal {
		missing = append(missing, "Winning Signal")
	}
	if count < minSteps {
		missing = append(missing, fmt.Sprintf("≥%d Micro-Sprint steps (found %d)", minSteps, count))
	}

	summary := fmt.Sprintf("Winning Signal + %d micro-steps.", count)
	return newVerdict(Stage3, statusForWeighted(score), score, details, summary, missing)
}
