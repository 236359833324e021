package stage

var (
	successTodayRE      = labelLineRE(`Success\s+Today`, sepColon)
	primaryConstraintRE = labelLineRE(`Primary\s+Constraint`, sepColon)
)

// validateContextSeed requires the Litmus Test restatement: a
// "Success Today:" line and a "Primary Constraint:" line.
func validateContextSeed(response string) Verdict {
	success := successTodayRE.MatchString(response)
	constraint := primaryConstraintRE.MatchString(response)

	details := map[string]interface{}{
		"success_today":      success,
		"primary_constraint": constraint,
	}

	var missing []string
	found := 0
	if success {
		found++
	} else {
		missing = append(missing, "Success Today")
	}
	if constraint {
		found++
	} else {
		missing = append(missing, "Primary Constraint")
	}

	score := float64(found) / 2.0
	return newVerdict(Stage0, statusForFraction(score), score, details, "context seeded.", missing)
}
