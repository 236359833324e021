package stage

import "fmt"

var (
	prototypeGoalRE = labelLineRE(`Prototype\s+Goal`, sepAny)
	wontBuildRE     = headingRE(`Won['’]?t\s+Build\s+List`)
	checkpointRE    = labelLineRE(`Functional\s+Checkpoint`, sepAny)
	declareRE       = labelLineRE(`Declare\s+Completion`, sepAny)
)

// validatePrototype requires the four parts of a prototype planning package:
// a goal, a non-empty Won't Build list, a functional checkpoint and a
// completion declaration.
func validatePrototype(response string) Verdict {
	goal := prototypeGoalRE.MatchString(response)
	wontItems, wontFound := sectionItems(response, wontBuildRE, isListItem)
	checkpoint := checkpointRE.MatchString(response)
	declare := declareRE.MatchString(response)

	details := map[string]interface{}{
		"prototype_goal":        goal,
		"wont_build_list":       wontFound,
		"wont_build_items":      len(wontItems),
		"functional_checkpoint": checkpoint,
		"declare_completion":    declare,
	}

	checks := []struct {
		name string
		ok   bool
	}{
		{"Prototype Goal", goal},
		{"Won't Build List", len(wontItems) >= 1},
		{"Functional Checkpoint", checkpoint},
		{"Declare Completion", declare},
	}

	var missing []string
	found := 0
	for _, c := range checks {
		if c.ok {
			found++
			continue
		}
		name := c.name
		if name == "Won't Build List" && wontFound {
			name = "Won't Build item"
		}
		missing = append(missing, name)
	}

	score := float64(found) / float64(len(checks))
	summary := fmt.Sprintf("prototype plan ready (%d won't-build items).", len(wontItems))
	return newVerdict(Stage4, statusForFraction(score), score, details, summary, missing)
}
