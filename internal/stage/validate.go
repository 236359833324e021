package stage

import "fmt"

// Validate checks response against the exit rule of the stage labelled
// stage. userPrompt is only consulted by the Signal Scan validator, which
// inverts its rule when the prompt carries a negative constraint.
//
// An unrecognised stage label yields a StatusUnknownStage verdict with score
// 0; no stage logic runs in that case.
func Validate(stage, response, userPrompt string) Verdict {
	id, ok := ParseID(stage)
	if !ok {
		return unknownStage(stage)
	}
	return ValidateID(id, response, userPrompt)
}

// ValidateID is Validate for an already parsed stage.
func ValidateID(id ID, response, userPrompt string) Verdict {
	switch id {
	case Stage0:
		return validateContextSeed(response)
	case Stage1:
		return validateBrainDump(response)
	case Stage2:
		return validateMindTrace(response)
	case Stage3:
		return validateSignalScan(response, userPrompt)
	case Stage4:
		return validatePrototype(response)
	case Meta:
		return validateMeta(response)
	default:
		return unknownStage(id.String())
	}
}

func unknownStage(label string) Verdict {
	return Verdict{
		Status:  StatusUnknownStage,
		Message: fmt.Sprintf("%s Unknown stage: %s", StatusUnknownStage.Marker(), label),
		Score:   0.0,
		Details: map[string]interface{}{"stage": label},
	}
}
