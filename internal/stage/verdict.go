package stage

import (
	"fmt"
	"strings"
)

// Status classifies a Verdict.
type Status string

// Verdict statuses.
const (
	StatusSuccess      Status = "success"
	StatusPartial      Status = "partial"
	StatusFailed       Status = "failed"
	StatusUnknownStage Status = "unknown-stage"
)

// Marker returns the visual marker that prefixes messages of this status.
func (s Status) Marker() string {
	switch s {
	case StatusSuccess:
		return "✅"
	case StatusPartial:
		return "⚠️"
	case StatusFailed:
		return "❌"
	default:
		return "❓"
	}
}

// Verdict is the outcome of validating a response against a stage.
type Verdict struct {
	Status  Status                 `json:"status" yaml:"status"`
	Message string                 `json:"message" yaml:"message"`
	Score   float64                `json:"score" yaml:"score"`
	Details map[string]interface{} `json:"details" yaml:"details"`
}

// Met reports whether the stage exit rule is fully satisfied.
func (v Verdict) Met() bool {
	return v.Status == StatusSuccess
}

// statusForFraction buckets a component fraction: all components present is
// success, some is partial, none is failed.
func statusForFraction(score float64) Status {
	switch {
	case score >= 1.0:
		return StatusSuccess
	case score > 0:
		return StatusPartial
	default:
		return StatusFailed
	}
}

// statusForWeighted buckets a weighted partial sum (Signal Scan).
func statusForWeighted(score float64) Status {
	switch {
	case score >= 0.8:
		return StatusSuccess
	case score > 0.3:
		return StatusPartial
	default:
		return StatusFailed
	}
}

// newVerdict assembles a verdict with a message of the form
// "<marker> <title> <summary>" where the summary depends on the status.
func newVerdict(id ID, status Status, score float64, details map[string]interface{}, metSummary string, missing []string) Verdict {
	var msg string
	switch status {
	case StatusSuccess:
		msg = fmt.Sprintf("%s %s Exit Rule Met - %s", status.Marker(), id.Title(), metSummary)
	case StatusPartial:
		msg = fmt.Sprintf("%s %s partial - missing: %s", status.Marker(), id.Title(), strings.Join(missing, ", "))
	default:
		msg = fmt.Sprintf("%s %s Exit Rule Not Met - missing: %s", status.Marker(), id.Title(), strings.Join(missing, ", "))
	}
	return Verdict{
		Status:  status,
		Message: msg,
		Score:   score,
		Details: details,
	}
}
