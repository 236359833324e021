// Package stage validates model responses against the exit rules of each
// protocol stage.
//
// Every validator inspects the response for stage-specific structural markers
// (headings, list items, labelled lines) and returns a Verdict with a status,
// a human-readable message, a score in [0,1] and the details that produced
// the score. Validators are pure functions of their input.
package stage

import "strings"

// ID identifies a protocol stage.
type ID int

// Known stages. Unknown is the zero value so an unparsed identifier can never
// be mistaken for a real stage.
const (
	Unknown ID = iota
	Stage0
	Stage1
	Stage2
	Stage3
	Stage4
	Meta
)

// All lists the known stages in protocol order.
func All() []ID {
	return []ID{Stage0, Stage1, Stage2, Stage3, Stage4, Meta}
}

// ParseID maps a textual stage label to an ID. "5" is accepted as an alias
// for the meta stage. Surrounding whitespace and case are ignored.
func ParseID(s string) (ID, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0":
		return Stage0, true
	case "1":
		return Stage1, true
	case "2":
		return Stage2, true
	case "3":
		return Stage3, true
	case "4":
		return Stage4, true
	case "meta", "5":
		return Meta, true
	default:
		return Unknown, false
	}
}

// String returns the textual label of the stage.
func (id ID) String() string {
	switch id {
	case Stage0:
		return "0"
	case Stage1:
		return "1"
	case Stage2:
		return "2"
	case Stage3:
		return "3"
	case Stage4:
		return "4"
	case Meta:
		return "meta"
	default:
		return "unknown"
	}
}

// Name returns the protocol name of the stage.
func (id ID) Name() string {
	switch id {
	case Stage0:
		return "Context Seed"
	case Stage1:
		return "Brain Dump"
	case Stage2:
		return "Mind-Trace"
	case Stage3:
		return "Signal Scan"
	case Stage4:
		return "Rapid Prototyping"
	case Meta:
		return "Meta-Mode"
	default:
		return "Unknown"
	}
}

// Title returns the display title used in verdict messages.
func (id ID) Title() string {
	if id == Meta {
		return "Meta-Mode"
	}
	return "Stage " + id.String()
}
