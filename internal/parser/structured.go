package parser

import (
	"fmt"
	"strings"
)

// Strategy names the parsing strategy that produced an Outcome.
type Strategy string

// Strategy values, in waterfall order.
const (
	StrategyDirect         Strategy = "direct"
	StrategyFenceStripped  Strategy = "fence-stripped"
	StrategyBraceExtracted Strategy = "brace-extracted"
	StrategyHeuristic      Strategy = "heuristic"
	StrategyEmptyFallback  Strategy = "empty-fallback"
	StrategyFinalFallback  Strategy = "final-fallback"
)

// Warning texts attached to an Outcome.
const (
	WarnFencesRemoved  = "removed formatting fences"
	WarnBlockExtracted = "extracted embedded structured block"
	WarnHeuristic      = "used heuristic text parsing"
	WarnEmptyInput     = "empty or whitespace-only input"
	WarnAllFailed      = "all parsing strategies failed"
)

const (
	previewLimit        = 100
	emptyResponseNote   = "Empty response"
	allFailedNotePrefix = "All parsing strategies failed. Preview: "
	keyScores           = "scores"
	keyPatchNote        = "patch_note"
	keyParsingError     = "parsing_error"
)

// Outcome is the result of ParseStructuredText.
//
// Data always contains a "scores" object and a "patch_note" string, even
// when Succeeded is false. A failed outcome always has Confidence 0.
type Outcome struct {
	Data       map[string]interface{} `json:"data" yaml:"data"`
	Succeeded  bool                   `json:"succeeded" yaml:"succeeded"`
	Strategy   Strategy               `json:"strategy" yaml:"strategy"`
	Confidence float64                `json:"confidence" yaml:"confidence"`
	Warnings   []string               `json:"warnings" yaml:"warnings"`
}

// Scores returns the "scores" object from Data.
func (o Outcome) Scores() map[string]interface{} {
	if m, ok := o.Data[keyScores].(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}

// PatchNote returns the "patch_note" string from Data.
func (o Outcome) PatchNote() string {
	s, _ := o.Data[keyPatchNote].(string)
	return s
}

// strategy is one step of the waterfall. ok=false routes to the next step.
type strategy struct {
	name       Strategy
	confidence float64
	warning    string
	attempt    func(raw string) (map[string]interface{}, bool)
}

var waterfall = []strategy{
	{StrategyDirect, 1.0, "", decodeObject},
	{StrategyFenceStripped, 0.9, WarnFencesRemoved, func(raw string) (map[string]interface{}, bool) {
		cleaned, found := stripFences(raw)
		if !found {
			return nil, false
		}
		return decodeObject(cleaned)
	}},
	{StrategyBraceExtracted, 0.8, WarnBlockExtracted, func(raw string) (map[string]interface{}, bool) {
		span, found := firstObjectSpan(raw)
		if !found {
			return nil, false
		}
		return decodeObject(span)
	}},
	{StrategyHeuristic, 0.6, WarnHeuristic, func(raw string) (map[string]interface{}, bool) {
		data, err := ExtractFields(raw)
		if err != nil {
			return nil, false
		}
		return data, true
	}},
}

// ParseStructuredText converts raw model output into a structured record.
//
// Strategies are tried in order and the first success wins:
//  1. direct JSON object parse (confidence 1.0)
//  2. parse after stripping ``` fences (0.9)
//  3. parse the first balanced {...} block (0.8)
//  4. heuristic key/value extraction (0.6)
//
// Empty input short-circuits to an empty-fallback outcome; exhausting every
// strategy yields a final-fallback outcome. The function never panics on
// malformed input and holds no state between calls.
func ParseStructuredText(raw string) Outcome {
	if strings.TrimSpace(raw) == "" {
		return Outcome{
			Data: map[string]interface{}{
				keyScores:       map[string]interface{}{},
				keyPatchNote:    emptyResponseNote,
				keyParsingError: true,
			},
			Succeeded:  false,
			Strategy:   StrategyEmptyFallback,
			Confidence: 0.0,
			Warnings:   []string{WarnEmptyInput},
		}
	}

	warnings := []string{}
	for _, s := range waterfall {
		data, ok := s.attempt(raw)
		if !ok {
			continue
		}
		if s.warning != "" {
			warnings = append(warnings, s.warning)
		}
		return Outcome{
			Data:       ensureRecordShape(data),
			Succeeded:  true,
			Strategy:   s.name,
			Confidence: s.confidence,
			Warnings:   warnings,
		}
	}

	return Outcome{
		Data: map[string]interface{}{
			keyScores:       map[string]interface{}{},
			keyPatchNote:    allFailedNotePrefix + preview(raw),
			keyParsingError: true,
		},
		Succeeded:  false,
		Strategy:   StrategyFinalFallback,
		Confidence: 0.0,
		Warnings:   append(warnings, WarnAllFailed),
	}
}

// ensureRecordShape guarantees the "scores" and "patch_note" keys.
func ensureRecordShape(data map[string]interface{}) map[string]interface{} {
	if _, ok := data[keyScores].(map[string]interface{}); !ok {
		data[keyScores] = map[string]interface{}{}
	}
	switch v := data[keyPatchNote].(type) {
	case string:
	case nil:
		data[keyPatchNote] = ""
	default:
		data[keyPatchNote] = fmt.Sprint(v)
	}
	return data
}

func preview(raw string) string {
	r := []rune(raw)
	if len(r) <= previewLimit {
		return raw
	}
	return string(r[:previewLimit]) + "..."
}
