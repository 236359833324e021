// Package parser turns loosely formatted model output into structured records.
//
// ParseStructuredText runs an ordered waterfall of strategies (direct JSON,
// fence stripping, brace extraction, heuristic field extraction) and reports
// which one succeeded along with a confidence level. The helpers in this file
// locate JSON objects embedded in free-form text.
package parser

import (
	"encoding/json"
	"regexp"
	"strings"
)

// fenceRE matches a fenced code block: an opening ``` line optionally tagged
// with a format name, the body, and a closing ``` line.
var fenceRE = regexp.MustCompile("(?s)```[\\w+-]*[ \\t]*\\r?\\n(.*?)\\r?\\n[ \\t]*```")

// decodeObject parses s as a JSON object. Arrays and scalars are rejected
// because a record must be addressable by key.
func decodeObject(s string) (map[string]interface{}, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s[0] != '{' {
		return nil, false
	}
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(s), &result); err != nil {
		return nil, false
	}
	if result == nil {
		return nil, false
	}
	return result, true
}

// stripFences replaces every fenced code block in text with its body.
// The second return value reports whether any fence was found.
func stripFences(text string) (string, bool) {
	if !fenceRE.MatchString(text) {
		return text, false
	}
	return fenceRE.ReplaceAllString(text, "$1"), true
}

// firstObjectSpan returns the first top-level balanced {...} span in text.
// Depth counting skips braces that appear inside string literals.
func firstObjectSpan(text string) (string, bool) {
	start := strings.Index(text, "{")
	if start == -1 {
		return "", false
	}
	raw := text[start:]
	end, ok := matchBraces(raw)
	if !ok {
		return "", false
	}
	return raw[:end+1], true
}

// matchBraces returns the index of the closing '}' that matches the
// opening '{' at position 0, correctly handling string literals
// (including escaped quotes), nested objects, and arrays.
// Curly-brace depth and square-bracket depth are tracked independently
// so that arrays inside objects do not interfere with brace matching.
// Returns (index, true) on success or (0, false) if unmatched.
func matchBraces(s string) (int, bool) {
	if len(s) == 0 || s[0] != '{' {
		return 0, false
	}

	braceDepth := 0
	bracketDepth := 0
	inString := false
	i := 0

	for i < len(s) {
		ch := s[i]

		if inString {
			if ch == '\\' {
				// Skip the escaped character.
				i += 2
				continue
			}
			if ch == '"' {
				inString = false
			}
			i++
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			braceDepth++
		case '}':
			braceDepth--
			if braceDepth == 0 && bracketDepth <= 0 {
				return i, true
			}
		case '[':
			bracketDepth++
		case ']':
			bracketDepth--
		}
		i++
	}

	return 0, false
}
