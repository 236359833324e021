package parser

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoFields is returned by ExtractFields when the text contains neither a
// score-like pattern nor a note.
var ErrNoFields = errors.New("no score or note patterns found")

// DefaultHeuristicNote is used when no note pattern matches.
const DefaultHeuristicNote = "Heuristic parsing - limited text analysis"

// Score pattern families, applied in order. Later matches for the same label
// overwrite earlier ones. Labels may be wrapped in quotes so half-broken JSON
// still yields scores.
var (
	numericScoreRE     = regexp.MustCompile(`(?i)"?(\w+)"?:\s*(\d+)(?:/10)?(?:\s*(?:out of|/)\s*10)?`)
	categoricalScoreRE = regexp.MustCompile(`(?i)"?(\w+)"?:\s*"?(High|Medium|Low|Excellent|Good|Fair|Poor)\b`)
	assignmentScoreRE  = regexp.MustCompile(`(\w+)\s*=\s*(\d+)`)
	dashScoreRE        = regexp.MustCompile(`(\w+)\s*-\s*(\d+)`)
)

// noteREs are tried in priority order; the first family that matches wins.
var noteREs = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:patch[_\s]?note|note|comment)"?:\s*"?([^\n]+)`),
	regexp.MustCompile(`(?i)(?:summary|conclusion)"?:\s*"?([^\n]+)`),
	regexp.MustCompile(`(?i)(?:improvement|suggestion)"?:\s*"?([^\n]+)`),
}

// categoricalScores maps rubric words to numeric scores.
var categoricalScores = map[string]int{
	"excellent": 9,
	"high":      8,
	"good":      7,
	"medium":    5,
	"fair":      4,
	"low":       3,
	"poor":      2,
}

// CategoricalScore converts a rubric word (case-insensitive) to a score.
// Unrecognised words score 5.
func CategoricalScore(word string) int {
	if v, ok := LookupCategorical(word); ok {
		return v
	}
	return 5
}

// LookupCategorical is CategoricalScore without the default.
func LookupCategorical(word string) (int, bool) {
	v, ok := categoricalScores[strings.ToLower(strings.TrimSpace(word))]
	return v, ok
}

// ExtractFields approximates a {"scores": ..., "patch_note": ...} record from
// free text by scanning for label/value patterns:
//
//	clarity: 8        clarity: 8/10      clarity: 8 out of 10
//	tone: Good        utility = 7        empathy - 6
//
// Numeric values are clamped to [0,10]; categorical words are mapped through
// CategoricalScore. The note is the first line following a note, summary or
// suggestion label. ErrNoFields is returned when nothing matched at all.
func ExtractFields(text string) (map[string]interface{}, error) {
	scores := map[string]interface{}{}

	for _, re := range []*regexp.Regexp{numericScoreRE, categoricalScoreRE, assignmentScoreRE, dashScoreRE} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			label := strings.ToLower(strings.TrimSpace(m[1]))
			if label == "" {
				continue
			}
			scores[label] = scoreValue(m[2])
		}
	}

	note := ""
	for _, re := range noteREs {
		if m := re.FindStringSubmatch(text); m != nil {
			note = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(m[1]), `",`))
			if note != "" {
				break
			}
		}
	}

	if len(scores) == 0 && note == "" {
		return nil, ErrNoFields
	}
	if note == "" {
		note = DefaultHeuristicNote
	}

	return map[string]interface{}{
		keyScores:    scores,
		keyPatchNote: note,
	}, nil
}

// scoreValue converts a captured value to an int score in [0,10].
func scoreValue(raw string) int {
	if raw == "" {
		return 5
	}
	if raw[0] >= '0' && raw[0] <= '9' {
		n, err := strconv.Atoi(raw)
		if err != nil {
			// Digits only, so the only failure is overflow.
			return 10
		}
		return clampScore(n)
	}
	return CategoricalScore(raw)
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 10 {
		return 10
	}
	return n
}
