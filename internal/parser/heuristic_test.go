package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/selfevo/internal/parser"
)

func TestExtractFields_PatternFamilies(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		label string
		want  int
	}{
		{"plain numeric", "clarity: 7", "clarity", 7},
		{"slash ten", "clarity: 7/10", "clarity", 7},
		{"out of ten", "clarity: 6 out of 10", "clarity", 6},
		{"clamped high", "clarity: 42", "clarity", 10},
		{"huge number clamped", "clarity: 99999999999999999999999", "clarity", 10},
		{"categorical excellent", "tone: Excellent", "tone", 9},
		{"categorical case-insensitive", "tone: hIgH", "tone", 8},
		{"categorical poor", "tone: poor", "tone", 2},
		{"assignment", "utility = 4", "utility", 4},
		{"dash", "empathy - 3", "empathy", 3},
		{"label lower-cased", "Stage_Alignment: 5", "stage_alignment", 5},
		{"quoted label", `"clarity": 8`, "clarity", 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := parser.ExtractFields(tt.text)
			require.NoError(t, err)

			scores, ok := data["scores"].(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, tt.want, scores[tt.label])
		})
	}
}

func TestExtractFields_LastMatchWins(t *testing.T) {
	// The dash family runs after the numeric family and overwrites it.
	data, err := parser.ExtractFields("clarity: 9\nclarity - 2")
	require.NoError(t, err)

	scores := data["scores"].(map[string]interface{})
	assert.Equal(t, 2, scores["clarity"])
}

func TestExtractFields_NotePriority(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"patch note", "summary: ignored\npatch note: keep it short\nmore", "keep it short"},
		{"comment", "comment: fine overall", "fine overall"},
		{"summary before suggestion", "suggestion: later\nconclusion: solid work", "solid work"},
		{"suggestion only", "improvement: add examples", "add examples"},
		{"first line only", "note: line one\nline two", "line one"},
		{"quoted json-ish note", `"patch_note": "tighten prompts",`, "tighten prompts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := parser.ExtractFields(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, data["patch_note"])
		})
	}
}

func TestExtractFields_DefaultNote(t *testing.T) {
	data, err := parser.ExtractFields("clarity: 5")
	require.NoError(t, err)
	assert.Equal(t, parser.DefaultHeuristicNote, data["patch_note"])
}

func TestExtractFields_NoteWithoutScores(t *testing.T) {
	data, err := parser.ExtractFields("Note: nothing to score")
	require.NoError(t, err)
	assert.Empty(t, data["scores"])
	assert.Equal(t, "nothing to score", data["patch_note"])
}

func TestExtractFields_NothingFound(t *testing.T) {
	_, err := parser.ExtractFields("just some prose without any structure")
	assert.ErrorIs(t, err, parser.ErrNoFields)
}

func TestCategoricalScore(t *testing.T) {
	assert.Equal(t, 9, parser.CategoricalScore("Excellent"))
	assert.Equal(t, 7, parser.CategoricalScore(" good "))
	assert.Equal(t, 4, parser.CategoricalScore("FAIR"))
	assert.Equal(t, 5, parser.CategoricalScore("meh"))
}

func TestLookupCategorical(t *testing.T) {
	v, ok := parser.LookupCategorical("Poor")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = parser.LookupCategorical("meh")
	assert.False(t, ok)
}
