package scoring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/selfevo/internal/scoring"
)

func TestNewScorer(t *testing.T) {
	h, err := scoring.NewScorer("heuristic")
	require.NoError(t, err)
	assert.IsType(t, scoring.Heuristic{}, h)

	n, err := scoring.NewScorer("none")
	require.NoError(t, err)
	assert.IsType(t, scoring.None{}, n)

	_, err = scoring.NewScorer("oracle")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown scorer "oracle"`)
}

func TestHeuristic_MatchesHeuristicScore(t *testing.T) {
	resp := "Success Today: ship"
	want, wantNote := scoring.HeuristicScore("0", resp, false)
	got, gotNote := scoring.Heuristic{}.Score("0", resp, false)

	assert.Equal(t, want, got)
	assert.Equal(t, wantNote, gotNote)
}

func TestNone_Score(t *testing.T) {
	sm, note := scoring.None{}.Score("0", "anything", false)

	assert.Empty(t, sm.Scores)
	assert.NotNil(t, sm.Scores)
	assert.Equal(t, scoring.MethodNone, sm.Method)
	assert.Equal(t, scoring.NoScoresNote, note)
}
