package scoring

import "fmt"

// Scorer grades a response without consulting the model.
type Scorer interface {
	Score(stageLabel, response string, isMeta bool) (ScoreMap, string)
}

// Heuristic is the structural Scorer backed by HeuristicScore.
type Heuristic struct{}

// Score implements Scorer.
func (Heuristic) Score(stageLabel, response string, isMeta bool) (ScoreMap, string) {
	return HeuristicScore(stageLabel, response, isMeta)
}

// None is a Scorer that produces no scores.
type None struct{}

// NoScoresNote is the note returned by None.
const NoScoresNote = "Scoring disabled"

// Score implements Scorer.
func (None) Score(string, string, bool) (ScoreMap, string) {
	return ScoreMap{Scores: map[string]int{}, Method: MethodNone}, NoScoresNote
}

// NewScorer returns the Scorer named by kind: "heuristic" or "none".
func NewScorer(kind string) (Scorer, error) {
	switch kind {
	case MethodHeuristic:
		return Heuristic{}, nil
	case MethodNone:
		return None{}, nil
	default:
		return nil, fmt.Errorf("unknown scorer %q (want %s or %s)", kind, MethodHeuristic, MethodNone)
	}
}
