// Package insights aggregates interactions into the weekly self-patch
// report: emotional patterns, stage completion, stuck points and score
// trends, with suggested framework updates.
package insights

import (
	"sort"
	"sync"

	"github.com/CodexForgeBR/selfevo/internal/stage"
	"github.com/CodexForgeBR/selfevo/internal/store"
	"github.com/CodexForgeBR/selfevo/internal/triggers"
)

// Thresholds applied to rubric scores.
const (
	CompleteAlignment = 7   // stage_alignment at or above counts as complete
	StuckUtility      = 4   // utility below counts as stuck
	completionDecay   = 0.9 // weight of the previous completion rate
)

// Entry is one interaction as seen by the Tracker.
type Entry struct {
	Stage       string
	Emotion     string
	Scores      map[string]int
	Constraints []string
}

// Tracker accumulates weekly insights. It is safe for concurrent use.
type Tracker struct {
	mu          sync.Mutex
	recorded    int
	emotions    map[string]int
	completion  map[string]float64
	stuck       map[string]int
	trends      map[string][]int
	constraints map[string]map[string]int
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	t := &Tracker{trends: map[string][]int{}}
	t.resetLocked()
	return t
}

func (t *Tracker) resetLocked() {
	t.recorded = 0
	t.emotions = map[string]int{}
	t.completion = map[string]float64{}
	t.stuck = map[string]int{}
	t.constraints = map[string]map[string]int{}
}

// Record folds one interaction into the running insights. Completion and
// stuck tracking only consider the scores that are present.
func (t *Tracker) Record(e Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.recorded++

	emotion := e.Emotion
	if emotion == "" {
		emotion = triggers.EmotionNeutral
	}
	t.emotions[emotion]++

	if a, ok := e.Scores["stage_alignment"]; ok {
		complete := 0.0
		if a >= CompleteAlignment {
			complete = 1.0
		}
		t.completion[e.Stage] = t.completion[e.Stage]*completionDecay + complete*(1-completionDecay)
	}

	if u, ok := e.Scores["utility"]; ok && u < StuckUtility {
		t.stuck[e.Stage]++
	}

	for metric, score := range e.Scores {
		t.trends[metric] = append(t.trends[metric], score)
	}

	for _, c := range e.Constraints {
		if t.constraints[e.Stage] == nil {
			t.constraints[e.Stage] = map[string]int{}
		}
		t.constraints[e.Stage][c]++
	}
}

// Weekly snapshots the insights into a Report and resets the weekly
// counters. Score history is kept across weeks.
func (t *Tracker) Weekly() Report {
	t.mu.Lock()
	defer t.mu.Unlock()

	r := t.snapshotLocked()
	t.resetLocked()
	return r
}

// Snapshot builds a Report without resetting anything.
func (t *Tracker) Snapshot() Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() Report {
	r := Report{
		Interactions: t.recorded,
		Emotions:     sortedCounts(t.emotions),
		Stuck:        sortedCounts(t.stuck),
		Constraints:  map[string][]Count{},
	}

	for st, rate := range t.completion {
		r.Completion = append(r.Completion, StageRate{Stage: st, Rate: rate})
	}
	sort.Slice(r.Completion, func(i, j int) bool {
		return stageLess(r.Completion[i].Stage, r.Completion[j].Stage)
	})

	for metric, scores := range t.trends {
		if len(scores) == 0 {
			continue
		}
		sum := 0
		for _, s := range scores {
			sum += s
		}
		r.Averages = append(r.Averages, MetricAverage{
			Metric:  metric,
			Mean:    float64(sum) / float64(len(scores)),
			Samples: len(scores),
		})
	}
	sort.Slice(r.Averages, func(i, j int) bool { return r.Averages[i].Metric < r.Averages[j].Metric })

	for st, phrases := range t.constraints {
		r.Constraints[st] = sortedCounts(phrases)
	}

	r.Suggestions = suggestions(r)
	return r
}

// FromInteractions rebuilds a Tracker from persisted interactions. Missing
// emotions are re-detected from the user prompt.
func FromInteractions(rows []store.Interaction) *Tracker {
	t := NewTracker()
	for _, in := range rows {
		emotion := in.Emotion
		if emotion == "" {
			emotion = triggers.DetectEmotion(in.UserPrompt)
		}
		t.Record(Entry{
			Stage:       in.Stage,
			Emotion:     emotion,
			Scores:      in.SelfScores,
			Constraints: stage.DetectConstraints(in.UserPrompt),
		})
	}
	return t
}

// sortedCounts orders counts by descending count, then name.
func sortedCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for name, n := range m {
		out = append(out, Count{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// stageLess orders known stages by protocol order, unknown labels after
// them alphabetically.
func stageLess(a, b string) bool {
	ia, oka := stage.ParseID(a)
	ib, okb := stage.ParseID(b)
	switch {
	case oka && okb:
		return ia < ib
	case oka != okb:
		return oka
	default:
		return a < b
	}
}
