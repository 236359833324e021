package insights

import (
	"fmt"
	"strings"

	"github.com/CodexForgeBR/selfevo/internal/stage"
)

const (
	topEmotions        = 3
	topStuck           = 2
	minTrendSamples    = 10
	reviewMeanBelow    = 5.0
	emptySectionMarker = "- none"
)

// Count is a named tally.
type Count struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// StageRate is a stage completion rate in [0,1].
type StageRate struct {
	Stage string  `json:"stage" yaml:"stage"`
	Rate  float64 `json:"rate" yaml:"rate"`
}

// MetricAverage is the mean of a rubric metric over its full history.
type MetricAverage struct {
	Metric  string  `json:"metric" yaml:"metric"`
	Mean    float64 `json:"mean" yaml:"mean"`
	Samples int     `json:"samples" yaml:"samples"`
}

// Report is a weekly insight snapshot.
type Report struct {
	Interactions int                `json:"interactions" yaml:"interactions"`
	Emotions     []Count            `json:"emotions" yaml:"emotions"`
	Completion   []StageRate        `json:"completion" yaml:"completion"`
	Stuck        []Count            `json:"stuck" yaml:"stuck"`
	Averages     []MetricAverage    `json:"averages" yaml:"averages"`
	Constraints  map[string][]Count `json:"constraints" yaml:"constraints"`
	Suggestions  []string           `json:"suggestions" yaml:"suggestions"`
}

func suggestions(r Report) []string {
	var out []string
	for i, s := range r.Stuck {
		if i == topStuck {
			break
		}
		out = append(out, fmt.Sprintf("Enhance stage %s guidance (appeared stuck %d times)", s.Name, s.Count))
	}
	for _, a := range r.Averages {
		if a.Samples > minTrendSamples && a.Mean < reviewMeanBelow {
			out = append(out, fmt.Sprintf("Review %s scoring criteria (avg: %.1f)", a.Metric, a.Mean))
		}
	}
	return out
}

// Render formats the report as markdown.
func (r Report) Render() string {
	var b strings.Builder
	b.WriteString("# Weekly Self-Patch Ritual\n\n")
	fmt.Fprintf(&b, "Interactions: %d\n", r.Interactions)

	section(&b, "Emotional Patterns", len(r.Emotions) == 0)
	for i, e := range r.Emotions {
		if i == topEmotions {
			break
		}
		fmt.Fprintf(&b, "- %s: %d occurrences\n", e.Name, e.Count)
	}

	section(&b, "Stage Completion Rates", len(r.Completion) == 0)
	for _, c := range r.Completion {
		fmt.Fprintf(&b, "- %s: %.1f%% completion\n", stageTitle(c.Stage), c.Rate*100)
	}

	section(&b, "Common Stuck Points", len(r.Stuck) == 0)
	for _, s := range r.Stuck {
		fmt.Fprintf(&b, "- %s: stuck %d times\n", stageTitle(s.Name), s.Count)
	}

	section(&b, "Average Scores", len(r.Averages) == 0)
	for _, a := range r.Averages {
		fmt.Fprintf(&b, "- %s: %.1f (%d samples)\n", a.Metric, a.Mean, a.Samples)
	}

	section(&b, "Suggested Updates", len(r.Suggestions) == 0)
	for _, s := range r.Suggestions {
		fmt.Fprintf(&b, "- %s\n", s)
	}

	return b.String()
}

func section(b *strings.Builder, title string, empty bool) {
	fmt.Fprintf(b, "\n## %s\n", title)
	if empty {
		b.WriteString(emptySectionMarker + "\n")
	}
}

func stageTitle(label string) string {
	if id, ok := stage.ParseID(label); ok {
		return id.Title()
	}
	return "Stage " + label
}
