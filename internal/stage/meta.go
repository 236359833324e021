package stage

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	minMeaningfulLine = 10
	minSectionLength  = 50
)

type metaSection struct {
	name string
	key  string
	re   *regexp.Regexp
}

// metaHeadingRE accepts "A. **Name**" or a markdown heading "### A. Name"
// where the letter is optional.
func metaHeadingRE(letter, name string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)^[ \t]*(?:` +
		letter + `\.[ \t]*(?:\*\*|__)?[ \t]*` + name +
		`|#{1,3}[ \t]*(?:` + letter + `\.?[ \t]*)?(?:\*\*|__)?[ \t]*` + name + `)`)
}

var metaSections = []metaSection{
	{"Framework Performance Analysis", "framework_analysis", metaHeadingRE("A", `Framework\s+Performance\s+Analysis`)},
	{"Internal Logic Reflection", "logic_reflection", metaHeadingRE("B", `Internal\s+Logic\s+Reflection`)},
	{"Actionable Framework Refinements", "refinements", metaHeadingRE("C", `Actionable\s+Framework\s+Refinements`)},
	{"Micro-Action for Immediate Integration", "micro_action", metaHeadingRE("D", `Micro[-\s]?Action\s+for\s+Immediate\s+Integration`)},
}

var metaConcepts = []struct {
	name string
	re   *regexp.Regexp
}{
	{"pathways", regexp.MustCompile(`(?i)synthesi[sz]e|gaps|wildcard|pathways?`)},
	{"refinements", regexp.MustCompile(`(?i)recommend|improvements?|concrete`)},
	{"micro_action", regexp.MustCompile(`(?i)≤\d+.?min|micro.?action|\d+.?min`)},
}

// validateMeta requires the four Meta-Mode sections, each with at least one
// substantive line below its heading and enough total content.
func validateMeta(response string) Verdict {
	starts := make([]int, len(metaSections))
	for i, s := range metaSections {
		starts[i] = -1
		if loc := s.re.FindStringIndex(response); loc != nil {
			starts[i] = loc[0]
		}
	}

	bounds := make([]int, 0, len(starts)+1)
	for _, st := range starts {
		if st >= 0 {
			bounds = append(bounds, st)
		}
	}
	bounds = append(bounds, len(response))
	sort.Ints(bounds)

	details := map[string]interface{}{}
	var missing []string
	found := 0
	for i, s := range metaSections {
		if starts[i] < 0 {
			details[s.key] = "missing"
			missing = append(missing, s.name)
			continue
		}
		content := response[starts[i]:nextBound(bounds, starts[i])]
		lines := meaningfulLines(content)
		if lines > 0 && utf8.RuneCountInString(strings.TrimSpace(content)) > minSectionLength {
			details[s.key] = lines
			found++
			continue
		}
		details[s.key] = "insufficient"
		missing = append(missing, s.name+" (found header but insufficient content)")
	}

	var concepts []string
	for _, c := range metaConcepts {
		if c.re.MatchString(response) {
			concepts = append(concepts, c.name)
		}
	}
	details["sections_found"] = found
	details["key_concepts"] = concepts

	score := float64(found) / float64(len(metaSections))
	return newVerdict(Meta, statusForFraction(score), score, details, "all sections addressed with sufficient content.", missing)
}

// nextBound returns the first bound strictly after start.
func nextBound(bounds []int, start int) int {
	i := sort.SearchInts(bounds, start+1)
	return bounds[i]
}

// meaningfulLines counts non-heading lines after the heading line whose
// trimmed text is longer than minMeaningfulLine characters.
func meaningfulLines(content string) int {
	lines := strings.Split(content, "\n")
	n := 0
	for _, line := range lines[1:] {
		if markdownHeadingRE.MatchString(line) || boldHeadingRE.MatchString(line) {
			continue
		}
		if utf8.RuneCountInString(strings.TrimSpace(line)) > minMeaningfulLine {
			n++
		}
	}
	return n
}
