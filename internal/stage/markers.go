package stage

import (
	"regexp"
	"strings"
)

// leadIn tolerates decoration before a label: numbering, list markers,
// heading hashes, blockquotes and bold/italic openers.
const leadIn = "(?im)^[ \\t]*(?:\\d+[.)][ \\t]*)?(?:[#*>_`\\-]+[ \\t]*)?(?:\\*\\*|__)?[ \\t]*"

// Separator classes accepted between a label and its content.
const (
	sepColon = `:`
	sepAny   = `[:\-–]`
)

// labelLineRE matches "<label><sep> <content>" on a single line, tolerating
// emphasis around the label. Content must contain a non-decoration character.
func labelLineRE(label, sep string) *regexp.Regexp {
	return regexp.MustCompile(leadIn + label + `[ \t]*(?:\*\*|__)?[ \t]*` + sep + `[ \t]*(?:\*\*|__)?[ \t]*[^\s*_]`)
}

// headingRE matches a line that opens a labelled section; trailing content on
// the same line is optional.
func headingRE(label string) *regexp.Regexp {
	return regexp.MustCompile(leadIn + label + `[ \t]*(?:\*\*|__)?[ \t]*[:\-–]?`)
}

var (
	listItemRE        = regexp.MustCompile(`^[ \t]*(?:[-*•‣▪+–—]|\d+[.)])[ \t]+\S`)
	listMarkerRE      = regexp.MustCompile(`^[ \t]*(?:[-*•‣▪+–—]|\d+[.)])[ \t]+`)
	markdownHeadingRE = regexp.MustCompile(`^[ \t]*#{1,6}[ \t]`)
	boldHeadingRE     = regexp.MustCompile(`^[ \t]*(?:\*\*|__)[^*_]+(?:\*\*|__)[ \t]*:?[ \t]*$|^[ \t]*(?:\*\*|__)[^*_]+:(?:\*\*|__)`)
	stepLabelRE       = regexp.MustCompile(`(?i)^[ \t]*(?:\*\*|__)?(?:step|action)[ \t]*\d+[ \t]*(?:\*\*|__)?[ \t]*[:\-.]`)
)

func isListItem(line string) bool {
	return listItemRE.MatchString(line)
}

func isStepItem(line string) bool {
	return listItemRE.MatchString(line) || stepLabelRE.MatchString(line)
}

// sectionItems returns the item lines that follow the first line matched by
// heading. Before the first item only markdown or bold headings end the
// section; once items have started any non-item, non-indented line ends it.
func sectionItems(text string, heading *regexp.Regexp, isItem func(string) bool) (items []string, found bool) {
	loc := heading.FindStringIndex(text)
	if loc == nil {
		return nil, false
	}

	rest := text[loc[1]:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[nl+1:]
	} else {
		return nil, true
	}

	for _, line := range strings.Split(rest, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if isItem(line) {
			items = append(items, line)
			continue
		}
		if markdownHeadingRE.MatchString(line) || boldHeadingRE.MatchString(line) {
			break
		}
		if len(items) > 0 {
			if line[0] == ' ' || line[0] == '\t' {
				continue
			}
			break
		}
	}
	return items, true
}

// allItems returns every line in text accepted by isItem.
func allItems(text string, isItem func(string) bool) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if isItem(line) {
			items = append(items, line)
		}
	}
	return items
}

// distinctCount counts items whose text differs once list markers, emphasis
// and case are removed.
func distinctCount(items []string) int {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		key := listMarkerRE.ReplaceAllString(item, "")
		key = strings.ToLower(strings.Trim(strings.TrimSpace(key), "*_ "))
		if key == "" {
			continue
		}
		seen[key] = struct{}{}
	}
	return len(seen)
}
