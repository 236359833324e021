package stage

import (
	"fmt"
	"math"
	"regexp"
)

const minThemes = 3

var (
	keyThemesRE  = headingRE(`Key\s+Themes?`)
	themeLabelRE = regexp.MustCompile(`(?im)^[ \t]*(?:(?:[-*•]|\d+[.)])[ \t]*)?(?:\*\*|__)?[ \t]*(?:theme|category|area)[ \t]*\d*[ \t]*(?:\*\*|__)?[ \t]*[:\-]`)
)

// validateBrainDump requires at least three distinct themes, listed under a
// "Key Themes" heading or labelled "Theme N:" / "Category N:" / "Area N:".
// Without the heading every list item in the response is counted.
func validateBrainDump(response string) Verdict {
	var items []string
	items, headingFound := sectionItems(response, keyThemesRE, isListItem)
	if !headingFound {
		items = allItems(response, isListItem)
	}

	listCount := distinctCount(items)
	labelCount := len(themeLabelRE.FindAllStringIndex(response, -1))
	count := listCount
	if labelCount > count {
		count = labelCount
	}

	details := map[string]interface{}{
		"key_themes_heading": headingFound,
		"list_items":         listCount,
		"theme_labels":       labelCount,
		"item_count":         count,
	}

	score := math.Min(1.0, float64(count)/minThemes)
	status := statusForFraction(score)

	var missing []string
	if status != StatusSuccess {
		missing = append(missing, fmt.Sprintf("%d more theme(s) (found %d, need ≥%d)", minThemes-count, count, minThemes))
		if !headingFound {
			missing = append(missing, "Key Themes heading")
		}
	}
	return newVerdict(Stage1, status, score, details, fmt.Sprintf("%d themes identified.", count), missing)
}
