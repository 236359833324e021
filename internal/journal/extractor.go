package journal

import "strings"

const (
	suggestionsHeading = "### Suggested Updates"
	noneMarker         = "- none"
)

// LastSuggestions returns the suggested updates of the newest ritual entry in
// content, in order. It returns nil when there is no entry or the newest entry
// suggested nothing.
func LastSuggestions(content string) []string {
	idx := strings.LastIndex(content, "\n"+entryPrefix)
	if idx < 0 {
		return nil
	}
	entry := content[idx+1:]

	start := strings.Index(entry, suggestionsHeading)
	if start < 0 {
		return nil
	}

	var suggestions []string
	for _, line := range strings.Split(entry[start+len(suggestionsHeading):], "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if len(suggestions) > 0 {
				break
			}
			continue
		}
		// Stop at the next heading
		if strings.HasPrefix(trimmed, "#") {
			break
		}
		if trimmed == noneMarker || !strings.HasPrefix(trimmed, "- ") {
			continue
		}
		suggestions = append(suggestions, strings.TrimSpace(strings.TrimPrefix(trimmed, "- ")))
	}
	return suggestions
}
