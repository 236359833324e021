// Package schedule decides when the weekly self-patch ritual is due.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday parses a weekday name into a time.Weekday.
// Supports 3 forms, case-insensitive:
// - full name ("monday")
// - three-letter abbreviation ("mon")
// - number 0-6 with 0 = Sunday
func ParseWeekday(input string) (time.Weekday, error) {
	s := strings.ToLower(strings.TrimSpace(input))

	if d, ok := weekdays[s]; ok {
		return d, nil
	}

	if len(s) == 3 {
		for name, d := range weekdays {
			if strings.HasPrefix(name, s) {
				return d, nil
			}
		}
	}

	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 6 {
		return time.Weekday(n), nil
	}

	return 0, fmt.Errorf("invalid weekday: %q (supported: monday, mon, 1)", input)
}
