package schedule

import "time"

// Ritual is a weekly schedule that fires at most once on Day.
type Ritual struct {
	Day time.Weekday
}

// Weekly returns a Ritual for day.
func Weekly(day time.Weekday) *Ritual {
	return &Ritual{Day: day}
}

// Default is the Monday ritual.
func Default() *Ritual {
	return Weekly(time.Monday)
}

// Due reports whether the ritual should run at now, given the last time it
// ran. It runs once per calendar day on r.Day.
func (r *Ritual) Due(now, last time.Time) bool {
	return now.Weekday() == r.Day && !SameDay(now, last)
}

// Next returns midnight of the next ritual day strictly after now's date,
// or today's midnight when now is on the ritual day and last is not today.
func (r *Ritual) Next(now, last time.Time) time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if r.Due(now, last) {
		return midnight
	}
	days := (int(r.Day) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return midnight.AddDate(0, 0, days)
}

// SameDay reports whether a and b fall on the same calendar day in a's
// location. The zero time never matches.
func SameDay(a, b time.Time) bool {
	if b.IsZero() {
		return false
	}
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
