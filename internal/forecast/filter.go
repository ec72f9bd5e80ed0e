package forecast

import "time"

// DefaultWindowDays is how far ahead matches stay eligible.
const DefaultWindowDays = 7

// Seen reports whether a forecast identity was already recorded.
type Seen interface {
	Has(id string) bool
}

// Eligible reports whether c may enter the candidate pool: its identity must
// be unseen and its kickoff date must fall within [today, today+windowDays].
func Eligible(c Candidate, seen Seen, today time.Time, windowDays int) bool {
	if seen != nil && seen.Has(c.ID) {
		return false
	}
	days := DaysUntil(today, c.Kickoff)
	return days >= 0 && days <= windowDays
}

// DaysUntil counts calendar days from today's date to the UTC date of kickoff.
// today is interpreted in its own location.
func DaysUntil(today, kickoff time.Time) int {
	from := civilDate(today)
	to := civilDate(kickoff.UTC())
	return int(to.Sub(from).Hours() / 24)
}

func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
