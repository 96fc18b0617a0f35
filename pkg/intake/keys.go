package intake

import (
	"strings"
	"time"
)

// Storage keys.
const (
	IntakeKeyPrefix = "water-intake-"
	GoalKey         = "water-goal"
	UnitsKey        = "water-metric"
	EmojiKey        = "water-emoji"
)

// DateLayout is the calendar date format used in keys and history entries.
const DateLayout = "2006-01-02"

// IntakeKey returns the record key for the calendar date of t in t's
// location.
func IntakeKey(t time.Time) string {
	return IntakeKeyPrefix + t.Format(DateLayout)
}

// DaysAgo returns noon on the calendar date n days before t, in t's
// location. Noon keeps the result on the intended date across DST changes.
func DaysAgo(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d-n, 12, 0, 0, 0, t.Location())
}

// ParseIntakeKey extracts the date from an intake record key.
func ParseIntakeKey(key string, loc *time.Location) (time.Time, bool) {
	if !strings.HasPrefix(key, IntakeKeyPrefix) {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimPrefix(key, IntakeKeyPrefix), loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
