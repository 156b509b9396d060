package datekey

import (
	"fmt"
	"time"
)

// Layout is the canonical date key shape: local calendar date, no timezone.
const Layout = "2006-01-02"

// Midnight canonicalizes t to local midnight of its own calendar day.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Key formats t as YYYY-MM-DD using the date's own year/month/day fields.
// It never converts to UTC, so a late-evening local time keeps its day.
func Key(t time.Time) string {
	y, m, d := t.Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), d)
}

// Parse reads a strict YYYY-MM-DD key into a local-midnight time.
// Keys whose components do not round-trip (e.g. 2025-02-31) are rejected.
func Parse(key string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	if Key(t) != key {
		return time.Time{}, fmt.Errorf("invalid date key %q: does not round-trip", key)
	}
	return t, nil
}

// AddDays moves t by n calendar days and re-canonicalizes to local midnight.
// Month and year rollover follow normal calendar rules.
func AddDays(t time.Time, n int) time.Time {
	return Midnight(Midnight(t).AddDate(0, 0, n))
}

// Weekday is one of the seven canonical weekday bucket keys.
// The order follows the Sunday=0 convention.
type Weekday string

const (
	Sunday    Weekday = "sun"
	Monday    Weekday = "mon"
	Tuesday   Weekday = "tue"
	Wednesday Weekday = "wed"
	Thursday  Weekday = "thu"
	Friday    Weekday = "fri"
	Saturday  Weekday = "sat"
)

// AllWeekdays returns the seven keys in Sunday-first order.
func AllWeekdays() []Weekday {
	return []Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}
}

// WeekdayOf maps a date to its canonical weekday key.
func WeekdayOf(t time.Time) Weekday {
	return AllWeekdays()[int(t.Weekday())]
}

// ParseWeekday validates a raw weekday string from the wire.
func ParseWeekday(s string) (Weekday, bool) {
	for _, wd := range AllWeekdays() {
		if string(wd) == s {
			return wd, true
		}
	}
	return "", false
}
