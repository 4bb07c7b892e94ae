package dates

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Layout is the calendar-date wire format used by punch and by the Redmine
// spent_on field.
const Layout = "2006-01-02"

// Format renders t as a calendar date, dropping the time component.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Parse parses a YYYY-MM-DD calendar date.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// ParseMonth parses a YYYY-MM month and returns its first day.
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q (want YYYY-MM): %w", s, err)
	}
	return t, nil
}

// MonthStart returns the first day of t's month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// MonthEnd returns the last day of t's month.
func MonthEnd(t time.Time) time.Time {
	return MonthStart(t).AddDate(0, 1, -1)
}

// DaysIn returns the number of days in t's month.
func DaysIn(t time.Time) int {
	return MonthEnd(t).Day()
}

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Set is a set of calendar dates. It marshals as a sorted JSON array of
// YYYY-MM-DD strings, the on-disk format of the override files.
type Set map[string]struct{}

// NewSet builds a Set from the given days.
func NewSet(days ...time.Time) Set {
	s := Set{}
	for _, d := range days {
		s.Add(d)
	}
	return s
}

// Add inserts t's calendar date.
func (s Set) Add(t time.Time) {
	s[Format(t)] = struct{}{}
}

// Remove deletes t's calendar date.
func (s Set) Remove(t time.Time) {
	delete(s, Format(t))
}

// Has reports whether t's calendar date is in the set.
func (s Set) Has(t time.Time) bool {
	_, ok := s[Format(t)]
	return ok
}

// Days returns the dates in ascending order.
func (s Set) Days() []string {
	out := make([]string, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// MarshalJSON encodes the set as a sorted date array.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Days())
}

// UnmarshalJSON decodes a date array, rejecting malformed dates.
func (s *Set) UnmarshalJSON(data []byte) error {
	var days []string
	if err := json.Unmarshal(data, &days); err != nil {
		return err
	}
	out := Set{}
	for _, d := range days {
		t, err := Parse(d)
		if err != nil {
			return err
		}
		out.Add(t)
	}
	*s = out
	return nil
}
