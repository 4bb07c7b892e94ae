// Package schedule implements the reconciliation engine: recurrence
// evaluation, calendar-day gating, matching due template instances against
// already-recorded Redmine time entries, and the sequential bulk-apply pass.
package schedule

import (
	"time"

	"github.com/tikomo/redmine-punch/internal/dates"
)

// DayClass is the classification of one calendar day against the user's
// override sets. Used both for gating and for calendar rendering.
type DayClass struct {
	Weekend  bool
	WorkDay  bool
	Excluded bool
}

// Classify maps a date to its day classification. Pure and total over any
// valid date.
func Classify(day time.Time, workDays, excluded dates.Set) DayClass {
	return DayClass{
		Weekend:  dates.IsWeekend(day),
		WorkDay:  workDays.Has(day),
		Excluded: excluded.Has(day),
	}
}

// Off reports whether the day produces no instances at all: excluded dates
// always win, then weekends without a work-day override.
func (c DayClass) Off() bool {
	return c.Excluded || (c.Weekend && !c.WorkDay)
}
