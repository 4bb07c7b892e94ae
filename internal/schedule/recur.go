package schedule

import (
	"time"

	"github.com/tikomo/redmine-punch/internal/dates"
	"github.com/tikomo/redmine-punch/internal/model"
)

// IsDue reports whether the template recurs on the given date. Calendar
// overrides are not consulted here; exclusion and weekend gating happen one
// level up in DueInstances.
func IsDue(t model.Template, day time.Time) bool {
	switch t.Frequency {
	case model.FreqDaily:
		// Strictly Mon-Fri: a work-day override never makes a daily
		// template due on a weekend.
		return !dates.IsWeekend(day)

	case model.FreqWeekly:
		for _, wd := range t.Weekdays {
			if wd == day.Weekday() {
				return true
			}
		}
		return false

	case model.FreqMonthly:
		if t.MonthlyDay == 0 {
			return day.Day() == dates.DaysIn(day)
		}
		return day.Day() == t.MonthlyDay

	default:
		return false
	}
}
