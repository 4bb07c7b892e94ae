package schedule

import (
	"time"

	"github.com/tikomo/redmine-punch/internal/dates"
	"github.com/tikomo/redmine-punch/internal/model"
	"github.com/tikomo/redmine-punch/internal/redmine"
)

// Instance is one due (template, date) pair.
type Instance struct {
	Template model.Template
	Day      time.Time
}

// Action is one planned registration. EntryID 0 means create a new time
// entry; otherwise overwrite the existing entry with that id.
type Action struct {
	Template model.Template
	Day      time.Time
	EntryID  int
}

// IsUpdate reports whether the action overwrites an existing entry.
func (a Action) IsUpdate() bool {
	return a.EntryID != 0
}

// DueInstances walks the month in ascending date order and returns the due
// (template, date) pairs plus the number of skipped days. Gating order:
// excluded dates first, then weekends without a work-day override; enabled
// templates are evaluated in declaration order on the remaining days.
func DueInstances(month time.Time, templates []model.Template, workDays, excluded dates.Set) ([]Instance, int) {
	start := dates.MonthStart(month)
	var due []Instance
	skipped := 0
	for d := start; d.Month() == start.Month(); d = d.AddDate(0, 0, 1) {
		if Classify(d, workDays, excluded).Off() {
			skipped++
			continue
		}
		for _, t := range templates {
			if !t.Enabled {
				continue
			}
			if IsDue(t, d) {
				due = append(due, Instance{Template: t, Day: d})
			}
		}
	}
	return due, skipped
}

// BuildPlan matches due instances against the month's fetched time entries
// and emits one action per instance. An existing entry is bound to at most
// one instance: matching is by exact spent_on date and issue id, first match
// in list order, with claimed entry ids tracked per date. Greedy and
// order-dependent, but deterministic for a fixed input ordering.
func BuildPlan(due []Instance, existing []redmine.TimeEntry) []Action {
	plan := make([]Action, 0, len(due))
	var current string
	var claimed map[int]struct{}
	for _, in := range due {
		day := dates.Format(in.Day)
		if day != current {
			current = day
			claimed = map[int]struct{}{}
		}

		entryID := 0
		for _, e := range existing {
			if e.SpentOn != day || e.Issue.ID != in.Template.IssueID {
				continue
			}
			if _, taken := claimed[e.ID]; taken {
				continue
			}
			entryID = e.ID
			claimed[e.ID] = struct{}{}
			break
		}

		plan = append(plan, Action{Template: in.Template, Day: in.Day, EntryID: entryID})
	}
	return plan
}
