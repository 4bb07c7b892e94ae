package schedule_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/tikomo/redmine-punch/internal/schedule"
)

// fakeWriter records calls and fails any action whose spent-on date (for
// creates) or entry id (for updates) is marked as failing.
type fakeWriter struct {
	nextID      int
	created     []string
	updated     []int
	failDates   map[string]bool
	failEntries map[int]bool
}

func (f *fakeWriter) CreateTimeEntry(_ context.Context, issueID int, hours float64, activityID int, comments, spentOn string) (int, error) {
	if f.failDates[spentOn] {
		return 0, errors.New("422 Unprocessable Entity")
	}
	f.nextID++
	f.created = append(f.created, spentOn)
	return f.nextID, nil
}

func (f *fakeWriter) UpdateTimeEntry(_ context.Context, id int, hours float64, activityID int, comments string) error {
	if f.failEntries[id] {
		return errors.New("403 Forbidden")
	}
	f.updated = append(f.updated, id)
	return nil
}

func applyPlan(t *testing.T) []schedule.Action {
	t.Helper()
	tmpl := weeklyTemplate("planning", 42, 2, time.Monday)
	return []schedule.Action{
		{Template: tmpl, Day: day(2026, time.September, 7), EntryID: 77},
		{Template: tmpl, Day: day(2026, time.September, 14)},
		{Template: tmpl, Day: day(2026, time.September, 21)},
		{Template: tmpl, Day: day(2026, time.September, 28)},
	}
}

func TestApplyCounts(t *testing.T) {
	w := &fakeWriter{}
	res := schedule.Apply(context.Background(), w, applyPlan(t), 8, io.Discard)

	if res.Created != 3 || res.Updated != 1 || res.Skipped != 8 || res.Errors != 0 {
		t.Errorf("result = %+v, want 3 created, 1 updated, 8 skipped, 0 errors", res)
	}
	if len(w.updated) != 1 || w.updated[0] != 77 {
		t.Errorf("updated ids = %v, want [77]", w.updated)
	}
	if len(w.created) != 3 || w.created[0] != "2026-09-14" {
		t.Errorf("created dates = %v", w.created)
	}
}

func TestApplyContinuesPastFailures(t *testing.T) {
	w := &fakeWriter{
		failEntries: map[int]bool{77: true},
		failDates:   map[string]bool{"2026-09-21": true},
	}
	res := schedule.Apply(context.Background(), w, applyPlan(t), 0, io.Discard)

	if res.Errors != 2 {
		t.Errorf("errors = %d, want 2", res.Errors)
	}
	if res.Created != 2 || res.Updated != 0 {
		t.Errorf("created = %d, updated = %d, want 2 and 0", res.Created, res.Updated)
	}
	// The last action still ran after two failures.
	if len(w.created) == 0 || w.created[len(w.created)-1] != "2026-09-28" {
		t.Errorf("created dates = %v, want the final Monday attempted", w.created)
	}
}

func TestApplyCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := &fakeWriter{}
	res := schedule.Apply(ctx, w, applyPlan(t), 0, io.Discard)

	if res.Created != 0 || res.Updated != 0 || res.Errors != 0 {
		t.Errorf("cancelled run attempted actions: %+v", res)
	}
	if len(w.created) != 0 || len(w.updated) != 0 {
		t.Errorf("writer was called after cancellation: %v %v", w.created, w.updated)
	}
	last := res.Log[len(res.Log)-1]
	if !strings.Contains(last, "4 of 4 actions not attempted") {
		t.Errorf("cancellation log = %q", last)
	}
}

func TestApplyLogOrdering(t *testing.T) {
	w := &fakeWriter{}
	plan := applyPlan(t)[:2]
	res := schedule.Apply(context.Background(), w, plan, 0, io.Discard)

	if len(res.Log) != 4 {
		t.Fatalf("log = %q, want 4 lines", res.Log)
	}
	if !strings.HasPrefix(res.Log[0], "PUT /time_entries/77.json") {
		t.Errorf("log[0] = %q", res.Log[0])
	}
	if !strings.Contains(res.Log[1], "overwrote existing entry") {
		t.Errorf("log[1] = %q", res.Log[1])
	}
	if !strings.HasPrefix(res.Log[2], "POST /time_entries.json (2026-09-14") {
		t.Errorf("log[2] = %q", res.Log[2])
	}
	if !strings.Contains(res.Log[3], "registered #1") {
		t.Errorf("log[3] = %q", res.Log[3])
	}
}

func TestApplyEmptyPlan(t *testing.T) {
	res := schedule.Apply(context.Background(), &fakeWriter{}, nil, 3, io.Discard)
	if res.Created != 0 || res.Updated != 0 || res.Errors != 0 || res.Skipped != 3 {
		t.Errorf("result = %+v", res)
	}
}
