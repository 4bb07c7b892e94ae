package schedule_test

import (
	"testing"
	"time"

	"github.com/tikomo/redmine-punch/internal/dates"
	"github.com/tikomo/redmine-punch/internal/schedule"
)

func TestClassify(t *testing.T) {
	sat := day(2026, time.September, 5)
	mon := day(2026, time.September, 7)

	workDays := dates.NewSet(sat)
	excluded := dates.NewSet(mon)

	cls := schedule.Classify(sat, workDays, excluded)
	if !cls.Weekend || !cls.WorkDay || cls.Excluded {
		t.Errorf("Saturday work day: got %+v", cls)
	}
	if cls.Off() {
		t.Error("weekend with work-day override should not be off")
	}

	cls = schedule.Classify(mon, workDays, excluded)
	if cls.Weekend || cls.WorkDay || !cls.Excluded {
		t.Errorf("excluded Monday: got %+v", cls)
	}
	if !cls.Off() {
		t.Error("excluded date must be off")
	}

	cls = schedule.Classify(day(2026, time.September, 6), dates.Set{}, dates.Set{})
	if !cls.Weekend || !cls.Off() {
		t.Errorf("plain Sunday: got %+v", cls)
	}

	cls = schedule.Classify(day(2026, time.September, 8), dates.Set{}, dates.Set{})
	if cls.Weekend || cls.Off() {
		t.Errorf("plain Tuesday: got %+v", cls)
	}
}

func TestClassifyExcludedBeatsWorkDay(t *testing.T) {
	// A date in both sets is still off: exclusion wins.
	sat := day(2026, time.September, 5)
	cls := schedule.Classify(sat, dates.NewSet(sat), dates.NewSet(sat))
	if !cls.Off() {
		t.Error("excluded date must be off even with a work-day override")
	}
}
