package dates_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/tikomo/redmine-punch/internal/dates"
)

func TestParse(t *testing.T) {
	d, err := dates.Parse("2026-09-15")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.Year() != 2026 || d.Month() != time.September || d.Day() != 15 {
		t.Errorf("Parse = %v, want 2026-09-15", d)
	}

	if _, err := dates.Parse("15.09.2026"); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestParseMonth(t *testing.T) {
	m, err := dates.ParseMonth("2026-09")
	if err != nil {
		t.Fatalf("ParseMonth: %v", err)
	}
	if m.Year() != 2026 || m.Month() != time.September || m.Day() != 1 {
		t.Errorf("ParseMonth = %v, want first day of 2026-09", m)
	}

	if _, err := dates.ParseMonth("September 2026"); err == nil {
		t.Error("expected error for malformed month")
	}
}

func TestMonthEndAndDaysIn(t *testing.T) {
	tests := []struct {
		in   string
		days int
	}{
		{"2026-02-10", 28},
		{"2028-02-01", 29}, // leap year
		{"2026-04-30", 30},
		{"2026-09-05", 30},
		{"2026-12-31", 31},
	}
	for _, tt := range tests {
		d, err := dates.Parse(tt.in)
		if err != nil {
			t.Fatal(err)
		}
		if got := dates.DaysIn(d); got != tt.days {
			t.Errorf("DaysIn(%s) = %d, want %d", tt.in, got, tt.days)
		}
		if got := dates.MonthEnd(d).Day(); got != tt.days {
			t.Errorf("MonthEnd(%s).Day() = %d, want %d", tt.in, got, tt.days)
		}
	}
}

func TestIsWeekend(t *testing.T) {
	sat := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
	sun := sat.AddDate(0, 0, 1)
	mon := sat.AddDate(0, 0, 2)
	if !dates.IsWeekend(sat) || !dates.IsWeekend(sun) {
		t.Error("expected Saturday and Sunday to be weekend")
	}
	if dates.IsWeekend(mon) {
		t.Error("expected Monday not to be weekend")
	}
}

func TestSetAddRemoveHas(t *testing.T) {
	d := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	s := dates.NewSet()

	if s.Has(d) {
		t.Error("empty set should not contain date")
	}
	s.Add(d)
	if !s.Has(d) {
		t.Error("set should contain added date")
	}
	// The time component is irrelevant.
	if !s.Has(time.Date(2026, 9, 15, 23, 59, 0, 0, time.UTC)) {
		t.Error("Has should ignore the time of day")
	}
	s.Remove(d)
	if s.Has(d) {
		t.Error("set should not contain removed date")
	}
}

func TestSetJSONRoundTrip(t *testing.T) {
	s := dates.NewSet(
		time.Date(2026, 9, 21, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
	)

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `["2026-09-07","2026-09-14","2026-09-21"]`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s (sorted array)", data, want)
	}

	var loaded dates.Set
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(loaded) != 3 || !loaded.Has(time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("round trip lost dates: %v", loaded.Days())
	}
}

func TestSetUnmarshalRejectsBadDates(t *testing.T) {
	var s dates.Set
	if err := json.Unmarshal([]byte(`["2026-09-07","not-a-date"]`), &s); err == nil {
		t.Error("expected error for malformed date in list")
	}
}
