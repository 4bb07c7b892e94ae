package model

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

// Frequency is a template's recurrence kind.
type Frequency string

const (
	FreqDaily   Frequency = "daily"   // every business day (Mon-Fri)
	FreqWeekly  Frequency = "weekly"  // fixed weekdays
	FreqMonthly Frequency = "monthly" // fixed day of month, 0 = month end
)

// Template is a recurring work definition: a fixed issue, hour quantity,
// activity and schedule. Templates are stored in ~/.punch/templates.json and
// are read-only during a bulk-apply run.
type Template struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	IssueID      int            `json:"issue_id"`
	Hours        float64        `json:"hours"`
	ActivityID   int            `json:"activity_id"`
	ActivityName string         `json:"activity_name,omitempty"`
	Frequency    Frequency      `json:"frequency"`
	Weekdays     []time.Weekday `json:"weekdays,omitempty"`
	MonthlyDay   int            `json:"monthly_day,omitempty"`
	Enabled      bool           `json:"enabled"`
}

// Validate checks the constraints enforced at template-edit time. The
// scheduling code assumes templates it receives are well-formed.
func (t Template) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("template name must not be empty")
	}
	if t.IssueID <= 0 {
		return fmt.Errorf("issue id must be a positive integer, got %d", t.IssueID)
	}
	if t.Hours <= 0 {
		return fmt.Errorf("hours must be positive, got %g", t.Hours)
	}
	if t.ActivityID <= 0 {
		return fmt.Errorf("activity id must be a positive integer, got %d", t.ActivityID)
	}
	switch t.Frequency {
	case FreqDaily:
	case FreqWeekly:
		if len(t.Weekdays) == 0 {
			return fmt.Errorf("weekly template needs at least one weekday")
		}
	case FreqMonthly:
		if t.MonthlyDay < 0 || t.MonthlyDay > 31 {
			return fmt.Errorf("monthly day must be 0 (month end) or 1-31, got %d", t.MonthlyDay)
		}
	default:
		return fmt.Errorf("unknown frequency %q", t.Frequency)
	}
	return nil
}

// Schedule returns a short human-readable description of the recurrence.
func (t Template) Schedule() string {
	switch t.Frequency {
	case FreqDaily:
		return "daily (Mon-Fri)"
	case FreqWeekly:
		names := make([]string, 0, len(t.Weekdays))
		for _, wd := range t.Weekdays {
			names = append(names, wd.String()[:3])
		}
		return "weekly (" + strings.Join(names, ",") + ")"
	case FreqMonthly:
		if t.MonthlyDay == 0 {
			return "monthly (last day)"
		}
		return fmt.Sprintf("monthly (day %d)", t.MonthlyDay)
	default:
		return string(t.Frequency)
	}
}

// NewID creates a unique template ID based on date and random suffix.
func NewID(t time.Time) string {
	const chars = "abcdefghijklmnopqrstuvwxyz0123456789"
	suffix := make([]byte, 5)
	for i := range suffix {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		suffix[i] = chars[n.Int64()]
	}
	return fmt.Sprintf("%s-%s", t.Format("20060102"), string(suffix))
}
