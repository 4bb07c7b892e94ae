package schedule

import (
	"context"
	"fmt"
	"io"

	"github.com/tikomo/redmine-punch/internal/dates"
)

// EntryWriter is the remote surface the orchestrator needs. *redmine.Client
// satisfies it.
type EntryWriter interface {
	CreateTimeEntry(ctx context.Context, issueID int, hours float64, activityID int, comments, spentOn string) (int, error)
	UpdateTimeEntry(ctx context.Context, id int, hours float64, activityID int, comments string) error
}

// Result holds the counters and execution log of one bulk-apply pass.
// Skipped is the gated-day count computed during planning and passed through.
type Result struct {
	Created int
	Updated int
	Skipped int
	Errors  int
	Log     []string
}

// Apply executes the plan sequentially. Each action is logged before its
// network call and after its result; failures increment Errors and the pass
// continues. Cancellation is checked between actions, so a cancelled pass
// reports the counts of what was actually attempted.
func Apply(ctx context.Context, w EntryWriter, plan []Action, skipped int, progress io.Writer) Result {
	res := Result{Skipped: skipped}
	logf := func(format string, args ...any) {
		line := fmt.Sprintf(format, args...)
		res.Log = append(res.Log, line)
		fmt.Fprintln(progress, line)
	}

	for i, a := range plan {
		if ctx.Err() != nil {
			logf("! cancelled: %d of %d actions not attempted", len(plan)-i, len(plan))
			break
		}

		day := dates.Format(a.Day)
		if a.IsUpdate() {
			logf("PUT /time_entries/%d.json (%s %s %gh)", a.EntryID, day, a.Template.Name, a.Template.Hours)
			if err := w.UpdateTimeEntry(ctx, a.EntryID, a.Template.Hours, a.Template.ActivityID, ""); err != nil {
				res.Errors++
				logf("  ! error: %v", err)
				continue
			}
			res.Updated++
			logf("  ↑ overwrote existing entry")
			continue
		}

		logf("POST /time_entries.json (%s #%d %s %gh)", day, a.Template.IssueID, a.Template.Name, a.Template.Hours)
		id, err := w.CreateTimeEntry(ctx, a.Template.IssueID, a.Template.Hours, a.Template.ActivityID, "", day)
		if err != nil {
			res.Errors++
			logf("  ! error: %v", err)
			continue
		}
		res.Created++
		logf("  ✓ registered #%d", id)
	}

	return res
}
