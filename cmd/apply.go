package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tikomo/redmine-punch/internal/dates"
	"github.com/tikomo/redmine-punch/internal/model"
	"github.com/tikomo/redmine-punch/internal/schedule"
	"github.com/tikomo/redmine-punch/internal/store"
)

var (
	applyMonth  string
	applyDryRun bool
	applyYes    bool
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Register the month's due template instances in Redmine",
	Args:  cobra.NoArgs,
	RunE:  runApply,
}

func init() {
	applyCmd.Flags().StringVar(&applyMonth, "month", "", "Target month (YYYY-MM); defaults to the current month")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Print planned operations without writing")
	applyCmd.Flags().BoolVar(&applyYes, "yes", false, "Skip the confirmation prompt")
}

func runApply(cmd *cobra.Command, args []string) error {
	month, err := resolveMonth(applyMonth)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	base, err := store.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	all, err := store.LoadTemplates(base)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	var templates []model.Template
	for _, t := range all {
		if t.Enabled {
			templates = append(templates, t)
		}
	}
	if len(templates) == 0 {
		fmt.Fprintln(os.Stderr, "no enabled templates; add one with: punch template add")
		os.Exit(1)
	}

	workDays := store.LoadWorkDays(base)
	excluded := store.LoadExcludedDates(base)

	due, skipped := schedule.DueInstances(month, templates, workDays, excluded)
	if len(due) == 0 {
		fmt.Printf("Nothing due in %s (%d days skipped).\n", month.Format("2006-01"), skipped)
		return nil
	}

	// Cancellable between actions: Ctrl-C stops before the next call.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, err := newRedmineClient(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	existing, err := client.ListTimeEntries(ctx, dates.MonthStart(month), dates.MonthEnd(month))
	if err != nil {
		// Degrade to an empty snapshot: every due instance becomes a
		// create, which may duplicate entries the fetch failed to see.
		fmt.Fprintf(os.Stderr, "Warning: could not load existing time entries (%v); planning creates only\n", err)
		existing = nil
	}

	plan := schedule.BuildPlan(due, existing)

	creates, updates := 0, 0
	for _, a := range plan {
		if a.IsUpdate() {
			updates++
		} else {
			creates++
		}
	}

	dryTag := ""
	if applyDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Printf("Plan for %s%s: %d create, %d update (%d days skipped)\n",
		month.Format("2006-01"), dryTag, creates, updates, skipped)
	fmt.Println()

	if applyDryRun {
		for _, a := range plan {
			verb := "create"
			target := fmt.Sprintf("#%d", a.Template.IssueID)
			if a.IsUpdate() {
				verb = "update"
				target = fmt.Sprintf("entry %d", a.EntryID)
			}
			fmt.Printf("  %s %s %s %s %gh\n", dates.Format(a.Day), verb, target, a.Template.Name, a.Template.Hours)
		}
		return nil
	}

	if !applyYes && !confirm(fmt.Sprintf("Register %d entries for %s?", len(plan), month.Format("2006-01"))) {
		fmt.Println("Aborted.")
		return nil
	}

	result := schedule.Apply(ctx, client, plan, skipped, os.Stdout)

	fmt.Println()
	fmt.Println("Summary:")
	fmt.Printf("  %d created\n", result.Created)
	fmt.Printf("  %d updated\n", result.Updated)
	fmt.Printf("  %d days skipped\n", result.Skipped)
	if result.Errors > 0 {
		fmt.Printf("  %d errors\n", result.Errors)
		os.Exit(2)
	}
	return nil
}

// confirm prompts on stdout and reads a y/N answer from stdin.
func confirm(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
