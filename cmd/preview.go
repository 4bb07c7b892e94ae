package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tikomo/redmine-punch/internal/dates"
	"github.com/tikomo/redmine-punch/internal/model"
	"github.com/tikomo/redmine-punch/internal/schedule"
	"github.com/tikomo/redmine-punch/internal/store"
)

var previewMonth string

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show which template instances are due this month, without writing",
	Args:  cobra.NoArgs,
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().StringVar(&previewMonth, "month", "", "Target month (YYYY-MM); defaults to the current month")
}

func runPreview(cmd *cobra.Command, args []string) error {
	month, err := resolveMonth(previewMonth)
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

	fmt.Printf("Preview for %s\n", month.Format("2006-01"))
	fmt.Println()

	var totalHours float64
	current := ""
	for _, in := range due {
		day := dates.Format(in.Day)
		if day != current {
			if current != "" {
				fmt.Println()
			}
			current = day
			fmt.Printf("%s (%s)\n", day, in.Day.Weekday().String()[:3])
		}
		fmt.Printf("  %s (#%d) %gh\n", in.Template.Name, in.Template.IssueID, in.Template.Hours)
		totalHours += in.Template.Hours
	}

	fmt.Println()
	fmt.Printf("Total: %d entries, %gh (%d days skipped)\n", len(due), totalHours, skipped)
	return nil
}
