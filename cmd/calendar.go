package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/tikomo/redmine-punch/internal/dates"
	"github.com/tikomo/redmine-punch/internal/redmine"
	"github.com/tikomo/redmine-punch/internal/schedule"
	"github.com/tikomo/redmine-punch/internal/store"
)

var (
	calendarMonth   string
	calendarOffline bool
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Render the month with day classification and logged hours",
	Args:  cobra.NoArgs,
	RunE:  runCalendar,
}

func init() {
	calendarCmd.Flags().StringVar(&calendarMonth, "month", "", "Target month (YYYY-MM); defaults to the current month")
	calendarCmd.Flags().BoolVar(&calendarOffline, "offline", false, "Skip fetching logged hours from Redmine")
}

// Cell styles, in precedence order: excluded > work day > logged > weekend.
var (
	excludedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	workDayStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)
	loggedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	weekendStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	headerStyle   = lipgloss.NewStyle().Bold(true)
)

func runCalendar(cmd *cobra.Command, args []string) error {
	month, err := resolveMonth(calendarMonth)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	base, err := store.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	workDays := store.LoadWorkDays(base)
	excluded := store.LoadExcludedDates(base)

	var entries []redmine.TimeEntry
	if !calendarOffline {
		ctx := context.Background()
		client, err := newRedmineClient(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v; rendering without logged hours\n", err)
		} else {
			entries, err = client.ListTimeEntries(ctx, dates.MonthStart(month), dates.MonthEnd(month))
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not load time entries: %v\n", err)
			}
		}
	}

	hoursByDay := map[string]float64{}
	var totalHours float64
	for _, e := range entries {
		hoursByDay[e.SpentOn] += e.Hours
		totalHours += e.Hours
	}

	fmt.Println(headerStyle.Render(month.Format("January 2006")))
	fmt.Println(headerStyle.Render(" Mo  Tu  We  Th  Fr  Sa  Su"))

	start := dates.MonthStart(month)
	// Monday-first column offset.
	offset := (int(start.Weekday()) + 6) % 7
	var row strings.Builder
	row.WriteString(strings.Repeat("    ", offset))

	for d := start; d.Month() == start.Month(); d = d.AddDate(0, 0, 1) {
		cls := schedule.Classify(d, workDays, excluded)
		cell := fmt.Sprintf("%3d", d.Day())
		switch {
		case cls.Excluded:
			cell = excludedStyle.Render(cell)
		case cls.Weekend && cls.WorkDay:
			cell = workDayStyle.Render(cell)
		case hoursByDay[dates.Format(d)] > 0:
			cell = loggedStyle.Render(cell)
		case cls.Weekend:
			cell = weekendStyle.Render(cell)
		}
		row.WriteString(cell)
		row.WriteString(" ")

		if d.Weekday() == time.Sunday {
			fmt.Println(row.String())
			row.Reset()
		}
	}
	if row.Len() > 0 {
		fmt.Println(row.String())
	}

	fmt.Println()
	fmt.Printf("Legend: %s excluded  %s work day  %s logged  %s weekend\n",
		excludedStyle.Render("■"), workDayStyle.Render("■"),
		loggedStyle.Render("■"), weekendStyle.Render("■"))
	if !calendarOffline {
		fmt.Printf("Logged this month: %gh\n", totalHours)
	}
	return nil
}
