package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tikomo/redmine-punch/internal/model"
	"github.com/tikomo/redmine-punch/internal/store"
)

var (
	tmplName         string
	tmplIssue        int
	tmplHours        float64
	tmplActivity     int
	tmplActivityName string
	tmplFrequency    string
	tmplWeekdays     string
	tmplMonthlyDay   int
	tmplDisabled     bool
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage recurring work templates",
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates",
	Args:  cobra.NoArgs,
	RunE:  runTemplateList,
}

var templateAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a template",
	Args:  cobra.NoArgs,
	RunE:  runTemplateAdd,
}

var templateEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a template",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateEdit,
}

var templateRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a template",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateRemove,
}

func init() {
	for _, c := range []*cobra.Command{templateAddCmd, templateEditCmd} {
		c.Flags().StringVar(&tmplName, "name", "", "Display name")
		c.Flags().IntVar(&tmplIssue, "issue", 0, "Target issue id")
		c.Flags().Float64Var(&tmplHours, "hours", 0, "Hours per instance, e.g. 1.5")
		c.Flags().IntVar(&tmplActivity, "activity", 0, "Activity id (see: punch activities)")
		c.Flags().StringVar(&tmplActivityName, "activity-name", "", "Cached activity display name")
		c.Flags().StringVar(&tmplFrequency, "frequency", "", "daily, weekly or monthly")
		c.Flags().StringVar(&tmplWeekdays, "weekdays", "", "Weekly: comma-separated weekdays, e.g. mon,wed,fri")
		c.Flags().IntVar(&tmplMonthlyDay, "monthly-day", 0, "Monthly: day of month, 0 = last day")
		c.Flags().BoolVar(&tmplDisabled, "disabled", false, "Create or leave the template disabled")
	}
	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateAddCmd)
	templateCmd.AddCommand(templateEditCmd)
	templateCmd.AddCommand(templateRemoveCmd)
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday,
	"wed": time.Wednesday, "thu": time.Thursday, "fri": time.Friday,
	"sat": time.Saturday,
}

// parseWeekdays parses "mon,wed,fri" into weekday values.
func parseWeekdays(s string) ([]time.Weekday, error) {
	var out []time.Weekday
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		wd, ok := weekdayNames[part[:min(3, len(part))]]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", part)
		}
		out = append(out, wd)
	}
	return out, nil
}

func runTemplateList(cmd *cobra.Command, args []string) error {
	base, err := store.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	templates, err := store.LoadTemplates(base)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if len(templates) == 0 {
		fmt.Println("No templates. Add one with: punch template add")
		return nil
	}

	fmt.Printf("%-16s %-20s %7s %6s %-12s %-20s %s\n",
		"ID", "NAME", "ISSUE", "HOURS", "ACTIVITY", "SCHEDULE", "ENABLED")
	for _, t := range templates {
		activity := t.ActivityName
		if activity == "" {
			activity = fmt.Sprintf("%d", t.ActivityID)
		}
		fmt.Printf("%-16s %-20s %7d %6g %-12s %-20s %v\n",
			t.ID, t.Name, t.IssueID, t.Hours, activity, t.Schedule(), t.Enabled)
	}
	return nil
}

func runTemplateAdd(cmd *cobra.Command, args []string) error {
	weekdays, err := parseWeekdays(tmplWeekdays)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	t := model.Template{
		ID:           model.NewID(time.Now()),
		Name:         tmplName,
		IssueID:      tmplIssue,
		Hours:        tmplHours,
		ActivityID:   tmplActivity,
		ActivityName: tmplActivityName,
		Frequency:    model.Frequency(tmplFrequency),
		Weekdays:     weekdays,
		MonthlyDay:   tmplMonthlyDay,
		Enabled:      !tmplDisabled,
	}
	if err := t.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	base, err := store.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := store.AddTemplate(base, t); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	fmt.Printf("Added template %s (%s, %s)\n", t.ID, t.Name, t.Schedule())
	return nil
}

func runTemplateEdit(cmd *cobra.Command, args []string) error {
	base, err := store.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	templates, err := store.LoadTemplates(base)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	t := store.FindTemplate(templates, args[0])
	if t == nil {
		fmt.Fprintf(os.Stderr, "no template with id %q\n", args[0])
		os.Exit(1)
	}

	// Only flags the user actually set are applied.
	flags := cmd.Flags()
	if flags.Changed("name") {
		t.Name = tmplName
	}
	if flags.Changed("issue") {
		t.IssueID = tmplIssue
	}
	if flags.Changed("hours") {
		t.Hours = tmplHours
	}
	if flags.Changed("activity") {
		t.ActivityID = tmplActivity
	}
	if flags.Changed("activity-name") {
		t.ActivityName = tmplActivityName
	}
	if flags.Changed("frequency") {
		t.Frequency = model.Frequency(tmplFrequency)
	}
	if flags.Changed("weekdays") {
		weekdays, err := parseWeekdays(tmplWeekdays)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		t.Weekdays = weekdays
	}
	if flags.Changed("monthly-day") {
		t.MonthlyDay = tmplMonthlyDay
	}
	if flags.Changed("disabled") {
		t.Enabled = !tmplDisabled
	}

	if err := t.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := store.UpdateTemplate(base, *t); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	fmt.Printf("Updated template %s (%s, %s)\n", t.ID, t.Name, t.Schedule())
	return nil
}

func runTemplateRemove(cmd *cobra.Command, args []string) error {
	base, err := store.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := store.DeleteTemplate(base, args[0]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("Removed template %s\n", args[0])
	return nil
}
