package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tikomo/redmine-punch/internal/dates"
	"github.com/tikomo/redmine-punch/internal/store"
)

var dayCmd = &cobra.Command{
	Use:   "day",
	Short: "Toggle calendar overrides (excluded dates and weekend work days)",
}

var dayExcludeCmd = &cobra.Command{
	Use:   "exclude <YYYY-MM-DD>",
	Short: "Mark a date as excluded (holiday, leave)",
	Args:  cobra.ExactArgs(1),
	RunE:  runDayToggle(store.LoadExcludedDates, store.SaveExcludedDates, true, "excluded"),
}

var dayIncludeCmd = &cobra.Command{
	Use:   "include <YYYY-MM-DD>",
	Short: "Remove a date from the excluded set",
	Args:  cobra.ExactArgs(1),
	RunE:  runDayToggle(store.LoadExcludedDates, store.SaveExcludedDates, false, "excluded"),
}

var dayWorkdayCmd = &cobra.Command{
	Use:   "workday <YYYY-MM-DD>",
	Short: "Mark a weekend date as a working day",
	Args:  cobra.ExactArgs(1),
	RunE:  runDayToggle(store.LoadWorkDays, store.SaveWorkDays, true, "work day"),
}

var dayUnworkdayCmd = &cobra.Command{
	Use:   "unworkday <YYYY-MM-DD>",
	Short: "Remove the work-day mark from a date",
	Args:  cobra.ExactArgs(1),
	RunE:  runDayToggle(store.LoadWorkDays, store.SaveWorkDays, false, "work day"),
}

func init() {
	dayCmd.AddCommand(dayExcludeCmd)
	dayCmd.AddCommand(dayIncludeCmd)
	dayCmd.AddCommand(dayWorkdayCmd)
	dayCmd.AddCommand(dayUnworkdayCmd)
}

// runDayToggle builds a RunE that adds or removes the date argument in one of
// the two override sets.
func runDayToggle(load func(string) dates.Set, save func(string, dates.Set) error, add bool, label string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		day, err := dates.Parse(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		if add && label == "work day" && !dates.IsWeekend(day) {
			fmt.Fprintf(os.Stderr, "%s is a %s; work-day marks only apply to weekends\n",
				args[0], day.Weekday())
			os.Exit(1)
		}

		base, err := store.BaseDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}

		s := load(base)
		if add {
			s.Add(day)
		} else {
			s.Remove(day)
		}
		if err := save(base, s); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}

		verb := "marked as"
		if !add {
			verb = "unmarked as"
		}
		fmt.Printf("%s %s %s\n", day.Format("2006-01-02 (Mon)"), verb, label)
		return nil
	}
}
