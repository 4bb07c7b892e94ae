package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "punch",
	Short: "Bulk time logging for Redmine from recurring work templates",
	Long: `punch registers recurring work hours against Redmine issues.
Templates, calendar overrides and settings are stored as human-readable
JSON files in ~/.punch/.`,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(dayCmd)
	rootCmd.AddCommand(issuesCmd)
	rootCmd.AddCommand(activitiesCmd)
	rootCmd.AddCommand(whoamiCmd)
}
