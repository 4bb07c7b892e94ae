package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var activitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "List the instance's active time-entry activities",
	Args:  cobra.NoArgs,
	RunE:  runActivities,
}

func runActivities(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	client, err := newRedmineClient(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	activities, err := client.Activities(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fmt.Printf("%-6s %-30s %s\n", "ID", "NAME", "DEFAULT")
	for _, a := range activities {
		def := ""
		if a.IsDefault {
			def = "yes"
		}
		fmt.Printf("%-6d %-30s %s\n", a.ID, a.Name, def)
	}
	return nil
}
