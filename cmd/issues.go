package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/tikomo/redmine-punch/internal/issuetree"
)

var (
	issuesParent      int
	issuesDescription string
)

var issuesCmd = &cobra.Command{
	Use:   "issues",
	Short: "Issue utilities",
}

var issuesBulkCmd = &cobra.Command{
	Use:   "bulk",
	Short: "Create an issue hierarchy from an indented outline on stdin",
	Long: `Reads an indented outline from stdin and creates one issue per line
under the parent issue, nested by indentation. Project and tracker are
inherited from the parent. A tab counts as 4 spaces.`,
	Args: cobra.NoArgs,
	RunE: runIssuesBulk,
}

func init() {
	issuesBulkCmd.Flags().IntVar(&issuesParent, "parent", 0, "Parent issue id (required)")
	issuesBulkCmd.Flags().StringVar(&issuesDescription, "description", "", "Description for every created issue")
	_ = issuesBulkCmd.MarkFlagRequired("parent")
	issuesCmd.AddCommand(issuesBulkCmd)
}

func runIssuesBulk(cmd *cobra.Command, args []string) error {
	text, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading outline from stdin: %v\n", err)
		os.Exit(2)
	}

	items := issuetree.ParseOutline(string(text))
	if len(items) == 0 {
		fmt.Fprintln(os.Stderr, "no issue titles on stdin")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, err := newRedmineClient(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("Creating %d issues under #%d...\n\n", len(items), issuesParent)

	result, err := issuetree.Create(ctx, client, issuesParent, issuesDescription, items, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("Summary:")
	fmt.Printf("  %d created\n", result.Created)
	if result.Errors > 0 {
		fmt.Printf("  %d errors\n", result.Errors)
		os.Exit(2)
	}
	return nil
}
