package runs

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nvasko/loom/internal/appState"
	"github.com/nvasko/loom/internal/repository/sqlite"
)

var (
	limitFlag int
	forceFlag bool
)

var RunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage chain runs",
}

var listCmd = &cobra.Command{
	Use:   "ls",
	Short: "List runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appState.Get().Config
		repo, err := sqlite.Initialize(cfg.DBPath)
		if err != nil {
			return err
		}

		runs, err := repo.ListRuns(cmd.Context(), limitFlag)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCreated\tChain\tSubject\tStatus")
		for _, run := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				run.ID.String()[:8],
				run.CreatedAt.Format(time.RFC822),
				run.ChainName,
				run.Subject,
				run.Status,
			)
		}
		w.Flush()

		return nil
	},
}

var viewCmd = &cobra.Command{
	Use:   "view [run_id]",
	Short: "View a run's step results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appState.Get().Config
		repo, err := sqlite.Initialize(cfg.DBPath)
		if err != nil {
			return err
		}

		run, err := repo.GetRunByPartialID(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to find run: %w", err)
		}

		fmt.Printf("Run %s (%s, created %s)\n", run.ID.String()[:8], run.Status, run.CreatedAt.Format(time.RFC822))
		fmt.Printf("Chain: %s  Subject: %s\n", run.ChainName, run.Subject)
		fmt.Printf("Output: %s\n", run.OutputDir)
		if run.Error != "" {
			fmt.Printf("Error: %s\n", run.Error)
		}
		fmt.Println()

		for _, step := range run.Steps {
			fmt.Printf("--- %s [%s] (%s, %dms)\n", step.StepName, step.Status, step.ModelName, step.DurationMS)
			if step.ParsedValue != "" {
				fmt.Println(step.ParsedValue)
			} else if step.RawResponse != "" {
				fmt.Println(step.RawResponse)
			}
			fmt.Println()
		}

		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "rm [run_id]",
	Short: "Delete a run and its step results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appState.Get().Config
		repo, err := sqlite.Initialize(cfg.DBPath)
		if err != nil {
			return err
		}

		run, err := repo.GetRunByPartialID(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to find run: %w", err)
		}

		fmt.Printf("About to delete run %s:\n", run.ID.String()[:8])
		fmt.Printf("Created: %s\n", run.CreatedAt.Format(time.RFC822))
		fmt.Printf("Chain: %s  Subject: %s\n", run.ChainName, run.Subject)
		fmt.Printf("Steps: %d\n", len(run.Steps))

		if !forceFlag {
			fmt.Print("\nAre you sure you want to delete this run? [y/N] ")
			var response string
			fmt.Scanln(&response)

			response = strings.ToLower(strings.TrimSpace(response))
			if response != "y" && response != "yes" {
				fmt.Println("Operation cancelled")
				return nil
			}
		}

		if err := repo.DeleteRun(cmd.Context(), run.ID); err != nil {
			return fmt.Errorf("failed to delete run: %w", err)
		}

		fmt.Println("Run deleted successfully")
		return nil
	},
}

func init() {
	listCmd.Flags().IntVarP(&limitFlag, "limit", "n", 0, "Limit the number of runs to show (0 for all)")
	deleteCmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Delete without confirmation")

	RunsCmd.AddCommand(listCmd, viewCmd, deleteCmd)
}
