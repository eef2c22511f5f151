package run

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nvasko/loom/internal/domain"
	"github.com/nvasko/loom/internal/shared"
)

var (
	nameFlag    string
	titleFlag   string
	companyFlag string
	notesFlag   string
	genderFlag  string
	bioFlag     string
	inputFile   string
)

var RunCmd = &cobra.Command{
	Use:   "run [chain]",
	Short: "Execute a chain for a person",
	Long: `Execute a configured chain. Input values become the initial bindings;
each step's parsed output is saved under output/<name>/ and bound for the
steps after it. Defaults to the "profile" chain.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chainName := "profile"
		if len(args) > 0 {
			chainName = args[0]
		}

		input, err := collectInput()
		if err != nil {
			return err
		}

		svc, err := shared.InitializePipelineService()
		if err != nil {
			return err
		}

		run, err := svc.Run(cmd.Context(), chainName, input)
		if err != nil {
			return fmt.Errorf("run failed: %w", err)
		}

		printRun(run)
		return incompleteRunError(run)
	},
}

// incompleteRunError converts a non-completed run into the command's exit
// error. Exiting directly here would skip the root command's cleanup.
func incompleteRunError(run *domain.Run) error {
	if run.Status == domain.RunCompleted {
		return nil
	}
	return fmt.Errorf("run %s did not complete (%s)", run.ID.String()[:8], run.Status)
}

func collectInput() (map[string]string, error) {
	input := make(map[string]string)

	if inputFile != "" {
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read input file: %w", err)
		}
		if err := json.Unmarshal(data, &input); err != nil {
			return nil, fmt.Errorf("input file is not a JSON object of strings: %w", err)
		}
	}

	// Flags override file values.
	for key, value := range map[string]string{
		"name":    nameFlag,
		"title":   titleFlag,
		"company": companyFlag,
		"notes":   notesFlag,
		"gender":  genderFlag,
		"bio":     bioFlag,
	} {
		if value != "" {
			input[key] = value
		}
	}

	return input, nil
}

func printRun(run *domain.Run) {
	fmt.Printf("Run %s (%s)\n", run.ID.String()[:8], run.Status)
	fmt.Printf("Output: %s\n\n", run.OutputDir)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Step\tStatus\tDuration")
	for _, step := range run.Steps {
		fmt.Fprintf(w, "%s\t%s\t%dms\n", step.StepName, step.Status, step.DurationMS)
	}
	w.Flush()

	if run.Error != "" {
		fmt.Printf("\nError: %s\n", run.Error)
	}
}

func init() {
	RunCmd.Flags().StringVar(&nameFlag, "name", "", "Person's name (required unless provided via --input)")
	RunCmd.Flags().StringVar(&titleFlag, "title", "", "Job title")
	RunCmd.Flags().StringVar(&companyFlag, "company", "", "Company")
	RunCmd.Flags().StringVar(&notesFlag, "notes", "", "Free-form notes to ground the bio")
	RunCmd.Flags().StringVar(&genderFlag, "gender", "", "Gender, if known")
	RunCmd.Flags().StringVar(&bioFlag, "bio", "", "Hand-written bio (skips the bio step)")
	RunCmd.Flags().StringVarP(&inputFile, "input", "i", "", "JSON file of input values")
}
