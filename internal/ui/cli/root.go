package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nvasko/loom/internal/appState"
	"github.com/nvasko/loom/internal/config"
	configCmd "github.com/nvasko/loom/internal/ui/cli/config"
	"github.com/nvasko/loom/internal/ui/cli/run"
	"github.com/nvasko/loom/internal/ui/cli/runs"
	"github.com/nvasko/loom/internal/ui/cli/serve"
	"github.com/nvasko/loom/internal/ui/cli/templates"
)

var (
	logLevel      string
	logFile       string
	modelFlag     string
	simulate      bool
	temperature   float64
	maxTokensFlag int
)

var rootCmd = &cobra.Command{
	Use:               "loom",
	Short:             "Render prompt templates and run them as chains",
	Long:              `Loom loads a markdown prompt document, renders its templates with your input, and runs them as a chain where each step's parsed output feeds the prompts after it.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
}

func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rootCmd.SetContext(ctx)

	err := rootCmd.Execute()
	// Cleanup runs here rather than in a PostRun hook: cobra skips those
	// when RunE returns an error, and a failed run must still close the
	// log file.
	if cerr := appState.Cleanup(); cerr != nil {
		fmt.Fprintln(os.Stderr, cerr)
		if err == nil {
			err = cerr
		}
	}
	if err != nil {
		os.Exit(1)
	}
}

// buildOverrides turns the persistent flags into runtime config overrides.
// Zero is a legal temperature, so sampling flags key off Changed instead of
// comparing against a default.
func buildOverrides(cmd *cobra.Command) *config.RuntimeOverrides {
	overrides := &config.RuntimeOverrides{}
	if logLevel != "" {
		overrides.LogLevel = &logLevel
	}
	if logFile != "" {
		overrides.LogFile = &logFile
	}
	if modelFlag != "" {
		overrides.ActiveModel = &modelFlag
	}
	if simulate {
		overrides.Simulate = &simulate
	}
	if f := cmd.Flag("temperature"); f != nil && f.Changed {
		overrides.Temperature = &temperature
	}
	if f := cmd.Flag("max-tokens"); f != nil && f.Changed {
		overrides.MaxTokens = &maxTokensFlag
	}
	return overrides
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set logging level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file path (defaults to stderr)")
	rootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "Model preset to use")
	rootCmd.PersistentFlags().BoolVar(&simulate, "simulate", false, "Simulate completions instead of calling a provider")
	rootCmd.PersistentFlags().Float64Var(&temperature, "temperature", 0, "Override the active model's temperature")
	rootCmd.PersistentFlags().IntVar(&maxTokensFlag, "max-tokens", 0, "Override the active model's maximum tokens per completion")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return appState.Initialize(buildOverrides(cmd))
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(
		run.RunCmd,
		runs.RunsCmd,
		templates.TemplatesCmd,
		configCmd.ConfigCmd,
		serve.ServeCmd,
	)
}
