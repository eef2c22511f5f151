package config

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nvasko/loom/internal/appState"
)

var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the merged configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appState.Get().Config

		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}

		fmt.Print(string(out))
		return nil
	},
}
