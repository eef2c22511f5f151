package config

import "fmt"

// RuntimeOverrides holds configuration values that can be overridden at
// runtime via CLI flags.
type RuntimeOverrides struct {
	ActiveModel *string
	MaxTokens   *int
	Temperature *float64
	Simulate    *bool
	LogLevel    *string
	LogFile     *string
}

func applyOverrides(cfg *ConfigSchema, overrides *RuntimeOverrides) error {
	if overrides == nil {
		return nil
	}

	if overrides.ActiveModel != nil {
		if _, exists := cfg.Models[*overrides.ActiveModel]; !exists {
			return fmt.Errorf("model %q not found in configuration", *overrides.ActiveModel)
		}
		cfg.ActiveModel = *overrides.ActiveModel
	}

	preset := cfg.Models[cfg.ActiveModel]
	if overrides.MaxTokens != nil {
		preset.MaxTokens = *overrides.MaxTokens
	}
	if overrides.Temperature != nil {
		preset.Temperature = *overrides.Temperature
	}
	cfg.Models[cfg.ActiveModel] = preset

	if overrides.Simulate != nil {
		cfg.Simulate = *overrides.Simulate
	}
	if overrides.LogLevel != nil {
		cfg.Log.LogLevel = *overrides.LogLevel
	}
	if overrides.LogFile != nil {
		cfg.Log.LogFile = *overrides.LogFile
	}

	return nil
}
