package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

/*
Config precedence, highest to lowest:

1. Runtime overrides (CLI flags)
2. Environment variables (secrets and crucial knobs)
3. Local project config (.loom/*.loom.{yaml,json})
4. Global user config ($XDG_CONFIG_HOME/loom/*.loom.{yaml,json})
5. Embedded defaults

Multiple config files in a directory merge alphabetically; maps merge deep,
scalars and lists override.
*/

//go:embed defaults.loom.yaml
var defaultConfig []byte

// envVarConfig defines an environment variable mapping
type envVarConfig struct {
	key    string
	envVar string
}

var envVars = []envVarConfig{
	{key: "activeModel", envVar: "LOOM_MODEL"},
	{key: "dbPath", envVar: "LOOM_DB_PATH"},
	{key: "outputDir", envVar: "LOOM_OUTPUT_DIR"},
	{key: "promptsPath", envVar: "LOOM_PROMPTS"},
	{key: "log.logLevel", envVar: "LOOM_LOG_LEVEL"},
}

// findConfigFiles returns all *.loom.{yaml,json} files in a directory
func findConfigFiles(dir string) ([]string, error) {
	var files []string
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".loom.yaml") || strings.HasSuffix(name, ".loom.json") {
			files = append(files, filepath.Join(dir, name))
		}
	}
	return files, nil
}

// New loads, merges, and validates the configuration.
func New(overrides *RuntimeOverrides) (*ConfigSchema, error) {
	loadEnv()

	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaultConfig)); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	v.SetEnvPrefix("LOOM")
	v.AutomaticEnv()
	for _, env := range envVars {
		if err := v.BindEnv(env.key, env.envVar); err != nil {
			return nil, err
		}
	}

	globalDir, err := globalConfigDir()
	if err != nil {
		return nil, err
	}

	for _, dir := range []string{globalDir, ".loom"} {
		files, err := findConfigFiles(dir)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		for _, f := range files {
			fv := viper.New()
			fv.SetConfigFile(f)
			if err := fv.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file %s: %w", f, err)
			}
			if err := v.MergeConfigMap(fv.AllSettings()); err != nil {
				return nil, fmt.Errorf("error merging config from %s: %w", f, err)
			}
		}
	}

	var cfg ConfigSchema
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := applyOverrides(&cfg, overrides); err != nil {
		return nil, err
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func globalConfigDir() (string, error) {
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		xdgConfig = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgConfig, "loom"), nil
}

func validate(cfg *ConfigSchema) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("config validation error: %w", err)
	}

	if _, exists := cfg.Models[cfg.ActiveModel]; !exists {
		return fmt.Errorf("activeModel %q is not a configured model preset", cfg.ActiveModel)
	}

	// Chain references are resolved against templates at load time; here we
	// only check internal consistency of produces/inputs ordering.
	for name, spec := range cfg.Chains {
		produced := make(map[string]bool)
		for _, step := range spec.Steps {
			for _, in := range step.Inputs {
				// Inputs not produced earlier must come from user input;
				// that is legal, so nothing to reject here. Catch only
				// self-dependency, which is always wrong.
				if in == step.Produces && !produced[in] {
					return fmt.Errorf("chain %q: step %q consumes the variable it produces", name, step.Template)
				}
			}
			if step.Produces != "" {
				produced[step.Produces] = true
			}
		}
	}

	return nil
}
