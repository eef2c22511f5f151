package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// loadEnv pulls a .env file into the environment so provider keys
// (OPENAI_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY) and LOOM_* variables
// are visible before viper binds them.
func loadEnv() {
	if err := godotenv.Load(); err != nil {
		// No project .env; fall back to the user's home directory.
		if home, err := os.UserHomeDir(); err == nil {
			_ = godotenv.Load(filepath.Join(home, ".loom.env"))
		}
	}
}
