// Package appState owns the two singletons every command shares: the merged
// configuration and the process logger. The root command initializes it once
// before any subcommand runs.
package appState

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/nvasko/loom/internal/config"
)

type App struct {
	Config *config.ConfigSchema
	Logger *slog.Logger

	logClose io.Closer // non-nil when logging to a file
}

var (
	mu      sync.RWMutex
	current *App
	once    sync.Once
	initErr error
)

// Initialize loads configuration with the given overrides and installs the
// configured logger as the slog default. Only the first call does any work;
// later calls return the first call's result.
func Initialize(overrides *config.RuntimeOverrides) error {
	once.Do(func() {
		cfg, err := config.New(overrides)
		if err != nil {
			initErr = fmt.Errorf("failed to load config: %w", err)
			return
		}

		logger, closer, err := newLogger(cfg.Log)
		if err != nil {
			initErr = err
			return
		}

		mu.Lock()
		current = &App{Config: cfg, Logger: logger, logClose: closer}
		mu.Unlock()

		slog.SetDefault(logger)
	})
	return initErr
}

// Get panics when called before Initialize. That is a wiring bug in the
// command tree, not a runtime condition to recover from.
func Get() *App {
	mu.RLock()
	defer mu.RUnlock()

	if current == nil {
		panic("app state not initialized")
	}
	return current
}

// Cleanup closes the log file, if one was opened. Safe to call whether or
// not Initialize ever ran.
func Cleanup() error {
	mu.Lock()
	defer mu.Unlock()

	if current != nil && current.logClose != nil {
		return current.logClose.Close()
	}
	return nil
}

func newLogger(cfg config.Log) (*slog.Logger, io.Closer, error) {
	var level slog.Level // zero value is Info
	if cfg.LogLevel != "" {
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
		}
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.LogFile == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil, nil
	}

	file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file %s: %w", cfg.LogFile, err)
	}
	return slog.New(slog.NewTextHandler(file, opts)), file, nil
}
