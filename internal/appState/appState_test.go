package appState

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/nvasko/loom/internal/config"
)

func TestNewLoggerLevels(t *testing.T) {
	logger, closer, err := newLogger(config.Log{LogLevel: "DEBUG"})
	if err != nil {
		t.Fatal(err)
	}
	if closer != nil {
		t.Error("stderr logger should not need closing")
	}
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("DEBUG level not applied")
	}

	logger, _, err = newLogger(config.Log{})
	if err != nil {
		t.Fatal(err)
	}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("default level should be INFO")
	}
}

func TestNewLoggerInvalidLevel(t *testing.T) {
	if _, _, err := newLogger(config.Log{LogLevel: "LOUD"}); err == nil {
		t.Error("expected error for unknown log level")
	}
}

func TestNewLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loom.log")
	_, closer, err := newLogger(config.Log{LogFile: path})
	if err != nil {
		t.Fatal(err)
	}
	if closer == nil {
		t.Fatal("file logger must hand back a closer")
	}
	if err := closer.Close(); err != nil {
		t.Error(err)
	}
}
