package slogobs

import (
	"bytes"
	"log/slog"
	"os"
	"testing"
)

func TestApplyOptions(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	cfg := applyOptions(
		WithFormat(FormatJSON),
		WithLevel(slog.LevelWarn),
		WithOutput(&buf),
		WithColors(true),
		WithLogger(logger),
	)

	if cfg.format != FormatJSON {
		t.Errorf("format = %v", cfg.format)
	}
	if cfg.level != slog.LevelWarn {
		t.Errorf("level = %v", cfg.level)
	}
	if cfg.output != &buf {
		t.Error("output not applied")
	}
	if !cfg.colors {
		t.Error("colors not applied")
	}
	if cfg.logger != logger {
		t.Error("logger not applied")
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv("BLUEPRINT_LOG_FORMAT", "pretty")
	t.Setenv("BLUEPRINT_LOG_LEVEL", "debug")

	cfg := defaultConfig()
	if cfg.format != FormatPretty {
		t.Errorf("format = %v, want pretty", cfg.format)
	}
	if cfg.level != slog.LevelDebug {
		t.Errorf("level = %v, want DEBUG", cfg.level)
	}
	if cfg.output != os.Stderr {
		t.Error("default output should be stderr")
	}
	if cfg.logger != nil {
		t.Error("default logger should be nil")
	}
}
