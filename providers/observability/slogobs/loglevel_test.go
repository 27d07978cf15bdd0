package slogobs

import (
	"log/slog"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"TRACE", LevelTrace},
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"  DeBuG  ", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"UNKNOWN", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLogLevel(tt.input); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestGetLogLevelFromEnv(t *testing.T) {
	tests := []struct {
		name      string
		blueprint string
		generic   string
		want      slog.Level
	}{
		{name: "BLUEPRINT_LOG_LEVEL takes precedence", blueprint: "DEBUG", generic: "ERROR", want: slog.LevelDebug},
		{name: "fallback to LOG_LEVEL", generic: "WARN", want: slog.LevelWarn},
		{name: "default INFO", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BLUEPRINT_LOG_LEVEL", tt.blueprint)
			t.Setenv("LOG_LEVEL", tt.generic)

			if got := GetLogLevelFromEnv(); got != tt.want {
				t.Errorf("GetLogLevelFromEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogLevelRoundTrip(t *testing.T) {
	for _, name := range []string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"} {
		if got := LogLevelString(ParseLogLevel(name)); got != name {
			t.Errorf("round trip of %q gave %q", name, got)
		}
	}
	if got := LogLevelString(slog.Level(3)); got != "LEVEL(3)" {
		t.Errorf("LogLevelString(3) = %q", got)
	}
}
