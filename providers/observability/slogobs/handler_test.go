package slogobs

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func newTestLogger(format Format, level slog.Level) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(NewHandler(&HandlerOptions{Format: format, Level: level, Output: &buf})), &buf
}

func TestHandler_Compact(t *testing.T) {
	logger, buf := newTestLogger(FormatCompact, slog.LevelDebug)
	logger.Info("blueprint generated", "recovery.strategy", "fences", "blueprint.nodes", 7)

	output := buf.String()
	for _, want := range []string{" INFO ", "blueprint generated", " -> ", `"blueprint.nodes":7`, `"recovery.strategy":"fences"`} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in %q", want, output)
		}
	}
	if strings.Count(output, "\n") != 1 {
		t.Errorf("compact output should be one line, got %q", output)
	}
}

func TestHandler_Pretty(t *testing.T) {
	logger, buf := newTestLogger(FormatPretty, slog.LevelDebug)
	logger.Warn("retrying", "b", 2, "a", "one")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus two attribute lines, got %q", lines)
	}
	if !strings.Contains(lines[0], "WARN") || !strings.HasSuffix(lines[0], "retrying") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[1] != "    a: one" || lines[2] != "    b: 2" {
		t.Errorf("attributes not sorted: %q", lines[1:])
	}
}

func TestHandler_JSON(t *testing.T) {
	logger, buf := newTestLogger(FormatJSON, slog.LevelDebug)
	logger.Error("request failed", "http.status_code", 500, "duration", 1500*time.Millisecond)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if record["level"] != "ERROR" || record["msg"] != "request failed" {
		t.Errorf("unexpected standard fields: %v", record)
	}
	if record["http.status_code"] != float64(500) {
		t.Errorf("http.status_code = %v", record["http.status_code"])
	}
	if record["duration"] != "1.5s" {
		t.Errorf("duration = %v, want 1.5s", record["duration"])
	}
}

func TestHandler_LevelFiltering(t *testing.T) {
	logger, buf := newTestLogger(FormatCompact, slog.LevelWarn)
	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestHandler_TraceLevel(t *testing.T) {
	logger, buf := newTestLogger(FormatCompact, LevelTrace)
	logger.Log(context.Background(), LevelTrace, "very verbose")

	if !strings.Contains(buf.String(), "TRACE") {
		t.Errorf("expected TRACE in %q", buf.String())
	}
}

func TestHandler_GroupsAndWithAttrs(t *testing.T) {
	logger, buf := newTestLogger(FormatJSON, slog.LevelInfo)
	logger.With("request.id", "r-1").WithGroup("http").Info("served", "status", 200, slog.Group("body", "size", 12))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["request.id"] != "r-1" {
		t.Errorf("request.id = %v", record["request.id"])
	}
	if record["http.status"] != float64(200) {
		t.Errorf("http.status = %v", record["http.status"])
	}
	if record["http.body.size"] != float64(12) {
		t.Errorf("http.body.size = %v", record["http.body.size"])
	}
}

func TestHandler_NoAttributes(t *testing.T) {
	logger, buf := newTestLogger(FormatCompact, slog.LevelInfo)
	logger.Info("plain")

	if strings.Contains(buf.String(), "->") {
		t.Errorf("no attribute separator expected, got %q", buf.String())
	}
}
