package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"bogus", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{"text", FormatText},
		{" TEXT ", FormatText},
		{"bogus", DefaultFormat},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.in); got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMakeJSONOutput(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON), WithLevel(LevelDebug))

	logger.DebugContext(t.Context(), "hello", slog.String("k", "v"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v: %q", err, buf.String())
	}

	if record["msg"] != "hello" || record["k"] != "v" {
		t.Errorf("record = %v", record)
	}

	if record["level"] != "debug" {
		t.Errorf("level = %v, want debug", record["level"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithLevel(LevelWarn))

	logger.InfoContext(t.Context(), "hidden")

	if buf.Len() != 0 {
		t.Errorf("info leaked through warn filter: %q", buf.String())
	}

	logger.WarnContext(t.Context(), "shown")

	if buf.Len() == 0 {
		t.Error("warn message suppressed")
	}
}

func TestTraceLevel(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithLevel(LevelTrace), WithFormat(FormatJSON))

	logger.TraceContext(t.Context(), "deep detail")

	if !strings.Contains(buf.String(), "trace") {
		t.Errorf("trace record missing level name: %q", buf.String())
	}

	// Trace stays below debug.
	buf.Reset()

	quiet := Make(&buf, WithLevel(LevelDebug))
	quiet.TraceContext(t.Context(), "hidden")

	if buf.Len() != 0 {
		t.Errorf("trace leaked through debug filter: %q", buf.String())
	}
}

func TestZeroValueLoggerDiscards(t *testing.T) {
	var logger Logger

	// Must not panic.
	logger.TraceContext(t.Context(), "nowhere")
	logger.ErrorContext(t.Context(), "nowhere")

	if logger.Level() != DefaultLevel {
		t.Errorf("zero logger level = %v", logger.Level())
	}
}

func TestWrapOverrides(t *testing.T) {
	var base, wrapped bytes.Buffer

	logger := Make(&base, WithLevel(LevelError))
	loud := logger.Wrap(WithLevel(LevelDebug), WithWriter(&wrapped))

	loud.DebugContext(t.Context(), "visible")

	if wrapped.Len() == 0 {
		t.Error("wrapped logger suppressed debug")
	}

	if base.Len() != 0 {
		t.Error("wrapped logger wrote to original writer")
	}
}

func TestPrettyHandler(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf,
		WithFormat(FormatText),
		WithPretty(true),
		WithLevel(LevelInfo),
	)

	logger.InfoContext(t.Context(), "styled", slog.Int("n", 1))

	out := buf.String()
	if !strings.Contains(out, "styled") || !strings.Contains(out, "n=") {
		t.Errorf("pretty output missing content: %q", out)
	}

	if !strings.Contains(out, "\033[") {
		t.Errorf("pretty output missing color codes: %q", out)
	}
}

func TestWithAttrs(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON)).
		With(slog.String("component", "engine"))

	logger.InfoContext(t.Context(), "msg")

	if !strings.Contains(buf.String(), `"component":"engine"`) {
		t.Errorf("attached attr missing: %q", buf.String())
	}
}
