package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  string
	}{
		{LogLevelDebug, "DEBUG"},
		{LogLevelInfo, "INFO"},
		{LogLevelWarn, "WARN"},
		{LogLevelError, "ERROR"},
		{LogLevel(42), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("LogLevel(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  LogLevel
	}{
		{"debug", LogLevelDebug},
		{"DEBUG", LogLevelDebug},
		{"info", LogLevelInfo},
		{"warn", LogLevelWarn},
		{"warning", LogLevelWarn},
		{"ERROR", LogLevelError},
		{"bogus", LogLevelInfo},
		{"", LogLevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.input); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LogLevelDebug, Output: &buf, Prefix: "test"})

	logger.Debug("dbg")
	logger.Info("inf")
	logger.Warn("wrn")
	logger.Error("err")

	out := buf.String()
	for _, tag := range []string{"[DEBUG]", "[INFO]", "[WARN]", "[ERROR]", "test:"} {
		if !strings.Contains(out, tag) {
			t.Errorf("output missing %s:\n%s", tag, out)
		}
	}
}

func TestLoggerFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LogLevelWarn, Output: &buf})

	logger.Debug("quiet")
	logger.Info("quiet")
	logger.Warn("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("low-level message leaked through filter:\n%s", out)
	}
	if !strings.Contains(out, "loud") {
		t.Errorf("warn message missing:\n%s", out)
	}
}

func TestLoggerFormatArgs(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LogLevelInfo, Output: &buf})

	logger.Info("anchored %d of %d", 3, 5)
	if !strings.Contains(buf.String(), "anchored 3 of 5") {
		t.Errorf("formatted message missing, got: %s", buf.String())
	}
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LogLevelInfo, Output: &buf})

	logger.WithField("id", "h1").Info("one")
	if !strings.Contains(buf.String(), "id=h1") {
		t.Errorf("field missing, got: %s", buf.String())
	}

	buf.Reset()
	logger.WithFields(map[string]any{"method": "fuzzy", "errors": 2}).Info("two")
	out := buf.String()
	if !strings.Contains(out, "errors=2") || !strings.Contains(out, "method=fuzzy") {
		t.Errorf("fields missing, got: %s", out)
	}

	buf.Reset()
	logger.Info("three")
	if strings.Contains(buf.String(), "id=h1") {
		t.Error("derived logger's field leaked into the parent")
	}
}

func TestLoggerFieldOrderStable(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LogLevelInfo, Output: &buf}).
		WithFields(map[string]any{"b": 2, "a": 1, "c": 3})

	logger.Info("ordered")
	if !strings.Contains(buf.String(), "{a=1, b=2, c=3}") {
		t.Errorf("fields not in key order, got: %s", buf.String())
	}
}

func TestLoggerWithComponent(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Level: LogLevelInfo, Output: &buf}).
		WithComponent("observer").
		Info("started")
	if !strings.Contains(buf.String(), "component=observer") {
		t.Errorf("component field missing, got: %s", buf.String())
	}
}

func TestLoggerSetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LogLevelError, Output: &buf})

	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Error("expected no output below the level")
	}

	logger.SetLevel(LogLevelInfo)
	logger.Info("shown")
	if buf.Len() == 0 {
		t.Error("expected output after SetLevel")
	}
}

func TestLoggerDisableEnable(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LogLevelInfo, Output: &buf})

	logger.Disable()
	logger.Error("hidden")
	if buf.Len() != 0 {
		t.Error("expected no output while disabled")
	}

	logger.Enable()
	logger.Error("shown")
	if buf.Len() == 0 {
		t.Error("expected output after Enable")
	}
}

func TestNullLogger(t *testing.T) {
	NullLogger.Debug("ignored")
	NullLogger.Info("ignored")
	NullLogger.Warn("ignored")
	NullLogger.Error("ignored")
}

func TestGetLoggerSingleton(t *testing.T) {
	if GetLogger() == nil {
		t.Fatal("GetLogger returned nil")
	}
	if GetLogger() != GetLogger() {
		t.Error("GetLogger did not return the same instance")
	}
}
