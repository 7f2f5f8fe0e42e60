package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("LogLevel(%d).String() = %s, want %s", tt.level, got, tt.expected)
		}
	}
}

func TestInitAndLog(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelInfo, &buf)

	Info("TestSubsystem", "hello %s", "world")

	out := buf.String()
	if !strings.Contains(out, "hello world") {
		t.Errorf("Expected message in output, got: %s", out)
	}
	if !strings.Contains(out, "subsystem=TestSubsystem") {
		t.Errorf("Expected subsystem attribute in output, got: %s", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelWarn, &buf)

	Debug("Test", "debug message")
	Info("Test", "info message")
	Warn("Test", "warn message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("Expected debug/info to be filtered, got: %s", out)
	}
	if !strings.Contains(out, "warn message") {
		t.Errorf("Expected warn message in output, got: %s", out)
	}
}

func TestErrorAttribute(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelInfo, &buf)

	Error("Test", errors.New("boom"), "operation failed")

	out := buf.String()
	if !strings.Contains(out, "error=boom") {
		t.Errorf("Expected error attribute in output, got: %s", out)
	}
}
