package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/wonny/bluemf/backend/pkg/config"
)

func newBufferLogger(level string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	cfg := &config.Config{Env: "development", LogLevel: level, LogFormat: "json"}
	return NewWithWriter(cfg, &buf), &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse log output %q: %v", buf.String(), err)
	}
	return entry
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"invalid", zerolog.InfoLevel}, // Default
		{"", zerolog.InfoLevel},        // Default
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLogLevel(tt.input); got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoggerMethods(t *testing.T) {
	logger, buf := newBufferLogger("debug")

	tests := []struct {
		name      string
		logFunc   func()
		wantMsg   string
		wantLevel string
	}{
		{"debug", func() { logger.Debug("debug message") }, "debug message", "debug"},
		{"info", func() { logger.Info("info message") }, "info message", "info"},
		{"warn", func() { logger.Warn("warn message") }, "warn message", "warn"},
		{"error", func() { logger.Error("error message") }, "error message", "error"},
		{"infof", func() { logger.Infof("kept %d of %d", 3, 4) }, "kept 3 of 4", "info"},
		{"warnf", func() { logger.Warnf("could not parse %q", "abc") }, `could not parse "abc"`, "warn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.logFunc()

			entry := decodeLine(t, buf)
			if entry["level"] != tt.wantLevel {
				t.Errorf("Expected level %q, got %q", tt.wantLevel, entry["level"])
			}
			if entry["message"] != tt.wantMsg {
				t.Errorf("Expected message %q, got %q", tt.wantMsg, entry["message"])
			}
			if entry["service"] != "bluemf" {
				t.Errorf("Expected service field, got %v", entry["service"])
			}
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger("warn")

	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("Expected info to be filtered at warn level, got %s", buf.String())
	}

	logger.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("Expected warn output, got %s", buf.String())
	}
}

func TestWithFields(t *testing.T) {
	logger, buf := newBufferLogger("debug")

	logger.WithFields(map[string]interface{}{
		"company_id": "TCS",
		"kept":       12,
	}).WithComponent("validator").Info("validation finished")

	entry := decodeLine(t, buf)
	if entry["company_id"] != "TCS" {
		t.Errorf("Expected company_id TCS, got %v", entry["company_id"])
	}
	if entry["kept"] != float64(12) {
		t.Errorf("Expected kept 12, got %v", entry["kept"])
	}
	if entry["component"] != "validator" {
		t.Errorf("Expected component validator, got %v", entry["component"])
	}
}

func TestWithError(t *testing.T) {
	logger, buf := newBufferLogger("debug")

	logger.WithError(errors.New("database connection failed")).Error("operation failed")

	entry := decodeLine(t, buf)
	if entry["error"] != "database connection failed" {
		t.Errorf("Expected error field, got %v", entry["error"])
	}
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{Env: "development", LogLevel: "info", LogFormat: "console"}

	NewWithWriter(cfg, &buf).Info("test message")

	if !strings.Contains(buf.String(), "test message") {
		t.Errorf("Expected output to contain 'test message', got: %s", buf.String())
	}
}

func TestNop(t *testing.T) {
	// Must not panic
	Nop().WithField("k", "v").Error("discarded")
}
