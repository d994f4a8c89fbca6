package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != InfoLevel {
		t.Errorf("expected Level to be InfoLevel, got %v", cfg.Level)
	}
	if cfg.Output != os.Stderr {
		t.Errorf("expected Output to be os.Stderr")
	}
	if cfg.TimeFormat != time.RFC3339 {
		t.Errorf("expected TimeFormat to be RFC3339, got %s", cfg.TimeFormat)
	}
	if cfg.File != "" {
		t.Errorf("expected no log file, got %s", cfg.File)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"DEBUG", DebugLevel},
		{"  debug  ", DebugLevel},
		{"INFO", InfoLevel},
		{"warn", WarnLevel},
		{"WARNING", WarnLevel},
		{"error", ErrorLevel},
		{"FATAL", FatalLevel},
		{"", InfoLevel},
		{"INVALID", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLogLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Config{Level: WarnLevel, Output: &buf}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer Init(DefaultConfig())

	Info().Msg("hidden")
	Warn().Msg("shown")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("info message should be filtered at warn level: %s", output)
	}
	if !strings.Contains(output, "shown") {
		t.Errorf("warn message missing: %s", output)
	}
}

func TestComponentField(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Config{Level: DebugLevel, Output: &buf}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer Init(DefaultConfig())

	log := Component("transport")
	log.Debug().Int("status", 200).Msg("request done")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if entry["component"] != "transport" {
		t.Errorf("component = %v, want transport", entry["component"])
	}
	if entry["status"] != float64(200) {
		t.Errorf("status = %v, want 200", entry["status"])
	}
}

func TestLogToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "sitecraft.log")
	if err := Init(Config{Level: InfoLevel, File: path}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer Init(DefaultConfig())

	if got := LogFilePath(); got != path {
		t.Errorf("LogFilePath() = %q, want %q", got, path)
	}

	Info().Str("key", "value").Msg("to file")
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("log file missing message: %s", data)
	}
	if LogFilePath() != "" {
		t.Errorf("LogFilePath should be empty after Close")
	}
}

func TestPrettyOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Config{Level: InfoLevel, Output: &buf, Pretty: true}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer Init(DefaultConfig())

	Info().Msg("pretty message")

	output := buf.String()
	if strings.HasPrefix(strings.TrimSpace(output), "{") {
		t.Errorf("pretty output should not be JSON: %s", output)
	}
	if !strings.Contains(output, "pretty message") {
		t.Errorf("missing message: %s", output)
	}
}
