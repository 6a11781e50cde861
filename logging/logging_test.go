package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSetup_DisabledByDefault(t *testing.T) {
	log, file, err := Setup(Options{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if file != nil {
		t.Error("Expected nil log file when disabled")
		file.Close()
	}
	if log.GetLevel() != zerolog.Disabled {
		t.Errorf("Expected disabled logger, got level %v", log.GetLevel())
	}
}

func TestSetup_Enabled(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	log, file, err := Setup(Options{Enabled: true, Level: "debug", Dir: dir})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	defer file.Close()

	// Verify log file was created
	logPath := filepath.Join(dir, FileName)
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Fatal("Expected log file to be created")
	}

	log.Debug().Str("component", "test").Msg("Test log message")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "Test log message") {
		t.Errorf("Log file missing message: %q", data)
	}
	if strings.Contains(string(data), "\x1b[") {
		t.Error("Log file contains color escapes")
	}
}

func TestSetup_Rotation(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, FileName)

	// Write just over the limit
	if err := os.WriteFile(logPath, make([]byte, 1025), 0644); err != nil {
		t.Fatalf("Failed to create large log file: %v", err)
	}

	stamp := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	_, file, err := Setup(Options{Enabled: true, Dir: dir, MaxSize: 1024, Now: func() time.Time { return stamp }})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	defer file.Close()

	rotated := filepath.Join(dir, "globe-explorer.20250601-123000.log")
	info, err := os.Stat(rotated)
	if err != nil {
		t.Fatalf("Expected rotated log file: %v", err)
	}
	if info.Size() != 1025 {
		t.Errorf("Rotated file size = %d, want 1025", info.Size())
	}

	info, err = os.Stat(logPath)
	if err != nil {
		t.Fatalf("Failed to stat new log file: %v", err)
	}
	if info.Size() > 1024 {
		t.Errorf("Expected new log file below the limit, got %d", info.Size())
	}
}

func TestSetup_NoRotationBelowLimit(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, FileName)
	if err := os.WriteFile(logPath, []byte("existing\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, file, err := Setup(Options{Enabled: true, Dir: dir})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	file.Close()

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("Expected only the active file, got %d entries", len(entries))
	}
	data, _ := os.ReadFile(logPath)
	if !strings.HasPrefix(string(data), "existing\n") {
		t.Error("Existing log content was not appended to")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug": zerolog.DebugLevel,
		"WARN":  zerolog.WarnLevel,
		"error": zerolog.ErrorLevel,
		"trace": zerolog.TraceLevel,
		"":      zerolog.InfoLevel,
		"loud":  zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, zerolog.WarnLevel)
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("Unexpected output: %q", buf.String())
	}
}
