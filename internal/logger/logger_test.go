package logger

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestLoggerCreatesFileWithPID(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("TMPDIR", tempDir)

	logger, err := NewLogger()
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	defer logger.Close()

	expectedPath := filepath.Join(tempDir, fmt.Sprintf("llm-ensemble-%d.log", os.Getpid()))
	if logger.Path() != expectedPath {
		t.Fatalf("logger path = %s, want %s", logger.Path(), expectedPath)
	}

	if _, err := os.Stat(expectedPath); err != nil {
		t.Fatalf("log file not created: %v", err)
	}
}

func TestLoggerWritesLevels(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("TMPDIR", tempDir)

	logger, err := NewLogger()
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	defer logger.Close()

	logger.Info("info message")
	logger.Warn("warn message")
	logger.Debug("debug message")
	logger.Error("error message")

	logger.Flush()

	data, err := os.ReadFile(logger.Path())
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	content := string(data)
	checks := []string{"info message", "warn message", "debug message", "error message"}
	for _, c := range checks {
		if !strings.Contains(content, c) {
			t.Fatalf("log file missing entry %q, content: %s", c, content)
		}
	}
}

func TestLoggerCloseKeepsFile(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("TMPDIR", tempDir)

	logger, err := NewLogger()
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}

	logger.Info("before close")
	logger.Flush()

	logPath := logger.Path()

	if err := logger.Close(); err != nil {
		t.Fatalf("Close() returned error: %v", err)
	}

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Fatal("log file should exist after Close for debugging")
	}
	defer os.Remove(logPath)
}

func TestLoggerConcurrentWritesSafe(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("TMPDIR", tempDir)

	logger, err := NewLogger()
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	defer logger.Close()

	const goroutines = 10
	const perGoroutine = 50

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				logger.Debug(fmt.Sprintf("g%d-%d", id, j))
			}
		}(i)
	}

	wg.Wait()
	logger.Flush()

	f, err := os.Open(logger.Path())
	if err != nil {
		t.Fatalf("failed to open log file: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	count := 0
	for scanner.Scan() {
		count++
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scanner error: %v", err)
	}

	expected := goroutines * perGoroutine
	if count != expected {
		t.Fatalf("log line count = %d, want %d", count, expected)
	}
}

func TestExtractRecentErrors(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("TMPDIR", tempDir)

	logger, err := NewLogger()
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	defer logger.Close()

	for i := 0; i < 5; i++ {
		logger.Error(fmt.Sprintf("err-%d", i))
	}

	got := logger.ExtractRecentErrors(3)
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}
	if got[0] != "err-2" || got[2] != "err-4" {
		t.Fatalf("unexpected entries: %v", got)
	}

	if entries := logger.ExtractRecentErrors(0); entries != nil {
		t.Fatalf("n=0 should return nil, got %v", entries)
	}
}

func TestRemoveLogFile(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("TMPDIR", tempDir)

	logger, err := NewLogger()
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	logger.Close()

	if err := logger.RemoveLogFile(); err != nil {
		t.Fatalf("RemoveLogFile() error = %v", err)
	}
	if _, err := os.Stat(logger.Path()); !os.IsNotExist(err) {
		t.Fatal("log file still present after RemoveLogFile")
	}
	// Removing twice is not an error.
	if err := logger.RemoveLogFile(); err != nil {
		t.Fatalf("second RemoveLogFile() error = %v", err)
	}
}

func TestSanitizeLogSuffix(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  ", ""},
		{"task-1", "task-1"},
		{"a/b c", "a_b_c"},
		{strings.Repeat("x", 100), strings.Repeat("x", 64)},
	}
	for _, tc := range cases {
		if got := SanitizeLogSuffix(tc.in); got != tc.want {
			t.Errorf("SanitizeLogSuffix(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCleanupOldLogsRemovesDeadPidFiles(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("TMPDIR", tempDir)

	// A pid far beyond pid_max cannot be alive.
	deadLog := filepath.Join(tempDir, fmt.Sprintf("%s-%d.log", ToolName, 1<<30))
	if err := os.WriteFile(deadLog, []byte("stale"), 0o600); err != nil {
		t.Fatalf("write stale log: %v", err)
	}

	ownLog := filepath.Join(tempDir, fmt.Sprintf("%s-%d.log", ToolName, os.Getpid()))
	if err := os.WriteFile(ownLog, []byte("live"), 0o600); err != nil {
		t.Fatalf("write own log: %v", err)
	}

	stats, err := CleanupOldLogs()
	if err != nil {
		t.Fatalf("CleanupOldLogs() error = %v", err)
	}

	if stats.Scanned != 2 {
		t.Fatalf("scanned = %d, want 2", stats.Scanned)
	}
	if stats.Deleted != 1 || stats.Kept != 1 {
		t.Fatalf("deleted = %d, kept = %d; want 1 and 1", stats.Deleted, stats.Kept)
	}
	if _, err := os.Stat(deadLog); !os.IsNotExist(err) {
		t.Fatal("stale log not removed")
	}
	if _, err := os.Stat(ownLog); err != nil {
		t.Fatal("own log should be kept")
	}
}

func TestPidFromLogName(t *testing.T) {
	cases := []struct {
		name string
		pid  int
		ok   bool
	}{
		{ToolName + "-1234.log", 1234, true},
		{ToolName + "-1234-suffix.log", 1234, true},
		{ToolName + "-abc.log", 0, false},
		{ToolName + "-0.log", 0, false},
	}
	for _, tc := range cases {
		pid, ok := pidFromLogName(tc.name)
		if pid != tc.pid || ok != tc.ok {
			t.Errorf("pidFromLogName(%q) = (%d, %v), want (%d, %v)", tc.name, pid, ok, tc.pid, tc.ok)
		}
	}
}

func TestActiveLoggerRoundTrip(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("TMPDIR", tempDir)

	logger, err := NewLogger()
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}

	SetLogger(logger)
	if ActiveLogger() != logger {
		t.Fatal("ActiveLogger() did not return the set logger")
	}

	LogInfo("via package helper")
	logger.Flush()

	data, err := os.ReadFile(logger.Path())
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "via package helper") {
		t.Fatal("package-level helper did not reach the active logger")
	}

	if err := CloseLogger(); err != nil {
		t.Fatalf("CloseLogger() error = %v", err)
	}
	if ActiveLogger() != nil {
		t.Fatal("ActiveLogger() should be nil after CloseLogger")
	}
	// Helpers are no-ops with no active logger.
	LogWarn("dropped")
}
