package app

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	config "llm-ensemble/internal/config"
)

func swapStdin(t *testing.T, r io.Reader, terminal bool) {
	t.Helper()
	prevReader, prevTerminal := stdinReader, isTerminal
	stdinReader = r
	isTerminal = func() bool { return terminal }
	t.Cleanup(func() {
		stdinReader = prevReader
		isTerminal = prevTerminal
	})
}

func TestResolvePromptFromText(t *testing.T) {
	outDir := t.TempDir()
	cfg := &config.Config{PromptText: "Explain X"}

	content, path, err := resolvePrompt(cfg, outDir)
	if err != nil {
		t.Fatalf("resolvePrompt() error = %v", err)
	}
	if content != "Explain X" {
		t.Fatalf("content = %q", content)
	}
	if path != filepath.Join(outDir, "prompt.txt") {
		t.Fatalf("path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read canonical prompt: %v", err)
	}
	if string(data) != "Explain X" {
		t.Fatalf("canonical prompt = %q", data)
	}
}

func TestResolvePromptFromFile(t *testing.T) {
	outDir := t.TempDir()
	promptFile := filepath.Join(t.TempDir(), "p.txt")
	if err := os.WriteFile(promptFile, []byte("from file"), 0o644); err != nil {
		t.Fatalf("write prompt file: %v", err)
	}

	content, _, err := resolvePrompt(&config.Config{PromptFile: promptFile}, outDir)
	if err != nil {
		t.Fatalf("resolvePrompt() error = %v", err)
	}
	if content != "from file" {
		t.Fatalf("content = %q", content)
	}
}

func TestResolvePromptFromStdin(t *testing.T) {
	outDir := t.TempDir()
	swapStdin(t, strings.NewReader("piped prompt"), false)

	content, _, err := resolvePrompt(&config.Config{}, outDir)
	if err != nil {
		t.Fatalf("resolvePrompt() error = %v", err)
	}
	if content != "piped prompt" {
		t.Fatalf("content = %q", content)
	}
}

func TestResolvePromptNoSource(t *testing.T) {
	swapStdin(t, strings.NewReader(""), true)

	_, _, err := resolvePrompt(&config.Config{}, t.TempDir())
	if err == nil {
		t.Fatal("expected error with no prompt source")
	}
	var cfgErr *config.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error type = %T", err)
	}
}

func TestReadPromptFileRejectsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	_, err := readPromptFile(path)
	if err == nil {
		t.Fatal("expected error for empty prompt file")
	}
}

func TestReadPromptFileRejectsBinary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bin")
	if err := os.WriteFile(path, []byte{0xFF, 0x00, 0x01, 0xFE}, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	_, err := readPromptFile(path)
	if err == nil {
		t.Fatal("expected error for binary prompt file")
	}
	var cfgErr *config.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error type = %T", err)
	}
}

func TestReadPromptFileLatin1Fallback(t *testing.T) {
	// 0xE9 is latin-1 'é' and invalid UTF-8 on its own.
	path := filepath.Join(t.TempDir(), "latin1.txt")
	if err := os.WriteFile(path, []byte{'c', 'a', 'f', 0xE9}, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	content, err := readPromptFile(path)
	if err != nil {
		t.Fatalf("readPromptFile() error = %v", err)
	}
	if content != "café" {
		t.Fatalf("content = %q, want café", content)
	}
}

func TestReadPromptFileMissing(t *testing.T) {
	_, err := readPromptFile(filepath.Join(t.TempDir(), "absent.txt"))
	if err == nil {
		t.Fatal("expected error for missing prompt file")
	}
}
