package app

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	config "llm-ensemble/internal/config"
)

// stdinReader and isTerminal are swappable for tests.
var (
	stdinReader io.Reader = os.Stdin
	isTerminal            = func() bool {
		info, err := os.Stdin.Stat()
		if err != nil {
			return true
		}
		return info.Mode()&os.ModeCharDevice != 0
	}
)

// PromptArtifact is the canonical UTF-8 prompt file written into the outdir;
// every backend invocation reads it as stdin.
const PromptArtifact = "prompt.txt"

// resolvePrompt materializes the prompt from its configured source (text,
// file or piped stdin) into outDir. It returns the content and the canonical
// path.
func resolvePrompt(cfg *config.Config, outDir string) (string, string, error) {
	var content string

	switch {
	case cfg.PromptFile != "":
		text, err := readPromptFile(cfg.PromptFile)
		if err != nil {
			return "", "", err
		}
		content = text
	case cfg.PromptText != "":
		content = cfg.PromptText
	default:
		if isTerminal() {
			return "", "", config.Errorf("no prompt provided; use --prompt, --prompt-file, or pipe stdin")
		}
		data, err := io.ReadAll(stdinReader)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		content = string(data)
	}

	path := filepath.Join(outDir, PromptArtifact)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", "", fmt.Errorf("write canonical prompt: %w", err)
	}
	return content, path, nil
}

// readPromptFile loads a prompt file, rejecting empty and binary content.
// Non-UTF-8 text falls back to a latin-1 reinterpretation with a warning.
func readPromptFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", config.Errorf("prompt file not readable: %v", err)
	}
	if len(raw) == 0 {
		return "", config.Errorf("prompt file is empty: %s", path)
	}
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	if bytes.IndexByte(raw, 0) >= 0 {
		return "", config.Errorf("prompt file appears to be binary: %s", path)
	}

	fmt.Fprintf(os.Stderr, "Warning: converted %s to UTF-8 using fallback encoding\n", path)
	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = rune(b)
	}
	return string(runes), nil
}
