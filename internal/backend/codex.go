package backend

import (
	"fmt"
	"strings"
)

// CodexBackend invokes the codex CLI in non-interactive exec mode with a
// read-only sandbox. It emits the answer as raw text on stdout.
type CodexBackend struct{}

func (CodexBackend) Name() string    { return "codex" }
func (CodexBackend) Command() string { return "codex" }
func (CodexBackend) Env() []string   { return nil }

func (CodexBackend) BuildArgs(opts InvokeOptions) []string {
	return BuildCodexArgs(opts)
}

func (CodexBackend) ExtractAnswer(stdout []byte) (string, error) {
	return string(stdout), nil
}

func BuildCodexArgs(opts InvokeOptions) []string {
	args := []string{"exec", "--sandbox", "read-only", "--color", "never"}

	if !opts.RequireGit {
		args = append(args, "--skip-git-repo-check")
	}

	if model := strings.TrimSpace(opts.Model); model != "" {
		args = append(args, "--model", model)
	}

	// Reasoning effort is always passed explicitly as backend-native config.
	effort := strings.TrimSpace(opts.ReasoningEffort)
	if effort == "" {
		logWarnFn("codex invocation without reasoning effort, backend default applies")
	} else {
		args = append(args, "--config", fmt.Sprintf("model_reasoning_effort=%q", effort))
	}

	// Read the prompt from stdin.
	return append(args, "-")
}
