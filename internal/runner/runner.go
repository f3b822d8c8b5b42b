package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	backend "llm-ensemble/internal/backend"
	ilogger "llm-ensemble/internal/logger"
	utils "llm-ensemble/internal/utils"
)

const stderrPreviewLimit = 512

// forceKillDelay is how long a process gets after SIGTERM before SIGKILL.
var forceKillDelay = 5 * time.Second

// commandContext is swappable for tests.
var commandContext = exec.CommandContext

// Options carries the invocation knobs shared by all tasks of a dispatch.
type Options struct {
	PromptPath      string
	ReasoningEffort string
	RequireGit      bool
	Timeout         time.Duration // 0 = unbounded
}

// Run executes one task under its deadline and always returns a Result.
// Failures never propagate: a non-zero exit, timeout or decode error yields
// success=false with the sentinel as text, and the sentinel is also written
// to the task's output artifact.
func Run(ctx context.Context, task Task, opts Options) Result {
	b, err := backend.Select(task.Spec.Provider)
	if err != nil {
		return fail(task, err.Error())
	}

	runCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	promptFile, err := os.Open(opts.PromptPath)
	if err != nil {
		return fail(task, "open prompt: "+err.Error())
	}
	defer promptFile.Close()

	logFile, err := os.Create(task.LogPath)
	if err != nil {
		return fail(task, "create log: "+err.Error())
	}
	defer logFile.Close()

	tail := &tailBuffer{limit: 4 * 1024}
	var stdout bytes.Buffer

	cmd := commandContext(runCtx, b.Command(), b.BuildArgs(backend.InvokeOptions{
		Model:           task.Spec.Model,
		ReasoningEffort: opts.ReasoningEffort,
		RequireGit:      opts.RequireGit,
	})...)
	cmd.Stdin = promptFile
	cmd.Stdout = &stdout
	cmd.Stderr = io.MultiWriter(logFile, tail)
	if extra := b.Env(); len(extra) > 0 {
		cmd.Env = append(os.Environ(), extra...)
	}
	cmd.Cancel = func() error { return terminateProcess(cmd.Process) }
	cmd.WaitDelay = forceKillDelay

	ilogger.LogInfo(fmt.Sprintf("Task %s: %s %s", task.BaseName(), b.Command(), strings.Join(cmd.Args[1:], " ")))

	if err := cmd.Run(); err != nil {
		cause := invocationCause(runCtx, err, opts.Timeout)
		logStderrPreview(task, tail)
		return fail(task, cause)
	}

	raw := stdout.Bytes()
	if task.Spec.Provider == backend.ProviderGemini {
		// Keep the raw envelope next to the extracted answer.
		envelopePath := strings.TrimSuffix(task.OutputPath, filepath.Ext(task.OutputPath)) + ".json"
		if err := os.WriteFile(envelopePath, raw, 0o644); err != nil {
			ilogger.LogWarn(fmt.Sprintf("Task %s: keep raw envelope: %v", task.BaseName(), err))
		}
	}

	text, err := b.ExtractAnswer(raw)
	if err != nil {
		return fail(task, err.Error())
	}

	if err := os.WriteFile(task.OutputPath, []byte(text), 0o644); err != nil {
		return fail(task, "write output: "+err.Error())
	}

	return Result{Task: task, Success: true, Text: text, Log: task.LogPath}
}

// invocationCause classifies a process failure for the sentinel text.
func invocationCause(ctx context.Context, err error, timeout time.Duration) string {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Sprintf("timeout after %s", timeout)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Sprintf("exit status %d", exitErr.ExitCode())
	}
	return err.Error()
}

func logStderrPreview(task Task, tail *tailBuffer) {
	preview := utils.SafeTruncate(utils.SanitizeOutput(tail.String()), stderrPreviewLimit)
	if preview != "" {
		ilogger.LogWarn(fmt.Sprintf("Task %s stderr tail: %s", task.BaseName(), preview))
	}
}

// fail records the sentinel as the task output and returns the failed Result.
func fail(task Task, cause string) Result {
	sentinel := Sentinel(task.Spec.Provider, cause, task.LogPath)
	if err := os.WriteFile(task.OutputPath, []byte(sentinel), 0o644); err != nil {
		ilogger.LogError(fmt.Sprintf("Task %s: write sentinel: %v", task.BaseName(), err))
	}
	ilogger.LogError(fmt.Sprintf("Task %s failed: %s", task.BaseName(), cause))
	return Result{Task: task, Success: false, Text: sentinel, Log: task.LogPath}
}
