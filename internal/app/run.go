package app

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	backend "llm-ensemble/internal/backend"
	config "llm-ensemble/internal/config"
	ilogger "llm-ensemble/internal/logger"
	merge "llm-ensemble/internal/merge"
	render "llm-ensemble/internal/render"
	runner "llm-ensemble/internal/runner"
)

// lookPathFn is swappable for tests.
var lookPathFn = exec.LookPath

func runWithLogger(fn func() int) (exitCode int) {
	logger, err := ilogger.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: failed to initialize logger: %v\n", err)
		return 1
	}
	ilogger.SetLogger(logger)
	backend.SetLogFuncs(ilogger.LogWarn, ilogger.LogError)

	defer func() {
		logger := ilogger.ActiveLogger()
		if logger != nil {
			logger.Flush()
		}
		if err := ilogger.CloseLogger(); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: failed to close logger: %v\n", err)
		}
		if logger == nil {
			return
		}

		if exitCode != 0 {
			if entries := logger.ExtractRecentErrors(10); len(entries) > 0 {
				fmt.Fprintln(os.Stderr, "\n=== Recent Errors ===")
				for _, entry := range entries {
					fmt.Fprintln(os.Stderr, entry)
				}
				fmt.Fprintf(os.Stderr, "Log file: %s (deleted)\n", logger.Path())
			}
		}
		_ = logger.RemoveLogFile()
	}()

	// Clean up stale logs from previous runs.
	go func() {
		_, _ = ilogger.CleanupOldLogs()
	}()

	return fn()
}

// runEnsemble is the full pipeline: resolve specs, preflight backends,
// materialize the prompt, dispatch all tasks, merge, render. Only
// configuration and backend-availability errors abort; per-task failures
// surface as sentinel artifacts.
func runEnsemble(cfg *config.Config) int {
	ilogger.LogInfo("Run started")

	specs, err := backend.ParseSpecs(cfg.ModelsCSV, cfg.GeminiModel, cfg.CodexModel)
	if err != nil {
		return fatalCode(err)
	}

	// Instruction conflicts and missing files must abort before any task
	// artifact exists.
	instruction, err := merge.ResolveInstruction(cfg.MergePromptText, cfg.MergePromptFile)
	if err != nil {
		return fatalCode(err)
	}

	if err := preflight(specs); err != nil {
		return fatalCode(err)
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return fatalCode(fmt.Errorf("cannot create outdir %s: %w", cfg.OutDir, err))
	}

	promptText, promptPath, err := resolvePrompt(cfg, cfg.OutDir)
	if err != nil {
		return fatalCode(err)
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	tasks := runner.BuildTasks(specs, cfg.Iterations, cfg.OutDir)
	ilogger.LogInfo(fmt.Sprintf("Dispatching %d tasks (%d specs x %d iterations)", len(tasks), len(specs), cfg.Iterations))

	results := runner.ExecuteAll(context.Background(), tasks, runner.Options{
		PromptPath:      promptPath,
		ReasoningEffort: cfg.CodexReasoning,
		RequireGit:      cfg.RequireGit,
		Timeout:         timeout,
	}, cfg.MaxParallelWorkers)

	reasoning := cfg.MergeReasoning
	if reasoning == "" {
		reasoning = cfg.CodexReasoning
	}

	final, err := merge.Execute(context.Background(), merge.NewRequest(instruction, promptText, results), merge.ExecOptions{
		Model:      backend.ResolveMergeModel(specs, cfg.MergeCodexModel, cfg.CodexModel),
		Reasoning:  reasoning,
		RequireGit: cfg.RequireGit,
		Timeout:    timeout,
		OutDir:     cfg.OutDir,
	})
	if err != nil {
		return fatalCode(err)
	}

	if cfg.OutputFormat == config.FormatRTF {
		rtfPath := filepath.Join(cfg.OutDir, "final.rtf")
		if err := os.WriteFile(rtfPath, []byte(render.Render(final.Text, render.FormatRTF)), 0o644); err != nil {
			return fatalCode(fmt.Errorf("write rtf artifact: %w", err))
		}
		fmt.Fprintf(os.Stderr, "[Generated RTF: %s]\n", rtfPath)
	} else {
		fmt.Println(final.Text)
	}

	fmt.Fprintf(os.Stderr, "\n[Saved artifacts in: %s]\n", cfg.OutDir)
	return 0
}

// preflight verifies every referenced backend executable exists. The codex
// command is always required because the merge stage uses it; backends not
// referenced by any spec are never checked.
func preflight(specs []backend.RunnerSpec) error {
	providers := backend.Providers(specs)

	codexReferenced := false
	for _, p := range providers {
		if p == backend.ProviderCodex {
			codexReferenced = true
		}
	}
	if !codexReferenced {
		providers = append(providers, backend.ProviderCodex)
	}

	for _, p := range providers {
		b, err := backend.Select(p)
		if err != nil {
			return err
		}
		if _, err := lookPathFn(b.Command()); err != nil {
			if p == backend.ProviderCodex && !codexReferenced {
				return fmt.Errorf("%s command not found on PATH (needed for the final merge)", b.Command())
			}
			return fmt.Errorf("%s command not found on PATH", b.Command())
		}
	}
	return nil
}

// fatalCode reports a pre-dispatch failure: one diagnostic line, non-zero exit.
func fatalCode(err error) int {
	ilogger.LogError(err.Error())
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}
