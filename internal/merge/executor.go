package merge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	backend "llm-ensemble/internal/backend"
	ilogger "llm-ensemble/internal/logger"
	runner "llm-ensemble/internal/runner"
)

// ExecOptions configures the single merge invocation.
type ExecOptions struct {
	Model      string
	Reasoning  string
	RequireGit bool
	Timeout    time.Duration
	OutDir     string
}

// Artifact names produced by the merge stage.
const (
	PromptArtifact = "merge_prompt.txt"
	FinalArtifact  = "final.txt"
	FinalLog       = "final.log"
)

// Execute writes the merge prompt artifact and invokes the codex family once
// to synthesize the final answer. The invocation shares the runner's failure
// contract: a failing merge still yields a final artifact holding the
// sentinel, so the run always terminates with some output.
func Execute(ctx context.Context, req Request, opts ExecOptions) (runner.Result, error) {
	promptPath := filepath.Join(opts.OutDir, PromptArtifact)
	if err := os.WriteFile(promptPath, []byte(req.Compose()), 0o644); err != nil {
		return runner.Result{}, fmt.Errorf("write merge prompt: %w", err)
	}

	task := runner.Task{
		Spec: backend.RunnerSpec{
			Provider: backend.ProviderCodex,
			Model:    opts.Model,
			Label:    "final",
		},
		Iteration:  1,
		OutputPath: filepath.Join(opts.OutDir, FinalArtifact),
		LogPath:    filepath.Join(opts.OutDir, FinalLog),
	}

	ilogger.LogInfo(fmt.Sprintf("Merging with codex model=%q reasoning=%q", opts.Model, opts.Reasoning))

	res := runner.Run(ctx, task, runner.Options{
		PromptPath:      promptPath,
		ReasoningEffort: opts.Reasoning,
		RequireGit:      opts.RequireGit,
		Timeout:         opts.Timeout,
	})
	return res, nil
}
