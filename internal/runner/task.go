package runner

import (
	"fmt"
	"path/filepath"

	backend "llm-ensemble/internal/backend"
)

// Task is one concrete invocation of a RunnerSpec for one iteration index.
// Index is the task's canonical position (spec order, then ascending
// iteration); results are always reported in that order.
type Task struct {
	Spec      backend.RunnerSpec
	Iteration int
	Index     int

	OutputPath string
	LogPath    string
}

// BaseName returns the deterministic artifact stem for this task.
func (t Task) BaseName() string {
	return fmt.Sprintf("%s_run_%d", t.Spec.Label, t.Iteration)
}

// Result captures the outcome of one task. A Result is produced even on
// failure: Text then holds the sentinel referencing the log artifact, so the
// merge stage always receives a complete candidate list.
type Result struct {
	Task    Task
	Success bool
	Text    string
	Log     string
}

// BuildTasks expands specs × [1..iterations] into the canonical task list,
// with output and log paths derived from (label, iteration) under outDir.
func BuildTasks(specs []backend.RunnerSpec, iterations int, outDir string) []Task {
	tasks := make([]Task, 0, len(specs)*iterations)
	for _, spec := range specs {
		for i := 1; i <= iterations; i++ {
			task := Task{
				Spec:      spec,
				Iteration: i,
				Index:     len(tasks),
			}
			task.OutputPath = filepath.Join(outDir, task.BaseName()+".txt")
			task.LogPath = filepath.Join(outDir, task.BaseName()+".log")
			tasks = append(tasks, task)
		}
	}
	return tasks
}

// Sentinel is the fixed text substituted for a failed invocation's output.
func Sentinel(provider backend.Provider, cause string, logPath string) string {
	return fmt.Sprintf("[%s] ERROR: %s (see %s)", provider, cause, logPath)
}
