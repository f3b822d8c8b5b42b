package runner

import (
	"context"
	"fmt"

	ilogger "llm-ensemble/internal/logger"

	"golang.org/x/sync/errgroup"
)

// ExecuteAll runs every task with bounded parallelism and returns results in
// canonical order. maxWorkers <= 0 means unbounded.
//
// Tasks are fully independent: each writes to paths derived from its own
// (label, iteration), no failure cancels a sibling, and every task is
// attempted to completion. Results land in the slot given by Task.Index, so
// completion order never influences output order. ExecuteAll returns only
// after the whole pool has drained; the merge stage keys off that barrier.
func ExecuteAll(ctx context.Context, tasks []Task, opts Options, maxWorkers int) []Result {
	results := make([]Result, len(tasks))

	g := new(errgroup.Group)
	if maxWorkers > 0 {
		g.SetLimit(maxWorkers)
	}

	for _, task := range tasks {
		task := task
		ilogger.LogInfo(fmt.Sprintf("Scheduling %s model=%q (iteration %d)", task.Spec.Provider, task.Spec.Model, task.Iteration))
		g.Go(func() error {
			results[task.Index] = Run(ctx, task, opts)
			return nil
		})
	}

	// No task returns an error; Wait is purely the join barrier.
	_ = g.Wait()
	return results
}
