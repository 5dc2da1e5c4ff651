package dispatch

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"medalc/internal/core"
)

// RunPlan executes plan stage by stage, running every operation within a
// stage concurrently across a bounded worker pool and waiting for the
// whole stage to finish before advancing (§5's stage-is-a-barrier
// concurrency model: operations within a stage have no ordering
// constraint on each other, but a later stage may depend on an earlier
// one's writes). workers caps concurrency; a value <= 0 defaults to 1.
//
// RunPlan does not abort the plan when an individual operation fails: per
// §7, failures are per-operation and recorded in the returned results so a
// caller can decide whether a failed upstream write should block
// downstream stages. It returns an error only if ctx is cancelled.
func RunPlan(ctx context.Context, plan *core.ExecutionPlan, d *Dispatcher, workers int) ([]*OperationResult, error) {
	if workers <= 0 {
		workers = 1
	}

	var all []*OperationResult
	for _, stage := range plan.Stages {
		results, err := runStage(ctx, stage, d, workers)
		if err != nil {
			return all, err
		}
		all = append(all, results...)
	}
	return all, nil
}

func runStage(ctx context.Context, stage *core.ExecutionStage, d *Dispatcher, workers int) ([]*OperationResult, error) {
	results := make([]*OperationResult, len(stage.Operations))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = d.Dispatch(ctx, stage.Operations[i])
			}
		}()
	}

feed:
	for i := range stage.Operations {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if ctx.Err() != nil {
		logger.Warn("stage execution interrupted by context cancellation", zap.Int("stage", stage.Stage))
		return results, ctx.Err()
	}
	return results, nil
}
