// Package scheduler dispatches a batch of build tasks either sequentially
// or with one worker per service, and funnels every result through a single
// collector so concurrent completions never interleave.
package scheduler

import (
	"context"

	"github.com/polyforge/polyforge/pkg/logger"
	"github.com/polyforge/polyforge/pkg/types"
)

// TaskExecutor runs one service's full lifecycle. Satisfied by
// runner.TaskRunner.
type TaskExecutor interface {
	Run(ctx context.Context, svc types.ServiceDescriptor, plan types.ExecutionPlan) types.BuildResult
}

// Recorder receives terminal results. Satisfied by report.Aggregator. Record
// is only ever called from the collector goroutine (concurrent mode) or the
// control flow itself (sequential mode).
type Recorder interface {
	Record(result types.BuildResult) error
}

// Scheduler executes a batch of build tasks.
type Scheduler struct {
	executor TaskExecutor
	log      logger.Logger
}

// New creates a scheduler.
func New(executor TaskExecutor, log logger.Logger) *Scheduler {
	return &Scheduler{executor: executor, log: log}
}

// Execute runs every service in the plan and records each terminal result.
// It returns only after all tasks have terminated. There is no timeout and
// no cross-task cancellation: a hung build blocks the batch, which is the
// documented contract.
func (s *Scheduler) Execute(ctx context.Context, plan types.ExecutionPlan, rec Recorder) error {
	if plan.Sequential || len(plan.Services) <= 1 {
		return s.executeSequential(ctx, plan, rec)
	}
	return s.executeConcurrent(ctx, plan, rec)
}

// executeSequential runs tasks one at a time in plan order. A later task
// starts strictly after the prior one terminates.
func (s *Scheduler) executeSequential(ctx context.Context, plan types.ExecutionPlan, rec Recorder) error {
	for _, svc := range plan.Services {
		result := s.executor.Run(ctx, svc, plan)
		if err := rec.Record(result); err != nil {
			return err
		}
	}
	return nil
}

// executeConcurrent starts one worker per service with no coordination
// delay and no concurrency cap. Workers write into a channel drained by a
// single collector goroutine, so records are atomic without relying on
// concurrent writers.
func (s *Scheduler) executeConcurrent(ctx context.Context, plan types.ExecutionPlan, rec Recorder) error {
	results := make(chan types.BuildResult, len(plan.Services))

	collectorDone := make(chan error, 1)
	go func() {
		for result := range results {
			if err := rec.Record(result); err != nil {
				// Keep draining so workers never block on a full
				// channel; report the first record failure.
				select {
				case collectorDone <- err:
				default:
				}
			}
		}
		select {
		case collectorDone <- nil:
		default:
		}
	}()

	group := NewSafeGroup(s.log)
	for _, svc := range plan.Services {
		group.Go(func() error {
			results <- s.executor.Run(ctx, svc, plan)
			return nil
		})
	}

	// Join point: every worker has terminated before reporting begins.
	err := group.Wait()
	close(results)

	if cerr := <-collectorDone; cerr != nil {
		return cerr
	}
	return err
}
