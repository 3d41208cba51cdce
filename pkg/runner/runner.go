// Package runner executes the full build lifecycle of a single service and
// reduces every outcome, including panics, to one terminal BuildResult.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/polyforge/polyforge/pkg/logger"
	"github.com/polyforge/polyforge/pkg/strategies"
	"github.com/polyforge/polyforge/pkg/types"
)

// DetailTestsSkipped marks a successful task whose test step was skipped
// because no test facility was found.
const DetailTestsSkipped = "tests skipped (no test facility detected)"

// StrategyProvider resolves the strategy for a technology kind. Satisfied by
// strategies.StrategyFactory.
type StrategyProvider interface {
	ForKind(kind types.TechnologyKind) (strategies.Strategy, error)
}

// TaskRunner drives one service through clean, precondition, dependency,
// build and test steps, stopping at the first failure.
type TaskRunner struct {
	provider StrategyProvider
	log      logger.Logger
}

// New creates a task runner.
func New(provider StrategyProvider, log logger.Logger) *TaskRunner {
	return &TaskRunner{provider: provider, log: log}
}

// Run executes the lifecycle for one service. It never returns an error or
// panics past this boundary: every failure kind becomes a Failed result
// whose detail names the failing step's error kind.
func (r *TaskRunner) Run(ctx context.Context, svc types.ServiceDescriptor, plan types.ExecutionPlan) (result types.BuildResult) {
	task := &types.BuildTask{
		ID:        uuid.NewString(),
		Service:   svc,
		Plan:      plan,
		StartTime: time.Now(),
	}

	log := r.serviceLogger(svc)

	defer func() {
		if rec := recover(); rec != nil {
			if log != nil {
				log.Error(fmt.Sprintf("task panicked: %v", rec))
			}
			result = task.Finish(types.BuildStatusFailed, fmt.Sprintf("panic: %v", rec))
		}
	}()

	strategy, err := r.provider.ForKind(svc.Kind)
	if err != nil {
		return r.fail(task, log, err)
	}

	if plan.Clean || plan.CleanOnly {
		if log != nil {
			log.Info("cleaning generated artifacts")
		}
		strategy.Clean(svc)
		if plan.CleanOnly {
			return task.Finish(types.BuildStatusSucceeded, "cleaned")
		}
	}

	if err := strategy.CheckPrecondition(svc); err != nil {
		return r.fail(task, log, err)
	}

	if log != nil {
		log.Info("installing dependencies", logger.WithField("task", task.ID))
	}
	if err := strategy.InstallDependencies(ctx, svc); err != nil {
		return r.fail(task, log, err)
	}

	if strategy.HasBuildStep() {
		if log != nil {
			log.Info("building")
		}
		if err := strategy.Build(ctx, svc); err != nil {
			return r.fail(task, log, err)
		}
	}

	detail := ""
	if plan.Test {
		if strategy.DetectTests(svc) {
			if log != nil {
				log.Info("running tests")
			}
			if err := strategy.Test(ctx, svc); err != nil {
				return r.fail(task, log, err)
			}
		} else {
			if log != nil {
				log.Warn("no test facility detected, skipping tests")
			}
			detail = DetailTestsSkipped
		}
	}

	if log != nil {
		log.Success(fmt.Sprintf("completed in %s", time.Since(task.StartTime).Round(time.Millisecond)))
	}
	return task.Finish(types.BuildStatusSucceeded, detail)
}

// fail logs the step-identifying failure at failure time (required for live
// visibility in addition to the final table) and folds it into the result.
func (r *TaskRunner) fail(task *types.BuildTask, log logger.Logger, err error) types.BuildResult {
	detail := string(types.FailureKindOf(err))
	if detail == "" {
		detail = err.Error()
	}

	if log != nil {
		log.Error(err.Error())
	}
	return task.Finish(types.BuildStatusFailed, detail)
}

func (r *TaskRunner) serviceLogger(svc types.ServiceDescriptor) logger.Logger {
	if r.log == nil {
		return nil
	}
	return r.log.WithService(svc.ID)
}
