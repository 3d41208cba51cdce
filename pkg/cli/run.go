package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/polyforge/polyforge/pkg/config"
	"github.com/polyforge/polyforge/pkg/logger"
	"github.com/polyforge/polyforge/pkg/notify"
	"github.com/polyforge/polyforge/pkg/process"
	"github.com/polyforge/polyforge/pkg/registry"
	"github.com/polyforge/polyforge/pkg/report"
	"github.com/polyforge/polyforge/pkg/runner"
	"github.com/polyforge/polyforge/pkg/scheduler"
	"github.com/polyforge/polyforge/pkg/strategies"
	"github.com/polyforge/polyforge/pkg/types"
	"github.com/polyforge/polyforge/pkg/utils"
)

// runRoot drives one invocation end to end: resolve the plan, execute the
// batch, render the report, derive the exit status.
func runRoot(cmd *cobra.Command, args []string) error {
	reg, cfg, err := loadRegistry()
	if err != nil {
		printError(err.Error())
		return err
	}

	flags := planFlags{
		All:        flagAll,
		Clean:      flagClean,
		Test:       flagTest,
		Sequential: flagSequential,
		CleanOnly:  flagCleanOnly,
		Docker:     flagDocker,
		Logs:       flagLogs,
		DryRun:     flagDryRun,
		Names:      append(append([]string{}, args...), flagServices...),
	}

	plan, err := resolvePlan(reg, flags, printWarning)
	if err != nil {
		// Configuration-time failures print usage; no task has run.
		printError(err.Error())
		cmd.Usage()
		return err
	}

	log := buildLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	procMgr := process.NewManager(log)
	procMgr.RegisterShutdownHandler(func() {
		printWarning("interrupt received; waiting for in-flight builds, then reporting")
	})
	procMgr.Start(ctx)
	defer procMgr.Stop()

	var cmdRunner process.CommandRunner
	if plan.DryRun {
		printInfo("dry run: no command will be executed, no file will be touched")
		cmdRunner = process.NewDryRunner(log)
	} else {
		cmdRunner = process.NewExecRunner()
	}

	factory := strategies.NewStrategyFactory(strategies.Options{
		WorkspaceRoot: workspaceRoot,
		Runner:        cmdRunner,
		Logger:        log,
		DryRun:        plan.DryRun,
	})

	taskRunner := runner.New(factory, log)
	sched := scheduler.New(taskRunner, log)
	agg := report.NewAggregator()

	mode := "concurrent"
	if plan.Sequential {
		mode = "sequential"
	}
	printInfo(fmt.Sprintf("dispatching %d service(s), %s", len(plan.Services), mode))

	batchStart := time.Now()
	if err := sched.Execute(ctx, plan, agg); err != nil {
		printError(fmt.Sprintf("scheduler error: %v", err))
		return err
	}
	batchDuration := time.Since(batchStart)

	if plan.CleanOnly {
		cleanExtras(ctx, plan, cmdRunner, log)
	}

	reporter := report.NewReporter(os.Stdout)
	fmt.Println()
	reporter.Render(agg, batchDuration)

	notifyBatch(cfg, agg, batchDuration, log)

	if !agg.AllSucceeded() {
		return fmt.Errorf("%d service(s) failed", len(agg.FailedServices()))
	}
	return nil
}

// loadRegistry builds the service registry from the built-in table plus the
// optional config file. A missing config file is fine; a malformed one is a
// hard error.
func loadRegistry() (*registry.ServiceRegistry, *config.Config, error) {
	mgr := config.NewManager()

	path := getConfigPath()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return registry.NewDefault(), nil, nil
	}

	cfg, err := mgr.LoadConfig(path)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	merged := config.MergeServices(registry.NewDefault().All(), cfg.Services)
	reg, err := registry.New(merged)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return reg, cfg, nil
}

func buildLogger(cfg *config.Config) logger.Logger {
	logFile := ""
	level := verbosity
	if cfg != nil && cfg.Logging != nil {
		logFile = cfg.Logging.File
		if level == "" && cfg.Logging.Level != "" {
			level = string(cfg.Logging.Level)
		}
	}
	return logger.CreateLogger(logFile, level)
}

// cleanExtras handles the clean-only sub-flags that reach beyond individual
// service roots: the docker build cache and the accumulated build logs.
func cleanExtras(ctx context.Context, plan types.ExecutionPlan, cmdRunner process.CommandRunner, log logger.Logger) {
	if plan.CleanDocker {
		printInfo("purging docker build cache")
		if _, err := cmdRunner.Run(ctx, process.Command{
			Dir:  workspaceRoot,
			Name: "docker",
			Args: []string{"builder", "prune", "-f"},
		}); err != nil {
			printWarning(fmt.Sprintf("docker cache purge failed: %v", err))
		}
	}

	if plan.CleanLogs {
		logDir := filepath.Join(workspaceRoot, strategies.LogDirName)
		if plan.DryRun {
			printInfo("would remove: " + logDir)
		} else if err := utils.RemoveAll(logDir); err != nil {
			printWarning(fmt.Sprintf("log purge failed: %v", err))
		} else {
			printInfo("removed: " + logDir)
		}
	}
}

func notifyBatch(cfg *config.Config, agg *report.Aggregator, duration time.Duration, log logger.Logger) {
	enabled := flagNotify
	if cfg != nil && cfg.Notifications != nil && cfg.Notifications.Enabled {
		enabled = true
	}

	succeeded := 0
	for _, r := range agg.Results() {
		if r.Succeeded() {
			succeeded++
		}
	}
	notify.New(enabled, log).NotifyBatchDone(succeeded, agg.Len(), duration)
}
