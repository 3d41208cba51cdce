package strategies

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/polyforge/polyforge/pkg/logger"
	"github.com/polyforge/polyforge/pkg/process"
	"github.com/polyforge/polyforge/pkg/types"
	"github.com/polyforge/polyforge/pkg/utils"
)

// LogDirName is where per-service build logs accumulate, relative to the
// workspace root. The clean-only --logs flag purges it.
const LogDirName = ".polyforge/logs"

// Options carries the shared collaborators every strategy needs.
type Options struct {
	WorkspaceRoot string
	Runner        process.CommandRunner
	Logger        logger.Logger
	DryRun        bool
}

// baseStrategy provides the helpers shared by all technology strategies:
// command execution with per-service log tee, path resolution against the
// workspace root, and dry-run aware artifact removal.
type baseStrategy struct {
	opts Options
}

func newBase(opts Options) baseStrategy {
	return baseStrategy{opts: opts}
}

// serviceDir resolves a service's root to an absolute path.
func (b *baseStrategy) serviceDir(svc types.ServiceDescriptor) string {
	if filepath.IsAbs(svc.RootPath) {
		return svc.RootPath
	}
	return filepath.Join(b.opts.WorkspaceRoot, svc.RootPath)
}

// checkManifest is the common precondition: the service root must exist and
// contain the technology's dependency manifest.
func (b *baseStrategy) checkManifest(svc types.ServiceDescriptor, manifest string) error {
	dir := b.serviceDir(svc)
	if !utils.DirectoryExists(dir) {
		return types.NewTaskError(types.FailureDirectoryNotFound, types.StepPrecondition,
			fmt.Errorf("service root does not exist: %s", dir))
	}
	if !utils.FileExists(filepath.Join(dir, manifest)) {
		return types.NewTaskError(types.FailureMissingManifest, types.StepPrecondition,
			fmt.Errorf("%s not found in %s", manifest, dir))
	}
	return nil
}

// run executes one toolchain command in the service directory, teeing its
// output to the per-service build log. The failure is classified by the
// caller's step.
func (b *baseStrategy) run(ctx context.Context, svc types.ServiceDescriptor, step types.StepKind, kind types.FailureKind, name string, args ...string) error {
	logFile := b.openLogFile(svc)
	defer func() {
		if logFile != nil {
			logFile.Close()
		}
	}()

	cmd := process.Command{
		Dir:  b.serviceDir(svc),
		Name: name,
		Args: args,
	}
	if logFile != nil {
		cmd.Tee = logFile
	}

	if b.opts.Logger != nil {
		b.opts.Logger.Debug(fmt.Sprintf("%s step: %s", step, cmd))
	}

	result, err := b.opts.Runner.Run(ctx, cmd)
	if err != nil {
		return types.NewTaskError(kind, step,
			fmt.Errorf("%w\n%s", err, result.Output))
	}
	return nil
}

// removeArtifact deletes one generated artifact. Missing paths are no-ops;
// removal failures are logged but never fail the clean step. In dry-run
// mode nothing is touched.
func (b *baseStrategy) removeArtifact(svc types.ServiceDescriptor, rel string) {
	path := filepath.Join(b.serviceDir(svc), rel)
	if !utils.FileExists(path) && !utils.DirectoryExists(path) {
		return
	}

	if b.opts.DryRun {
		if b.opts.Logger != nil {
			b.opts.Logger.Info("would remove: " + path)
		}
		return
	}

	if err := utils.RemoveAll(path); err != nil {
		if b.opts.Logger != nil {
			b.opts.Logger.Warn("Failed to remove artifact",
				logger.WithField("path", path),
				logger.WithField("error", err))
		}
		return
	}

	if b.opts.Logger != nil {
		b.opts.Logger.Info("removed: " + path)
	}
}

// openLogFile opens the append-mode build log for a service. Dry runs must
// not mutate the filesystem, so they get no log file.
func (b *baseStrategy) openLogFile(svc types.ServiceDescriptor) *os.File {
	if b.opts.DryRun {
		return nil
	}

	logDir := filepath.Join(b.opts.WorkspaceRoot, LogDirName)
	if err := utils.EnsureDirectory(logDir); err != nil {
		if b.opts.Logger != nil {
			b.opts.Logger.Warn("Failed to create log directory",
				logger.WithField("error", err))
		}
		return nil
	}

	logPath := filepath.Join(logDir, svc.ID+".log")
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		if b.opts.Logger != nil {
			b.opts.Logger.Warn("Failed to open build log",
				logger.WithField("error", err))
		}
		return nil
	}
	return file
}
