package strategies

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/polyforge/polyforge/pkg/types"
	"github.com/polyforge/polyforge/pkg/utils"
)

// MavenStrategy builds JVM services with Maven. It understands two layouts:
// a plain single-module project, and an aggregator project where the root
// pom is an umbrella over independently-buildable sub-modules. The
// aggregator case is special-cased here rather than handled generically:
// one umbrella command builds every module, but the precondition verifies
// each module's pom and test detection scans every module.
type MavenStrategy struct {
	baseStrategy
}

// NewMavenStrategy creates the strategy for maven services.
func NewMavenStrategy(opts Options) *MavenStrategy {
	return &MavenStrategy{baseStrategy: newBase(opts)}
}

func (s *MavenStrategy) Kind() types.TechnologyKind { return types.TechnologyMaven }
func (s *MavenStrategy) ManifestName() string       { return "pom.xml" }
func (s *MavenStrategy) HasBuildStep() bool         { return true }

func (s *MavenStrategy) CheckPrecondition(svc types.ServiceDescriptor) error {
	if err := s.checkManifest(svc, "pom.xml"); err != nil {
		return err
	}

	// Aggregator layout: every sub-module must carry its own pom. A module
	// directory losing its pom is a configuration defect caught before any
	// build runs.
	for _, module := range s.subModules(svc) {
		pom := filepath.Join(s.serviceDir(svc), module, "pom.xml")
		if !utils.FileExists(pom) {
			return types.NewTaskError(types.FailureMissingManifest, types.StepPrecondition,
				fmt.Errorf("sub-module %s has no pom.xml", module))
		}
	}
	return nil
}

func (s *MavenStrategy) InstallDependencies(ctx context.Context, svc types.ServiceDescriptor) error {
	return s.run(ctx, svc, types.StepDependencies, types.FailureDependencyInstallFailed,
		"mvn", "-q", "-B", "dependency:resolve")
}

func (s *MavenStrategy) Build(ctx context.Context, svc types.ServiceDescriptor) error {
	modules := s.subModules(svc)
	if len(modules) > 0 && s.opts.Logger != nil {
		s.opts.Logger.Info(fmt.Sprintf("aggregator build covering %d sub-modules", len(modules)))
	}

	// The umbrella command at the root builds every module in one reactor
	// run; sub-modules are never built individually.
	return s.run(ctx, svc, types.StepBuild, types.FailureBuildFailed,
		"mvn", "-q", "-B", "-DskipTests", "package")
}

func (s *MavenStrategy) DetectTests(svc types.ServiceDescriptor) bool {
	dir := s.serviceDir(svc)

	if modules := s.subModules(svc); len(modules) > 0 {
		for _, module := range modules {
			if utils.DirectoryExists(filepath.Join(dir, module, "src", "test")) {
				return true
			}
		}
		return false
	}

	return utils.DirectoryExists(filepath.Join(dir, "src", "test"))
}

func (s *MavenStrategy) Test(ctx context.Context, svc types.ServiceDescriptor) error {
	return s.run(ctx, svc, types.StepTest, types.FailureTestFailed,
		"mvn", "-q", "-B", "test")
}

func (s *MavenStrategy) Clean(svc types.ServiceDescriptor) {
	s.removeArtifact(svc, "target")
	for _, module := range s.subModules(svc) {
		s.removeArtifact(svc, filepath.Join(module, "target"))
	}
}

// subModules returns the immediate sub-directories that look like reactor
// modules (they carry their own pom.xml). Empty for single-module projects.
func (s *MavenStrategy) subModules(svc types.ServiceDescriptor) []string {
	return utils.SubdirectoriesWithFile(s.serviceDir(svc), "pom.xml")
}
