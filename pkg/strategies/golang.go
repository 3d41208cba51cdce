package strategies

import (
	"context"

	"github.com/polyforge/polyforge/pkg/types"
	"github.com/polyforge/polyforge/pkg/utils"
)

// GoStrategy builds Go module services.
type GoStrategy struct {
	baseStrategy
}

// NewGoStrategy creates the strategy for go services.
func NewGoStrategy(opts Options) *GoStrategy {
	return &GoStrategy{baseStrategy: newBase(opts)}
}

func (s *GoStrategy) Kind() types.TechnologyKind { return types.TechnologyGo }
func (s *GoStrategy) ManifestName() string       { return "go.mod" }
func (s *GoStrategy) HasBuildStep() bool         { return true }

func (s *GoStrategy) CheckPrecondition(svc types.ServiceDescriptor) error {
	return s.checkManifest(svc, "go.mod")
}

func (s *GoStrategy) InstallDependencies(ctx context.Context, svc types.ServiceDescriptor) error {
	return s.run(ctx, svc, types.StepDependencies, types.FailureDependencyInstallFailed,
		"go", "mod", "download")
}

func (s *GoStrategy) Build(ctx context.Context, svc types.ServiceDescriptor) error {
	return s.run(ctx, svc, types.StepBuild, types.FailureBuildFailed,
		"go", "build", "./...")
}

func (s *GoStrategy) DetectTests(svc types.ServiceDescriptor) bool {
	return utils.ContainsFileWithSuffix(s.serviceDir(svc), "_test.go")
}

func (s *GoStrategy) Test(ctx context.Context, svc types.ServiceDescriptor) error {
	return s.run(ctx, svc, types.StepTest, types.FailureTestFailed,
		"go", "test", "./...")
}

func (s *GoStrategy) Clean(svc types.ServiceDescriptor) {
	s.removeArtifact(svc, "bin")
	s.removeArtifact(svc, "coverage.out")
}
