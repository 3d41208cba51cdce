package strategies

import (
	"context"
	"path/filepath"

	"github.com/polyforge/polyforge/pkg/types"
	"github.com/polyforge/polyforge/pkg/utils"
)

// RustStrategy builds cargo-based services.
type RustStrategy struct {
	baseStrategy
}

// NewRustStrategy creates the strategy for rust services.
func NewRustStrategy(opts Options) *RustStrategy {
	return &RustStrategy{baseStrategy: newBase(opts)}
}

func (s *RustStrategy) Kind() types.TechnologyKind { return types.TechnologyRust }
func (s *RustStrategy) ManifestName() string       { return "Cargo.toml" }
func (s *RustStrategy) HasBuildStep() bool         { return true }

func (s *RustStrategy) CheckPrecondition(svc types.ServiceDescriptor) error {
	return s.checkManifest(svc, "Cargo.toml")
}

func (s *RustStrategy) InstallDependencies(ctx context.Context, svc types.ServiceDescriptor) error {
	return s.run(ctx, svc, types.StepDependencies, types.FailureDependencyInstallFailed,
		"cargo", "fetch")
}

func (s *RustStrategy) Build(ctx context.Context, svc types.ServiceDescriptor) error {
	return s.run(ctx, svc, types.StepBuild, types.FailureBuildFailed,
		"cargo", "build", "--release")
}

func (s *RustStrategy) DetectTests(svc types.ServiceDescriptor) bool {
	// Only the dedicated integration-test directory counts as a test
	// facility; inline unit tests are invisible without parsing sources.
	return utils.DirectoryExists(filepath.Join(s.serviceDir(svc), "tests"))
}

func (s *RustStrategy) Test(ctx context.Context, svc types.ServiceDescriptor) error {
	return s.run(ctx, svc, types.StepTest, types.FailureTestFailed,
		"cargo", "test", "--release")
}

func (s *RustStrategy) Clean(svc types.ServiceDescriptor) {
	s.removeArtifact(svc, "target")
}
