package strategies

import (
	"context"
	"path/filepath"

	"github.com/polyforge/polyforge/pkg/types"
	"github.com/polyforge/polyforge/pkg/utils"
)

// PythonStrategy handles interpreted pip-based services. Python services
// have no build step: after dependency installation they go straight to
// test eligibility.
type PythonStrategy struct {
	baseStrategy
}

// NewPythonStrategy creates the strategy for python services.
func NewPythonStrategy(opts Options) *PythonStrategy {
	return &PythonStrategy{baseStrategy: newBase(opts)}
}

func (s *PythonStrategy) Kind() types.TechnologyKind { return types.TechnologyPython }
func (s *PythonStrategy) ManifestName() string       { return "requirements.txt" }
func (s *PythonStrategy) HasBuildStep() bool         { return false }

func (s *PythonStrategy) CheckPrecondition(svc types.ServiceDescriptor) error {
	return s.checkManifest(svc, "requirements.txt")
}

func (s *PythonStrategy) InstallDependencies(ctx context.Context, svc types.ServiceDescriptor) error {
	return s.run(ctx, svc, types.StepDependencies, types.FailureDependencyInstallFailed,
		"pip", "install", "-r", "requirements.txt")
}

// Build is never invoked for python services; HasBuildStep is false.
func (s *PythonStrategy) Build(_ context.Context, _ types.ServiceDescriptor) error {
	return nil
}

func (s *PythonStrategy) DetectTests(svc types.ServiceDescriptor) bool {
	dir := s.serviceDir(svc)
	return utils.DirectoryExists(filepath.Join(dir, "tests")) ||
		utils.FileExists(filepath.Join(dir, "pytest.ini")) ||
		utils.FileExists(filepath.Join(dir, "setup.cfg"))
}

func (s *PythonStrategy) Test(ctx context.Context, svc types.ServiceDescriptor) error {
	return s.run(ctx, svc, types.StepTest, types.FailureTestFailed,
		"pytest", "-q")
}

func (s *PythonStrategy) Clean(svc types.ServiceDescriptor) {
	s.removeArtifact(svc, "__pycache__")
	s.removeArtifact(svc, ".pytest_cache")
	s.removeArtifact(svc, ".mypy_cache")
	s.removeArtifact(svc, ".coverage")
	s.removeArtifact(svc, "htmlcov")
}
