package strategies

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/polyforge/polyforge/pkg/types"
)

// NodeStrategy builds npm-based services.
type NodeStrategy struct {
	baseStrategy
}

// NewNodeStrategy creates the strategy for node services.
func NewNodeStrategy(opts Options) *NodeStrategy {
	return &NodeStrategy{baseStrategy: newBase(opts)}
}

func (s *NodeStrategy) Kind() types.TechnologyKind { return types.TechnologyNode }
func (s *NodeStrategy) ManifestName() string       { return "package.json" }
func (s *NodeStrategy) HasBuildStep() bool         { return true }

func (s *NodeStrategy) CheckPrecondition(svc types.ServiceDescriptor) error {
	return s.checkManifest(svc, "package.json")
}

func (s *NodeStrategy) InstallDependencies(ctx context.Context, svc types.ServiceDescriptor) error {
	return s.run(ctx, svc, types.StepDependencies, types.FailureDependencyInstallFailed,
		"npm", "install", "--no-audit", "--no-fund")
}

func (s *NodeStrategy) Build(ctx context.Context, svc types.ServiceDescriptor) error {
	// "npm run build" only makes sense when the package declares a build
	// script; packages without one are served as-is.
	if !s.hasScript(svc, "build") {
		if s.opts.Logger != nil {
			s.opts.Logger.Debug("no build script declared, skipping bundle step")
		}
		return nil
	}
	return s.run(ctx, svc, types.StepBuild, types.FailureBuildFailed,
		"npm", "run", "build")
}

func (s *NodeStrategy) DetectTests(svc types.ServiceDescriptor) bool {
	return s.hasScript(svc, "test")
}

func (s *NodeStrategy) Test(ctx context.Context, svc types.ServiceDescriptor) error {
	return s.run(ctx, svc, types.StepTest, types.FailureTestFailed,
		"npm", "test")
}

func (s *NodeStrategy) Clean(svc types.ServiceDescriptor) {
	s.removeArtifact(svc, "node_modules")
	s.removeArtifact(svc, "dist")
	s.removeArtifact(svc, "build")
	s.removeArtifact(svc, "coverage")
	s.removeArtifact(svc, ".nyc_output")
}

// hasScript reports whether package.json declares the named script.
func (s *NodeStrategy) hasScript(svc types.ServiceDescriptor, script string) bool {
	data, err := os.ReadFile(filepath.Join(s.serviceDir(svc), "package.json"))
	if err != nil {
		return false
	}

	var pkg struct {
		Scripts map[string]string `json:"scripts"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return false
	}

	return pkg.Scripts[script] != ""
}
