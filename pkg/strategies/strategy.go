// Package strategies provides the per-technology build procedures the
// orchestrator dispatches on. The set of technologies is closed: one
// strategy per types.TechnologyKind, selected by the factory switch in
// ForKind.
package strategies

import (
	"context"

	"github.com/polyforge/polyforge/pkg/types"
)

// Strategy is the capability surface every technology kind implements. The
// task runner drives the steps in lifecycle order (clean, precondition,
// dependencies, build, test) and stops at the first failure.
type Strategy interface {
	// Kind returns the technology this strategy builds.
	Kind() types.TechnologyKind

	// ManifestName returns the dependency-manifest artifact the
	// precondition checks for, for display purposes.
	ManifestName() string

	// CheckPrecondition verifies the service root and its manifest exist.
	// It performs no mutation and therefore runs identically in dry-run
	// mode.
	CheckPrecondition(svc types.ServiceDescriptor) error

	// InstallDependencies fetches or installs the service's dependencies.
	InstallDependencies(ctx context.Context, svc types.ServiceDescriptor) error

	// HasBuildStep reports whether this technology compiles anything.
	// Interpreted technologies skip straight from dependencies to tests.
	HasBuildStep() bool

	// Build compiles or bundles the service. Only called when
	// HasBuildStep is true.
	Build(ctx context.Context, svc types.ServiceDescriptor) error

	// DetectTests reports whether a test facility is present at the
	// service root. When absent, the test step is skipped with a warning
	// rather than failed.
	DetectTests(svc types.ServiceDescriptor) bool

	// Test runs the service's test suite.
	Test(ctx context.Context, svc types.ServiceDescriptor) error

	// Clean removes technology-specific generated artifacts. Always
	// best-effort: missing artifacts are no-ops, never errors.
	Clean(svc types.ServiceDescriptor)
}
