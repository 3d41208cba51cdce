package strategies

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/polyforge/polyforge/pkg/mocks"
	"github.com/polyforge/polyforge/pkg/types"
)

// scaffoldService creates a service root under the workspace with the given
// files (path -> content). Directories are created implicitly.
func scaffoldService(t *testing.T, workspace, rel string, files map[string]string) types.ServiceDescriptor {
	t.Helper()

	dir := filepath.Join(workspace, rel)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return types.ServiceDescriptor{ID: filepath.Base(rel), RootPath: rel}
}

func testOptions(workspace string, runner *mocks.MockCommandRunner) Options {
	return Options{WorkspaceRoot: workspace, Runner: runner}
}

func TestFactoryDispatch(t *testing.T) {
	factory := NewStrategyFactory(Options{})

	for _, kind := range types.KnownTechnologies() {
		strategy, err := factory.ForKind(kind)
		if err != nil {
			t.Fatalf("expected strategy for %s, got %v", kind, err)
		}
		if strategy.Kind() != kind {
			t.Errorf("strategy for %s reports kind %s", kind, strategy.Kind())
		}
	}
}

func TestFactoryUnsupportedTechnology(t *testing.T) {
	factory := NewStrategyFactory(Options{})

	_, err := factory.ForKind("haskell")
	if err == nil {
		t.Fatal("expected error for unregistered kind")
	}
	if kind := types.FailureKindOf(err); kind != types.FailureUnsupportedTechnology {
		t.Errorf("expected UnsupportedTechnology, got %q", kind)
	}
}

func TestPreconditionMissingDirectory(t *testing.T) {
	workspace := t.TempDir()
	runner := mocks.NewMockCommandRunner()
	strategy := NewNodeStrategy(testOptions(workspace, runner))

	svc := types.ServiceDescriptor{ID: "ghost", Kind: types.TechnologyNode, RootPath: "services/ghost"}
	err := strategy.CheckPrecondition(svc)
	if kind := types.FailureKindOf(err); kind != types.FailureDirectoryNotFound {
		t.Errorf("expected DirectoryNotFound, got %q (err: %v)", kind, err)
	}
}

func TestPreconditionMissingManifest(t *testing.T) {
	workspace := t.TempDir()
	runner := mocks.NewMockCommandRunner()
	strategy := NewNodeStrategy(testOptions(workspace, runner))

	svc := scaffoldService(t, workspace, "services/api-gateway", map[string]string{
		"index.js": "console.log('hi')",
	})

	err := strategy.CheckPrecondition(svc)
	if kind := types.FailureKindOf(err); kind != types.FailureMissingManifest {
		t.Errorf("expected MissingManifest, got %q (err: %v)", kind, err)
	}
}

func TestNodeBuildSkippedWithoutScript(t *testing.T) {
	workspace := t.TempDir()
	runner := mocks.NewMockCommandRunner()
	strategy := NewNodeStrategy(testOptions(workspace, runner))

	svc := scaffoldService(t, workspace, "services/api-gateway", map[string]string{
		"package.json": `{"name": "api-gateway", "scripts": {"start": "node index.js"}}`,
	})

	if err := strategy.Build(context.Background(), svc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.Calls()) != 0 {
		t.Errorf("expected no command without a build script, got %v", runner.CallStrings())
	}
}

func TestNodeBuildRunsWithScript(t *testing.T) {
	workspace := t.TempDir()
	runner := mocks.NewMockCommandRunner()
	strategy := NewNodeStrategy(testOptions(workspace, runner))

	svc := scaffoldService(t, workspace, "services/api-gateway", map[string]string{
		"package.json": `{"scripts": {"build": "webpack", "test": "jest"}}`,
	})

	if err := strategy.Build(context.Background(), svc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := runner.CallStrings()
	if len(calls) != 1 || calls[0] != "npm run build" {
		t.Errorf("expected npm run build, got %v", calls)
	}
	if !strategy.DetectTests(svc) {
		t.Error("expected test script to be detected")
	}
}

func TestNodeDetectTestsWithoutScript(t *testing.T) {
	workspace := t.TempDir()
	strategy := NewNodeStrategy(testOptions(workspace, mocks.NewMockCommandRunner()))

	svc := scaffoldService(t, workspace, "services/api-gateway", map[string]string{
		"package.json": `{"scripts": {"start": "node index.js"}}`,
	})

	if strategy.DetectTests(svc) {
		t.Error("expected no test facility without a test script")
	}
}

func TestNodeInstallFailureClassified(t *testing.T) {
	workspace := t.TempDir()
	runner := mocks.NewMockCommandRunner()
	runner.FailOn("npm install", os.ErrPermission)
	strategy := NewNodeStrategy(testOptions(workspace, runner))

	svc := scaffoldService(t, workspace, "services/api-gateway", map[string]string{
		"package.json": `{}`,
	})

	err := strategy.InstallDependencies(context.Background(), svc)
	if kind := types.FailureKindOf(err); kind != types.FailureDependencyInstallFailed {
		t.Errorf("expected DependencyInstallFailed, got %q (err: %v)", kind, err)
	}
}

func TestNodeCleanRemovesArtifacts(t *testing.T) {
	workspace := t.TempDir()
	strategy := NewNodeStrategy(testOptions(workspace, mocks.NewMockCommandRunner()))

	svc := scaffoldService(t, workspace, "services/api-gateway", map[string]string{
		"package.json":              `{}`,
		"node_modules/dep/index.js": "module.exports = {}",
		"dist/bundle.js":            "bundled",
		"src/index.js":              "source",
	})

	strategy.Clean(svc)

	dir := filepath.Join(workspace, svc.RootPath)
	if _, err := os.Stat(filepath.Join(dir, "node_modules")); !os.IsNotExist(err) {
		t.Error("expected node_modules to be removed")
	}
	if _, err := os.Stat(filepath.Join(dir, "dist")); !os.IsNotExist(err) {
		t.Error("expected dist to be removed")
	}
	if _, err := os.Stat(filepath.Join(dir, "src", "index.js")); err != nil {
		t.Error("expected source files to survive clean")
	}
}

func TestCleanDryRunTouchesNothing(t *testing.T) {
	workspace := t.TempDir()
	opts := testOptions(workspace, mocks.NewMockCommandRunner())
	opts.DryRun = true
	strategy := NewNodeStrategy(opts)

	svc := scaffoldService(t, workspace, "services/api-gateway", map[string]string{
		"package.json":              `{}`,
		"node_modules/dep/index.js": "module.exports = {}",
	})

	strategy.Clean(svc)

	if _, err := os.Stat(filepath.Join(workspace, svc.RootPath, "node_modules")); err != nil {
		t.Error("dry-run clean must not remove artifacts")
	}
}

func TestMavenSingleModule(t *testing.T) {
	workspace := t.TempDir()
	runner := mocks.NewMockCommandRunner()
	strategy := NewMavenStrategy(testOptions(workspace, runner))

	svc := scaffoldService(t, workspace, "services/order-service", map[string]string{
		"pom.xml":                    "<project/>",
		"src/test/java/AppTest.java": "class AppTest {}",
	})

	if err := strategy.CheckPrecondition(svc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strategy.DetectTests(svc) {
		t.Error("expected src/test to be detected")
	}

	if err := strategy.Build(context.Background(), svc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	calls := runner.CallStrings()
	if len(calls) != 1 || calls[0] != "mvn -q -B -DskipTests package" {
		t.Errorf("expected single umbrella build, got %v", calls)
	}
}

func TestMavenAggregator(t *testing.T) {
	workspace := t.TempDir()
	runner := mocks.NewMockCommandRunner()
	strategy := NewMavenStrategy(testOptions(workspace, runner))

	svc := scaffoldService(t, workspace, "services/order-service", map[string]string{
		"pom.xml":                                "<project/>",
		"order-api/pom.xml":                      "<project/>",
		"order-core/pom.xml":                     "<project/>",
		"order-core/src/test/java/CoreTest.java": "class CoreTest {}",
	})

	if err := strategy.CheckPrecondition(svc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strategy.DetectTests(svc) {
		t.Error("expected sub-module tests to be detected")
	}

	// One reactor build at the root, never per module.
	if err := strategy.Build(context.Background(), svc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls := runner.Calls(); len(calls) != 1 {
		t.Errorf("expected one umbrella command, got %d", len(calls))
	}
}

func TestMavenAggregatorMissingModulePom(t *testing.T) {
	workspace := t.TempDir()
	strategy := NewMavenStrategy(testOptions(workspace, mocks.NewMockCommandRunner()))

	// Sub-directory without pom.xml is not a module and is ignored.
	svc := scaffoldService(t, workspace, "services/order-service", map[string]string{
		"pom.xml":        "<project/>",
		"docs/README.md": "docs",
	})

	if err := strategy.CheckPrecondition(svc); err != nil {
		t.Fatalf("non-module directories must not fail precondition: %v", err)
	}
	if strategy.DetectTests(svc) {
		t.Error("expected no tests without src/test")
	}
}

func TestMavenAggregatorTestDetectionIgnoresRoot(t *testing.T) {
	workspace := t.TempDir()
	strategy := NewMavenStrategy(testOptions(workspace, mocks.NewMockCommandRunner()))

	// In aggregator layout only module src/test counts; a stray root
	// src/test does not.
	svc := scaffoldService(t, workspace, "services/order-service", map[string]string{
		"pom.xml":                    "<project/>",
		"order-api/pom.xml":          "<project/>",
		"src/test/java/AppTest.java": "class AppTest {}",
	})

	if strategy.DetectTests(svc) {
		t.Error("aggregator detection must only scan modules")
	}
}

func TestPythonHasNoBuildStep(t *testing.T) {
	workspace := t.TempDir()
	runner := mocks.NewMockCommandRunner()
	strategy := NewPythonStrategy(testOptions(workspace, runner))

	if strategy.HasBuildStep() {
		t.Fatal("python services are interpreted")
	}

	svc := scaffoldService(t, workspace, "services/payment-service", map[string]string{
		"requirements.txt":  "flask==3.0",
		"tests/test_app.py": "def test_ok(): pass",
	})

	if err := strategy.Build(context.Background(), svc); err != nil {
		t.Fatalf("no-op build must not fail: %v", err)
	}
	if len(runner.Calls()) != 0 {
		t.Errorf("no-op build must not run commands, got %v", runner.CallStrings())
	}
	if !strategy.DetectTests(svc) {
		t.Error("expected tests/ directory to be detected")
	}
}

func TestGoDetectTests(t *testing.T) {
	workspace := t.TempDir()
	strategy := NewGoStrategy(testOptions(workspace, mocks.NewMockCommandRunner()))

	svc := scaffoldService(t, workspace, "services/inventory-service", map[string]string{
		"go.mod":                       "module inventory",
		"internal/stock/stock.go":      "package stock",
		"internal/stock/stock_test.go": "package stock",
	})

	if !strategy.DetectTests(svc) {
		t.Error("expected nested _test.go file to be detected")
	}

	bare := scaffoldService(t, workspace, "services/bare-service", map[string]string{
		"go.mod":  "module bare",
		"main.go": "package main",
	})
	if strategy.DetectTests(bare) {
		t.Error("expected no tests without _test.go files")
	}
}

func TestRustDetectTests(t *testing.T) {
	workspace := t.TempDir()
	strategy := NewRustStrategy(testOptions(workspace, mocks.NewMockCommandRunner()))

	svc := scaffoldService(t, workspace, "services/notification-service", map[string]string{
		"Cargo.toml":           "[package]",
		"tests/integration.rs": "#[test] fn ok() {}",
	})
	if !strategy.DetectTests(svc) {
		t.Error("expected tests/ directory to be detected")
	}

	bare := scaffoldService(t, workspace, "services/bare-rust", map[string]string{
		"Cargo.toml":  "[package]",
		"src/main.rs": "fn main() {}",
	})
	if strategy.DetectTests(bare) {
		t.Error("inline unit tests are not detectable")
	}
}

func TestRunWritesBuildLog(t *testing.T) {
	workspace := t.TempDir()
	runner := mocks.NewMockCommandRunner()
	strategy := NewGoStrategy(testOptions(workspace, runner))

	svc := scaffoldService(t, workspace, "services/inventory-service", map[string]string{
		"go.mod": "module inventory",
	})

	if err := strategy.InstallDependencies(context.Background(), svc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logPath := filepath.Join(workspace, LogDirName, "inventory-service.log")
	if _, err := os.Stat(logPath); err != nil {
		t.Errorf("expected build log at %s: %v", logPath, err)
	}
}

func TestRunDryRunWritesNoLog(t *testing.T) {
	workspace := t.TempDir()
	opts := testOptions(workspace, mocks.NewMockCommandRunner())
	opts.DryRun = true
	strategy := NewGoStrategy(opts)

	svc := scaffoldService(t, workspace, "services/inventory-service", map[string]string{
		"go.mod": "module inventory",
	})

	if err := strategy.InstallDependencies(context.Background(), svc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(workspace, ".polyforge")); !os.IsNotExist(err) {
		t.Error("dry run must not create the log directory")
	}
}

func TestRunCommandsCarryServiceDir(t *testing.T) {
	workspace := t.TempDir()
	runner := mocks.NewMockCommandRunner()
	strategy := NewRustStrategy(testOptions(workspace, runner))

	svc := scaffoldService(t, workspace, "services/notification-service", map[string]string{
		"Cargo.toml": "[package]",
	})

	if err := strategy.Build(context.Background(), svc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := runner.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected one command, got %d", len(calls))
	}
	want := filepath.Join(workspace, "services/notification-service")
	if calls[0].Dir != want {
		t.Errorf("expected command dir %s, got %s", want, calls[0].Dir)
	}

	var found bool
	for _, c := range calls {
		if strings.HasPrefix(c.String(), "cargo build") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected cargo build, got %v", runner.CallStrings())
	}
}
