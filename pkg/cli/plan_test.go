package cli

import (
	"strings"
	"testing"

	"github.com/polyforge/polyforge/pkg/registry"
	"github.com/polyforge/polyforge/pkg/types"
)

func TestResolvePlanExplicitNames(t *testing.T) {
	reg := registry.NewDefault()

	plan, err := resolvePlan(reg, planFlags{Names: []string{"order-service", "api-gateway"}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(plan.Services) != 2 {
		t.Fatalf("expected 2 services, got %d", len(plan.Services))
	}
	// Named order is preserved, not sorted.
	if plan.Services[0].ID != "order-service" || plan.Services[1].ID != "api-gateway" {
		t.Errorf("expected named order, got %v", plan.Services)
	}
	if !plan.Sequential {
		t.Error("explicit subsets run sequentially")
	}
}

func TestResolvePlanAll(t *testing.T) {
	reg := registry.NewDefault()

	plan, err := resolvePlan(reg, planFlags{All: true}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(plan.Services) != reg.Len() {
		t.Fatalf("expected full fleet, got %d", len(plan.Services))
	}
	for i := 1; i < len(plan.Services); i++ {
		if plan.Services[i-1].ID > plan.Services[i].ID {
			t.Errorf("fleet selection must be id-sorted: %v", plan.Services)
		}
	}
	if plan.Sequential {
		t.Error("full-fleet selection defaults to concurrent dispatch")
	}
}

func TestResolvePlanAllWinsOverNames(t *testing.T) {
	reg := registry.NewDefault()

	var warned []string
	warn := func(msg string) { warned = append(warned, msg) }

	plan, err := resolvePlan(reg, planFlags{All: true, Names: []string{"api-gateway"}}, warn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(plan.Services) != reg.Len() {
		t.Errorf("expected full fleet despite named services, got %d", len(plan.Services))
	}
	if len(warned) != 1 || !strings.Contains(warned[0], "--all") {
		t.Errorf("expected a precedence warning, got %v", warned)
	}
}

func TestResolvePlanNoSelection(t *testing.T) {
	_, err := resolvePlan(registry.NewDefault(), planFlags{}, nil)
	if err == nil {
		t.Fatal("expected error for empty selection")
	}
	if kind := types.FailureKindOf(err); kind != types.FailureNoServicesSelected {
		t.Errorf("expected NoServicesSelected, got %q", kind)
	}
}

func TestResolvePlanUnknownServiceFailsFast(t *testing.T) {
	_, err := resolvePlan(registry.NewDefault(), planFlags{Names: []string{"api-gateway", "ghost"}}, nil)
	if err == nil {
		t.Fatal("expected error for unknown service")
	}
	if kind := types.FailureKindOf(err); kind != types.FailureUnknownService {
		t.Errorf("expected UnknownService, got %q", kind)
	}
}

func TestResolvePlanDeduplicatesNames(t *testing.T) {
	var warned []string
	warn := func(msg string) { warned = append(warned, msg) }

	plan, err := resolvePlan(registry.NewDefault(),
		planFlags{Names: []string{"api-gateway", "api-gateway"}}, warn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Services) != 1 {
		t.Errorf("expected duplicate to collapse, got %d services", len(plan.Services))
	}
	if len(warned) != 1 {
		t.Errorf("expected a duplicate warning, got %v", warned)
	}
}

func TestResolvePlanCleanOnlyDefaultsToFleet(t *testing.T) {
	reg := registry.NewDefault()

	plan, err := resolvePlan(reg, planFlags{CleanOnly: true, Docker: true, Logs: true}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(plan.Services) != reg.Len() {
		t.Errorf("clean-only with no selection covers the fleet, got %d", len(plan.Services))
	}
	if !plan.CleanOnly || !plan.CleanDocker || !plan.CleanLogs {
		t.Error("clean sub-flags must carry through")
	}
}

func TestResolvePlanCleanOnlySubset(t *testing.T) {
	plan, err := resolvePlan(registry.NewDefault(),
		planFlags{CleanOnly: true, Names: []string{"order-service"}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Services) != 1 || plan.Services[0].ID != "order-service" {
		t.Errorf("expected named subset, got %v", plan.Services)
	}
}

func TestResolvePlanSequentialFlag(t *testing.T) {
	plan, err := resolvePlan(registry.NewDefault(), planFlags{All: true, Sequential: true}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.Sequential {
		t.Error("--sequential must force sequential dispatch")
	}
}

func TestResolvePlanCarriesModeFlags(t *testing.T) {
	plan, err := resolvePlan(registry.NewDefault(),
		planFlags{All: true, Clean: true, Test: true, DryRun: true}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.Clean || !plan.Test || !plan.DryRun {
		t.Errorf("mode flags lost in resolution: %+v", plan)
	}
}
