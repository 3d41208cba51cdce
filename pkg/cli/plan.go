package cli

import (
	"fmt"
	"sort"

	"github.com/polyforge/polyforge/pkg/registry"
	"github.com/polyforge/polyforge/pkg/types"
)

// planFlags is the raw flag state the resolver validates. Keeping it a value
// type makes resolution testable without cobra.
type planFlags struct {
	All        bool
	Clean      bool
	Test       bool
	Sequential bool
	CleanOnly  bool
	Docker     bool
	Logs       bool
	DryRun     bool
	Names      []string // positional args plus repeated --service values
}

// resolvePlan validates the selection and produces the execution plan.
// Validation is fail-fast: an unknown service name or an empty selection
// aborts before any task runs. When both --all and explicit names are given,
// --all wins and the names are discarded with a warning; this is documented
// precedence, not an error.
func resolvePlan(reg *registry.ServiceRegistry, flags planFlags, warn func(string)) (types.ExecutionPlan, error) {
	plan := types.ExecutionPlan{
		Clean:       flags.Clean,
		Test:        flags.Test,
		CleanOnly:   flags.CleanOnly,
		DryRun:      flags.DryRun,
		CleanDocker: flags.Docker,
		CleanLogs:   flags.Logs,
	}

	selectAll := flags.All

	if selectAll && len(flags.Names) > 0 {
		if warn != nil {
			warn("--all given, ignoring explicitly named services")
		}
		flags.Names = nil
	}

	// Clean-only mode with no other selection covers the whole fleet.
	if flags.CleanOnly && !selectAll && len(flags.Names) == 0 {
		selectAll = true
	}

	if !selectAll && len(flags.Names) == 0 {
		return types.ExecutionPlan{}, types.NewTaskError(
			types.FailureNoServicesSelected, "",
			fmt.Errorf("no services selected: name services, or pass --all"))
	}

	if selectAll {
		services := reg.All()
		sort.Slice(services, func(i, j int) bool {
			return services[i].ID < services[j].ID
		})
		plan.Services = services
	} else {
		seen := make(map[string]bool, len(flags.Names))
		for _, name := range flags.Names {
			if seen[name] {
				if warn != nil {
					warn(fmt.Sprintf("service %s named more than once, keeping first", name))
				}
				continue
			}
			seen[name] = true

			svc, err := reg.Resolve(name)
			if err != nil {
				return types.ExecutionPlan{}, err
			}
			plan.Services = append(plan.Services, svc)
		}
	}

	// Concurrent dispatch is the default only for a full-fleet selection;
	// explicit subsets run in the order they were named.
	plan.Sequential = flags.Sequential || !selectAll

	return plan, nil
}
