// Package registry provides the static service table the orchestrator
// operates on. The table maps service identifiers to their technology kind
// and workspace-relative location; it is built once at process start and
// never mutated afterwards.
package registry

import (
	"fmt"

	"github.com/polyforge/polyforge/pkg/types"
)

// ServiceRegistry resolves service identifiers to descriptors.
type ServiceRegistry struct {
	services map[string]types.ServiceDescriptor
}

// defaultServices is the built-in service table. A config file may extend or
// override it (see pkg/config).
func defaultServices() []types.ServiceDescriptor {
	return []types.ServiceDescriptor{
		{ID: "api-gateway", Kind: types.TechnologyNode, RootPath: "services/api-gateway"},
		{ID: "user-service", Kind: types.TechnologyNode, RootPath: "services/user-service"},
		{ID: "order-service", Kind: types.TechnologyMaven, RootPath: "services/order-service"},
		{ID: "payment-service", Kind: types.TechnologyPython, RootPath: "services/payment-service"},
		{ID: "inventory-service", Kind: types.TechnologyGo, RootPath: "services/inventory-service"},
		{ID: "notification-service", Kind: types.TechnologyRust, RootPath: "services/notification-service"},
	}
}

// NewDefault builds a registry from the built-in table.
func NewDefault() *ServiceRegistry {
	reg, _ := New(defaultServices())
	return reg
}

// New builds a registry from the given descriptors. Duplicate ids and
// unknown technology kinds are configuration defects and rejected outright.
func New(services []types.ServiceDescriptor) (*ServiceRegistry, error) {
	table := make(map[string]types.ServiceDescriptor, len(services))
	for _, svc := range services {
		if svc.ID == "" {
			return nil, fmt.Errorf("service with empty id")
		}
		if _, ok := table[svc.ID]; ok {
			return nil, fmt.Errorf("duplicate service id: %s", svc.ID)
		}
		if !types.IsKnownTechnology(svc.Kind) {
			return nil, fmt.Errorf("service %s: unknown technology kind %q", svc.ID, svc.Kind)
		}
		if svc.RootPath == "" {
			return nil, fmt.Errorf("service %s: missing root path", svc.ID)
		}
		table[svc.ID] = svc
	}
	return &ServiceRegistry{services: table}, nil
}

// Resolve returns the descriptor for id. Unknown ids fail with an
// UnknownService error before any task runs.
func (r *ServiceRegistry) Resolve(id string) (types.ServiceDescriptor, error) {
	svc, ok := r.services[id]
	if !ok {
		return types.ServiceDescriptor{}, types.NewTaskError(
			types.FailureUnknownService, "",
			fmt.Errorf("service %q is not registered", id))
	}
	return svc, nil
}

// All returns every registered service. Iteration order is not stable;
// consumers that render output must sort by id themselves.
func (r *ServiceRegistry) All() []types.ServiceDescriptor {
	out := make([]types.ServiceDescriptor, 0, len(r.services))
	for _, svc := range r.services {
		out = append(out, svc)
	}
	return out
}

// Len returns the number of registered services.
func (r *ServiceRegistry) Len() int {
	return len(r.services)
}
