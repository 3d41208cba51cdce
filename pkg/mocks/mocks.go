// Package mocks provides mock implementations of interfaces for testing.
// These follow Go best practices for test doubles.
package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/polyforge/polyforge/pkg/process"
	"github.com/polyforge/polyforge/pkg/types"
)

// MockCommandRunner records every command it is asked to run and fails the
// ones whose leading words match a scripted prefix.
type MockCommandRunner struct {
	mu       sync.Mutex
	calls    []process.Command
	failures map[string]error
}

// NewMockCommandRunner creates a new mock command runner
func NewMockCommandRunner() *MockCommandRunner {
	return &MockCommandRunner{
		failures: make(map[string]error),
	}
}

// FailOn makes every command whose string form starts with prefix fail.
func (m *MockCommandRunner) FailOn(prefix string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[prefix] = err
}

// Run records the call and returns the scripted outcome.
func (m *MockCommandRunner) Run(_ context.Context, cmd process.Command) (process.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, cmd)

	cmdString := cmd.String()
	for prefix, err := range m.failures {
		if len(cmdString) >= len(prefix) && cmdString[:len(prefix)] == prefix {
			return process.Result{ExitCode: 1, Output: []byte("mock failure")}, err
		}
	}
	return process.Result{Output: []byte("ok")}, nil
}

// Calls returns a copy of the recorded commands.
func (m *MockCommandRunner) Calls() []process.Command {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]process.Command, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallStrings returns the string form of every recorded command, in order.
func (m *MockCommandRunner) CallStrings() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.calls))
	for _, c := range m.calls {
		out = append(out, c.String())
	}
	return out
}

// MockExecutor is a scheduler.TaskExecutor whose per-service outcomes are
// scripted up front.
type MockExecutor struct {
	mu       sync.Mutex
	statuses map[string]types.BuildStatus
	details  map[string]string
	ran      []string
}

// NewMockExecutor creates a new mock task executor
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{
		statuses: make(map[string]types.BuildStatus),
		details:  make(map[string]string),
	}
}

// ScriptResult sets the outcome for a service id. Unscripted services
// succeed.
func (m *MockExecutor) ScriptResult(serviceID string, status types.BuildStatus, detail string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[serviceID] = status
	m.details[serviceID] = detail
}

// Run returns the scripted result for the service.
func (m *MockExecutor) Run(_ context.Context, svc types.ServiceDescriptor, _ types.ExecutionPlan) types.BuildResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ran = append(m.ran, svc.ID)

	status, ok := m.statuses[svc.ID]
	if !ok {
		status = types.BuildStatusSucceeded
	}
	return types.BuildResult{
		ServiceID: svc.ID,
		Kind:      svc.Kind,
		Status:    status,
		Detail:    m.details[svc.ID],
	}
}

// Ran returns the service ids in dispatch-completion order.
func (m *MockExecutor) Ran() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, len(m.ran))
	copy(out, m.ran)
	return out
}

// PanicExecutor panics for scripted services, to exercise worker isolation.
type PanicExecutor struct {
	Inner    *MockExecutor
	PanicFor map[string]bool
}

// Run panics when scripted to, otherwise delegates.
func (p *PanicExecutor) Run(ctx context.Context, svc types.ServiceDescriptor, plan types.ExecutionPlan) types.BuildResult {
	if p.PanicFor[svc.ID] {
		panic(fmt.Sprintf("scripted panic for %s", svc.ID))
	}
	return p.Inner.Run(ctx, svc, plan)
}
