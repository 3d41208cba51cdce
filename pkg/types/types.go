// Package types provides core types shared across the polyforge engine
package types

import (
	"fmt"
	"time"
)

// TechnologyKind identifies the build toolchain family a service belongs to.
// The set is fixed; dispatch over it happens in the strategies package.
type TechnologyKind string

const (
	TechnologyNode   TechnologyKind = "node"
	TechnologyMaven  TechnologyKind = "maven"
	TechnologyPython TechnologyKind = "python"
	TechnologyGo     TechnologyKind = "go"
	TechnologyRust   TechnologyKind = "rust"
)

// KnownTechnologies lists every technology kind with a registered strategy.
func KnownTechnologies() []TechnologyKind {
	return []TechnologyKind{
		TechnologyNode,
		TechnologyMaven,
		TechnologyPython,
		TechnologyGo,
		TechnologyRust,
	}
}

// IsKnownTechnology reports whether kind is part of the closed set.
func IsKnownTechnology(kind TechnologyKind) bool {
	switch kind {
	case TechnologyNode, TechnologyMaven, TechnologyPython, TechnologyGo, TechnologyRust:
		return true
	}
	return false
}

// BuildStatus represents the terminal state of a build task
type BuildStatus string

const (
	BuildStatusSucceeded BuildStatus = "succeeded"
	BuildStatusFailed    BuildStatus = "failed"
)

// StepKind identifies a phase of a service's build lifecycle
type StepKind string

const (
	StepClean        StepKind = "clean"
	StepPrecondition StepKind = "precondition"
	StepDependencies StepKind = "dependencies"
	StepBuild        StepKind = "build"
	StepTest         StepKind = "test"
)

// LogLevel represents logging verbosity levels
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// ServiceDescriptor describes one buildable service. Descriptors are created
// once at startup from the registry table and never mutated afterwards.
type ServiceDescriptor struct {
	ID       string         `json:"id" yaml:"id"`
	Kind     TechnologyKind `json:"kind" yaml:"kind"`
	RootPath string         `json:"rootPath" yaml:"rootPath"`
}

func (s ServiceDescriptor) String() string {
	return fmt.Sprintf("%s (%s, %s)", s.ID, s.Kind, s.RootPath)
}

// ExecutionPlan is the validated outcome of CLI argument resolution.
type ExecutionPlan struct {
	Services []ServiceDescriptor

	Clean      bool
	Test       bool
	Sequential bool
	CleanOnly  bool
	DryRun     bool

	// Clean-only sub-flags.
	CleanDocker bool
	CleanLogs   bool
}

// BuildTask tracks one in-flight attempt to build a single service. It is
// created by the scheduler when a service is dispatched and folded into a
// BuildResult once a terminal outcome is known.
type BuildTask struct {
	ID        string
	Service   ServiceDescriptor
	Plan      ExecutionPlan
	StartTime time.Time
	EndTime   time.Time
	Status    BuildStatus
	Detail    string
}

// Finish records the terminal outcome and returns the immutable snapshot.
func (t *BuildTask) Finish(status BuildStatus, detail string) BuildResult {
	t.EndTime = time.Now()
	t.Status = status
	t.Detail = detail

	return BuildResult{
		ServiceID: t.Service.ID,
		Kind:      t.Service.Kind,
		Status:    status,
		Duration:  t.EndTime.Sub(t.StartTime),
		Detail:    detail,
	}
}

// BuildResult is the immutable terminal snapshot of one task. Once recorded
// it is owned by the aggregator and used only for rendering and exit-code
// computation.
type BuildResult struct {
	ServiceID string         `json:"serviceId"`
	Kind      TechnologyKind `json:"kind"`
	Status    BuildStatus    `json:"status"`
	Duration  time.Duration  `json:"duration"`
	Detail    string         `json:"detail,omitempty"`
}

// Succeeded reports whether the task reached a successful terminal state.
func (r BuildResult) Succeeded() bool {
	return r.Status == BuildStatusSucceeded
}
