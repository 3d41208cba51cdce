package types

import (
	"errors"
	"fmt"
)

// FailureKind classifies why a task or invocation failed. The values are
// user-visible: they appear verbatim in the detail column of the final
// report.
type FailureKind string

const (
	FailureUnknownService          FailureKind = "UnknownService"
	FailureNoServicesSelected      FailureKind = "NoServicesSelected"
	FailureUnsupportedTechnology   FailureKind = "UnsupportedTechnology"
	FailureMissingManifest         FailureKind = "MissingManifest"
	FailureDependencyInstallFailed FailureKind = "DependencyInstallFailed"
	FailureBuildFailed             FailureKind = "BuildFailed"
	FailureTestFailed              FailureKind = "TestFailed"
	FailureDirectoryNotFound       FailureKind = "DirectoryNotFound"
)

// TaskError is a classified failure produced by a build step. It wraps the
// underlying cause so callers can still inspect it with errors.Is/As.
type TaskError struct {
	Kind FailureKind
	Step StepKind
	Err  error
}

func (e *TaskError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// NewTaskError wraps err as a classified step failure.
func NewTaskError(kind FailureKind, step StepKind, err error) *TaskError {
	return &TaskError{Kind: kind, Step: step, Err: err}
}

// FailureKindOf extracts the failure kind from err, or empty if err carries
// no classification.
func FailureKindOf(err error) FailureKind {
	var te *TaskError
	if errors.As(err, &te) {
		return te.Kind
	}
	return ""
}
