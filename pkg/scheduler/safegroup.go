package scheduler

import (
	"fmt"
	"runtime/debug"

	"golang.org/x/sync/errgroup"

	"github.com/polyforge/polyforge/pkg/logger"
)

// SafeGroup wraps errgroup.Group with panic recovery so one misbehaving
// worker cannot take down the batch. It does not derive a cancellable
// context: a failing task must never cancel its siblings.
type SafeGroup struct {
	group  errgroup.Group
	logger logger.Logger
}

// NewSafeGroup creates a new SafeGroup with panic recovery
func NewSafeGroup(log logger.Logger) *SafeGroup {
	return &SafeGroup{logger: log}
}

// Go runs the given function in a new goroutine with panic recovery.
// Any panic is converted to an error and logged with stack trace.
func (sg *SafeGroup) Go(fn func() error) {
	sg.group.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()

				if sg.logger != nil {
					sg.logger.Error("Worker panic recovered",
						logger.WithField("panic", r),
						logger.WithField("stack_trace", string(stack)))
				}

				err = fmt.Errorf("worker panic: %v", r)
			}
		}()

		return fn()
	})
}

// SetLimit caps the number of concurrently running workers. The scheduler
// leaves the group unbounded; the seam exists for callers that need one.
func (sg *SafeGroup) SetLimit(n int) {
	sg.group.SetLimit(n)
}

// Wait blocks until all workers have terminated and returns the first error
// encountered, if any.
func (sg *SafeGroup) Wait() error {
	return sg.group.Wait()
}
