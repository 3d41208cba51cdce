package strategies

import (
	"fmt"

	"github.com/polyforge/polyforge/pkg/types"
)

// StrategyFactory creates strategies based on technology kind
type StrategyFactory struct {
	opts Options
}

// NewStrategyFactory creates a new strategy factory
func NewStrategyFactory(opts Options) *StrategyFactory {
	return &StrategyFactory{opts: opts}
}

// ForKind returns the strategy registered for a technology kind. A kind
// without a strategy is a configuration defect: the caller reports it
// through the normal result channel as UnsupportedTechnology.
func (f *StrategyFactory) ForKind(kind types.TechnologyKind) (Strategy, error) {
	switch kind {
	case types.TechnologyNode:
		return NewNodeStrategy(f.opts), nil

	case types.TechnologyMaven:
		return NewMavenStrategy(f.opts), nil

	case types.TechnologyPython:
		return NewPythonStrategy(f.opts), nil

	case types.TechnologyGo:
		return NewGoStrategy(f.opts), nil

	case types.TechnologyRust:
		return NewRustStrategy(f.opts), nil

	default:
		return nil, types.NewTaskError(types.FailureUnsupportedTechnology, "",
			fmt.Errorf("no strategy registered for technology %q", kind))
	}
}
