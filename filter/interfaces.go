package filter

import (
	"github.com/s0up4200/wxapis/node"
)

// Filter decides whether a state-change record is selected
type Filter interface {
	// Match evaluates the filter against one record
	Match(sc node.StateChanges) (bool, error)
}

// CompiledFilter represents a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (CompiledFilter, error)
}
