package filter

import (
	"fmt"
)

// Error types for filter operations
type (
	// CompilationError indicates a filter expression could not be compiled
	CompilationError struct {
		Expression string
		Reason     string
		Err        error
	}

	// EvaluationError indicates a filter could not be evaluated against a record
	EvaluationError struct {
		Expression    string
		TransactionID string
		Err           error
	}
)

func (e *CompilationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("compilation error in '%s': %s: %v", e.Expression, e.Reason, e.Err)
	}
	return fmt.Sprintf("compilation error in '%s': %s", e.Expression, e.Reason)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluation error for filter '%s' on transaction %s: %v", e.Expression, e.TransactionID, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}
