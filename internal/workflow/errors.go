package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zero-day-ai/maestro/internal/types"
)

// SchemaError reports a malformed or missing root structure: the `workflow`
// key is absent, a required field is missing, or the document is not valid
// YAML at all. Schema errors are fatal; a structurally invalid workflow
// cannot be meaningfully scored.
type SchemaError struct {
	// Field is the missing or malformed field, when known.
	Field string

	// Line is the 1-indexed source line of the problem, 0 if unknown.
	Line int

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("schema error")
	if e.Field != "" {
		fmt.Fprintf(&b, ": field %q", e.Field)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", e.Line)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying error for error wrapping support.
func (e *SchemaError) Unwrap() error {
	return e.Err
}

// ValidationError reports a dangling reference: a depends_on value, step
// agent reference, or dataflow endpoint that does not resolve to a declared
// ID. Validation errors are fatal.
type ValidationError struct {
	// StepID is the step containing the dangling reference, if applicable.
	StepID string

	// Ref is the unresolved reference value.
	Ref string

	// Field names the referencing field (e.g. "depends_on", "agent").
	Field string

	// Line is the 1-indexed source line of the reference, 0 if unknown.
	Line int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("validation error")
	if e.StepID != "" {
		fmt.Fprintf(&b, ": step %q", e.StepID)
	}
	fmt.Fprintf(&b, ": %s references unknown id %q", e.Field, e.Ref)
	if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", e.Line)
	}
	return b.String()
}

// CyclicDependencyError reports a cycle in the step dependency graph.
// The cycle path names every involved step, first and last entries equal.
type CyclicDependencyError struct {
	// Cycle is the step ID path of the cycle (e.g. [a, b, a]).
	Cycle []string
}

// Error implements the error interface.
func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic dependency detected: %s", strings.Join(e.Cycle, " -> "))
}

// ErrorCode maps a parse error onto its taxonomy code, for callers that
// wrap parser failures into coded errors.
func ErrorCode(err error) types.ErrorCode {
	var (
		schemaErr *SchemaError
		valErr    *ValidationError
		cycleErr  *CyclicDependencyError
	)
	switch {
	case errors.As(err, &cycleErr):
		return types.CYCLIC_DEPENDENCY
	case errors.As(err, &valErr):
		return types.VALIDATION_FAILED
	case errors.As(err, &schemaErr):
		return types.SCHEMA_INVALID
	default:
		return types.WORKFLOW_YAML_ERROR
	}
}

// Steps returns the distinct step IDs involved in the cycle.
func (e *CyclicDependencyError) Steps() []string {
	seen := make(map[string]bool, len(e.Cycle))
	steps := []string{}
	for _, id := range e.Cycle {
		if !seen[id] {
			seen[id] = true
			steps = append(steps, id)
		}
	}
	return steps
}
