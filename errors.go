package plankit

import (
	"errors"
	"fmt"
)

// Sentinel errors for common planning-episode outcomes.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrSnapshotInvalid indicates the simulation snapshot failed
	// structural validation (out-of-bounds cells, bad speed range).
	ErrSnapshotInvalid = errors.New("snapshot invalid")

	// ErrNoPlanFound indicates the planner terminated cleanly without a
	// plan: the problem is infeasible within its horizon. Distinct from
	// ErrSolverFailed so callers can tell infeasibility from tooling
	// faults.
	ErrNoPlanFound = errors.New("no plan found")

	// ErrSolverFailed indicates the external planner process failed:
	// missing binary, timeout, or an unexpected exit status.
	ErrSolverFailed = errors.New("solver failed")

	// ErrPlanSyntax indicates the returned plan artifact contained a line
	// matching no known action shape.
	ErrPlanSyntax = errors.New("malformed plan")
)

// Error kinds categorize errors by their type.
const (
	// KindValidation represents snapshot or configuration validation
	// errors.
	KindValidation = "validation"

	// KindEncoding represents errors while assembling or writing the
	// planning encoding.
	KindEncoding = "encoding"

	// KindSolver represents external planner tooling failures.
	KindSolver = "solver"

	// KindNoPlan represents a proved-infeasible planning outcome.
	KindNoPlan = "no_plan"

	// KindParse represents plan artifact parse errors.
	KindParse = "parse"

	// KindInternal represents internal errors.
	KindInternal = "internal"
)

// Error is a structured error that wraps an underlying error with the
// operation that failed and the category of failure.
//
// Error supports unwrapping, so errors.Is() and errors.As() work against
// both the sentinel values above and other Error values matched by Kind.
type Error struct {
	// Op is the operation that failed (e.g. "Planner.Plan").
	Op string

	// Kind categorizes the error (e.g. KindNoPlan, KindValidation).
	Kind string

	// Err is the underlying error.
	Err error

	// Context carries additional debugging values (optional).
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("plankit: %s: %s", e.Op, e.Kind)
	}
	if len(e.Context) > 0 {
		return fmt.Sprintf("plankit: %s (%s): %v [context: %+v]", e.Op, e.Kind, e.Err, e.Context)
	}
	return fmt.Sprintf("plankit: %s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches against another *Error by Kind (and Op when the target sets
// one), and otherwise delegates to the underlying error.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}

	if t, ok := target.(*Error); ok {
		if t.Kind != "" && e.Kind == t.Kind {
			if t.Op == "" || e.Op == t.Op {
				return true
			}
		}
	}

	return errors.Is(e.Err, target)
}

// WithContext returns a copy of the error with the provided context
// values added.
func (e *Error) WithContext(ctx map[string]any) *Error {
	clone := *e
	if clone.Context == nil {
		clone.Context = make(map[string]any, len(ctx))
	}
	for k, v := range ctx {
		clone.Context[k] = v
	}
	return &clone
}

// NewValidationError creates an Error with KindValidation.
func NewValidationError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindValidation, Err: err}
}

// NewEncodingError creates an Error with KindEncoding.
func NewEncodingError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindEncoding, Err: err}
}

// NewSolverError creates an Error with KindSolver.
func NewSolverError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindSolver, Err: err}
}

// NewNoPlanError creates an Error with KindNoPlan.
func NewNoPlanError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindNoPlan, Err: err}
}

// NewParseError creates an Error with KindParse.
func NewParseError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindParse, Err: err}
}

// NewInternalError creates an Error with KindInternal.
func NewInternalError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindInternal, Err: err}
}
