package emitter

import "fmt"

// UnknownNodeKindError reports an ast.Expr whose concrete type the
// emitter's dispatch has no case for — a parser/emitter version skew
// rather than a user-facing compile error (spec §7).
type UnknownNodeKindError struct {
	Kind string
	Line int
}

func (e *UnknownNodeKindError) Error() string {
	return fmt.Sprintf("emitter: unknown node kind %q at line %d", e.Kind, e.Line)
}

// InvariantViolationError reports a condition the AST is assumed to
// already satisfy (e.g. a label referenced by Continue/Break with no
// enclosing loop/switch of that name) that didn't hold at emission time
// (spec §7).
type InvariantViolationError struct {
	Invariant string
	Detail    string
}

func (e *InvariantViolationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("emitter: invariant violated: %s", e.Invariant)
	}
	return fmt.Sprintf("emitter: invariant violated: %s (%s)", e.Invariant, e.Detail)
}

// BackendFailureError wraps an error surfaced by package classfile (e.g. a
// sticky BinWriter.Err) with the emitter-level context needed to diagnose
// it (spec §7).
type BackendFailureError struct {
	Op  string
	Err error
}

func (e *BackendFailureError) Error() string {
	return fmt.Sprintf("emitter: backend failure during %s: %v", e.Op, e.Err)
}

func (e *BackendFailureError) Unwrap() error {
	return e.Err
}
