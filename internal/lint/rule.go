package lint

import (
	"fmt"

	"stylint/internal/ast"
	"stylint/internal/diag"
	"stylint/internal/source"
)

// CheckFunc inspects one node. It returns nil when the node conforms.
// Implementations must not keep state between calls.
type CheckFunc func(ctx *Context, id ast.NodeID) (*Finding, error)

// Finding is what an evaluator reports. A zero Span means the whole node.
type Finding struct {
	Span    source.Span
	Message string
	Notes   []diag.Note
}

// Rule is a named style check bound to the node kinds it inspects.
type Rule struct {
	ID          string
	Kinds       []ast.NodeKind
	Severity    diag.Severity
	Description string
	// Optional rules are in the catalog but not in the recommended set.
	Optional bool
	Check    CheckFunc
}

func (r *Rule) validate() error {
	switch {
	case r.ID == "":
		return configErr("", fmt.Errorf("%w: empty id", ErrInvalidRule))
	case diag.IsReserved(r.ID):
		return configErr(r.ID, fmt.Errorf("%w: id is reserved", ErrInvalidRule))
	case len(r.Kinds) == 0:
		return configErr(r.ID, fmt.Errorf("%w: no node kinds", ErrInvalidRule))
	case r.Check == nil:
		return configErr(r.ID, fmt.Errorf("%w: no evaluator", ErrInvalidRule))
	case !r.Severity.Valid():
		return configErr(r.ID, fmt.Errorf("%w: %d", ErrBadSeverity, r.Severity))
	}
	return nil
}
