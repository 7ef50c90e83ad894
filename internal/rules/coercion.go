package rules

import (
	"stylint/internal/ast"
	"stylint/internal/diag"
	"stylint/internal/lint"
)

func noNewWrappers() lint.Rule {
	return lint.Rule{
		ID:          "no-new-wrappers",
		Kinds:       []ast.NodeKind{ast.NodeNew},
		Severity:    diag.SevWarning,
		Description: "Disallow new String, new Number and new Boolean.",
		Check: func(ctx *lint.Context, id ast.NodeID) (*lint.Finding, error) {
			tree := ctx.Tree()
			call, ok := tree.Call(id)
			if !ok {
				return nil, unexpected(tree, id)
			}
			switch name := calleeName(tree, call); name {
			case "String", "Number", "Boolean":
				return found("do not use %s as a constructor; call %s(value) to convert", name, name)
			}
			return nil, nil
		},
	}
}

func radix() lint.Rule {
	return lint.Rule{
		ID:          "radix",
		Kinds:       []ast.NodeKind{ast.NodeCall},
		Severity:    diag.SevWarning,
		Description: "Require the radix argument of parseInt.",
		Check: func(ctx *lint.Context, id ast.NodeID) (*lint.Finding, error) {
			tree := ctx.Tree()
			call, ok := tree.Call(id)
			if !ok || tree.Kind(id) != ast.NodeCall {
				return nil, unexpected(tree, id)
			}
			switch calleeName(tree, call) {
			case "parseInt", "Number.parseInt":
			default:
				return nil, nil
			}
			if len(call.Args) >= 2 {
				return nil, nil
			}
			return found("missing radix argument; pass 10 for decimal parsing")
		},
	}
}

func preferArrayFrom() lint.Rule {
	return lint.Rule{
		ID:          "prefer-array-from",
		Kinds:       []ast.NodeKind{ast.NodeCall},
		Severity:    diag.SevWarning,
		Description: "Prefer Array.from over Array.prototype.slice.call for array-like objects.",
		Check: func(ctx *lint.Context, id ast.NodeID) (*lint.Finding, error) {
			tree := ctx.Tree()
			call, ok := tree.Call(id)
			if !ok {
				return nil, unexpected(tree, id)
			}
			if calleeName(tree, call) != "Array.prototype.slice.call" {
				return nil, nil
			}
			return found("use Array.from to convert an array-like object")
		},
	}
}
