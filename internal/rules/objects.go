package rules

import (
	"slices"

	"stylint/internal/ast"
	"stylint/internal/diag"
	"stylint/internal/lint"
)

func preferObjectSpread() lint.Rule {
	return lint.Rule{
		ID:          "prefer-object-spread",
		Kinds:       []ast.NodeKind{ast.NodeCall},
		Severity:    diag.SevWarning,
		Description: "Prefer object spread over Object.assign with a literal target.",
		Check: func(ctx *lint.Context, id ast.NodeID) (*lint.Finding, error) {
			tree := ctx.Tree()
			call, ok := tree.Call(id)
			if !ok {
				return nil, unexpected(tree, id)
			}
			if calleeName(tree, call) != "Object.assign" || len(call.Args) == 0 {
				return nil, nil
			}
			if tree.Kind(tree.Unparen(call.Args[0])) != ast.NodeObject {
				return nil, nil
			}
			for _, arg := range call.Args[1:] {
				if !objectCompatible(tree.Kind(tree.Unparen(arg))) {
					return nil, nil
				}
			}
			return found("use an object spread ({ ...a, ...b }) instead of Object.assign")
		},
	}
}

// objectCompatible lists argument shapes that can be spread into an object
// literal without changing meaning.
func objectCompatible(kind ast.NodeKind) bool {
	switch kind {
	case ast.NodeObject, ast.NodeIdent, ast.NodeMember, ast.NodeCall, ast.NodeNew, ast.NodeThis, ast.NodeConditional:
		return true
	}
	return false
}

var prototypeBuiltins = []string{"hasOwnProperty", "isPrototypeOf", "propertyIsEnumerable"}

func noPrototypeBuiltins() lint.Rule {
	return lint.Rule{
		ID:          "no-prototype-builtins",
		Kinds:       []ast.NodeKind{ast.NodeCall},
		Severity:    diag.SevWarning,
		Description: "Disallow calling Object.prototype methods directly on objects.",
		Check: func(ctx *lint.Context, id ast.NodeID) (*lint.Finding, error) {
			tree := ctx.Tree()
			call, ok := tree.Call(id)
			if !ok {
				return nil, unexpected(tree, id)
			}
			m, ok := tree.Member(tree.Unparen(call.Callee))
			if !ok {
				return nil, nil
			}
			name := memberName(tree, m)
			if !slices.Contains(prototypeBuiltins, name) {
				return nil, nil
			}
			return &lint.Finding{
				Span:    tree.Span(call.Callee),
				Message: "do not call Object.prototype method " + name + " directly; use Object.prototype." + name + ".call(obj, ...)",
			}, nil
		},
	}
}

func dotNotation() lint.Rule {
	return lint.Rule{
		ID:          "dot-notation",
		Kinds:       []ast.NodeKind{ast.NodeMember},
		Severity:    diag.SevWarning,
		Description: "Require dot notation for property names that are valid identifiers.",
		Check: func(ctx *lint.Context, id ast.NodeID) (*lint.Finding, error) {
			tree := ctx.Tree()
			m, ok := tree.Member(id)
			if !ok {
				return nil, unexpected(tree, id)
			}
			if !m.Computed {
				return nil, nil
			}
			kind, value, ok := tree.LiteralValue(tree.Unparen(m.Property))
			if !ok || kind != ast.LitString || !isIdentifierName(value) {
				return nil, nil
			}
			return found("[%q] is better written in dot notation: .%s", value, value)
		},
	}
}

func noAccessors() lint.Rule {
	return lint.Rule{
		ID:          "no-accessors",
		Kinds:       []ast.NodeKind{ast.NodeMethod},
		Severity:    diag.SevWarning,
		Description: "Disallow getters and setters; use plain getVal() and setVal() methods.",
		Check: func(ctx *lint.Context, id ast.NodeID) (*lint.Finding, error) {
			tree := ctx.Tree()
			fn, ok := tree.Function(id)
			if !ok {
				return nil, unexpected(tree, id)
			}
			if fn.Accessor == ast.AccessorNone {
				return nil, nil
			}
			name := tree.Name(fn.Name)
			if name == "" {
				return found("%ster; use a plain method instead", fn.Accessor)
			}
			return found("%ster %q; use a plain %s%s() method instead", fn.Accessor, name, fn.Accessor, upperFirst(name))
		},
	}
}
