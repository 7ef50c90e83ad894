package rules

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"stylint/internal/ast"
	"stylint/internal/diag"
	"stylint/internal/lint"
)

type binding struct {
	name string
	node ast.NodeID
}

// bindings lists the names a declarator or function introduces, each with
// the pattern node it came from.
func bindings(tree *ast.Tree, id ast.NodeID) ([]binding, bool) {
	var out []binding
	pattern := func(p ast.NodeID) {
		for _, name := range tree.BoundNames(p) {
			out = append(out, binding{name: name, node: p})
		}
	}
	switch tree.Kind(id) {
	case ast.NodeDeclarator:
		d, ok := tree.Declarator(id)
		if !ok {
			return nil, false
		}
		pattern(d.Target)
	case ast.NodeFunctionDecl, ast.NodeFunctionExpr, ast.NodeArrowFunction:
		fn, ok := tree.Function(id)
		if !ok {
			return nil, false
		}
		if fn.Name.IsValid() {
			out = append(out, binding{name: tree.Name(fn.Name), node: fn.Name})
		}
		for _, p := range fn.Params {
			pattern(p)
		}
	default:
		return nil, false
	}
	return out, true
}

// camelCased accepts camelCase and SCREAMING_CASE. Leading and trailing
// underscores are left to no-underscore-dangle.
func camelCased(name string) bool {
	core := strings.Trim(name, "_")
	if !strings.Contains(core, "_") {
		return true
	}
	return strings.ToUpper(core) == core
}

func camelcase() lint.Rule {
	return lint.Rule{
		ID:          "camelcase",
		Kinds:       []ast.NodeKind{ast.NodeDeclarator, ast.NodeFunctionDecl, ast.NodeFunctionExpr, ast.NodeArrowFunction},
		Severity:    diag.SevWarning,
		Description: "Use camelCase for variables, functions and parameters.",
		Check: func(ctx *lint.Context, id ast.NodeID) (*lint.Finding, error) {
			tree := ctx.Tree()
			names, ok := bindings(tree, id)
			if !ok {
				return nil, unexpected(tree, id)
			}
			for _, b := range names {
				if !camelCased(b.name) {
					return &lint.Finding{
						Span:    tree.Span(b.node),
						Message: fmt.Sprintf("identifier %q is not in camelCase", b.name),
					}, nil
				}
			}
			return nil, nil
		},
	}
}

func startsLower(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsLower(r)
}

// newCap wants constructors and classes named in PascalCase.
func newCap() lint.Rule {
	return lint.Rule{
		ID:          "new-cap",
		Kinds:       []ast.NodeKind{ast.NodeNew, ast.NodeClassDecl},
		Severity:    diag.SevWarning,
		Description: "Use PascalCase for classes and constructors called with new.",
		Check: func(ctx *lint.Context, id ast.NodeID) (*lint.Finding, error) {
			tree := ctx.Tree()
			if tree.Kind(id) == ast.NodeClassDecl {
				children := tree.Children(id)
				if len(children) == 0 || tree.Kind(children[0]) != ast.NodeIdent {
					return nil, nil
				}
				name := tree.Name(children[0])
				if startsLower(name) || strings.Contains(strings.Trim(name, "_"), "_") {
					return &lint.Finding{Span: tree.Span(children[0]), Message: fmt.Sprintf("class %q should be named in PascalCase", name)}, nil
				}
				return nil, nil
			}
			call, ok := tree.Call(id)
			if !ok {
				return nil, unexpected(tree, id)
			}
			path, ok := tree.DotPath(call.Callee)
			if !ok {
				return nil, nil
			}
			last := path[strings.LastIndexByte(path, '.')+1:]
			if startsLower(last) {
				return &lint.Finding{Span: tree.Span(call.Callee), Message: fmt.Sprintf("constructor %q should start with a capital letter", last)}, nil
			}
			return nil, nil
		},
	}
}
