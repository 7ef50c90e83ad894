package rules

import (
	"strings"

	"stylint/internal/ast"
	"stylint/internal/diag"
	"stylint/internal/lint"
)

func noVar() lint.Rule {
	return lint.Rule{
		ID:          "no-var",
		Kinds:       []ast.NodeKind{ast.NodeVarDecl},
		Severity:    diag.SevWarning,
		Description: "Require let or const instead of var.",
		Check: func(ctx *lint.Context, id ast.NodeID) (*lint.Finding, error) {
			decl, ok := ctx.Tree().VarDecl(id)
			if !ok {
				return nil, unexpected(ctx.Tree(), id)
			}
			if decl.Keyword != ast.DeclVar {
				return nil, nil
			}
			return found("unexpected var; use const, or let when the binding is reassigned")
		},
	}
}

// noChainedAssignment reports the outermost link of `a = b = c` and of
// declarations initialised by an assignment, once per chain.
func noChainedAssignment() lint.Rule {
	return lint.Rule{
		ID:          "no-chained-assignment",
		Kinds:       []ast.NodeKind{ast.NodeDeclarator, ast.NodeAssign},
		Severity:    diag.SevError,
		Description: "Disallow chained variable assignments.",
		Check: func(ctx *lint.Context, id ast.NodeID) (*lint.Finding, error) {
			tree := ctx.Tree()
			switch tree.Kind(id) {
			case ast.NodeDeclarator:
				data, _ := tree.Declarator(id)
				if tree.Kind(tree.Unparen(data.Init)) != ast.NodeAssign {
					return nil, nil
				}
				return found("chained assignment in a declaration; only the first name is declared, the rest leak as globals")
			case ast.NodeAssign:
				data, _ := tree.Assign(id)
				if tree.Kind(tree.Unparen(data.Value)) != ast.NodeAssign {
					return nil, nil
				}
				if !chainHead(ctx) {
					return nil, nil
				}
				return found("chained assignment; assign each variable on its own")
			}
			return nil, unexpected(tree, id)
		},
	}
}

// chainHead reports whether the current assignment is not itself the value of
// an enclosing assignment or declarator.
func chainHead(ctx *lint.Context) bool {
	tree := ctx.Tree()
	for a := range ctx.Ancestors() {
		switch tree.Kind(a) {
		case ast.NodeParen:
			continue
		case ast.NodeAssign, ast.NodeDeclarator:
			return false
		}
		return true
	}
	return true
}

func noThisAlias() lint.Rule {
	return lint.Rule{
		ID:          "no-this-alias",
		Kinds:       []ast.NodeKind{ast.NodeDeclarator, ast.NodeAssign},
		Severity:    diag.SevWarning,
		Description: "Disallow saving references to this.",
		Check: func(ctx *lint.Context, id ast.NodeID) (*lint.Finding, error) {
			tree := ctx.Tree()
			var target, value ast.NodeID
			switch tree.Kind(id) {
			case ast.NodeDeclarator:
				data, _ := tree.Declarator(id)
				target, value = data.Target, data.Init
			case ast.NodeAssign:
				data, _ := tree.Assign(id)
				target, value = data.Target, data.Value
			default:
				return nil, unexpected(tree, id)
			}
			name := tree.Name(tree.Unparen(target))
			if name == "" || tree.Kind(tree.Unparen(value)) != ast.NodeThis {
				return nil, nil
			}
			return found("do not alias this as %q; use an arrow function or Function#bind", name)
		},
	}
}

func noUnderscoreDangle() lint.Rule {
	return lint.Rule{
		ID:          "no-underscore-dangle",
		Kinds:       []ast.NodeKind{ast.NodeDeclarator, ast.NodeMember},
		Severity:    diag.SevWarning,
		Optional:    true,
		Description: "Disallow leading or trailing underscores in names.",
		Check: func(ctx *lint.Context, id ast.NodeID) (*lint.Finding, error) {
			tree := ctx.Tree()
			var name ast.NodeID
			switch tree.Kind(id) {
			case ast.NodeDeclarator:
				data, _ := tree.Declarator(id)
				name = data.Target
			case ast.NodeMember:
				data, _ := tree.Member(id)
				if data.Computed || tree.Kind(tree.Unparen(data.Object)) != ast.NodeThis {
					return nil, nil
				}
				name = data.Property
			default:
				return nil, unexpected(tree, id)
			}
			text := tree.Name(name)
			if !dangles(text) {
				return nil, nil
			}
			return &lint.Finding{Span: tree.Span(name), Message: "unexpected dangling underscore in " + text}, nil
		},
	}
}

func dangles(name string) bool {
	if strings.Trim(name, "_") == "" {
		return false
	}
	return strings.HasPrefix(name, "_") || strings.HasSuffix(name, "_")
}
