package rules

import (
	"stylint/internal/ast"
	"stylint/internal/diag"
	"stylint/internal/lint"
)

func noNestedTernary() lint.Rule {
	return lint.Rule{
		ID:          "no-nested-ternary",
		Kinds:       []ast.NodeKind{ast.NodeConditional},
		Severity:    diag.SevWarning,
		Description: "Disallow a conditional expression nested in the branch of another.",
		Check: func(ctx *lint.Context, id ast.NodeID) (*lint.Finding, error) {
			tree := ctx.Tree()
			data, ok := tree.Conditional(id)
			if !ok {
				return nil, unexpected(tree, id)
			}
			for _, branch := range []ast.NodeID{data.Consequent, data.Alternate} {
				if tree.Kind(tree.Unparen(branch)) == ast.NodeConditional {
					return found("nested ternary expression; split it into separate statements")
				}
			}
			return nil, nil
		},
	}
}

func noUnneededTernary() lint.Rule {
	return lint.Rule{
		ID:          "no-unneeded-ternary",
		Kinds:       []ast.NodeKind{ast.NodeConditional},
		Severity:    diag.SevWarning,
		Description: "Disallow ternaries that can be written with a boolean or logical operator.",
		Check: func(ctx *lint.Context, id ast.NodeID) (*lint.Finding, error) {
			tree := ctx.Tree()
			data, ok := tree.Conditional(id)
			if !ok {
				return nil, unexpected(tree, id)
			}
			then, other := tree.Unparen(data.Consequent), tree.Unparen(data.Alternate)
			if isLiteral(tree, then, ast.LitBoolean) && isLiteral(tree, other, ast.LitBoolean) {
				_, value, _ := tree.LiteralValue(then)
				if value == "true" {
					return found("unnecessary ternary; use !!x instead of x ? true : false")
				}
				return found("unnecessary ternary; use !x instead of x ? false : true")
			}

			name := tree.Name(then)
			if name == "" {
				return nil, nil
			}
			test := tree.Unparen(data.Test)
			if tree.Name(test) == name {
				return found("unnecessary ternary; use %s || ... instead", name)
			}
			if bin, ok := tree.Binary(test); ok && (bin.Op == "!=" || bin.Op == "!==") {
				if tree.Name(tree.Unparen(bin.Left)) == name && isNullish(tree, bin.Right) {
					return found("unnecessary ternary; use %s ?? ... instead", name)
				}
			}
			return nil, nil
		},
	}
}

func isNullish(tree *ast.Tree, id ast.NodeID) bool {
	return isLiteral(tree, id, ast.LitNull) || isLiteral(tree, id, ast.LitUndefined)
}
