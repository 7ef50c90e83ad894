package rules

import (
	"slices"

	"stylint/internal/ast"
	"stylint/internal/diag"
	"stylint/internal/lint"
)

func eqeqeq() lint.Rule {
	return lint.Rule{
		ID:          "eqeqeq",
		Kinds:       []ast.NodeKind{ast.NodeBinary},
		Severity:    diag.SevWarning,
		Description: "Require === and !== except when comparing with null.",
		Check: func(ctx *lint.Context, id ast.NodeID) (*lint.Finding, error) {
			tree := ctx.Tree()
			bin, ok := tree.Binary(id)
			if !ok {
				return nil, unexpected(tree, id)
			}
			if bin.Op != "==" && bin.Op != "!=" {
				return nil, nil
			}
			if isLiteral(tree, bin.Left, ast.LitNull) || isLiteral(tree, bin.Right, ast.LitNull) {
				return nil, nil
			}
			return found("use %s= instead of %s", bin.Op, bin.Op)
		},
	}
}

// mixedGroups lists operator pairs whose relative precedence readers tend to
// get wrong. Mixing two different operators of one group without parentheses
// is reported.
var mixedGroups = [][]string{
	{"%", "**"},
	{"%", "+"},
	{"%", "-"},
	{"%", "*"},
	{"%", "/"},
	{"/", "*"},
	{"&", "|", "<<", ">>", ">>>"},
	{"==", "!=", "===", "!=="},
	{"&&", "||"},
	{"in", "instanceof"},
}

func confusable(a, b string) bool {
	if a == b {
		return false
	}
	for _, g := range mixedGroups {
		if slices.Contains(g, a) && slices.Contains(g, b) {
			return true
		}
	}
	return false
}

func noMixedOperators() lint.Rule {
	return lint.Rule{
		ID:          "no-mixed-operators",
		Kinds:       []ast.NodeKind{ast.NodeBinary},
		Severity:    diag.SevWarning,
		Description: "Require parentheses when mixing operators of easily confused precedence.",
		Check: func(ctx *lint.Context, id ast.NodeID) (*lint.Finding, error) {
			tree := ctx.Tree()
			bin, ok := tree.Binary(id)
			if !ok {
				return nil, unexpected(tree, id)
			}
			for _, side := range []ast.NodeID{bin.Left, bin.Right} {
				inner, ok := tree.Binary(side)
				if !ok || !confusable(bin.Op, inner.Op) {
					continue
				}
				return &lint.Finding{
					Message: "mixed operators " + inner.Op + " and " + bin.Op + "; add parentheses to make the precedence explicit",
					Notes:   []diag.Note{{Span: tree.Span(side), Msg: "wrap this operand in parentheses"}},
				}, nil
			}
			return nil, nil
		},
	}
}

// noLogicalStatement reports `a && b();` used in place of an if statement.
func noLogicalStatement() lint.Rule {
	return lint.Rule{
		ID:          "no-logical-statement",
		Kinds:       []ast.NodeKind{ast.NodeExprStmt},
		Severity:    diag.SevWarning,
		Description: "Disallow logical operators used as control statements.",
		Check: func(ctx *lint.Context, id ast.NodeID) (*lint.Finding, error) {
			tree := ctx.Tree()
			children := tree.Children(id)
			if len(children) == 0 {
				return nil, nil
			}
			bin, ok := tree.Binary(tree.Unparen(children[0]))
			if !ok {
				return nil, nil
			}
			switch bin.Op {
			case "&&", "||", "??":
				return found("use an if statement instead of %s for control flow", bin.Op)
			}
			return nil, nil
		},
	}
}
