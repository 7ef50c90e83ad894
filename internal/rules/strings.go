package rules

import (
	"stylint/internal/ast"
	"stylint/internal/diag"
	"stylint/internal/lint"
)

// preferTemplate reports strings built with +. A chain `'a' + b + 'c'` is
// one finding, reported on its outermost operator.
func preferTemplate() lint.Rule {
	return lint.Rule{
		ID:          "prefer-template",
		Kinds:       []ast.NodeKind{ast.NodeBinary},
		Severity:    diag.SevWarning,
		Description: "Prefer template literals to string concatenation.",
		Check: func(ctx *lint.Context, id ast.NodeID) (*lint.Finding, error) {
			tree := ctx.Tree()
			bin, ok := tree.Binary(id)
			if !ok {
				return nil, unexpected(tree, id)
			}
			if bin.Op != "+" {
				return nil, nil
			}
			if outer, ok := tree.Binary(tree.Parent(id)); ok && outer.Op == "+" {
				return nil, nil
			}
			var text, other bool
			for _, operand := range concatOperands(tree, id) {
				if isLiteral(tree, operand, ast.LitString) || tree.Kind(operand) == ast.NodeTemplate {
					text = true
				} else {
					other = true
				}
			}
			if text && other {
				return found("string concatenation; use a template literal instead")
			}
			return nil, nil
		},
	}
}

// concatOperands flattens an unparenthesized chain of + into its operands.
func concatOperands(tree *ast.Tree, id ast.NodeID) []ast.NodeID {
	var out []ast.NodeID
	stack := []ast.NodeID{id}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if bin, ok := tree.Binary(n); ok && bin.Op == "+" {
			stack = append(stack, bin.Right, bin.Left)
			continue
		}
		out = append(out, n)
	}
	return out
}
