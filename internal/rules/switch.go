package rules

import (
	"stylint/internal/ast"
	"stylint/internal/diag"
	"stylint/internal/lint"
)

// braceBlockScopedDecls flags a case or default clause whose own statement
// list declares something lexically. Declarations wrapped in a block are
// children of that block, not of the clause.
func braceBlockScopedDecls() lint.Rule {
	return lint.Rule{
		ID:          "brace-block-scoped-decls",
		Kinds:       []ast.NodeKind{ast.NodeSwitchCase},
		Severity:    diag.SevError,
		Description: "Require braces around case clauses that contain lexical declarations.",
		Check: func(ctx *lint.Context, id ast.NodeID) (*lint.Finding, error) {
			tree := ctx.Tree()
			data, ok := tree.Case(id)
			if !ok {
				return nil, unexpected(tree, id)
			}
			clause := "case"
			if data.IsDefault() {
				clause = "default"
			}
			for _, stmt := range data.Body {
				if what := lexicalDecl(tree, stmt); what != "" {
					return &lint.Finding{
						Message: "wrap the " + clause + " clause in braces: it contains a " + what + " declaration",
						Notes:   []diag.Note{{Span: tree.Span(stmt), Msg: what + " declared here is visible to the whole switch"}},
					}, nil
				}
			}
			return nil, nil
		},
	}
}

func lexicalDecl(tree *ast.Tree, stmt ast.NodeID) string {
	switch tree.Kind(stmt) {
	case ast.NodeVarDecl:
		if decl, _ := tree.VarDecl(stmt); decl.Keyword.Lexical() {
			return decl.Keyword.String()
		}
	case ast.NodeFunctionDecl:
		return "function"
	case ast.NodeClassDecl:
		return "class"
	}
	return ""
}
