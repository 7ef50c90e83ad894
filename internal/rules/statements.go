package rules

import (
	"fmt"

	"stylint/internal/ast"
	"stylint/internal/diag"
	"stylint/internal/lint"
)

func noWith() lint.Rule {
	return lint.Rule{
		ID:          "no-with",
		Kinds:       []ast.NodeKind{ast.NodeWith},
		Severity:    diag.SevError,
		Description: "Disallow with statements.",
		Check: func(*lint.Context, ast.NodeID) (*lint.Finding, error) {
			return found("unexpected with statement")
		},
	}
}

func noIteratorLoops() lint.Rule {
	return lint.Rule{
		ID:          "no-iterator-loops",
		Kinds:       []ast.NodeKind{ast.NodeForIn},
		Severity:    diag.SevWarning,
		Optional:    true,
		Description: "Prefer higher-order functions over for...in and for...of loops.",
		Check: func(ctx *lint.Context, id ast.NodeID) (*lint.Finding, error) {
			loop, ok := ctx.Tree().ForIn(id)
			if !ok {
				return nil, unexpected(ctx.Tree(), id)
			}
			if loop.Of {
				return found("for...of loop; use map, filter, reduce or forEach instead")
			}
			return found("for...in loop; iterate Object.keys, Object.values or Object.entries instead")
		},
	}
}

// braced is one body of a control statement plus the offset its line is
// compared with: the end of the header, or of the if branch for an else.
type braced struct {
	label  string
	body   ast.NodeID
	anchor uint32
}

func bracedBodies(tree *ast.Tree, id ast.NodeID) []braced {
	children := tree.Children(id)
	if len(children) == 0 {
		return nil
	}
	start := tree.Span(id).Start
	last := children[len(children)-1]
	headerEnd := func() uint32 {
		if len(children) < 2 {
			return start
		}
		return tree.Span(children[len(children)-2]).End
	}
	switch tree.Kind(id) {
	case ast.NodeIf:
		if len(children) < 2 {
			return nil
		}
		out := []braced{{label: "if statement", body: children[1], anchor: tree.Span(children[0]).End}}
		if len(children) > 2 && tree.Kind(children[2]) != ast.NodeIf {
			out = append(out, braced{label: "else branch", body: children[2], anchor: tree.Span(children[1]).End})
		}
		return out
	case ast.NodeFor:
		return []braced{{label: "for loop", body: last, anchor: headerEnd()}}
	case ast.NodeForIn:
		loop, ok := tree.ForIn(id)
		if !ok {
			return nil
		}
		return []braced{{label: "for loop", body: loop.Body, anchor: tree.Span(loop.Right).End}}
	case ast.NodeWhile:
		return []braced{{label: "while loop", body: last, anchor: headerEnd()}}
	case ast.NodeDoWhile:
		return []braced{{label: "do loop", body: children[0], anchor: start}}
	}
	return nil
}

// curly allows `if (x) return;` on one line but wants braces once the body
// moves to its own line.
func curly() lint.Rule {
	return lint.Rule{
		ID:          "curly",
		Kinds:       []ast.NodeKind{ast.NodeIf, ast.NodeFor, ast.NodeForIn, ast.NodeWhile, ast.NodeDoWhile},
		Severity:    diag.SevWarning,
		Description: "Require braces around multiline bodies of if, else and loops.",
		Check: func(ctx *lint.Context, id ast.NodeID) (*lint.Finding, error) {
			tree := ctx.Tree()
			for _, b := range bracedBodies(tree, id) {
				if !b.body.IsValid() {
					continue
				}
				switch tree.Kind(b.body) {
				case ast.NodeBlock, ast.NodeEmpty:
					continue
				}
				body := tree.Span(b.body)
				if tree.Line(body.Start) == tree.Line(b.anchor) {
					continue
				}
				return &lint.Finding{
					Message: fmt.Sprintf("wrap the multiline body of this %s in braces", b.label),
					Notes:   []diag.Note{{Span: body, Msg: "body starts here"}},
				}, nil
			}
			return nil, nil
		},
	}
}
