package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"stylint/internal/ast"
	"stylint/internal/diag"
	"stylint/internal/source"
)

// CheckTreeSpans verifies the structural invariants of a tree:
// 1) every child span lies within its parent's span and file
// 2) children appear in source order and point back at their parent
// 3) every node except the root is reachable from the root
func CheckTreeSpans(tree *ast.Tree) error {
	if tree == nil {
		return fmt.Errorf("nil tree")
	}
	if !tree.Root.IsValid() {
		return fmt.Errorf("tree has no root")
	}

	reached := make([]bool, tree.Len()+1)
	stack := []ast.NodeID{tree.Root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if reached[id] {
			return fmt.Errorf("node %d reached twice", id)
		}
		reached[id] = true

		parent := tree.Span(id)
		var prevStart uint32
		for i, c := range tree.Children(id) {
			sp := tree.Span(c)
			if !parent.Contains(sp) {
				return fmt.Errorf("%s %v is outside parent %s %v", tree.Kind(c), sp, tree.Kind(id), parent)
			}
			if i > 0 && sp.Start < prevStart {
				return fmt.Errorf("children of %s %v out of source order", tree.Kind(id), parent)
			}
			if p := tree.Parent(c); p != id {
				return fmt.Errorf("node %d has parent %d, want %d", c, p, id)
			}
			prevStart = sp.Start
			stack = append(stack, c)
		}
	}
	for id := 1; id < len(reached); id++ {
		if !reached[id] && tree.Parent(ast.NodeID(id)).IsValid() {
			return fmt.Errorf("node %d (%s) is attached but unreachable", id, tree.Kind(ast.NodeID(id)))
		}
	}
	return nil
}

// CheckFileSpan verifies that the root covers a range inside the file content.
func CheckFileSpan(tree *ast.Tree, sf *source.File) error {
	if tree == nil || sf == nil {
		return fmt.Errorf("nil tree or file")
	}
	root := tree.Span(tree.Root)
	if root.File != sf.ID {
		return fmt.Errorf("root span points to different file id: got=%d want=%d", root.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if root.End > lenContent {
		return fmt.Errorf("root span end beyond content: %d > %d", root.End, lenContent)
	}
	return nil
}

// CheckDiagnostics verifies the collector's output contract: sorted by
// position then rule, and no two entries share a span and rule.
func CheckDiagnostics(diags []diag.Diagnostic) error {
	type key struct {
		rule string
		span source.Span
	}
	seen := make(map[key]struct{}, len(diags))
	for i, d := range diags {
		k := key{rule: d.Rule, span: d.Primary}
		if _, dup := seen[k]; dup && !diag.IsReserved(d.Rule) {
			return fmt.Errorf("duplicate diagnostic %s at %v", d.Rule, d.Primary)
		}
		seen[k] = struct{}{}
		if i == 0 {
			continue
		}
		prev := diags[i-1]
		if d.Primary.Before(prev.Primary) {
			return fmt.Errorf("diagnostic %d (%v) sorts before %d (%v)", i, d.Primary, i-1, prev.Primary)
		}
		if d.Primary == prev.Primary && d.Rule < prev.Rule {
			return fmt.Errorf("diagnostics at %v not ordered by rule: %s after %s", d.Primary, d.Rule, prev.Rule)
		}
	}
	return nil
}
