package parser

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"stylint/internal/diag"
)

const snippetLimit = 24

// scan collects comments and reports syntax errors. Errors nested inside an
// already reported ERROR node are counted once.
func (c *converter) scan(n *sitter.Node, inError bool) {
	if n == nil || n.IsNull() {
		return
	}
	switch {
	case n.Type() == "comment":
		c.b.Comment(c.span(n), c.text(n))
		return
	case n.IsMissing():
		if !inError {
			c.report(n, fmt.Sprintf("syntax error: missing %q", n.Type()))
		}
		return
	case n.Type() == "ERROR":
		if !inError {
			c.report(n, fmt.Sprintf("syntax error: unexpected %s", snippet(c.text(n))))
		}
		inError = true
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c.scan(n.Child(i), inError)
	}
}

func (c *converter) report(n *sitter.Node, msg string) {
	c.errors++
	if c.opts.Reporter == nil || c.opts.Enough(c.errors-1) {
		return
	}
	diag.ReportError(c.opts.Reporter, diag.RuleParseError, c.span(n), msg).Emit()
}

func snippet(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	if text == "" {
		return "input"
	}
	if len(text) > snippetLimit {
		text = text[:snippetLimit] + "..."
	}
	return fmt.Sprintf("%q", text)
}
