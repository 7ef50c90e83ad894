package lint

import (
	"context"
	"fmt"
	"strconv"

	"stylint/internal/ast"
	"stylint/internal/diag"
	"stylint/internal/source"
	"stylint/internal/trace"
)

// Walker runs the rules of a Registry over syntax trees.
type Walker struct {
	reg *Registry
	// MaxDiagnostics caps the diagnostics kept per walk; 0 means no cap.
	MaxDiagnostics int
}

func NewWalker(reg *Registry) *Walker {
	return &Walker{reg: reg}
}

// Walk lints tree with reg and returns the ordered, deduplicated diagnostics.
func Walk(ctx context.Context, reg *Registry, tree *ast.Tree) ([]diag.Diagnostic, error) {
	return NewWalker(reg).Walk(ctx, tree)
}

func (w *Walker) Walk(ctx context.Context, tree *ast.Tree) ([]diag.Diagnostic, error) {
	bag := diag.NewBag(w.MaxDiagnostics)
	if err := w.WalkInto(ctx, tree, diag.BagReporter{Bag: bag}); err != nil {
		return nil, err
	}
	return bag.Finalize(), nil
}

// WalkInto lints tree and sends every diagnostic to r in emission order. A
// rule reporting the same span twice reaches r once.
func (w *Walker) WalkInto(ctx context.Context, tree *ast.Tree, r diag.Reporter) error {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFile, "walk", trace.CurrentSpan(ctx))
	dedup := diag.NewDedupReporter(r)

	c := newContext(tree, 64)
	c.traceRules(tracer, span.ID())
	nodes, err := w.walk(ctx, c, tree.Root, dedup)

	span.Set("nodes", strconv.Itoa(nodes)).
		Set("diagnostics", strconv.Itoa(dedup.Forwarded())).
		Set("duplicates", strconv.Itoa(dedup.Dropped()))
	if err != nil {
		span.End(err.Error())
		return err
	}
	span.End("")
	return nil
}

type step struct {
	id   ast.NodeID
	exit bool
}

// walk does a pre-order traversal of the subtree at start. It uses an
// explicit stack so deep trees do not grow the goroutine stack, and leaves
// the context at the depth it found it. Cancellation is checked before each
// top-level subtree. It returns the number of nodes visited.
func (w *Walker) walk(ctx context.Context, c *Context, start ast.NodeID, r diag.Reporter) (int, error) {
	tree := c.tree
	base := c.Depth()
	nodes := 0
	stack := []step{{id: start}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.exit {
			c.pop()
			continue
		}
		if tree.Parent(s.id) == tree.Root && tree.Root.IsValid() {
			if err := ctx.Err(); err != nil {
				for c.Depth() > base {
					c.pop()
				}
				return nodes, err
			}
		}

		c.push(s.id)
		nodes++
		w.visit(c, s.id, r)

		stack = append(stack, step{id: s.id, exit: true})
		children := tree.Children(s.id)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, step{id: children[i]})
		}
	}
	return nodes, nil
}

// visit runs every rule subscribed to the node's kind. A failing rule is
// reported as an internal failure and does not stop the others.
func (w *Walker) visit(c *Context, id ast.NodeID, r diag.Reporter) {
	rules := w.reg.RulesFor(c.tree.Kind(id))
	if len(rules) == 0 {
		return
	}
	nodeSpan := c.tree.Span(id)
	for _, rule := range rules {
		var rs *trace.Span
		if c.tracer != nil {
			rs = trace.Begin(c.tracer, trace.ScopeNode, "rule:"+rule.ID, c.span)
		}
		finding, err := runCheck(rule, c, id)
		rs.End("")
		if err == nil && finding != nil {
			sp := finding.Span
			if sp == (source.Span{}) {
				sp = nodeSpan
			}
			if nodeSpan.Contains(sp) {
				r.Report(rule.ID, rule.Severity, sp, finding.Message, finding.Notes)
				continue
			}
			err = fmt.Errorf("reported span %s outside node %s", sp, nodeSpan)
		}
		if err != nil {
			trace.Point(c.tracer, trace.ScopeNode, "rule:"+rule.ID, c.span, err.Error())
			r.Report(diag.RuleInternalFailure, diag.SevError, nodeSpan,
				fmt.Sprintf("rule %s failed on %s: %v", rule.ID, c.tree.Kind(id), err), nil)
		}
	}
}

func runCheck(rule *Rule, c *Context, id ast.NodeID) (finding *Finding, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			finding = nil
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return rule.Check(c, id)
}
