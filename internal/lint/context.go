package lint

import (
	"iter"
	"slices"

	"stylint/internal/ast"
	"stylint/internal/trace"
)

type frame struct {
	node   ast.NodeID
	kind   ast.NodeKind
	fn     ast.NodeID // nearest function-like node, self included
	params []string   // parameter names of fn, shared with descendants
	inCase ast.NodeID // nearest switch case inside fn
}

// Context is the evaluator's view of where the current node sits. The walker
// pushes a frame on descent and pops it on ascent, so every fact is O(1) to
// read. A Context belongs to one walker goroutine.
type Context struct {
	tree   *ast.Tree
	frames []frame
	// tracer is set only when rule evaluations are traced.
	tracer trace.Tracer
	span   uint64
}

func newContext(tree *ast.Tree, capHint int) *Context {
	return &Context{
		tree:   tree,
		frames: make([]frame, 0, capHint),
	}
}

// traceRules turns on per-rule spans under parent when t records node events.
func (c *Context) traceRules(t trace.Tracer, parent uint64) {
	if t != nil && t.Level().Records(trace.ScopeNode) {
		c.tracer, c.span = t, parent
	}
}

func (c *Context) push(id ast.NodeID) {
	kind := c.tree.Kind(id)
	f := frame{node: id, kind: kind}
	if n := len(c.frames); n > 0 {
		top := &c.frames[n-1]
		f.fn, f.params, f.inCase = top.fn, top.params, top.inCase
	}
	switch {
	case kind.IsFunction():
		f.fn = id
		f.params = nil
		f.inCase = ast.NoNodeID
		if data, ok := c.tree.Function(id); ok {
			for _, p := range data.Params {
				f.params = append(f.params, c.tree.BoundNames(p)...)
			}
		}
	case kind == ast.NodeSwitchCase:
		f.inCase = id
	}
	c.frames = append(c.frames, f)
}

func (c *Context) pop() {
	c.frames[len(c.frames)-1] = frame{}
	c.frames = c.frames[:len(c.frames)-1]
}

func (c *Context) top() *frame {
	if len(c.frames) == 0 {
		return &frame{}
	}
	return &c.frames[len(c.frames)-1]
}

func (c *Context) Tree() *ast.Tree {
	return c.tree
}

// Node is the node being evaluated.
func (c *Context) Node() ast.NodeID {
	return c.top().node
}

// Depth is the number of frames on the stack; the root's frame has depth 1.
func (c *Context) Depth() int {
	return len(c.frames)
}

// Ancestor returns the node n levels up: 0 is the current node, 1 its parent.
func (c *Context) Ancestor(n int) ast.NodeID {
	i := len(c.frames) - 1 - n
	if n < 0 || i < 0 {
		return ast.NoNodeID
	}
	return c.frames[i].node
}

func (c *Context) Parent() ast.NodeID {
	return c.Ancestor(1)
}

// Ancestors yields the parent chain from the parent up to the root.
func (c *Context) Ancestors() iter.Seq[ast.NodeID] {
	return func(yield func(ast.NodeID) bool) {
		for i := len(c.frames) - 2; i >= 0; i-- {
			if !yield(c.frames[i].node) {
				return
			}
		}
	}
}

// EnclosingFunction is the nearest function-like node, the current node included.
func (c *Context) EnclosingFunction() ast.NodeID {
	return c.top().fn
}

// Params lists the parameter names of EnclosingFunction.
func (c *Context) Params() []string {
	return c.top().params
}

func (c *Context) IsParam(name string) bool {
	return name != "" && slices.Contains(c.top().params, name)
}

// EnclosingCase is the nearest switch clause within the current function.
func (c *Context) EnclosingCase() ast.NodeID {
	return c.top().inCase
}

func (c *Context) InSwitchCase() bool {
	return c.top().inCase.IsValid()
}
