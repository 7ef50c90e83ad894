package lint

import (
	"context"
	"strconv"

	"golang.org/x/sync/errgroup"

	"stylint/internal/ast"
	"stylint/internal/diag"
	"stylint/internal/trace"
)

// WalkParallel lints each top-level subtree of tree on its own goroutine,
// with at most jobs running at once (jobs <= 0 means no limit). Every worker
// gets a private Bag and a context seeded with the root frame. Bags are
// concatenated in source order before finalizing, so the result is identical
// to Walk.
func (w *Walker) WalkParallel(ctx context.Context, tree *ast.Tree, jobs int) ([]diag.Diagnostic, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFile, "walk_parallel", trace.CurrentSpan(ctx))
	defer span.End("")

	root := tree.Root
	children := tree.Children(root)
	span.Set("subtrees", strconv.Itoa(len(children)))

	rootBag := diag.NewBag(0)
	rc := newContext(tree, 1)
	rc.traceRules(tracer, span.ID())
	rc.push(root)
	w.visit(rc, root, diag.NewDedupReporter(diag.BagReporter{Bag: rootBag}))

	bags := make([]*diag.Bag, len(children))
	g, gctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, child := range children {
		if gctx.Err() != nil {
			break
		}
		bags[i] = diag.NewBag(0)
		g.Go(func() error {
			c := newContext(tree, 64)
			c.traceRules(tracer, span.ID())
			c.push(root)
			_, err := w.walk(gctx, c, child, diag.NewDedupReporter(diag.BagReporter{Bag: bags[i]}))
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := diag.NewBag(w.MaxDiagnostics)
	if err := merge(out, rootBag, bags); err != nil {
		return nil, err
	}
	return out.Finalize(), nil
}

// merge concatenates the worker bags into out in emission order. Under a cap
// it keeps the same prefix a sequential walk would have kept, so repeats
// across bags are dropped before they take a slot.
func merge(out, first *diag.Bag, rest []*diag.Bag) error {
	bags := append([]*diag.Bag{first}, rest...)
	if out.Cap() <= 0 {
		for _, b := range bags {
			if err := out.Merge(b); err != nil {
				return err
			}
		}
		return nil
	}
	dedup := diag.NewDedupReporter(diag.BagReporter{Bag: out})
	for _, b := range bags {
		if b == nil {
			continue
		}
		for _, d := range b.Items() {
			if out.Len() >= out.Cap() {
				return nil
			}
			dedup.Forward(d)
		}
	}
	return nil
}
