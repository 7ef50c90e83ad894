package lint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylint/internal/ast"
	"stylint/internal/diag"
	"stylint/internal/source"
	"stylint/internal/testkit"
	"stylint/internal/trace"
)

func TestWalk_PreOrderAndBalancedDepth(t *testing.T) {
	fx := buildFixture(t)

	var kinds []ast.NodeKind
	var depths []int
	reg := mustRegistry(t, Rule{
		ID:       "record",
		Kinds:    allKinds(),
		Severity: diag.SevWarning,
		Check: func(ctx *Context, id ast.NodeID) (*Finding, error) {
			kinds = append(kinds, ctx.Tree().Kind(id))
			depths = append(depths, ctx.Depth())
			assert.Equal(t, id, ctx.Node())
			assert.Equal(t, ctx.Tree().Parent(id), ctx.Parent())
			return nil, nil
		},
	})

	w := NewWalker(reg)
	c := newContext(fx.tree, 4)
	nodes, err := w.walk(context.Background(), c, fx.tree.Root, diag.NopReporter{})
	require.NoError(t, err)
	assert.Equal(t, fx.tree.Len(), nodes)
	assert.Equal(t, 0, c.Depth(), "every push is matched by a pop")

	require.Len(t, kinds, fx.tree.Len())
	assert.Equal(t, ast.NodeProgram, kinds[0])
	assert.Equal(t, ast.NodeFunctionDecl, kinds[1])
	assert.Equal(t, ast.NodeIdent, kinds[2], "function name precedes params and body")
	assert.Equal(t, ast.NodeExprStmt, kinds[len(kinds)-5])
	assert.Equal(t, 1, depths[0])
	for i := 1; i < len(depths); i++ {
		assert.LessOrEqual(t, depths[i], depths[i-1]+1, "pre-order descends one level at a time")
	}
}

func TestWalk_ContextFrames(t *testing.T) {
	fx := buildFixture(t)

	type seen struct {
		params []string
		inCase bool
		caseID ast.NodeID
		fn     ast.NodeID
	}
	got := map[ast.NodeID]seen{}
	reg := mustRegistry(t, Rule{
		ID:       "frames",
		Kinds:    []ast.NodeKind{ast.NodeAssign, ast.NodeVarDecl, ast.NodeConditional},
		Severity: diag.SevWarning,
		Check: func(ctx *Context, id ast.NodeID) (*Finding, error) {
			got[id] = seen{
				params: ctx.Params(),
				inCase: ctx.InSwitchCase(),
				caseID: ctx.EnclosingCase(),
				fn:     ctx.EnclosingFunction(),
			}
			return nil, nil
		},
	})
	_, err := Walk(context.Background(), reg, fx.tree)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, got[fx.assign].params)
	assert.Equal(t, fx.fn, got[fx.assign].fn)
	assert.False(t, got[fx.assign].inCase)

	assert.True(t, got[fx.decl].inCase)
	assert.Equal(t, fx.caseID, got[fx.decl].caseID)

	assert.Empty(t, got[fx.cond].params)
	assert.Equal(t, ast.NoNodeID, got[fx.cond].fn)
}

func TestWalk_AncestorsChain(t *testing.T) {
	fx := buildFixture(t)
	var chain []ast.NodeKind
	reg := mustRegistry(t, Rule{
		ID:       "chain",
		Kinds:    []ast.NodeKind{ast.NodeVarDecl},
		Severity: diag.SevWarning,
		Check: func(ctx *Context, _ ast.NodeID) (*Finding, error) {
			for a := range ctx.Ancestors() {
				chain = append(chain, ctx.Tree().Kind(a))
			}
			assert.Equal(t, ctx.Parent(), ctx.Ancestor(1))
			assert.Equal(t, ast.NoNodeID, ctx.Ancestor(99))
			return nil, nil
		},
	})
	_, err := Walk(context.Background(), reg, fx.tree)
	require.NoError(t, err)
	assert.Equal(t, []ast.NodeKind{
		ast.NodeSwitchCase, ast.NodeSwitch, ast.NodeBlock, ast.NodeFunctionDecl, ast.NodeProgram,
	}, chain)
}

func TestWalk_RepeatedFindingsDoNotUseUpCap(t *testing.T) {
	fx := buildFixture(t)
	shared := sp(19, 24)
	reg := mustRegistry(t,
		Rule{
			ID:       "same-span",
			Kinds:    []ast.NodeKind{ast.NodeExprStmt, ast.NodeAssign},
			Severity: diag.SevWarning,
			Check: func(ctx *Context, id ast.NodeID) (*Finding, error) {
				if !ctx.Tree().Span(id).Contains(shared) {
					return nil, nil
				}
				return &Finding{Span: shared, Message: "reported from " + ctx.Tree().Kind(id).String()}, nil
			},
		},
		flagKind("ternary", ast.NodeConditional, "ternary"),
	)

	bag := diag.NewBag(2)
	w := NewWalker(reg)
	require.NoError(t, w.WalkInto(context.Background(), fx.tree, diag.BagReporter{Bag: bag}))
	require.Equal(t, 2, bag.Len())
	assert.Equal(t, "same-span", bag.Items()[0].Rule)
	assert.Equal(t, "reported from expression-statement", bag.Items()[0].Message, "first report wins")
	assert.Equal(t, "ternary", bag.Items()[1].Rule)

	w.MaxDiagnostics = 2
	seq, err := w.Walk(context.Background(), fx.tree)
	require.NoError(t, err)
	par, err := w.WalkParallel(context.Background(), fx.tree, 2)
	require.NoError(t, err)
	assert.Equal(t, seq, par)
	assert.Len(t, seq, 2)
}

func TestWalk_KindWithoutRulesIsNoOp(t *testing.T) {
	fx := buildFixture(t)
	out, err := Walk(context.Background(), NewRegistry(), fx.tree)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestWalk_IsolatesFailingEvaluators(t *testing.T) {
	fx := buildFixture(t)
	reg := mustRegistry(t,
		Rule{
			ID:       "panics",
			Kinds:    []ast.NodeKind{ast.NodeConditional},
			Severity: diag.SevWarning,
			Check: func(*Context, ast.NodeID) (*Finding, error) {
				panic("boom")
			},
		},
		Rule{
			ID:       "errors",
			Kinds:    []ast.NodeKind{ast.NodeConditional},
			Severity: diag.SevWarning,
			Check: func(*Context, ast.NodeID) (*Finding, error) {
				return nil, errors.New("cannot decide")
			},
		},
		flagKind("healthy", ast.NodeConditional, "still reported"),
		flagKind("later-node", ast.NodeExprStmt, "walk continued"),
	)

	out, err := Walk(context.Background(), reg, fx.tree)
	require.NoError(t, err)

	var failures, healthy, later int
	for _, d := range out {
		switch d.Rule {
		case diag.RuleInternalFailure:
			failures++
			assert.Equal(t, diag.SevError, d.Severity)
			assert.Equal(t, fx.tree.Span(fx.cond), d.Primary)
		case "healthy":
			healthy++
		case "later-node":
			later++
		}
	}
	assert.Equal(t, 2, failures, "one per failing rule")
	assert.Equal(t, 1, healthy)
	assert.Equal(t, 2, later)

	msgs := fmt.Sprint(out)
	assert.Contains(t, msgs, "rule panics failed")
	assert.Contains(t, msgs, "rule errors failed")
}

func TestWalk_FindingOutsideNodeIsFailure(t *testing.T) {
	fx := buildFixture(t)
	reg := mustRegistry(t, Rule{
		ID:       "escapes",
		Kinds:    []ast.NodeKind{ast.NodeConditional},
		Severity: diag.SevWarning,
		Check: func(*Context, ast.NodeID) (*Finding, error) {
			return &Finding{Span: source.Span{Start: 0, End: 5}, Message: "too wide"}, nil
		},
	})
	out, err := Walk(context.Background(), reg, fx.tree)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, diag.RuleInternalFailure, out[0].Rule)
}

func TestWalk_DiagnosticsLieWithinNodes(t *testing.T) {
	fx := buildFixture(t)
	reg := mustRegistry(t, Rule{
		ID:       "every-node",
		Kinds:    allKinds(),
		Severity: diag.SevWarning,
		Check: func(ctx *Context, id ast.NodeID) (*Finding, error) {
			s := ctx.Tree().Span(id)
			if s.Len() < 2 {
				return &Finding{Message: "small"}, nil
			}
			return &Finding{Span: source.Span{File: s.File, Start: s.Start + 1, End: s.End}, Message: "inner"}, nil
		},
	})
	out, err := Walk(context.Background(), reg, fx.tree)
	require.NoError(t, err)
	assert.Len(t, out, fx.tree.Len())
	require.NoError(t, testkit.CheckTreeSpans(fx.tree))
}

func TestWalk_DeterministicAndDeduplicated(t *testing.T) {
	fx := buildFixture(t)
	reg := mustRegistry(t,
		flagKind("z", ast.NodeIdent, "ident"),
		flagKind("a", ast.NodeIdent, "ident"),
		flagKind("lit", ast.NodeLiteral, "literal"),
	)
	first, err := Walk(context.Background(), reg, fx.tree)
	require.NoError(t, err)
	second, err := Walk(context.Background(), reg, fx.tree)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	type key struct {
		rule string
		span source.Span
	}
	seen := map[key]bool{}
	for i, d := range first {
		k := key{d.Rule, d.Primary}
		assert.False(t, seen[k], "duplicate %v", k)
		seen[k] = true
		if i > 0 {
			prev := first[i-1]
			assert.False(t, d.Primary.Before(prev.Primary), "sorted by position")
		}
	}
}

func TestWalk_MaxDiagnostics(t *testing.T) {
	fx := buildFixture(t)
	w := NewWalker(mustRegistry(t, flagKind("ident", ast.NodeIdent, "")))
	w.MaxDiagnostics = 3
	out, err := w.Walk(context.Background(), fx.tree)
	require.NoError(t, err)
	assert.Len(t, out, 3)
}

func TestWalk_Cancelled(t *testing.T) {
	fx := buildFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Walk(ctx, mustRegistry(t, flagKind("x", ast.NodeIdent, "")), fx.tree)
	require.ErrorIs(t, err, context.Canceled)
}

func TestWalk_DeepTreeIsIterative(t *testing.T) {
	const depth = 100_000
	b := ast.NewBuilder(0, nil, depth+2)
	end := uint32(2*depth + 1)
	id := b.Ident(sp(depth, depth+1), "x")
	for i := uint32(depth); i > 0; i-- {
		id = b.New(ast.NodeParen, sp(i-1, end-(i-1)), id)
	}
	root := b.New(ast.NodeProgram, sp(0, end), id)
	tree, err := b.Finish(root)
	require.NoError(t, err)

	out, err := Walk(context.Background(), mustRegistry(t, flagKind("x", ast.NodeIdent, "found")), tree)
	require.NoError(t, err)
	require.Len(t, out, 1)
}

func TestWalk_TracesRuleEvaluations(t *testing.T) {
	fx := buildFixture(t)
	reg := mustRegistry(t,
		flagKind("flag-cond", ast.NodeConditional, "cond"),
		Rule{
			ID:       "always-fails",
			Kinds:    []ast.NodeKind{ast.NodeAssign},
			Severity: diag.SevWarning,
			Check: func(*Context, ast.NodeID) (*Finding, error) {
				return nil, errors.New("boom")
			},
		},
	)

	stats := trace.NewStats(io.Discard, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), stats)
	_, err := NewWalker(reg).Walk(ctx, fx.tree)
	require.NoError(t, err)

	byName := map[string]trace.Stat{}
	for _, st := range stats.Table() {
		byName[st.Name] = st
	}
	assert.Equal(t, 1, byName["walk"].Count)
	assert.Equal(t, 1, byName["rule:flag-cond"].Count)
	assert.Equal(t, 1, byName["rule:always-fails"].Count)
	assert.Equal(t, 1, byName["rule:always-fails"].Points)

	detail := trace.NewStats(io.Discard, trace.LevelDetail)
	_, err = NewWalker(reg).Walk(trace.WithTracer(context.Background(), detail), fx.tree)
	require.NoError(t, err)
	for _, st := range detail.Table() {
		assert.NotEqual(t, trace.ScopeNode, st.Scope, st.Name)
	}
}
