package lint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylint/internal/ast"
	"stylint/internal/diag"
)

func parallelRegistry(t *testing.T) *Registry {
	return mustRegistry(t,
		flagKind("ident", ast.NodeIdent, "ident"),
		flagKind("program", ast.NodeProgram, "root"),
		Rule{
			ID:       "param-use",
			Kinds:    []ast.NodeKind{ast.NodeIdent},
			Severity: diag.SevError,
			Check: func(ctx *Context, id ast.NodeID) (*Finding, error) {
				if ctx.IsParam(ctx.Tree().Name(id)) {
					return &Finding{Message: "param"}, nil
				}
				return nil, nil
			},
		},
		Rule{
			ID:       "panics-on-literal",
			Kinds:    []ast.NodeKind{ast.NodeLiteral},
			Severity: diag.SevWarning,
			Check: func(*Context, ast.NodeID) (*Finding, error) {
				panic("literal")
			},
		},
	)
}

func TestWalkParallel_MatchesSequential(t *testing.T) {
	fx := buildFixture(t)
	w := NewWalker(parallelRegistry(t))

	want, err := w.Walk(context.Background(), fx.tree)
	require.NoError(t, err)
	require.NotEmpty(t, want)

	for _, jobs := range []int{0, 1, 2, 8} {
		got, err := w.WalkParallel(context.Background(), fx.tree, jobs)
		require.NoError(t, err)
		assert.Equal(t, want, got, "jobs=%d", jobs)
	}
}

func TestWalkParallel_RespectsCapLikeSequential(t *testing.T) {
	fx := buildFixture(t)
	w := NewWalker(parallelRegistry(t))
	w.MaxDiagnostics = 4

	want, err := w.Walk(context.Background(), fx.tree)
	require.NoError(t, err)
	got, err := w.WalkParallel(context.Background(), fx.tree, 2)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Len(t, got, 4)
}

func TestWalkParallel_Cancelled(t *testing.T) {
	fx := buildFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewWalker(parallelRegistry(t)).WalkParallel(ctx, fx.tree, 2)
	require.ErrorIs(t, err, context.Canceled)
}
