package lint

import (
	"testing"

	"github.com/stretchr/testify/require"

	"stylint/internal/ast"
	"stylint/internal/diag"
	"stylint/internal/source"
)

const fixtureSrc = "function f(a, b) { a = 1; switch (a) { case 1: let x = 2; } }\nx ? y : z;\n"

type fixture struct {
	tree   *ast.Tree
	fn     ast.NodeID
	assign ast.NodeID
	caseID ast.NodeID
	decl   ast.NodeID
	cond   ast.NodeID
}

func sp(start, end uint32) source.Span {
	return source.Span{Start: start, End: end}
}

func buildFixture(t *testing.T) fixture {
	t.Helper()
	b := ast.NewBuilder(0, nil, 0)
	var fx fixture

	fname := b.Ident(sp(9, 10), "f")
	pa := b.Ident(sp(11, 12), "a")
	pb := b.Ident(sp(14, 15), "b")

	target := b.Ident(sp(19, 20), "a")
	one := b.Literal(sp(23, 24), ast.LitNumber, "1")
	fx.assign = b.Assign(sp(19, 24), "=", target, one)
	stmt := b.New(ast.NodeExprStmt, sp(19, 25), fx.assign)

	disc := b.Ident(sp(34, 35), "a")
	test := b.Literal(sp(44, 45), ast.LitNumber, "1")
	x := b.Ident(sp(51, 52), "x")
	two := b.Literal(sp(55, 56), ast.LitNumber, "2")
	declarator := b.Declarator(sp(51, 56), x, two)
	fx.decl = b.VarDecl(sp(47, 57), ast.DeclLet, declarator)
	fx.caseID = b.Case(sp(39, 57), test, fx.decl)
	sw := b.Switch(sp(26, 59), disc, fx.caseID)

	body := b.New(ast.NodeBlock, sp(17, 61), stmt, sw)
	fx.fn = b.Function(ast.NodeFunctionDecl, sp(0, 61), ast.FunctionData{
		Name:   fname,
		Params: []ast.NodeID{pa, pb},
		Body:   body,
	})

	tx := b.Ident(sp(62, 63), "x")
	ty := b.Ident(sp(66, 67), "y")
	tz := b.Ident(sp(70, 71), "z")
	fx.cond = b.Conditional(sp(62, 71), tx, ty, tz)
	stmt2 := b.New(ast.NodeExprStmt, sp(62, 72), fx.cond)

	root := b.New(ast.NodeProgram, sp(0, 73), fx.fn, stmt2)
	tree, err := b.Finish(root)
	require.NoError(t, err)
	fx.tree = tree
	return fx
}

// allKinds subscribes a rule to every node kind.
func allKinds() []ast.NodeKind {
	return ast.NodeKinds()
}

func flagKind(id string, kind ast.NodeKind, msg string) Rule {
	return Rule{
		ID:       id,
		Kinds:    []ast.NodeKind{kind},
		Severity: diag.SevWarning,
		Check: func(*Context, ast.NodeID) (*Finding, error) {
			return &Finding{Message: msg}, nil
		},
	}
}

func mustRegistry(t *testing.T, rules ...Rule) *Registry {
	t.Helper()
	reg := NewRegistry()
	for _, r := range rules {
		require.NoError(t, reg.Register(r))
	}
	return reg
}
