package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylint/internal/source"
)

func sp(start, end uint32) source.Span {
	return source.Span{Start: start, End: end}
}

// a ? b : c ? d : e
func buildNestedTernary(t *testing.T) (*Tree, NodeID) {
	t.Helper()
	b := NewBuilder(0, nil, 0)
	a := b.Ident(sp(0, 1), "a")
	bb := b.Ident(sp(4, 5), "b")
	c := b.Ident(sp(8, 9), "c")
	d := b.Ident(sp(12, 13), "d")
	e := b.Ident(sp(16, 17), "e")
	inner := b.Conditional(sp(8, 17), c, d, e)
	outer := b.Conditional(sp(0, 17), a, bb, inner)
	stmt := b.New(NodeExprStmt, sp(0, 18), outer)
	root := b.New(NodeProgram, sp(0, 18), stmt)
	tree, err := b.Finish(root)
	require.NoError(t, err)
	return tree, outer
}

func TestBuilder_ParentLinksAndOrder(t *testing.T) {
	tree, outer := buildNestedTernary(t)

	assert.Equal(t, NodeProgram, tree.Kind(tree.Root))
	assert.Equal(t, NoNodeID, tree.Parent(tree.Root))

	data, ok := tree.Conditional(outer)
	require.True(t, ok)
	assert.Equal(t, "a", tree.Name(data.Test))
	assert.Equal(t, []NodeID{data.Test, data.Consequent, data.Alternate}, tree.Children(outer))
	for _, c := range tree.Children(outer) {
		assert.Equal(t, outer, tree.Parent(c))
	}
	assert.Equal(t, NodeConditional, tree.Kind(data.Alternate))
}

func TestBuilder_ChildrenSortedBySource(t *testing.T) {
	b := NewBuilder(0, nil, 0)
	second := b.Ident(sp(5, 6), "y")
	first := b.Ident(sp(0, 1), "x")
	root := b.New(NodeProgram, sp(0, 6), second, first)
	tree, err := b.Finish(root)
	require.NoError(t, err)
	assert.Equal(t, []NodeID{first, second}, tree.Children(root))
}

func TestBuilder_KindCheckedAccessors(t *testing.T) {
	tree, outer := buildNestedTernary(t)

	_, ok := tree.Call(outer)
	assert.False(t, ok)
	_, ok = tree.Conditional(tree.Root)
	assert.False(t, ok)
	_, ok = tree.Conditional(NoNodeID)
	assert.False(t, ok)
	assert.Equal(t, NodeInvalid, tree.Kind(NodeID(9999)))
}

func TestBuilder_ReattachFails(t *testing.T) {
	b := NewBuilder(0, nil, 0)
	x := b.Ident(sp(0, 1), "x")
	b.New(NodeExprStmt, sp(0, 2), x)
	other := b.New(NodeExprStmt, sp(0, 2), x)
	_, err := b.Finish(other)
	require.ErrorIs(t, err, ErrNodeReattached)
}

func TestBuilder_FinishSeals(t *testing.T) {
	b := NewBuilder(0, nil, 0)
	root := b.New(NodeProgram, sp(0, 0))
	_, err := b.Finish(root)
	require.NoError(t, err)

	_, err = b.Finish(root)
	require.ErrorIs(t, err, ErrBuilderFinished)
	assert.Equal(t, NoNodeID, b.Ident(sp(0, 1), "late"))
}

func TestBuilder_InvalidRoot(t *testing.T) {
	b := NewBuilder(0, nil, 0)
	x := b.Ident(sp(0, 1), "x")
	b.New(NodeExprStmt, sp(0, 1), x)
	_, err := b.Finish(x)
	require.ErrorIs(t, err, ErrInvalidRoot)

	b = NewBuilder(0, nil, 0)
	_, err = b.Finish(NodeID(3))
	require.ErrorIs(t, err, ErrInvalidRoot)
}

func TestBuilder_ShorthandPropertyAttachesOnce(t *testing.T) {
	b := NewBuilder(0, nil, 0)
	key := b.Ident(sp(1, 2), "a")
	prop := b.Property(sp(1, 2), PropertyData{Key: key, Value: key, Shorthand: true})
	obj := b.New(NodeObject, sp(0, 3), prop)
	tree, err := b.Finish(obj)
	require.NoError(t, err)
	assert.Equal(t, []NodeID{key}, tree.Children(prop))
}

func TestBuilder_FunctionRejectsNonFunctionKind(t *testing.T) {
	b := NewBuilder(0, nil, 0)
	body := b.New(NodeBlock, sp(0, 2))
	id := b.Function(NodeBlock, sp(0, 2), FunctionData{Body: body})
	assert.Equal(t, NoNodeID, id)
	_, err := b.Finish(body)
	require.Error(t, err)
}

func TestBuilder_CommentsSorted(t *testing.T) {
	b := NewBuilder(0, nil, 0)
	b.Comment(sp(10, 20), "// later")
	b.Comment(sp(0, 5), "// first")
	root := b.New(NodeProgram, sp(0, 20))
	tree, err := b.Finish(root)
	require.NoError(t, err)
	require.Len(t, tree.Comments, 2)
	assert.Equal(t, "// first", tree.Comments[0].Text)
}

func TestBuilder_MarkOptional(t *testing.T) {
	b := NewBuilder(0, nil, 0)
	obj := b.Ident(sp(0, 1), "a")
	prop := b.Ident(sp(3, 4), "b")
	m := b.Member(sp(0, 4), obj, prop, false)
	b.MarkOptional(m)
	call := b.Call(sp(0, 8), m)
	b.MarkOptional(prop)
	tree, err := b.Finish(b.New(NodeProgram, sp(0, 8), call))
	require.NoError(t, err)

	md, ok := tree.Member(m)
	require.True(t, ok)
	assert.True(t, md.Optional)
	cd, ok := tree.Call(call)
	require.True(t, ok)
	assert.False(t, cd.Optional)
}

func TestTree_Line(t *testing.T) {
	b := NewBuilder(0, nil, 0)
	x := b.Ident(sp(0, 1), "x")
	root := b.New(NodeProgram, sp(0, 8), x)
	// "x\n\ny;\nz\n"
	b.Lines([]uint32{1, 2, 5})
	tree, err := b.Finish(root)
	require.NoError(t, err)

	for off, want := range map[uint32]int{0: 1, 1: 1, 2: 2, 3: 3, 5: 3, 6: 4} {
		assert.Equal(t, want, tree.Line(off), "offset %d", off)
	}

	bare, _ := buildNestedTernary(t)
	assert.Equal(t, 1, bare.Line(17), "no newline index means one line")
}
