package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylint/internal/source"
)

func span(file source.FileID, start, end uint32) source.Span {
	return source.Span{File: file, Start: start, End: end}
}

func TestBag_AddRespectsLimit(t *testing.T) {
	b := NewBag(2)
	require.NoError(t, b.Add(NewWarning("a", span(0, 0, 1), "x")))
	require.NoError(t, b.Add(NewWarning("b", span(0, 0, 1), "x")))
	require.ErrorIs(t, b.Add(NewWarning("c", span(0, 0, 1), "x")), ErrLimitReached)
	assert.Equal(t, 2, b.Len())

	unlimited := NewBag(0)
	for range 100 {
		require.NoError(t, unlimited.Add(NewWarning("a", span(0, 0, 1), "x")))
	}
	assert.Equal(t, 100, unlimited.Len())
}

func TestBag_SortOrder(t *testing.T) {
	b := NewBag(0)
	require.NoError(t, b.Add(NewWarning("z-rule", span(1, 0, 4), "file 1")))
	require.NoError(t, b.Add(NewWarning("b-rule", span(0, 10, 12), "later")))
	require.NoError(t, b.Add(NewWarning("b-rule", span(0, 2, 9), "wide")))
	require.NoError(t, b.Add(NewWarning("b-rule", span(0, 2, 5), "narrow")))
	require.NoError(t, b.Add(NewError("a-rule", span(0, 2, 5), "same span")))

	b.Sort()
	var got []string
	for _, d := range b.Items() {
		got = append(got, d.Message)
	}
	assert.Equal(t, []string{"same span", "narrow", "wide", "later", "file 1"}, got)
}

func TestBag_DedupBySpanAndRule(t *testing.T) {
	b := NewBag(0)
	require.NoError(t, b.Add(NewWarning("r", span(0, 0, 3), "first")))
	require.NoError(t, b.Add(NewWarning("r", span(0, 0, 3), "second")))
	require.NoError(t, b.Add(NewWarning("other", span(0, 0, 3), "kept")))
	require.NoError(t, b.Add(NewWarning("r", span(0, 0, 4), "kept too")))

	b.Dedup()
	require.Equal(t, 3, b.Len())
	assert.Equal(t, "first", b.Items()[0].Message)
}

func TestBag_FinalizeTransitions(t *testing.T) {
	b := NewBag(0)
	require.NoError(t, b.Add(NewWarning("r", span(0, 5, 6), "b")))
	require.NoError(t, b.Add(NewWarning("r", span(0, 1, 2), "a")))
	require.NoError(t, b.Add(NewWarning("r", span(0, 1, 2), "dup")))

	out := b.Finalize()
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].Message)
	assert.True(t, b.Finalized())

	require.ErrorIs(t, b.Add(NewWarning("r", span(0, 0, 1), "late")), ErrFinalized)
	require.ErrorIs(t, b.Merge(NewBag(0)), ErrFinalized)
	require.ErrorIs(t, b.Filter(func(*Diagnostic) bool { return true }), ErrFinalized)

	out[0].Message = "mutated"
	again := b.Finalize()
	assert.Equal(t, "a", again[0].Message)
}

func TestBag_FinalizeIsDeterministic(t *testing.T) {
	emit := func(order []int) []Diagnostic {
		all := []Diagnostic{
			NewWarning("r1", span(0, 0, 10), "m1"),
			NewError("r2", span(0, 0, 10), "m2"),
			NewWarning("r1", span(0, 3, 4), "m3"),
			NewWarning("r3", span(1, 0, 1), "m4"),
		}
		b := NewBag(0)
		for _, i := range order {
			require.NoError(t, b.Add(all[i]))
		}
		return b.Finalize()
	}
	assert.Equal(t, emit([]int{0, 1, 2, 3}), emit([]int{3, 2, 1, 0}))
}

func TestBag_MergeGrowsLimit(t *testing.T) {
	a := NewBag(1)
	require.NoError(t, a.Add(NewWarning("r", span(0, 0, 1), "a")))
	other := NewBag(2)
	require.NoError(t, other.Add(NewWarning("r", span(0, 1, 2), "b")))
	require.NoError(t, other.Add(NewWarning("r", span(0, 2, 3), "c")))

	require.NoError(t, a.Merge(other))
	assert.Equal(t, 3, a.Len())
	assert.Equal(t, 3, a.Cap())
}

func TestBag_SeverityQueries(t *testing.T) {
	b := NewBag(0)
	assert.False(t, b.HasErrors())
	require.NoError(t, b.Add(NewWarning("r", span(0, 0, 1), "w")))
	assert.True(t, b.HasWarnings())
	assert.False(t, b.HasErrors())
	require.NoError(t, b.Add(NewError("r", span(0, 1, 2), "e")))
	assert.True(t, b.HasErrors())
}

func TestBag_Filter(t *testing.T) {
	b := NewBag(0)
	require.NoError(t, b.Add(NewWarning("keep", span(0, 0, 1), "")))
	require.NoError(t, b.Add(NewWarning("drop", span(0, 1, 2), "")))
	require.NoError(t, b.Filter(func(d *Diagnostic) bool { return d.Rule == "keep" }))
	require.Equal(t, 1, b.Len())
	assert.Equal(t, "keep", b.Items()[0].Rule)
}

func TestWithNoteDoesNotAlias(t *testing.T) {
	base := NewWarning("r", span(0, 0, 1), "m").WithNote(span(0, 0, 1), "one")
	a := base.WithNote(span(0, 0, 1), "a")
	b := base.WithNote(span(0, 0, 1), "b")
	assert.Equal(t, "a", a.Notes[1].Msg)
	assert.Equal(t, "b", b.Notes[1].Msg)
	assert.Len(t, base.Notes, 1)
}
