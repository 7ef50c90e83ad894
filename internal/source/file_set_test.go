package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("app.js", []byte("let a = 1;"), 0)
	id2 := fs.Add("app.js", []byte("let b = 2;"), 0)
	require.NotEqual(t, id1, id2)

	latest, ok := fs.GetLatest("app.js")
	require.True(t, ok)
	assert.Equal(t, id2, latest)
	assert.Equal(t, "let a = 1;", string(fs.Get(id1).Content))
	assert.Equal(t, "let b = 2;", string(fs.Get(id2).Content))
	assert.Equal(t, 2, fs.Len())
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.js", []byte("a\nb\n"))
	file := fs.Get(id)

	assert.Equal(t, []uint32{1, 3}, file.LineIdx)
	assert.NotZero(t, file.Flags&FileVirtual)
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.js", []byte("foo\nbar baz\n\nqux"))

	tests := []struct {
		name  string
		span  Span
		start LineCol
		end   LineCol
	}{
		{"first line", Span{File: id, Start: 0, End: 3}, LineCol{1, 1}, LineCol{1, 4}},
		{"second line word", Span{File: id, Start: 8, End: 11}, LineCol{2, 5}, LineCol{2, 8}},
		{"newline belongs to its line", Span{File: id, Start: 3, End: 3}, LineCol{1, 4}, LineCol{1, 4}},
		{"after empty line", Span{File: id, Start: 13, End: 16}, LineCol{4, 1}, LineCol{4, 4}},
		{"across lines", Span{File: id, Start: 0, End: 16}, LineCol{1, 1}, LineCol{4, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := fs.Resolve(tt.span)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestResolveUTF8(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.js", []byte("α\n"))

	start, end := fs.Resolve(Span{File: id, Start: 0, End: 1})
	assert.Equal(t, LineCol{Line: 1, Col: 1}, start)
	assert.Equal(t, LineCol{Line: 1, Col: 2}, end)
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	file := fs.Get(fs.AddVirtual("a.js", []byte("one\ntwo\nthree")))

	assert.Equal(t, "one", file.GetLine(1))
	assert.Equal(t, "two", file.GetLine(2))
	assert.Equal(t, "three", file.GetLine(3))
	assert.Equal(t, "", file.GetLine(0))
	assert.Equal(t, "", file.GetLine(4))
}

func TestLoadNormalizesContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.js")
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a;\r\nb;\r\n")...)
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	fs := NewFileSet()
	id, err := fs.Load(path)
	require.NoError(t, err)

	file := fs.Get(id)
	assert.Equal(t, "a;\nb;\n", string(file.Content))
	assert.NotZero(t, file.Flags&FileHadBOM)
	assert.NotZero(t, file.Flags&FileNormalizedCRLF)
}

func TestLoadMissingFile(t *testing.T) {
	fs := NewFileSet()
	_, err := fs.Load(filepath.Join(t.TempDir(), "missing.js"))
	require.Error(t, err)
	assert.Zero(t, fs.Len())
}

func TestNormalizeCRLFKeepsLoneCR(t *testing.T) {
	out, changed := normalizeCRLF([]byte("a\rb\r\nc"))
	assert.True(t, changed)
	assert.Equal(t, "a\rb\nc", string(out))
}
