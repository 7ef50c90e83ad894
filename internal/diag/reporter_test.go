package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylint/internal/source"
)

func TestReportBuilder_EmitsOnce(t *testing.T) {
	bag := NewBag(0)
	b := ReportWarning(BagReporter{Bag: bag}, "eqeqeq", span(0, 2, 4), "use ===").
		WithNote(span(0, 0, 1), "left operand")
	b.Emit()
	b.Emit()

	require.Equal(t, 1, bag.Len())
	d := bag.Items()[0]
	assert.Equal(t, SevWarning, d.Severity)
	assert.Equal(t, "eqeqeq", d.Rule)
	require.Len(t, d.Notes, 1)
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(2)
	r := NewDedupReporter(BagReporter{Bag: bag})
	r.Report("r", SevWarning, span(0, 0, 1), "a", nil)
	r.Report("r", SevError, span(0, 0, 1), "b", nil)
	r.Forward(NewWarning("r", span(0, 0, 1), "again"))
	r.Report("other", SevWarning, span(0, 0, 1), "same span, other rule", nil)
	r.Report("r", SevWarning, span(1, 0, 1), "other file", nil)

	assert.Equal(t, 3, r.Forwarded())
	assert.Equal(t, 2, r.Dropped())
	require.Equal(t, 2, bag.Len(), "cap counts distinct reports only")
	assert.Equal(t, "a", bag.Items()[0].Message)
	assert.Equal(t, "other", bag.Items()[1].Rule)

	var nilReporter *DedupReporter
	nilReporter.Report("r", SevWarning, span(0, 0, 1), "ignored", nil)
}

func TestParseSeverity(t *testing.T) {
	cases := map[string]Severity{"warning": SevWarning, "WARN": SevWarning, " error ": SevError}
	for in, want := range cases {
		got, err := ParseSeverity(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseSeverity("fatal")
	require.Error(t, err)

	var s Severity
	require.NoError(t, s.UnmarshalText([]byte("error")))
	assert.Equal(t, SevError, s)
	text, err := s.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "error", string(text))
}

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")
	file := fs.Add("/workspace/src/app.js", []byte("a\nb ? c : d\n"), 0)

	diags := []Diagnostic{
		NewWarning("no-nested-ternary", span(file, 2, 11), "nested\nternary").
			WithNote(span(file, 0, 1), "outer here"),
		NewError("parse-error", span(file, 0, 1), "unexpected token"),
	}

	want := "note no-nested-ternary src/app.js:1:1 outer here\n" +
		"error parse-error src/app.js:1:1 unexpected token\n" +
		"warning no-nested-ternary src/app.js:2:1 nested ternary"
	assert.Equal(t, want, FormatShortDiagnostics(diags, fs, true))
	assert.Empty(t, FormatShortDiagnostics(nil, fs, false))
}
