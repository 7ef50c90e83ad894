package observ

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimer_Report(t *testing.T) {
	tm := NewTimer()
	parse := tm.Begin("parse")
	tm.End(parse, "0 errors")
	lint := tm.Begin("lint")
	tm.End(lint, "")
	tm.End(42, "ignored")

	r := tm.Report()
	require.Len(t, r.Phases, 2)
	assert.Equal(t, "parse", r.Phases[0].Name)
	assert.Equal(t, "0 errors", r.Phases[0].Note)
	assert.GreaterOrEqual(t, r.TotalMS, r.Phases[0].DurationMS)

	s := tm.Summary()
	assert.Contains(t, s, "timings:")
	assert.Contains(t, s, "// 0 errors")
	assert.Contains(t, s, "total")
}

func TestSum(t *testing.T) {
	a := Report{TotalMS: 3, Phases: []PhaseReport{{Name: "parse", DurationMS: 1}, {Name: "lint", DurationMS: 2}}}
	b := Report{TotalMS: 5, Phases: []PhaseReport{{Name: "cache", DurationMS: 1}, {Name: "lint", DurationMS: 4, Note: "x"}}}

	sum := Sum(a, b)
	assert.Equal(t, 8.0, sum.TotalMS)
	assert.Equal(t, []PhaseReport{
		{Name: "parse", DurationMS: 1},
		{Name: "lint", DurationMS: 6},
		{Name: "cache", DurationMS: 1},
	}, sum.Phases)
	assert.Equal(t, "lint", sum.Slowest(1)[0].Name)
	assert.Len(t, sum.Slowest(10), 3)
	assert.Empty(t, NewTimer().Report().Phases)
}
