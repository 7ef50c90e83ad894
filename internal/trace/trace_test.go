package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelRecords(t *testing.T) {
	assert.False(t, LevelOff.Records(ScopeRun))
	assert.False(t, LevelError.Records(ScopeRun))
	assert.True(t, LevelPhase.Records(ScopePass))
	assert.False(t, LevelPhase.Records(ScopeFile))
	assert.True(t, LevelDetail.Records(ScopeFile))
	assert.False(t, LevelDetail.Records(ScopeNode))
	assert.True(t, LevelDebug.Records(ScopeNode))
}

func TestParseLevelAndMode(t *testing.T) {
	lvl, err := ParseLevel("DETAIL")
	require.NoError(t, err)
	assert.Equal(t, LevelDetail, lvl)
	assert.Equal(t, "detail", lvl.String())
	_, err = ParseLevel("loud")
	require.ErrorContains(t, err, "off|error|phase|detail|debug")

	mode, err := ParseMode("stats")
	require.NoError(t, err)
	assert.Equal(t, ModeStats, mode)
	_, err = ParseMode("tape")
	require.Error(t, err)
}

func TestStream_SpanPairsAsNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStream(&buf, LevelDetail, FormatNDJSON)

	span := Begin(tr, ScopeFile, "walk", 0)
	Begin(tr, ScopeNode, "rule:eqeqeq", span.ID()).End("")
	span.Set("nodes", "4").End("ok")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var begin, end map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &begin))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &end))
	assert.Equal(t, "begin", begin["kind"])
	assert.Equal(t, "end", end["kind"])
	assert.Equal(t, "file", end["scope"])
	assert.Equal(t, "ok", end["detail"])
	assert.Equal(t, begin["span"], end["span"])
	assert.Equal(t, map[string]any{"nodes": "4"}, end["attrs"])
}

func TestStream_Text(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStream(&buf, LevelDebug, FormatText)
	Point(tr, ScopeNode, "rule:eqeqeq", 0, "failed")
	Begin(tr, ScopeFile, "parse", 0).Set("nodes", "3").Set("errors", "0").End("a.js")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "      * rule:eqeqeq failed")
	assert.Contains(t, lines[1], "> parse")
	assert.Contains(t, lines[2], "< parse a.js nodes=3 errors=0 ")
}

func TestRing_KeepsNewest(t *testing.T) {
	ring := NewRing(3, LevelDebug)
	Point(ring, ScopeRun, "a", 0, "")
	assert.Len(t, ring.Snapshot(), 1)
	for _, name := range []string{"b", "c", "d", "e"} {
		Point(ring, ScopeRun, name, 0, "")
	}
	var names []string
	for _, ev := range ring.Snapshot() {
		names = append(names, ev.Name)
	}
	assert.Equal(t, []string{"c", "d", "e"}, names)

	var buf bytes.Buffer
	require.NoError(t, ring.Dump(&buf, FormatText))
	assert.Equal(t, 3, strings.Count(buf.String(), "\n"))
}

func TestStats_Table(t *testing.T) {
	var buf bytes.Buffer
	st := NewStats(&buf, LevelDebug)
	for range 3 {
		Begin(st, ScopeNode, "rule:no-var", 0).End("")
	}
	Point(st, ScopeNode, "rule:no-var", 0, "boom")
	Begin(st, ScopeFile, "parse", 0).End("")

	table := st.Table()
	require.Len(t, table, 2)
	assert.Equal(t, "parse", table[0].Name)
	assert.Equal(t, "rule:no-var", table[1].Name)
	assert.Equal(t, 3, table[1].Count)
	assert.Equal(t, 1, table[1].Points)
	assert.LessOrEqual(t, table[1].Mean(), table[1].Max)

	require.NoError(t, st.Close())
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "SCOPE"))
	assert.Contains(t, out, "rule:no-var")
}

func TestNew(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	require.NoError(t, err)
	assert.False(t, Enabled(tr))

	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	require.NoError(t, err)
	ring, ok := RingOf(tr)
	require.True(t, ok)
	Begin(tr, ScopePass, "render", 0).End("")
	assert.Len(t, ring.Snapshot(), 2)
	assert.NotEmpty(t, buf.String())
	require.NoError(t, tr.Close())

	_, err = New(Config{Level: LevelPhase})
	require.Error(t, err, "mode is required")
}

func TestNew_FileOutputIsFlushedOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.ndjson")
	tr, err := New(Config{Level: LevelDetail, Mode: ModeStream, OutputPath: path})
	require.NoError(t, err)
	Begin(tr, ScopeFile, "lint_file", 0).End("a.js")
	require.NoError(t, tr.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, json.Valid([]byte(lines[1])), "extension selects ndjson")
}

func TestContextPropagation(t *testing.T) {
	assert.Equal(t, Nop, FromContext(context.Background()))

	ring := NewRing(8, LevelDebug)
	ctx := WithTracer(context.Background(), ring)
	assert.Equal(t, Tracer(ring), FromContext(ctx))

	span := Begin(ring, ScopeRun, "run", 0)
	ctx = WithSpan(ctx, span)
	assert.Equal(t, span.ID(), CurrentSpan(ctx))
	assert.Equal(t, ctx, WithSpan(ctx, Begin(Nop, ScopeRun, "x", 0)))
}

func TestInertSpan(t *testing.T) {
	span := Begin(Nop, ScopeRun, "x", 0)
	assert.Zero(t, span.ID())
	assert.Zero(t, span.Set("k", "v").End(""))
	assert.Same(t, span, Begin(NewRing(1, LevelPhase), ScopeNode, "y", 0))
	var nilSpan *Span
	assert.Zero(t, nilSpan.ID())
	assert.Zero(t, nilSpan.End(""))
}

func TestHeartbeat(t *testing.T) {
	ring := NewRing(16, LevelPhase)
	stop := StartHeartbeat(ring, time.Millisecond)
	require.Eventually(t, func() bool { return len(ring.Snapshot()) >= 2 }, time.Second, time.Millisecond)
	stop()
	stop()
	for _, ev := range ring.Snapshot() {
		assert.Equal(t, KindTick, ev.Kind)
	}

	StartHeartbeat(Nop, time.Millisecond)()
}
