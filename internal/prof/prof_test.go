package prof

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_WritesProfiles(t *testing.T) {
	dir := t.TempDir()
	p := Paths{
		CPU:   filepath.Join(dir, "cpu.pprof"),
		Mem:   filepath.Join(dir, "mem.pprof"),
		Trace: filepath.Join(dir, "run.trace"),
	}
	s, err := Start(p)
	require.NoError(t, err)
	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())

	for _, path := range []string{p.CPU, p.Mem, p.Trace} {
		info, err := os.Stat(path)
		require.NoError(t, err, path)
		assert.NotZero(t, info.Size(), path)
	}
}

func TestSession_Empty(t *testing.T) {
	assert.True(t, Paths{}.Empty())
	s, err := Start(Paths{})
	require.NoError(t, err)
	assert.NoError(t, s.Stop())
}

func TestStart_BadPath(t *testing.T) {
	_, err := Start(Paths{CPU: filepath.Join(t.TempDir(), "missing", "cpu.pprof")})
	require.Error(t, err)
}
