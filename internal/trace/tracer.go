package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer receives events. Implementations must be safe for concurrent use.
type Tracer interface {
	Emit(ev *Event)
	Level() Level
	// Close flushes buffered output and releases the sink.
	Close() error
}

// Enabled reports whether t records anything at all.
func Enabled(t Tracer) bool {
	return t != nil && t.Level() > LevelOff
}

func records(t Tracer, scope Scope) bool {
	return t != nil && t.Level().Records(scope)
}

type Mode uint8

const (
	ModeStream Mode = iota + 1
	ModeRing
	ModeBoth
	ModeStats
)

var modeNames = map[Mode]string{
	ModeStream: "stream",
	ModeRing:   "ring",
	ModeBoth:   "both",
	ModeStats:  "stats",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

func ParseMode(s string) (Mode, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for m, name := range modeNames {
		if name == want {
			return m, nil
		}
	}
	return ModeRing, fmt.Errorf("invalid trace mode: %q (expected: stream|ring|both|stats)", s)
}

type Config struct {
	Level Level
	Mode  Mode
	// Format of streamed events; FormatAuto picks ndjson for .ndjson and
	// .jsonl paths and text otherwise.
	Format     Format
	Output     io.Writer // overrides OutputPath
	OutputPath string    // "" or "-" is stderr
	RingSize   int       // default 4096
}

const defaultRingSize = 4096

// New builds the tracer described by cfg. LevelOff yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.RingSize <= 0 {
		cfg.RingSize = defaultRingSize
	}
	if cfg.Format == FormatAuto {
		cfg.Format = FormatText
		if strings.HasSuffix(cfg.OutputPath, ".ndjson") || strings.HasSuffix(cfg.OutputPath, ".jsonl") {
			cfg.Format = FormatNDJSON
		}
	}

	switch cfg.Mode {
	case ModeRing:
		return NewRing(cfg.RingSize, cfg.Level), nil
	case ModeStream, ModeBoth, ModeStats:
	default:
		return nil, fmt.Errorf("unknown trace mode: %v", cfg.Mode)
	}

	w, err := openOutput(cfg)
	if err != nil {
		return nil, err
	}
	switch cfg.Mode {
	case ModeStats:
		return NewStats(w, cfg.Level), nil
	case ModeBoth:
		return &fanout{level: cfg.Level, sinks: []Tracer{NewStream(w, cfg.Level, cfg.Format), NewRing(cfg.RingSize, cfg.Level)}}, nil
	}
	return NewStream(w, cfg.Level, cfg.Format), nil
}

func openOutput(cfg Config) (io.Writer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return stderr{}, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return &bufferedFile{Writer: bufio.NewWriter(f), f: f}, nil
}

// stderr is resolved on every write and never closed.
type stderr struct{}

func (stderr) Write(p []byte) (int, error) { return os.Stderr.Write(p) }

type bufferedFile struct {
	*bufio.Writer
	f *os.File
}

func (b *bufferedFile) Close() error {
	if err := b.Flush(); err != nil {
		_ = b.f.Close()
		return err
	}
	return b.f.Close()
}

// RingOf returns the ring buffer inside t, if any.
func RingOf(t Tracer) (*Ring, bool) {
	switch v := t.(type) {
	case *Ring:
		return v, true
	case *fanout:
		for _, s := range v.sinks {
			if r, ok := RingOf(s); ok {
				return r, true
			}
		}
	}
	return nil, false
}
