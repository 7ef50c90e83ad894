package trace

import (
	"errors"
	"io"
	"sync"
)

type nopTracer struct{}

func (nopTracer) Emit(*Event)  {}
func (nopTracer) Level() Level { return LevelOff }
func (nopTracer) Close() error { return nil }

// Nop records nothing.
var Nop Tracer = nopTracer{}

func keep(level Level, ev *Event) bool {
	return ev.Kind == KindTick || level.Records(ev.Scope)
}

// Stream writes every event to w as it arrives. Write errors are dropped:
// tracing never fails a lint run.
type Stream struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format
}

func NewStream(w io.Writer, level Level, format Format) *Stream {
	return &Stream{w: w, level: level, format: format}
}

func (s *Stream) Emit(ev *Event) {
	if !keep(s.level, ev) {
		return
	}
	line := FormatEvent(ev, s.format)
	s.mu.Lock()
	_, _ = s.w.Write(line)
	s.mu.Unlock()
}

func (s *Stream) Level() Level { return s.level }

func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Ring keeps the most recent events in a fixed buffer.
type Ring struct {
	mu    sync.Mutex
	buf   []Event
	next  int
	count int
	level Level
}

func NewRing(size int, level Level) *Ring {
	if size <= 0 {
		size = defaultRingSize
	}
	return &Ring{buf: make([]Event, size), level: level}
}

func (r *Ring) Emit(ev *Event) {
	if !keep(r.level, ev) {
		return
	}
	r.mu.Lock()
	r.buf[r.next] = *ev
	r.next = (r.next + 1) % len(r.buf)
	r.count = min(r.count+1, len(r.buf))
	r.mu.Unlock()
}

// Snapshot returns the kept events, oldest first.
func (r *Ring) Snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, 0, r.count)
	start := (r.next - r.count + len(r.buf)) % len(r.buf)
	for i := range r.count {
		out = append(out, r.buf[(start+i)%len(r.buf)])
	}
	return out
}

func (r *Ring) Dump(w io.Writer, format Format) error {
	for _, ev := range r.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Ring) Level() Level { return r.level }
func (r *Ring) Close() error { return nil }

type fanout struct {
	level Level
	sinks []Tracer
}

func (f *fanout) Emit(ev *Event) {
	for _, s := range f.sinks {
		s.Emit(ev)
	}
}

func (f *fanout) Level() Level { return f.level }

func (f *fanout) Close() error {
	errs := make([]error, 0, len(f.sinks))
	for _, s := range f.sinks {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
