package trace

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"sync"
	"text/tabwriter"
	"time"
)

// Stat is the running total for one span name.
type Stat struct {
	Scope  Scope
	Name   string
	Count  int
	Total  time.Duration
	Max    time.Duration
	Points int // instant events with the same name, rule failures mostly
}

func (s Stat) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// Stats adds up span durations per name and writes a table on Close.
type Stats struct {
	mu    sync.Mutex
	w     io.Writer
	level Level
	byKey map[string]*Stat
}

func NewStats(w io.Writer, level Level) *Stats {
	return &Stats{w: w, level: level, byKey: map[string]*Stat{}}
}

func (s *Stats) Emit(ev *Event) {
	if ev.Kind != KindEnd && ev.Kind != KindPoint {
		return
	}
	if !s.level.Records(ev.Scope) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.byKey[ev.Name]
	if st == nil {
		st = &Stat{Scope: ev.Scope, Name: ev.Name}
		s.byKey[ev.Name] = st
	}
	if ev.Kind == KindPoint {
		st.Points++
		return
	}
	st.Count++
	st.Total += ev.Elapsed
	st.Max = max(st.Max, ev.Elapsed)
}

func (s *Stats) Level() Level { return s.level }

// Table returns the totals, coarsest scope first and slowest first within
// a scope.
func (s *Stats) Table() []Stat {
	s.mu.Lock()
	out := make([]Stat, 0, len(s.byKey))
	for _, st := range s.byKey {
		out = append(out, *st)
	}
	s.mu.Unlock()
	slices.SortFunc(out, func(a, b Stat) int {
		return cmp.Or(
			cmp.Compare(a.Scope, b.Scope),
			cmp.Compare(b.Total, a.Total),
			cmp.Compare(a.Name, b.Name),
		)
	})
	return out
}

// WriteTo renders Table as aligned columns.
func (s *Stats) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	tw := tabwriter.NewWriter(cw, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCOPE\tNAME\tCOUNT\tTOTAL\tMEAN\tMAX\tPOINTS")
	for _, st := range s.Table() {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t%d\n",
			st.Scope, st.Name, st.Count, round(st.Total), round(st.Mean()), round(st.Max), st.Points)
	}
	err := tw.Flush()
	return cw.n, err
}

func (s *Stats) Close() error {
	if _, err := s.WriteTo(s.w); err != nil {
		return err
	}
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func round(d time.Duration) time.Duration {
	switch {
	case d >= time.Second:
		return d.Round(time.Millisecond)
	case d >= time.Millisecond:
		return d.Round(time.Microsecond)
	}
	return d
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
