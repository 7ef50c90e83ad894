package trace

import (
	"sync/atomic"
	"time"
)

var (
	seq     atomic.Uint64
	spanIDs atomic.Uint64
)

// inert is returned for spans the tracer does not record; it is never mutated.
var inert = &Span{}

// Span is one begin/end pair. A Span is used by the goroutine that began it.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	attrs   []Attr
}

// Begin emits KindBegin and returns the open span. parent is 0 for a root
// span. When t does not record scope nothing is emitted and the returned
// span is inert.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if !records(t, scope) {
		return inert
	}
	s := &Span{
		tracer:  t,
		id:      spanIDs.Add(1),
		parent:  parent,
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	t.Emit(&Event{
		At:     s.started,
		Seq:    seq.Add(1),
		Kind:   KindBegin,
		Scope:  scope,
		Span:   s.id,
		Parent: parent,
		Name:   name,
	})
	return s
}

// End emits KindEnd carrying the attrs set so far and returns the elapsed time.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil {
		return 0
	}
	now := time.Now()
	elapsed := now.Sub(s.started)
	s.tracer.Emit(&Event{
		At:      now,
		Seq:     seq.Add(1),
		Kind:    KindEnd,
		Scope:   s.scope,
		Span:    s.id,
		Parent:  s.parent,
		Name:    s.name,
		Detail:  detail,
		Elapsed: elapsed,
		Attrs:   s.attrs,
	})
	return elapsed
}

// Set attaches key=value to the end event.
func (s *Span) Set(key, value string) *Span {
	if s == nil || s.tracer == nil {
		return s
	}
	s.attrs = append(s.attrs, Attr{Key: key, Value: value})
	return s
}

func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event.
func Point(t Tracer, scope Scope, name string, parent uint64, detail string) {
	if !records(t, scope) {
		return
	}
	t.Emit(&Event{
		At:     time.Now(),
		Seq:    seq.Add(1),
		Kind:   KindPoint,
		Scope:  scope,
		Parent: parent,
		Name:   name,
		Detail: detail,
	})
}
