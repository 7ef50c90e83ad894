package trace

import "time"

type Kind uint8

const (
	KindBegin Kind = iota + 1
	KindEnd
	KindPoint
	KindTick
)

func (k Kind) String() string {
	switch k {
	case KindBegin:
		return "begin"
	case KindEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindTick:
		return "tick"
	}
	return "unknown"
}

// Scope is the granularity of an event. Lower values are coarser.
type Scope uint8

const (
	ScopeRun Scope = iota + 1
	ScopePass
	ScopeFile
	ScopeNode
)

func (s Scope) String() string {
	switch s {
	case ScopeRun:
		return "run"
	case ScopePass:
		return "pass"
	case ScopeFile:
		return "file"
	case ScopeNode:
		return "node"
	}
	return "unknown"
}

// Attr is a key/value attached to a span end. Attrs keep the order they
// were set in.
type Attr struct {
	Key   string
	Value string
}

type Event struct {
	At     time.Time
	Seq    uint64
	Kind   Kind
	Scope  Scope
	Span   uint64
	Parent uint64 // 0 for a root span
	Name   string // "lint_file", "parse", "rule:eqeqeq"
	Detail string
	// Elapsed is set on KindEnd.
	Elapsed time.Duration
	Attrs   []Attr
}
