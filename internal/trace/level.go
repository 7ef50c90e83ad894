package trace

import (
	"fmt"
	"strings"
)

// Level controls how deep events are kept.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // nothing is recorded; the ring is dumped on a crash
	LevelPhase        // run and pass
	LevelDetail       // plus files
	LevelDebug        // plus nodes and rule evaluations
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

func ParseLevel(s string) (Level, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for i, name := range levelNames {
		if name == want {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// Records reports whether events of scope are kept at this level.
func (l Level) Records(scope Scope) bool {
	switch l {
	case LevelPhase:
		return scope <= ScopePass
	case LevelDetail:
		return scope <= ScopeFile
	case LevelDebug:
		return true
	}
	return false
}
