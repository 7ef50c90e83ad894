package diag

import "stylint/internal/source"

type dedupKey struct {
	rule string
	span source.Span
}

// DedupReporter drops a diagnostic when the same rule already reported the
// same primary span through it. Only the first report reaches next, so a
// capped Bag behind it never spends its slots on repeats.
type DedupReporter struct {
	next      Reporter
	seen      map[dedupKey]struct{}
	forwarded int
	dropped   int
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[dedupKey]struct{})}
}

func (r *DedupReporter) Report(rule string, sev Severity, primary source.Span, msg string, notes []Note) {
	if r == nil {
		return
	}
	k := dedupKey{rule: rule, span: primary}
	if _, dup := r.seen[k]; dup {
		r.dropped++
		return
	}
	r.seen[k] = struct{}{}
	r.forwarded++
	if r.next != nil {
		r.next.Report(rule, sev, primary, msg, notes)
	}
}

// Forward reports an already built diagnostic.
func (r *DedupReporter) Forward(d Diagnostic) {
	r.Report(d.Rule, d.Severity, d.Primary, d.Message, d.Notes)
}

// Forwarded counts the reports passed on to next.
func (r *DedupReporter) Forwarded() int { return r.forwarded }

// Dropped counts the repeats that were swallowed.
func (r *DedupReporter) Dropped() int { return r.dropped }
