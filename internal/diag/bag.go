package diag

import (
	"errors"
	"slices"
	"sort"

	"stylint/internal/source"
)

var (
	// ErrFinalized is returned when a finalized Bag is modified.
	ErrFinalized = errors.New("diagnostic bag already finalized")
	// ErrLimitReached is returned by Add once the bag holds max diagnostics.
	ErrLimitReached = errors.New("diagnostic limit reached")
)

type Bag struct {
	items     []Diagnostic
	max       int
	finalized bool
}

// NewBag creates a bag that keeps at most max diagnostics; max <= 0 means no limit.
func NewBag(max int) *Bag {
	capHint := max
	if capHint <= 0 || capHint > 64 {
		capHint = 64
	}
	return &Bag{
		items: make([]Diagnostic, 0, capHint),
		max:   max,
	}
}

// Add appends d in emission order.
func (b *Bag) Add(d Diagnostic) error {
	if b.finalized {
		return ErrFinalized
	}
	if b.max > 0 && len(b.items) >= b.max {
		return ErrLimitReached
	}
	b.items = append(b.items, d)
	return nil
}

func (b *Bag) Cap() int {
	return b.max
}

func (b *Bag) Finalized() bool {
	return b.finalized
}

// HasErrors reports whether any diagnostic has error severity.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity == SevWarning {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the bag's backing slice. Do not modify it.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends every diagnostic of other. The limit grows to fit them so
// per-worker bags never lose findings on merge.
func (b *Bag) Merge(other *Bag) error {
	if b.finalized {
		return ErrFinalized
	}
	if other == nil {
		return nil
	}
	if total := len(b.items) + len(other.items); b.max > 0 && total > b.max {
		b.max = total
	}
	b.items = append(b.items, other.items...)
	return nil
}

// Sort orders diagnostics by file, start, end and rule id. The sort is stable
// so diagnostics equal on all keys keep emission order.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		return less(&b.items[i], &b.items[j])
	})
}

type dedupKey struct {
	rule string
	span source.Span
	msg  string
}

// Dedup keeps the first diagnostic for each (span, rule) pair. Engine
// findings also key on the message, which names the failing rule.
func (b *Bag) Dedup() {
	seen := make(map[dedupKey]struct{}, len(b.items))
	out := b.items[:0]
	for _, d := range b.items {
		key := dedupKey{rule: d.Rule, span: d.Primary}
		if IsReserved(d.Rule) {
			key.msg = d.Message
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, d)
	}
	clear(b.items[len(out):])
	b.items = out
}

// Finalize sorts and deduplicates the bag, moves it to the finalized state
// and returns a copy the caller owns. Calling it again returns the same sequence.
func (b *Bag) Finalize() []Diagnostic {
	if !b.finalized {
		b.Sort()
		b.Dedup()
		b.finalized = true
	}
	return slices.Clone(b.items)
}

// Filter drops every diagnostic for which keep returns false.
func (b *Bag) Filter(keep func(*Diagnostic) bool) error {
	if b.finalized {
		return ErrFinalized
	}
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool {
		return !keep(&d)
	})
	return nil
}
