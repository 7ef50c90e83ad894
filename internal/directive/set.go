package directive

import (
	"slices"

	"stylint/internal/ast"
	"stylint/internal/diag"
	"stylint/internal/source"
)

type Kind uint8

const (
	KindDisable Kind = iota + 1
	KindEnable
	KindDisableLine
	KindDisableNextLine
)

func (k Kind) String() string {
	switch k {
	case KindDisable:
		return "disable"
	case KindEnable:
		return "enable"
	case KindDisableLine:
		return "disable-line"
	case KindDisableNextLine:
		return "disable-next-line"
	default:
		return "unknown"
	}
}

func parseKind(action string) Kind {
	for k := KindDisable; k <= KindDisableNextLine; k++ {
		if k.String() == action {
			return k
		}
	}
	return 0
}

// Directive is one parsed suppression comment.
type Directive struct {
	Kind  Kind
	Rules []string // empty means every rule
	Span  source.Span
	// Line is the 1-based line a line directive silences; for disable and
	// enable it is the comment's own line.
	Line uint32
}

// Covers reports whether the directive names rule.
func (d Directive) Covers(rule string) bool {
	return len(d.Rules) == 0 || slices.Contains(d.Rules, rule)
}

// Set holds the directives of one file in source order.
type Set struct {
	file       *source.File
	directives []Directive
}

// Collect parses every comment of tree. Malformed directives and unknown rule
// ids are reported as invalid-directive warnings; known is nil to accept any id.
func Collect(tree *ast.Tree, file *source.File, known func(string) bool, r diag.Reporter) *Set {
	s := &Set{file: file}
	if r == nil {
		r = diag.NopReporter{}
	}
	for _, c := range tree.Comments {
		kind, rules, ok, err := Parse(c.Text)
		if !ok {
			continue
		}
		if err != nil {
			diag.ReportWarning(r, diag.RuleBadDirective, c.Span, err.Error()).Emit()
			continue
		}
		for _, id := range rules {
			if known != nil && !known(id) {
				diag.ReportWarning(r, diag.RuleBadDirective, c.Span, "unknown rule "+id+" in "+kind.String()+" directive").Emit()
			}
		}
		d := Directive{Kind: kind, Rules: rules, Span: c.Span, Line: file.Position(c.Span.Start).Line}
		if kind == KindDisableNextLine {
			d.Line = file.Position(c.Span.End).Line + 1
		}
		s.Add(d)
	}
	return s
}

// Add appends a directive, keeping source order.
func (s *Set) Add(d Directive) {
	i, _ := slices.BinarySearchFunc(s.directives, d.Span.Start, func(x Directive, start uint32) int {
		switch {
		case x.Span.Start < start:
			return -1
		case x.Span.Start > start:
			return 1
		}
		return 0
	})
	// equal starts keep insertion order
	for i < len(s.directives) && s.directives[i].Span.Start == d.Span.Start {
		i++
	}
	s.directives = slices.Insert(s.directives, i, d)
}

func (s *Set) All() []Directive {
	return slices.Clone(s.directives)
}

func (s *Set) Len() int {
	return len(s.directives)
}

// Suppressed reports whether d is silenced. Diagnostics raised by the engine
// itself are never silenced.
func (s *Set) Suppressed(d diag.Diagnostic) bool {
	if s == nil || len(s.directives) == 0 || diag.IsReserved(d.Rule) {
		return false
	}
	line := s.file.Position(d.Primary.Start).Line
	off := false
	for _, dir := range s.directives {
		if !dir.Covers(d.Rule) {
			continue
		}
		switch dir.Kind {
		case KindDisable, KindEnable:
			if dir.Span.Start <= d.Primary.Start {
				off = dir.Kind == KindDisable
			}
		case KindDisableLine, KindDisableNextLine:
			if dir.Line == line {
				return true
			}
		}
	}
	return off
}

// Apply returns the diagnostics that are not suppressed, in their original order.
func (s *Set) Apply(diags []diag.Diagnostic) []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(diags))
	for _, d := range diags {
		if !s.Suppressed(d) {
			out = append(out, d)
		}
	}
	return out
}

// Filter removes suppressed diagnostics from a bag that is still collecting.
func (s *Set) Filter(bag *diag.Bag) error {
	return bag.Filter(func(d *diag.Diagnostic) bool {
		return !s.Suppressed(*d)
	})
}
