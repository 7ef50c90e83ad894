package diag

import (
	"stylint/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Rule     string
	Message  string
	Primary  source.Span
	Notes    []Note
}

func New(sev Severity, rule string, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Rule:     rule,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(rule string, primary source.Span, msg string) Diagnostic {
	return New(SevError, rule, primary, msg)
}

func NewWarning(rule string, primary source.Span, msg string) Diagnostic {
	return New(SevWarning, rule, primary, msg)
}

// WithNote returns a copy of d with one more note; d itself is left untouched.
func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	notes := make([]Note, len(d.Notes), len(d.Notes)+1)
	copy(notes, d.Notes)
	d.Notes = append(notes, Note{Span: sp, Msg: msg})
	return d
}

// less orders diagnostics by file, start, end, rule id, then severity
// (errors first) and message so the order is total.
func less(a, b *Diagnostic) bool {
	if a.Primary.File != b.Primary.File {
		return a.Primary.File < b.Primary.File
	}
	if a.Primary.Start != b.Primary.Start {
		return a.Primary.Start < b.Primary.Start
	}
	if a.Primary.End != b.Primary.End {
		return a.Primary.End < b.Primary.End
	}
	if a.Rule != b.Rule {
		return a.Rule < b.Rule
	}
	if a.Severity != b.Severity {
		return a.Severity > b.Severity
	}
	return a.Message < b.Message
}
