package diag

import "stylint/internal/source"

// Reporter is the minimal contract for receiving diagnostics.
// Implementations: BagReporter, DedupReporter, NopReporter.
type Reporter interface {
	Report(rule string, sev Severity, primary source.Span, msg string, notes []Note)
}

// ReportBuilder accumulates diagnostic details before emitting to Reporter.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

func NewReportBuilder(r Reporter, sev Severity, rule string, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{
		reporter: r,
		diag:     New(sev, rule, primary, msg),
	}
}

// ReportError is a shortcut for SevError diagnostics.
func ReportError(r Reporter, rule string, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, rule, primary, msg)
}

// ReportWarning is a shortcut for SevWarning diagnostics.
func ReportWarning(r Reporter, rule string, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, rule, primary, msg)
}

func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag = b.diag.WithNote(sp, msg)
	return b
}

// Emit sends the diagnostic to the underlying reporter exactly once.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.reporter != nil {
		b.reporter.Report(b.diag.Rule, b.diag.Severity, b.diag.Primary, b.diag.Message, b.diag.Notes)
	}
	b.emitted = true
}

// BagReporter stores into a Bag. Diagnostics beyond the bag's limit are dropped.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(rule string, sev Severity, primary source.Span, msg string, notes []Note) {
	if r.Bag == nil {
		return
	}
	_ = r.Bag.Add(Diagnostic{
		Severity: sev,
		Rule:     rule,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
	})
}

type NopReporter struct{}

func (NopReporter) Report(string, Severity, source.Span, string, []Note) {}
