package diagfmt

import (
	"encoding/json"
	"io"

	"stylint/internal/diag"
	"stylint/internal/source"
)

// SpanJSON is a 1-based line/column range; columns count bytes.
type SpanJSON struct {
	StartLine uint32 `json:"startLine"`
	StartCol  uint32 `json:"startCol"`
	EndLine   uint32 `json:"endLine"`
	EndCol    uint32 `json:"endCol"`
}

// NoteJSON представляет дополнительную заметку для JSON
type NoteJSON struct {
	Message string   `json:"message"`
	File    string   `json:"file,omitempty"`
	Span    SpanJSON `json:"span"`
}

// DiagnosticJSON is one reported violation.
type DiagnosticJSON struct {
	RuleID   string     `json:"ruleId"`
	Severity string     `json:"severity"`
	Message  string     `json:"message"`
	Span     SpanJSON   `json:"span"`
	File     string     `json:"file"`
	Notes    []NoteJSON `json:"notes,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeSpanMode(fs *source.FileSet, span source.Span, mode PathMode) (string, SpanJSON, bool) {
	f := fs.Get(span.File)
	if f == nil {
		return "", SpanJSON{}, false
	}
	start, end := fs.Resolve(span)
	return displayPath(fs, f, mode), SpanJSON{
		StartLine: start.Line,
		StartCol:  start.Col,
		EndLine:   end.Line,
		EndCol:    end.Col,
	}, true
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
func BuildDiagnosticsOutput(diags []diag.Diagnostic, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	n := len(diags)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0, n)}
	for i := range n {
		d := &diags[i]
		file, span, _ := makeSpanMode(fs, d.Primary, opts.PathMode)
		item := DiagnosticJSON{
			RuleID:   d.Rule,
			Severity: d.Severity.String(),
			Message:  d.Message,
			Span:     span,
			File:     file,
		}
		if opts.IncludeNotes {
			for _, note := range d.Notes {
				nfile, nspan, _ := makeSpanMode(fs, note.Span, opts.PathMode)
				item.Notes = append(item.Notes, NoteJSON{Message: note.Msg, File: nfile, Span: nspan})
			}
		}
		out.Diagnostics = append(out.Diagnostics, item)
	}
	out.Count = len(out.Diagnostics)
	return out
}

// JSON форматирует диагностики в JSON формат.
func JSON(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(diags, fs, opts))
}

// Short writes one line per diagnostic, see diag.FormatShortDiagnostics.
func Short(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, includeNotes bool) error {
	text := diag.FormatShortDiagnostics(diags, fs, includeNotes)
	if text == "" {
		return nil
	}
	_, err := io.WriteString(w, text+"\n")
	return err
}
