package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"

	"stylint/internal/diag"
	"stylint/internal/source"
)

type palette struct {
	err, warn, note, rule, gutter, caret, path *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		note:   color.New(color.FgCyan, color.Bold),
		rule:   color.New(color.Faint),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		path:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.note, p.rule, p.gutter, p.caret, p.path} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	if s == diag.SevError {
		return p.err
	}
	return p.warn
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Ожидается отсортированный срез (Bag.Finalize). Для каждой диагностики:
//
//	<path>:<line>:<col>: <SEV> <rule>: <message>
//
// затем строки контекста и подчёркивание ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) error {
	pal := newPalette(opts.Color)
	for i := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := prettyOne(w, &diags[i], fs, opts, pal); err != nil {
			return err
		}
	}
	return nil
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) error {
	f := fs.Get(d.Primary.File)
	if f == nil {
		_, err := fmt.Fprintf(w, "%s %s: %s\n",
			pal.severity(d.Severity).Sprint(strings.ToUpper(d.Severity.String())),
			pal.rule.Sprint(d.Rule), d.Message)
		return err
	}
	start, end := fs.Resolve(d.Primary)

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s %s: %s\n",
		pal.path.Sprintf("%s:%d:%d", displayPath(fs, f, opts.PathMode), start.Line, start.Col),
		pal.severity(d.Severity).Sprint(strings.ToUpper(d.Severity.String())),
		pal.rule.Sprint(d.Rule),
		d.Message)
	writeSnippet(&b, f, start, end, opts, pal)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			nf := fs.Get(n.Span.File)
			if nf == nil {
				fmt.Fprintf(&b, "  %s %s\n", pal.note.Sprint("note:"), n.Msg)
				continue
			}
			ns, ne := fs.Resolve(n.Span)
			fmt.Fprintf(&b, "  %s %s:%d:%d: %s\n", pal.note.Sprint("note:"),
				displayPath(fs, nf, opts.PathMode), ns.Line, ns.Col, n.Msg)
			writeSnippet(&b, nf, ns, ne, PrettyOpts{Width: opts.Width}, pal)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// writeSnippet prints the context lines and the primary line with its
// underline. A span crossing lines is underlined to the end of its first line.
func writeSnippet(b *strings.Builder, f *source.File, start, end source.LineCol, opts PrettyOpts, pal palette) {
	first := start.Line
	if opts.Context > 0 {
		ctx := uint32(opts.Context)
		if first > ctx {
			first -= ctx
		} else {
			first = 1
		}
	}
	gutterWidth := len(fmt.Sprint(start.Line))

	for ln := first; ln <= start.Line; ln++ {
		line := clip(f.GetLine(ln), opts.Width)
		fmt.Fprintf(b, " %s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, ln), line)
	}

	line := f.GetLine(start.Line)
	from := min(int(start.Col)-1, len(line))
	to := len(line)
	if end.Line == start.Line {
		to = min(int(end.Col)-1, len(line))
	}
	pad := padFor(line[:from])
	span := max(displayWidth(line[from:to]), 1)
	if opts.Width > 0 {
		limit := int(opts.Width)
		if runewidth.StringWidth(pad) >= limit {
			return
		}
		span = min(span, limit-runewidth.StringWidth(pad))
	}
	underline := "^" + strings.Repeat("~", span-1)
	fmt.Fprintf(b, " %s %s%s\n", pal.gutter.Sprintf("%*s |", gutterWidth, ""), pad, pal.caret.Sprint(underline))
}

// padFor returns whitespace as wide as prefix on screen. Tabs are kept so the
// caret lines up under a tab-indented line.
func padFor(prefix string) string {
	var b strings.Builder
	for _, r := range norm.NFC.String(prefix) {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}

func displayWidth(s string) int {
	return runewidth.StringWidth(norm.NFC.String(s))
}

func clip(line string, width uint8) string {
	if width == 0 || runewidth.StringWidth(line) <= int(width) {
		return line
	}
	return runewidth.Truncate(line, int(width), "…")
}

// Summary renders the closing "N errors, M warnings" line, or "" when there
// is nothing to report.
func Summary(diags []diag.Diagnostic, files int) string {
	var errs, warns int
	for i := range diags {
		if diags[i].Severity == diag.SevError {
			errs++
		} else {
			warns++
		}
	}
	if errs+warns == 0 {
		return ""
	}
	return fmt.Sprintf("%s, %s in %s", plural(errs, "error"), plural(warns, "warning"), plural(files, "file"))
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
