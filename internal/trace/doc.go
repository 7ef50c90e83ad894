// Package trace records what the linter is doing, for diagnosing slow runs
// and misbehaving rules.
//
// Tracing is off unless a flag asks for it:
//
//	stylint --trace=- --trace-level=detail check src/
//	stylint --trace-level=debug --trace-mode=stats check src/
//
// A Tracer is one of four sinks picked by Mode: Stream writes each event as
// it happens, Ring keeps the last events for a crash dump, Both does the two
// at once, and Stats only adds up span durations per name and prints a table
// on Close. At debug level every rule evaluation is its own span, so the
// stats table answers "which rule is slow".
//
// Scopes nest run > pass > file > node and the level decides how deep events
// are kept: phase stops at pass, detail at file, debug keeps node events.
//
// The tracer and the current span travel in the context:
//
//	ctx = trace.WithTracer(ctx, t)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "parse", trace.CurrentSpan(ctx))
//	defer span.End(path)
package trace
